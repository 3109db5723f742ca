package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/gomesh/geometry"
	"github.com/notargets/gomesh/logger"
	"github.com/notargets/gomesh/types"
	"github.com/notargets/gomesh/utils"
)

type bucket struct {
	elements []*Element // indexed by id, nil once erased
	count    int
}

/*
Mesh owns every element, grouped in one bucket per kind, and the coordinates of its
vertices. Structural changes bump the generation counter, which invalidates the
co-boundary index. There is no internal locking, mutations must be serialized by the
caller.
*/
type Mesh struct {
	buckets    [numElementTypes]bucket
	points     []geometry.Point // indexed by vertex id
	geoDim     int
	generation uint64
	epoch      uint32
	lookup     map[string]Handle // sorted vertex set -> element
	regions    map[int]*Region
	names      map[string]int
	cob        coboundaryCache
	fields     *FieldRegistry
}

func NewMesh() *Mesh {
	return &Mesh{
		lookup:  make(map[string]Handle),
		regions: make(map[int]*Region),
		names:   make(map[string]int),
		fields:  NewFieldRegistry(),
	}
}

// Generation changes on every insertion and erasure
func (m *Mesh) Generation() uint64 { return m.generation }

// Epoch changes on every compaction, handles from an earlier epoch are invalid
func (m *Mesh) Epoch() uint32 { return m.epoch }

// GeometricDimension is 0 until a vertex with coordinates is inserted
func (m *Mesh) GeometricDimension() int { return m.geoDim }

func (m *Mesh) Fields() *FieldRegistry { return m.fields }

// checkPoint accepts an empty point only while the geometric dimension is unset
func (m *Mesh) checkPoint(p geometry.Point) error {
	if m.geoDim != 0 && len(p) != m.geoDim {
		return fmt.Errorf("%w: point %v has dimension %d, mesh has dimension %d",
			ErrDimensionMismatch, p, len(p), m.geoDim)
	}
	return nil
}

func (m *Mesh) usePoint(p geometry.Point) {
	if m.geoDim == 0 && len(p) != 0 {
		m.geoDim = len(p)
	}
}

func (m *Mesh) newElement(kind ElementType) *Element {
	b := &m.buckets[kind]
	e := &Element{
		handle: Handle{Kind: kind, ID: len(b.elements), Epoch: m.epoch},
		parent: NoHandle,
	}
	b.elements = append(b.elements, e)
	b.count++
	m.generation++
	return e
}

// MakeVertex inserts a vertex, the first non empty point fixes the geometric dimension
func (m *Mesh) MakeVertex(p geometry.Point) (Handle, error) {
	if err := m.checkPoint(p); err != nil {
		return NoHandle, err
	}
	m.usePoint(p)
	e := m.newElement(Vertex)
	m.points = types.GrowSlice(m.points, e.handle.ID+1)
	m.points[e.handle.ID] = p.Copy()
	return e.handle, nil
}

// MakeUniqueVertex returns an existing vertex within tolerance of p, or inserts a new one
func (m *Mesh) MakeUniqueVertex(p geometry.Point, tol utils.Tolerance) (Handle, error) {
	if err := m.checkPoint(p); err != nil {
		return NoHandle, err
	}
	for _, e := range m.buckets[Vertex].elements {
		if e != nil && tol.IsEqualPoint(m.points[e.handle.ID], p) {
			return e.handle, nil
		}
	}
	return m.MakeVertex(p)
}

/*
vertexKey identifies an element by kind and vertex set. A simplex is fixed by its vertex
set, the other kinds also need their edge set, so a quad or polygon on the same vertices
in another cyclic order is a different element.
*/
func vertexKey(kind ElementType, vs []Handle) string {
	ids := make([]int, len(vs))
	for i, v := range vs {
		ids[i] = v.ID
	}
	sort.Ints(ids)
	if kind.IsSimplex() {
		return fmt.Sprintf("%d:%v", kind, ids)
	}
	table, _ := kind.BoundaryTable(1, len(vs))
	edges := make([]types.EdgeKey, len(table))
	for i, sub := range table {
		edges[i] = types.NewEdgeKey([2]int{vs[sub.Local[0]].ID, vs[sub.Local[1]].ID})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
	return fmt.Sprintf("%d:%v:%v", kind, ids, edges)
}

/*
MakeElement creates an element of the given kind on the ordered vertex handles, creating
or reusing every boundary sub element. Elements are unique per kind and vertex set, asking
for an existing one returns its handle.
*/
func (m *Mesh) MakeElement(kind ElementType, vs []Handle) (Handle, error) {
	if !kind.valid() {
		return NoHandle, fmt.Errorf("%w: element type %v", ErrUnsupported, kind)
	}
	if kind == Vertex {
		return NoHandle, fmt.Errorf("%w: vertices are created with MakeVertex", ErrUnsupported)
	}
	n := kind.GetNumVertices()
	switch {
	case kind == Polygon && len(vs) < 3:
		return NoHandle, fmt.Errorf("%w: polygon needs at least 3 vertices, have %d", ErrArityMismatch, len(vs))
	case kind != Polygon && len(vs) != n:
		return NoHandle, fmt.Errorf("%w: %s expects %d vertices, have %d", ErrArityMismatch, kind, n, len(vs))
	}
	seen := make(map[Handle]bool, len(vs))
	for _, v := range vs {
		if v.Kind != Vertex || !m.Valid(v) {
			return NoHandle, fmt.Errorf("%w: %v is not a vertex of this mesh", ErrInvalidHandle, v)
		}
		if seen[v] {
			return NoHandle, fmt.Errorf("%w: vertex %v repeated in %s", ErrArityMismatch, v, kind)
		}
		seen[v] = true
	}
	key := vertexKey(kind, vs)
	if h, ok := m.lookup[key]; ok {
		return h, nil
	}
	dim := kind.GetDimension()
	boundary := make([][]Handle, dim)
	boundary[0] = append([]Handle(nil), vs...)
	for d := 1; d < dim; d++ {
		table, err := kind.BoundaryTable(d, len(vs))
		if err != nil {
			return NoHandle, err
		}
		boundary[d] = make([]Handle, len(table))
		for i, sub := range table {
			subVerts := make([]Handle, len(sub.Local))
			for j, l := range sub.Local {
				subVerts[j] = vs[l]
			}
			h, err := m.MakeElement(sub.Type, subVerts)
			if err != nil {
				return NoHandle, err
			}
			boundary[d][i] = h
		}
	}
	e := m.newElement(kind)
	e.boundary = boundary
	m.lookup[key] = e.handle
	return e.handle, nil
}

func (m *Mesh) MakeLine(v0, v1 Handle) (Handle, error) {
	return m.MakeElement(Line, []Handle{v0, v1})
}

func (m *Mesh) MakeTriangle(v0, v1, v2 Handle) (Handle, error) {
	return m.MakeElement(Triangle, []Handle{v0, v1, v2})
}

// MakeQuad takes the vertices in tensor order, v3 is diagonal to v0
func (m *Mesh) MakeQuad(v0, v1, v2, v3 Handle) (Handle, error) {
	return m.MakeElement(Quad, []Handle{v0, v1, v2, v3})
}

func (m *Mesh) MakePolygon(vs ...Handle) (Handle, error) {
	return m.MakeElement(Polygon, vs)
}

func (m *Mesh) MakeTet(v0, v1, v2, v3 Handle) (Handle, error) {
	return m.MakeElement(Tet, []Handle{v0, v1, v2, v3})
}

func (m *Mesh) MakeHex(vs ...Handle) (Handle, error) {
	return m.MakeElement(Hex, vs)
}

func (m *Mesh) MakePrism(vs ...Handle) (Handle, error) {
	return m.MakeElement(Prism, vs)
}

func (m *Mesh) MakePyramid(vs ...Handle) (Handle, error) {
	return m.MakeElement(Pyramid, vs)
}

// Element dereferences a handle
func (m *Mesh) Element(h Handle) (*Element, error) {
	if !h.Kind.valid() {
		return nil, fmt.Errorf("%w: %v has unknown kind", ErrInvalidHandle, h)
	}
	if h.Epoch != m.epoch {
		return nil, fmt.Errorf("%w: %v was issued before the mesh was compacted", ErrInvalidHandle, h)
	}
	b := &m.buckets[h.Kind]
	if h.ID < 0 || h.ID >= len(b.elements) || b.elements[h.ID] == nil {
		return nil, fmt.Errorf("%w: %v does not exist", ErrInvalidHandle, h)
	}
	return b.elements[h.ID], nil
}

func (m *Mesh) Valid(h Handle) bool {
	_, err := m.Element(h)
	return err == nil
}

// BoundaryElements is Element(h).Boundary(dim)
func (m *Mesh) BoundaryElements(h Handle, dim int) ([]Handle, error) {
	e, err := m.Element(h)
	if err != nil {
		return nil, err
	}
	return e.Boundary(dim)
}

func (m *Mesh) Vertices(h Handle) ([]Handle, error) {
	e, err := m.Element(h)
	if err != nil {
		return nil, err
	}
	return e.Vertices(), nil
}

func (m *Mesh) SetParent(h, parent Handle) error {
	e, err := m.Element(h)
	if err != nil {
		return err
	}
	e.parent = parent
	return nil
}

func (m *Mesh) Point(v Handle) (geometry.Point, error) {
	if v.Kind != Vertex {
		return nil, fmt.Errorf("%w: %v is not a vertex", ErrInvalidHandle, v)
	}
	if _, err := m.Element(v); err != nil {
		return nil, err
	}
	return m.points[v.ID].Copy(), nil
}

func (m *Mesh) SetPoint(v Handle, p geometry.Point) error {
	if v.Kind != Vertex {
		return fmt.Errorf("%w: %v is not a vertex", ErrInvalidHandle, v)
	}
	if _, err := m.Element(v); err != nil {
		return err
	}
	if err := m.checkPoint(p); err != nil {
		return err
	}
	m.usePoint(p)
	m.points[v.ID] = p.Copy()
	return nil
}

// Points returns the coordinates of the vertices of h in stored order
func (m *Mesh) Points(h Handle) ([]geometry.Point, error) {
	e, err := m.Element(h)
	if err != nil {
		return nil, err
	}
	vs := e.vertices()
	pts := make([]geometry.Point, len(vs))
	for i, v := range vs {
		pts[i] = m.points[v.ID]
		// vertices made empty before the dimension was fixed
		if len(pts[i]) != m.geoDim {
			return nil, fmt.Errorf("%w: %v of %v has dimension %d, mesh has dimension %d",
				ErrDimensionMismatch, v, h, len(pts[i]), m.geoDim)
		}
	}
	return pts, nil
}

// IDUpperBound is one past the highest id ever assigned to kind, the length for per element arrays
func (m *Mesh) IDUpperBound(kind ElementType) int {
	if !kind.valid() {
		return 0
	}
	return len(m.buckets[kind].elements)
}

func (m *Mesh) Count(kind ElementType) int {
	if !kind.valid() {
		return 0
	}
	return m.buckets[kind].count
}

// Elements lists the live elements of kind by ascending id
func (m *Mesh) Elements(kind ElementType) (hs []Handle) {
	if !kind.valid() {
		return
	}
	b := &m.buckets[kind]
	hs = make([]Handle, 0, b.count)
	for _, e := range b.elements {
		if e != nil {
			hs = append(hs, e.handle)
		}
	}
	return
}

func (m *Mesh) ElementsOfDimension(dim int) (hs []Handle) {
	for _, kind := range ElementTypes {
		if kind.GetDimension() == dim {
			hs = append(hs, m.Elements(kind)...)
		}
	}
	return
}

// CellDimension is the highest dimension holding an element, -1 for an empty mesh
func (m *Mesh) CellDimension() (dim int) {
	dim = -1
	for _, kind := range ElementTypes {
		if m.buckets[kind].count > 0 && kind.GetDimension() > dim {
			dim = kind.GetDimension()
		}
	}
	return
}

// Cells lists the elements of the cell dimension
func (m *Mesh) Cells() []Handle {
	d := m.CellDimension()
	if d < 0 {
		return nil
	}
	return m.ElementsOfDimension(d)
}

func (m *Mesh) NumElements() (n int) {
	for _, kind := range ElementTypes {
		n += m.buckets[kind].count
	}
	return
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Geometric dimension: %d\n", m.geoDim)
	fmt.Printf("  Vertices: %d\n", m.Count(Vertex))
	fmt.Printf("  Elements: %d\n", m.NumElements())
	fmt.Printf("  Element types:\n")
	for _, kind := range ElementTypes {
		if count := m.Count(kind); count > 0 {
			fmt.Printf("    %s: %d\n", kind, count)
		}
	}
	fmt.Printf("  Regions: %d\n", len(m.regions))
	for _, r := range m.Regions() {
		fmt.Printf("    %d %q: %d members\n", r.ID(), r.Name(), r.Len())
	}
	// Boundary facets have a single co-boundary cell
	if d := m.CellDimension(); d > 0 {
		var boundaryFaces int
		for _, f := range m.ElementsOfDimension(d - 1) {
			if cob, err := m.Coboundary(f, d); err == nil && len(cob) == 1 {
				boundaryFaces++
			}
		}
		fmt.Printf("  Boundary faces: %d\n", boundaryFaces)
	}
	logger.Debug("printed statistics", "generation", m.generation)
}
