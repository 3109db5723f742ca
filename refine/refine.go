package refine

import (
	"fmt"

	"github.com/notargets/gomesh/geometry"
	"github.com/notargets/gomesh/logger"
	"github.com/notargets/gomesh/mesh"
)

// Intersection is a vertex introduced by refinement and the source element it was placed on
type Intersection struct {
	Vertex mesh.Handle // in the destination mesh
	Source mesh.Handle // line, quad or hex of the source mesh
}

// Provenance of one refined cell
type Provenance struct {
	Parent        mesh.Handle    // source cell
	Vertices      []mesh.Handle  // source vertices reused by the child
	Intersections []Intersection // introduced vertices of the child
}

// Result maps the source mesh onto the refined destination mesh
type Result struct {
	CellKind     mesh.ElementType
	VertexMap    []mesh.Handle // source vertex id -> destination vertex
	EdgeMap      []mesh.Handle // source line id -> destination midpoint, NoHandle if not split
	FaceMap      map[mesh.Handle]mesh.Handle
	Children     map[mesh.Handle][]mesh.Handle // source cell -> destination cells
	Provenance   map[mesh.Handle]Provenance    // destination cell -> provenance
	IntroducedBy map[mesh.Handle]mesh.Handle   // destination vertex -> source element
	Rounds       int                           // closure rounds until the split pattern was conforming
	srcVertex    map[mesh.Handle]mesh.Handle   // destination vertex -> source vertex
}

func newResult(src *mesh.Mesh, kind mesh.ElementType) *Result {
	res := &Result{
		CellKind:     kind,
		VertexMap:    make([]mesh.Handle, src.IDUpperBound(mesh.Vertex)),
		EdgeMap:      make([]mesh.Handle, src.IDUpperBound(mesh.Line)),
		FaceMap:      make(map[mesh.Handle]mesh.Handle),
		Children:     make(map[mesh.Handle][]mesh.Handle),
		Provenance:   make(map[mesh.Handle]Provenance),
		IntroducedBy: make(map[mesh.Handle]mesh.Handle),
		srcVertex:    make(map[mesh.Handle]mesh.Handle),
	}
	for i := range res.VertexMap {
		res.VertexMap[i] = mesh.NoHandle
	}
	for i := range res.EdgeMap {
		res.EdgeMap[i] = mesh.NoHandle
	}
	return res
}

// Midpoint returns the destination vertex placed on a source line, NoHandle if the line was not split
func (res *Result) Midpoint(line mesh.Handle) mesh.Handle {
	if line.Kind != mesh.Line || line.ID < 0 || line.ID >= len(res.EdgeMap) {
		return mesh.NoHandle
	}
	return res.EdgeMap[line.ID]
}

func supported(kind mesh.ElementType) bool {
	switch kind {
	case mesh.Line, mesh.Triangle, mesh.Quad, mesh.Tet, mesh.Hex:
		return true
	}
	return false
}

// Uniform splits every cell of kind
func Uniform(src, dst *mesh.Mesh, cellKind mesh.ElementType) (*Result, error) {
	flags := make([]bool, src.IDUpperBound(cellKind))
	for i := range flags {
		flags[i] = true
	}
	return Refine(src, dst, cellKind, flags, nil)
}

/*
Refine writes a refinement of the cellKind cells of src into the empty mesh dst. cellFlags
marks cells to split by cell id and edgeFlags marks lines to split by line id, a nil slice
marks nothing. Flagged cells split all their edges. The split pattern is then closed until
every cell has a pattern its kind can subdivide conformingly: tetrahedra accept one edge,
the three edges of one face or all six, quads and hexes all or nothing. Each split edge
gets exactly one new vertex, shared by every cell on the edge. Cells of other kinds are
not transferred, region membership is moved separately with TransferRegions.

On error dst holds what was built so far.
*/
func Refine(src, dst *mesh.Mesh, cellKind mesh.ElementType, cellFlags, edgeFlags []bool) (*Result, error) {
	if !supported(cellKind) {
		return nil, fmt.Errorf("%w: refinement of %s cells", mesh.ErrUnsupported, cellKind)
	}
	if src == dst {
		return nil, fmt.Errorf("%w: refinement needs a separate destination mesh", mesh.ErrInvalidParent)
	}
	if cellFlags != nil && len(cellFlags) < src.IDUpperBound(cellKind) {
		return nil, fmt.Errorf("%w: %d cell flags for %d %s ids", mesh.ErrOutOfRange,
			len(cellFlags), src.IDUpperBound(cellKind), cellKind)
	}
	if edgeFlags != nil && len(edgeFlags) < src.IDUpperBound(mesh.Line) {
		return nil, fmt.Errorf("%w: %d edge flags for %d line ids", mesh.ErrOutOfRange,
			len(edgeFlags), src.IDUpperBound(mesh.Line))
	}
	r := &refiner{src: src, dst: dst, res: newResult(src, cellKind)}
	cells := src.Elements(cellKind)
	split, err := r.closePattern(cells, cellFlags, edgeFlags)
	if err != nil {
		return nil, err
	}
	if err = r.makeVertices(split); err != nil {
		return r.res, err
	}
	for _, cell := range cells {
		kids, err := r.children(cell)
		if err != nil {
			return r.res, err
		}
		for _, vs := range kids {
			h, err := dst.MakeElement(cellKind, vs)
			if err != nil {
				return r.res, err
			}
			if err = dst.SetParent(h, cell); err != nil {
				return r.res, err
			}
			r.res.Children[cell] = append(r.res.Children[cell], h)
			r.res.Provenance[h] = r.provenance(cell, vs)
		}
	}
	logger.Debug("refined mesh", "kind", cellKind, "cells", len(cells),
		"children", dst.Count(cellKind), "new vertices", len(r.res.IntroducedBy), "rounds", r.res.Rounds)
	return r.res, nil
}

type refiner struct {
	src, dst *mesh.Mesh
	res      *Result
}

func (r *refiner) cellEdges(cell mesh.Handle) ([]mesh.Handle, error) {
	if cell.Kind == mesh.Line {
		return []mesh.Handle{cell}, nil
	}
	return r.src.BoundaryElements(cell, 1)
}

func (r *refiner) closePattern(cells []mesh.Handle, cellFlags, edgeFlags []bool) ([]bool, error) {
	split := make([]bool, r.src.IDUpperBound(mesh.Line))
	copy(split, edgeFlags)
	edges := make([][]mesh.Handle, len(cells))
	for i, cell := range cells {
		e, err := r.cellEdges(cell)
		if err != nil {
			return nil, err
		}
		edges[i] = e
		if cellFlags != nil && cellFlags[cell.ID] {
			for _, l := range e {
				split[l.ID] = true
			}
		}
	}
	for {
		r.res.Rounds++
		var changed int
		for i, cell := range cells {
			var n int
			for _, l := range edges[i] {
				if split[l.ID] {
					n++
				}
			}
			if n == 0 || n == len(edges[i]) || r.conforming(cell.Kind, edges[i], split, n) {
				continue
			}
			for _, l := range edges[i] {
				split[l.ID] = true
			}
			changed++
		}
		logger.Debug("refinement closure", "round", r.res.Rounds, "closed cells", changed)
		if changed == 0 {
			return split, nil
		}
	}
}

// conforming reports whether a partial pattern of n split edges has a template
func (r *refiner) conforming(kind mesh.ElementType, edges []mesh.Handle, split []bool, n int) bool {
	switch kind {
	case mesh.Triangle:
		return true
	case mesh.Tet:
		if n == 1 {
			return true
		}
		if n != 3 {
			return false
		}
		return tetFaceOmitting(edges, split) >= 0
	}
	return false
}

// makeVertices copies every source vertex and places one midpoint on each split line
func (r *refiner) makeVertices(split []bool) error {
	for _, v := range r.src.Elements(mesh.Vertex) {
		p, err := r.src.Point(v)
		if err != nil {
			return err
		}
		h, err := r.dst.MakeVertex(p)
		if err != nil {
			return err
		}
		r.res.VertexMap[v.ID] = h
		r.res.srcVertex[h] = v
	}
	for _, l := range r.src.Elements(mesh.Line) {
		if !split[l.ID] {
			continue
		}
		pts, err := r.src.Points(l)
		if err != nil {
			return err
		}
		if _, err = r.introduce(geometry.Mid(pts[0], pts[1]), l, &r.res.EdgeMap[l.ID]); err != nil {
			return err
		}
	}
	return nil
}

func (r *refiner) introduce(p geometry.Point, source mesh.Handle, slot *mesh.Handle) (mesh.Handle, error) {
	h, err := r.dst.MakeVertex(p)
	if err != nil {
		return mesh.NoHandle, err
	}
	r.res.IntroducedBy[h] = source
	if slot != nil {
		*slot = h
	}
	return h, nil
}

func (r *refiner) provenance(parent mesh.Handle, vs []mesh.Handle) (p Provenance) {
	p.Parent = parent
	for _, v := range vs {
		if sv, ok := r.res.srcVertex[v]; ok {
			p.Vertices = append(p.Vertices, sv)
		} else {
			p.Intersections = append(p.Intersections, Intersection{Vertex: v, Source: r.res.IntroducedBy[v]})
		}
	}
	return
}
