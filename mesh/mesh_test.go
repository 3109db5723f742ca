package mesh

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomesh/geometry"
	"github.com/notargets/gomesh/utils"
)

func vertexIDs(t *testing.T, m *Mesh, h Handle) []int {
	t.Helper()
	vs, err := m.Vertices(h)
	require.NoError(t, err)
	ids := make([]int, len(vs))
	for i, v := range vs {
		ids[i] = v.ID
	}
	sort.Ints(ids)
	return ids
}

func TestMakeVertexDimension(t *testing.T) {
	m := NewMesh()
	assert.Equal(t, 0, m.GeometricDimension())
	v0, err := m.MakeVertex(geometry.NewPoint(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, m.GeometricDimension())
	assert.Equal(t, Handle{Kind: Vertex, ID: 0}, v0)

	_, err = m.MakeVertex(geometry.NewPoint(0, 0, 1))
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	assert.Equal(t, 1, m.Count(Vertex))

	v1, err := m.MakeVertex(geometry.NewPoint(1, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, v1.ID)
	p, err := m.Point(v1)
	require.NoError(t, err)
	assert.Equal(t, geometry.Point{1, 2}, p)

	// The stored point is a copy
	p[0] = 99
	p, _ = m.Point(v1)
	assert.Equal(t, 1., p[0])

	require.NoError(t, m.SetPoint(v1, geometry.NewPoint(3, 4)))
	p, _ = m.Point(v1)
	assert.Equal(t, geometry.Point{3, 4}, p)
	assert.True(t, errors.Is(m.SetPoint(v1, geometry.NewPoint(1)), ErrDimensionMismatch))
	assert.Equal(t, 2, m.IDUpperBound(Vertex))

	_, err = m.MakeVertex(geometry.Point{})
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	assert.True(t, errors.Is(m.SetPoint(v1, geometry.Point{}), ErrDimensionMismatch))
}

func TestEmptyVertexBeforeDimension(t *testing.T) {
	m := NewMesh()
	v0, err := m.MakeVertex(geometry.Point{})
	require.NoError(t, err)
	assert.Equal(t, 0, m.GeometricDimension())
	v1, err := m.MakeVertex(geometry.NewPoint(1, 0, 0))
	require.NoError(t, err)
	l, err := m.MakeLine(v0, v1)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		_, err = Centroid(m, l)
	})
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	_, err = m.Points(l)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestMakeUniqueVertex(t *testing.T) {
	m := NewMesh()
	tol := utils.NewTolerance(1e-10)
	v0, err := m.MakeUniqueVertex(geometry.NewPoint(1, 1, 1), tol)
	require.NoError(t, err)
	v1, err := m.MakeUniqueVertex(geometry.NewPoint(1+1e-12, 1-1e-12, 1), tol)
	require.NoError(t, err)
	assert.Equal(t, v0, v1)
	v2, err := m.MakeUniqueVertex(geometry.NewPoint(1+1e-6, 1, 1), tol)
	require.NoError(t, err)
	assert.NotEqual(t, v0, v2)
	assert.Equal(t, 2, m.Count(Vertex))
}

func TestMakeElementErrors(t *testing.T) {
	bm := GetStandardTestMeshes().SingleTriangle.MustBuild()
	m := bm.Mesh
	a, b, c := bm.Vertices["origin"], bm.Vertices["x"], bm.Vertices["y"]

	_, err := m.MakeElement(Triangle, []Handle{a, b})
	assert.True(t, errors.Is(err, ErrArityMismatch))
	_, err = m.MakeElement(Triangle, []Handle{a, b, b})
	assert.True(t, errors.Is(err, ErrArityMismatch))
	_, err = m.MakePolygon(a, b)
	assert.True(t, errors.Is(err, ErrArityMismatch))

	line, err := m.MakeLine(a, b)
	require.NoError(t, err)
	_, err = m.MakeElement(Triangle, []Handle{a, b, line})
	assert.True(t, errors.Is(err, ErrInvalidHandle))
	_, err = m.MakeElement(Triangle, []Handle{a, b, {Kind: Vertex, ID: 42}})
	assert.True(t, errors.Is(err, ErrInvalidHandle))
	_, err = m.MakeElement(Vertex, []Handle{a})
	assert.True(t, errors.Is(err, ErrUnsupported))
	_, err = m.MakeElement(ElementType(99), []Handle{a})
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, err = m.Element(Handle{Kind: Triangle, ID: 7})
	assert.True(t, errors.Is(err, ErrInvalidHandle))
	_, err = m.Element(Handle{Kind: Triangle, ID: 0, Epoch: 3})
	assert.True(t, errors.Is(err, ErrInvalidHandle))
	_, err = m.Element(NoHandle)
	assert.True(t, errors.Is(err, ErrInvalidHandle))
	assert.False(t, m.Valid(NoHandle))
	_, err = m.MakeElement(Tet, []Handle{a, b, c})
	assert.True(t, errors.Is(err, ErrArityMismatch))
}

func TestMakeElementDeduplicates(t *testing.T) {
	bm := GetStandardTestMeshes().SingleTriangle.MustBuild()
	m := bm.Mesh
	a, b, c := bm.Vertices["origin"], bm.Vertices["x"], bm.Vertices["y"]
	tri := bm.Elements[0][0]

	assert.Equal(t, 1, m.Count(Triangle))
	assert.Equal(t, 3, m.Count(Line))
	again, err := m.MakeTriangle(b, c, a)
	require.NoError(t, err)
	assert.Equal(t, tri, again)
	line, err := m.MakeLine(b, a)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Count(Line))
	facets, err := m.BoundaryElements(tri, 1)
	require.NoError(t, err)
	assert.Contains(t, facets, line)

	// Cached lookups do not count as insertions
	gen := m.Generation()
	_, err = m.MakeTriangle(c, a, b)
	require.NoError(t, err)
	assert.Equal(t, gen, m.Generation())
}

func TestMakeElementDistinctCycles(t *testing.T) {
	m := NewMesh()
	vs := make([]Handle, 5)
	for i := range vs {
		var err error
		vs[i], err = m.MakeVertex(geometry.NewPoint(float64(i), float64(i*i)))
		require.NoError(t, err)
	}
	pentagon, err := m.MakePolygon(vs[0], vs[1], vs[2], vs[3], vs[4])
	require.NoError(t, err)
	pentagram, err := m.MakePolygon(vs[0], vs[2], vs[4], vs[1], vs[3])
	require.NoError(t, err)
	assert.NotEqual(t, pentagon, pentagram)
	assert.Equal(t, 2, m.Count(Polygon))
	assert.Equal(t, 10, m.Count(Line))

	again, err := m.MakePolygon(vs[2], vs[1], vs[0], vs[4], vs[3])
	require.NoError(t, err)
	assert.Equal(t, pentagon, again)

	q, err := m.MakeQuad(vs[0], vs[1], vs[2], vs[3])
	require.NoError(t, err)
	flipped, err := m.MakeQuad(vs[1], vs[0], vs[3], vs[2])
	require.NoError(t, err)
	assert.Equal(t, q, flipped)
	crossed, err := m.MakeQuad(vs[0], vs[3], vs[1], vs[2])
	require.NoError(t, err)
	assert.NotEqual(t, q, crossed)
	assert.Equal(t, 2, m.Count(Quad))
}

func TestBoundaryOrdering(t *testing.T) {
	tm := GetStandardTestMeshes()
	{ // Facet k of a simplex omits stored vertex k, whatever order it was created in
		bm := tm.SingleTet.MustBuild()
		m := bm.Mesh
		vs := []Handle{bm.Vertices["z"], bm.Vertices["x"], bm.Vertices["origin"], bm.Vertices["y"]}
		tet, err := m.MakeTet(vs[0], vs[1], vs[2], vs[3])
		require.NoError(t, err)
		stored, err := m.Vertices(tet)
		require.NoError(t, err)
		faces, err := m.BoundaryElements(tet, 2)
		require.NoError(t, err)
		require.Len(t, faces, 4)
		for k, f := range faces {
			fv, err := m.Vertices(f)
			require.NoError(t, err)
			assert.NotContains(t, fv, stored[k])
			assert.Len(t, fv, 3)
		}
		edges, err := m.BoundaryElements(tet, 1)
		require.NoError(t, err)
		assert.Len(t, edges, 6)
		e, err := m.Element(tet)
		require.NoError(t, err)
		for k, edge := range edges {
			table, _ := Tet.BoundaryTable(1, 4)
			want := []int{stored[table[k].Local[0]].ID, stored[table[k].Local[1]].ID}
			sort.Ints(want)
			assert.Equal(t, want, vertexIDs(t, m, edge))
		}
		assert.Equal(t, 2, e.VertexIndex(stored[2]))
		assert.Equal(t, -1, e.VertexIndex(Handle{Kind: Vertex, ID: 99}))
		_, err = e.Boundary(3)
		assert.True(t, errors.Is(err, ErrOutOfRange))
	}
	{ // Quad edges follow the tensor table, not the perimeter
		bm := tm.QuadGrid.MustBuild()
		m := bm.Mesh
		q := bm.Elements[0][0]
		vs, _ := m.Vertices(q)
		edges, err := m.BoundaryElements(q, 1)
		require.NoError(t, err)
		pairs := [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}}
		for k, edge := range edges {
			want := []int{vs[pairs[k][0]].ID, vs[pairs[k][1]].ID}
			sort.Ints(want)
			assert.Equal(t, want, vertexIDs(t, m, edge))
		}
	}
	{
		bm := tm.SingleHex.MustBuild()
		m := bm.Mesh
		assert.Equal(t, 1, m.Count(Hex))
		assert.Equal(t, 6, m.Count(Quad))
		assert.Equal(t, 12, m.Count(Line))
		assert.Equal(t, 8, m.Count(Vertex))
		faces, _ := m.BoundaryElements(bm.Elements[0][0], 2)
		assert.Equal(t, []int{0, 1, 2, 3}, vertexIDs(t, m, faces[0]))
		assert.Equal(t, []int{4, 5, 6, 7}, vertexIDs(t, m, faces[5]))
	}
	{
		m := tm.SinglePrism.MustBuild().Mesh
		assert.Equal(t, 2, m.Count(Triangle))
		assert.Equal(t, 3, m.Count(Quad))
		assert.Equal(t, 9, m.Count(Line))
		m = tm.SinglePyramid.MustBuild().Mesh
		assert.Equal(t, 4, m.Count(Triangle))
		assert.Equal(t, 1, m.Count(Quad))
		assert.Equal(t, 8, m.Count(Line))
	}
}

func TestMeshQueries(t *testing.T) {
	tm := GetStandardTestMeshes()
	m := tm.UnitCubeSurface.MustBuild().Mesh
	assert.Equal(t, 3, m.GeometricDimension())
	assert.Equal(t, 2, m.CellDimension())
	assert.Equal(t, 12, len(m.Cells()))
	assert.Equal(t, 18, m.Count(Line))
	assert.Equal(t, 8+18+12, m.NumElements())
	assert.Len(t, m.ElementsOfDimension(1), 18)
	hs := m.Elements(Triangle)
	for i, h := range hs {
		assert.Equal(t, i, h.ID)
	}
	assert.Equal(t, -1, NewMesh().CellDimension())
	assert.Nil(t, NewMesh().Cells())

	tri := hs[0]
	tgt := Handle{Kind: Triangle, ID: 1}
	require.NoError(t, m.SetParent(tri, tgt))
	e, _ := m.Element(tri)
	assert.Equal(t, tgt, e.Parent())
	assert.Equal(t, NoHandle, mustElement(t, m, hs[1]).Parent())
	m.PrintStatistics()
}

func mustElement(t *testing.T, m *Mesh, h Handle) *Element {
	t.Helper()
	e, err := m.Element(h)
	require.NoError(t, err)
	return e
}
