package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomesh/geometry"
)

type fan struct {
	m          *Mesh
	c, a, b, d Handle
	tris       []Handle
}

// newFan makes three triangles around the vertex c
func newFan(t *testing.T) *fan {
	t.Helper()
	f := &fan{m: NewMesh()}
	var vs []Handle
	for _, p := range []geometry.Point{{0, 0}, {1, 0}, {0, 1}, {-1, -1}} {
		h, err := f.m.MakeVertex(p)
		require.NoError(t, err)
		vs = append(vs, h)
	}
	f.c, f.a, f.b, f.d = vs[0], vs[1], vs[2], vs[3]
	for _, tv := range [][3]Handle{{f.c, f.a, f.b}, {f.c, f.b, f.d}, {f.c, f.d, f.a}} {
		h, err := f.m.MakeTriangle(tv[0], tv[1], tv[2])
		require.NoError(t, err)
		f.tris = append(f.tris, h)
	}
	return f
}

func TestEraseVertexClosure(t *testing.T) {
	f := newFan(t)
	m := f.m
	require.Equal(t, 6, m.Count(Line))
	r := m.CreateRegion()
	for _, tri := range f.tris {
		require.NoError(t, r.Add(tri))
	}

	v := m.NewView()
	require.NoError(t, MarkErase(m, v, f.c))
	assert.Equal(t, 7, v.Len())
	gen := m.Generation()
	n, err := EraseElements(m, v)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Greater(t, m.Generation(), gen)
	assert.Equal(t, 0, v.Len())

	for _, tri := range f.tris {
		_, err := m.Element(tri)
		assert.True(t, errors.Is(err, ErrInvalidHandle))
	}
	_, err = m.Point(f.c)
	assert.True(t, errors.Is(err, ErrInvalidHandle))
	assert.Equal(t, 0, m.Count(Triangle))
	assert.Equal(t, 3, m.Count(Line))
	assert.Equal(t, 3, m.Count(Vertex))
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.IsIn(f.a))
	for _, l := range m.Elements(Line) {
		vs, _ := m.Vertices(l)
		assert.NotContains(t, vs, f.c)
	}
	checkSymmetry(t, m)

	// Ids are not reused
	assert.Equal(t, 4, m.IDUpperBound(Vertex))
	nv, err := m.MakeVertex(geometry.Point{0.1, 0.1})
	require.NoError(t, err)
	assert.Equal(t, 4, nv.ID)
	tri, err := m.MakeTriangle(nv, f.a, f.b)
	require.NoError(t, err)
	assert.Equal(t, 3, tri.ID)
}

func TestEraseIdempotent(t *testing.T) {
	f := newFan(t)
	m := f.m
	v := m.NewView()
	require.NoError(t, MarkErase(m, v, f.tris[0]))
	require.NoError(t, MarkErase(m, v, f.tris[0]))
	assert.Equal(t, 1, v.Len())
	n, err := EraseElements(m, v)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, m.Count(Triangle))
	// Edges and vertices of the erased triangle are untouched
	assert.Equal(t, 6, m.Count(Line))
	assert.Equal(t, 4, m.Count(Vertex))

	gen := m.Generation()
	n, err = EraseElements(m, v)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, gen, m.Generation())
	assert.True(t, errors.Is(MarkErase(m, v, f.tris[0]), ErrInvalidHandle))
}

func TestEraseEdge(t *testing.T) {
	f := newFan(t)
	m := f.m
	edge, err := m.MakeLine(f.c, f.b)
	require.NoError(t, err)
	v := m.NewView()
	require.NoError(t, MarkErase(m, v, edge))
	hs, err := v.Handles()
	require.NoError(t, err)
	assert.Equal(t, []Handle{edge, f.tris[0], f.tris[1]}, hs)
	_, err = EraseElements(m, v)
	require.NoError(t, err)
	assert.Equal(t, []Handle{f.tris[2]}, m.Elements(Triangle))
	assert.Equal(t, 4, m.Count(Vertex))
}

func TestViewParent(t *testing.T) {
	f := newFan(t)
	m := f.m
	other := newFan(t).m
	v := other.NewView()
	assert.True(t, errors.Is(MarkErase(m, v, f.c), ErrInvalidParent))
	_, err := EraseElements(m, v)
	assert.True(t, errors.Is(err, ErrInvalidParent))
	var nilView *View
	assert.True(t, errors.Is(nilView.Add(f.c), ErrInvalidParent))

	v = m.NewView()
	require.NoError(t, v.Add(f.tris[1]))
	require.NoError(t, v.Add(f.a))
	require.NoError(t, v.Add(f.tris[1]))
	assert.Equal(t, 2, v.Len())
	assert.True(t, v.Contains(f.a))
	assert.True(t, errors.Is(v.Add(Handle{Kind: Hex}), ErrInvalidHandle))
	tris, err := v.Elements(Triangle)
	require.NoError(t, err)
	assert.Equal(t, []Handle{f.tris[1]}, tris)
	pm, err := v.Mesh()
	require.NoError(t, err)
	assert.True(t, pm == m)

	m.Compact()
	_, err = v.Mesh()
	assert.True(t, errors.Is(err, ErrInvalidParent))
	_, err = v.Handles()
	assert.True(t, errors.Is(err, ErrInvalidParent))
	assert.True(t, errors.Is(v.Add(f.a), ErrInvalidParent))
}

func TestCompact(t *testing.T) {
	f := newFan(t)
	m := f.m
	r := m.GetOrCreateRegionByName("keep")
	require.NoError(t, r.Add(f.tris[2]))
	temp := m.Fields().RegisterScalar("temperature", Vertex)
	for i, vh := range []Handle{f.c, f.a, f.b, f.d} {
		require.NoError(t, temp.Set(vh, float64(i)))
	}

	edge, err := m.MakeLine(f.c, f.b)
	require.NoError(t, err)
	v := m.NewView()
	require.NoError(t, MarkErase(m, v, f.b))
	_, err = EraseElements(m, v)
	require.NoError(t, err)
	assert.Equal(t, 4, m.IDUpperBound(Vertex))

	remap := m.Compact()
	assert.Equal(t, uint32(1), m.Epoch())
	assert.Equal(t, 3, m.IDUpperBound(Vertex))
	assert.Equal(t, 3, m.Count(Line))
	assert.Equal(t, 1, m.IDUpperBound(Triangle))
	_, ok := remap[edge]
	assert.False(t, ok)
	assert.False(t, m.Valid(f.tris[2]))

	nt := remap[f.tris[2]]
	assert.Equal(t, Handle{Kind: Triangle, ID: 0, Epoch: 1}, nt)
	assert.True(t, r.Contains(nt))
	assert.True(t, r.IsIn(remap[f.d]))
	checkSymmetry(t, m)

	nd := remap[f.d]
	assert.Equal(t, 2, nd.ID)
	p, err := m.Point(nd)
	require.NoError(t, err)
	assert.Equal(t, geometry.Point{-1, -1}, p)
	assert.Equal(t, 3., temp.Get(nd))
	assert.Equal(t, 0., temp.Get(remap[f.c]))

	// Lookup survives renumbering
	again, err := m.MakeTriangle(remap[f.c], nd, remap[f.a])
	require.NoError(t, err)
	assert.Equal(t, nt, again)
}
