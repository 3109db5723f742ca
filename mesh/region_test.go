package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionMembership(t *testing.T) {
	bm := GetStandardTestMeshes().UnitSquare.MustBuild()
	m := bm.Mesh
	t0, t1 := bm.Elements[0][0], bm.Elements[0][1]
	require.Equal(t, 2, m.RegionCount())

	r1, ok := m.Region(1)
	require.True(t, ok)
	r2, ok := m.Region(2)
	require.True(t, ok)
	assert.True(t, r1.Contains(t0))
	assert.True(t, r1.IsIn(t0))
	assert.False(t, r1.IsIn(t1))
	assert.True(t, r2.IsIn(t1))

	// Closure: vertices and edges of members are in the region
	assert.True(t, r1.IsIn(bm.Vertices["x"]))
	assert.False(t, r1.Contains(bm.Vertices["x"]))
	assert.False(t, r1.IsIn(bm.Vertices["y"]))
	assert.True(t, r2.IsIn(bm.Vertices["origin"]))
	assert.Len(t, r1.Elements(Vertex), 3)
	assert.Len(t, r1.Elements(Line), 3)
	assert.Equal(t, []Handle{t0}, r1.Elements(Triangle))
	assert.Equal(t, []int{1}, m.RegionsOf(t0))
	assert.Empty(t, m.RegionsOf(bm.Vertices["origin"]))

	// Elements never added are in no region
	d, err := m.MakeVertex([]float64{2, 2})
	require.NoError(t, err)
	lone, err := m.MakeTriangle(bm.Vertices["x"], d, bm.Vertices["xy"])
	require.NoError(t, err)
	for _, r := range m.Regions() {
		assert.False(t, r.IsIn(lone))
		assert.False(t, r.IsIn(d))
	}

	// Adding twice is a no-op, removing drops the closure counts
	require.NoError(t, r1.Add(t0))
	assert.Equal(t, 1, r1.Len())
	require.NoError(t, r1.Add(t1))
	require.NoError(t, r1.Remove(t0))
	assert.False(t, r1.IsIn(t0))
	assert.True(t, r1.IsIn(bm.Vertices["origin"]))
	assert.False(t, r1.IsIn(bm.Vertices["x"]))
	assert.Equal(t, []Handle{t1}, r1.Members())

	assert.True(t, errors.Is(r1.Add(Handle{Kind: Tet, ID: 0}), ErrInvalidHandle))
	assert.Equal(t, m, r1.Mesh())
}

func TestRegionCreation(t *testing.T) {
	m := NewMesh()
	r0 := m.CreateRegion()
	assert.Equal(t, 0, r0.ID())
	r5, err := m.GetOrCreateRegion(5)
	require.NoError(t, err)
	assert.Equal(t, 5, r5.ID())
	same, err := m.GetOrCreateRegion(5)
	require.NoError(t, err)
	assert.True(t, r5 == same)
	assert.Equal(t, 6, m.CreateRegion().ID())
	_, err = m.GetOrCreateRegion(-1)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	inlet := m.GetOrCreateRegionByName("inlet")
	assert.Equal(t, 7, inlet.ID())
	assert.Equal(t, "inlet", inlet.Name())
	assert.True(t, inlet == m.GetOrCreateRegionByName("inlet"))
	got, ok := m.RegionByName("inlet")
	assert.True(t, ok)
	assert.True(t, inlet == got)
	_, ok = m.RegionByName("outlet")
	assert.False(t, ok)

	require.NoError(t, r5.SetName("wall"))
	got, ok = m.RegionByName("wall")
	require.True(t, ok)
	assert.Equal(t, 5, got.ID())
	assert.Error(t, r0.SetName("wall"))
	require.NoError(t, r5.SetName("wall2"))
	_, ok = m.RegionByName("wall")
	assert.False(t, ok)

	var ids []int
	for _, r := range m.Regions() {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []int{0, 5, 6, 7}, ids)
	assert.Equal(t, 4, m.RegionCount())
}

func TestRegionMakeElement(t *testing.T) {
	bm := GetStandardTestMeshes().SingleTriangle.MustBuild()
	m := bm.Mesh
	r := m.CreateRegion()
	l, err := r.MakeElement(Line, []Handle{bm.Vertices["origin"], bm.Vertices["x"]})
	require.NoError(t, err)
	assert.True(t, r.Contains(l))
	assert.Equal(t, 3, m.Count(Line))
	_, err = r.MakeElement(Line, []Handle{bm.Vertices["origin"]})
	assert.True(t, errors.Is(err, ErrArityMismatch))
}
