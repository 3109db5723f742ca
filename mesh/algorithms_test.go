package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomesh/geometry"
)

func TestVolume(t *testing.T) {
	tm := GetStandardTestMeshes()
	tests := []struct {
		name string
		cm   CompleteMesh
		want float64
	}{
		{"triangle", tm.SingleTriangle, 0.5},
		{"square", tm.UnitSquare, 1},
		{"quads", tm.QuadGrid, 4},
		{"tet", tm.SingleTet, 1. / 6},
		{"cube tets", tm.CubeTets, 1},
		{"hex", tm.SingleHex, 1},
		{"prism", tm.SinglePrism, 0.5},
		{"pyramid", tm.SinglePyramid, 1. / 3},
		{"lines", tm.LineChain, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vol, err := MeshVolume(tt.cm.MustBuild().Mesh)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, vol, 1e-12)
		})
	}
}

func TestSurfaceAndCentroid(t *testing.T) {
	tm := GetStandardTestMeshes()
	{
		bm := tm.SingleTet.MustBuild()
		tet := bm.Elements[0][0]
		s, err := Surface(bm.Mesh, tet)
		require.NoError(t, err)
		assert.InDelta(t, 1.5+math.Sqrt(3)/2, s, 1e-12)
		c, err := Centroid(bm.Mesh, tet)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25}, c, 1e-15)
		cc, err := Circumcenter(bm.Mesh, tet)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5}, cc, 1e-12)
	}
	{
		bm := tm.SingleHex.MustBuild()
		s, err := Surface(bm.Mesh, bm.Elements[0][0])
		require.NoError(t, err)
		assert.InDelta(t, 6, s, 1e-12)
		cc, err := Circumcenter(bm.Mesh, bm.Elements[0][0])
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.5, 0.5, 0.5}, cc, 1e-15)
	}
	{
		bm := tm.SingleTriangle.MustBuild()
		cc, err := Circumcenter(bm.Mesh, bm.Elements[0][0])
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.5, 0.5}, cc, 1e-12)
		vol, err := Volume(bm.Mesh, bm.Vertices["x"])
		require.NoError(t, err)
		assert.Equal(t, 0., vol)
	}
	{
		bm := tm.SinglePrism.MustBuild()
		_, err := Circumcenter(bm.Mesh, bm.Elements[0][0])
		assert.True(t, errors.Is(err, ErrUnsupported))
	}
}

func TestDistance(t *testing.T) {
	tm := GetStandardTestMeshes()
	{ // 1D: [2,3] and [5,6]
		bm := tm.LineChain.MustBuild()
		m := bm.Mesh
		ab, cd := bm.Elements[0][0], bm.Elements[0][1]
		d, err := Distance(m, ab, cd)
		require.NoError(t, err)
		assert.InDelta(t, 2, d, 1e-15)
		d, err = Distance(m, cd, bm.Vertices["a"])
		require.NoError(t, err)
		assert.InDelta(t, 3, d, 1e-15)
		d, err = Distance(m, bm.Vertices["a"], bm.Vertices["d"])
		require.NoError(t, err)
		assert.InDelta(t, 4, d, 1e-15)
		d, err = PointDistance(m, geometry.Point{2.5}, ab)
		require.NoError(t, err)
		assert.Equal(t, 0., d)
		_, err = PointDistance(m, geometry.Point{0, 0}, ab)
		assert.True(t, errors.Is(err, ErrDimensionMismatch))
	}
	{
		bm := tm.UnitSquare.MustBuild()
		m := bm.Mesh
		t0, t1 := bm.Elements[0][0], bm.Elements[0][1]
		d, err := PointDistance(m, geometry.Point{2, 0.5}, t0)
		require.NoError(t, err)
		assert.InDelta(t, 1, d, 1e-12)
		d, err = Distance(m, bm.Vertices["y"], t0)
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt(0.5), d, 1e-12)
		_, err = Distance(m, t0, t1)
		assert.True(t, errors.Is(err, ErrUnsupported))
	}
}
