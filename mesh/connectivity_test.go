package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncidenceMatrix(t *testing.T) {
	bm := GetStandardTestMeshes().UnitSquare.MustBuild()
	m := bm.Mesh
	CtoV, rows, err := IncidenceMatrix(m, Triangle)
	require.NoError(t, err)
	nr, nc := CtoV.Dims()
	assert.Equal(t, 2, nr)
	assert.Equal(t, 4, nc)
	assert.Equal(t, bm.Elements[0], rows)
	assert.Equal(t, 1., CtoV.At(0, bm.Vertices["x"].ID))
	assert.Equal(t, 0., CtoV.At(0, bm.Vertices["y"].ID))
	assert.Equal(t, 6, CtoV.NNZ())

	_, _, err = IncidenceMatrix(m, Tet)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	_, _, err = IncidenceMatrix(m, Vertex)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestFacetAdjacency(t *testing.T) {
	tm := GetStandardTestMeshes()
	{
		bm := tm.UnitSquare.MustBuild()
		adj, err := FacetAdjacency(bm.Mesh, Triangle)
		require.NoError(t, err)
		assert.Equal(t, []Handle{bm.Elements[0][1]}, adj[bm.Elements[0][0]])
	}
	{ // The facet neighbours from the incidence product agree with the co-boundary walk
		for _, cm := range []CompleteMesh{tm.CubeTets, tm.QuadGrid, tm.UnitCubeSurface} {
			m := cm.MustBuild().Mesh
			kind := m.Cells()[0].Kind
			adj, err := FacetAdjacency(m, kind)
			require.NoError(t, err)
			for _, c := range m.Elements(kind) {
				nb, err := m.FacetNeighbours(c)
				require.NoError(t, err)
				sortHandles(nb)
				assert.Equal(t, nb, adj[c])
			}
		}
	}
	_, err := FacetAdjacency(NewMesh(), Polygon)
	assert.True(t, errors.Is(err, ErrUnsupported))
}
