package readers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomesh/mesh"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func points(t *testing.T, m *mesh.Mesh, h mesh.Handle) [][]float64 {
	t.Helper()
	pts, err := m.Points(h)
	require.NoError(t, err)
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = p
	}
	return out
}

const netgenTwoTets = `5
0 0 0
1 0 0
0 1 0
0 0 1
1 1 0
2
1 1 2 3 4
2 2 5 3 4
1
3 1 2 3
`

func TestReadNetgen(t *testing.T) {
	t.Run("tetrahedra", func(t *testing.T) {
		m, err := ReadMeshFile(writeFile(t, "two.mesh", netgenTwoTets))
		require.NoError(t, err)
		assert.Equal(t, 5, m.Count(mesh.Vertex))
		assert.Equal(t, 2, m.Count(mesh.Tet))
		assert.Equal(t, 3, m.GeometricDimension())
		for id, want := range map[int]int{1: 0, 2: 1} {
			r, ok := m.Region(id)
			require.True(t, ok)
			tets := r.Elements(mesh.Tet)
			require.Len(t, tets, 1)
			assert.Equal(t, m.Elements(mesh.Tet)[want], tets[0])
		}
		bc, ok := m.RegionByName("boundary 3")
		require.True(t, ok)
		assert.Len(t, bc.Elements(mesh.Triangle), 1)
		assert.Equal(t, 7, m.Count(mesh.Triangle))
	})

	t.Run("triangles", func(t *testing.T) {
		m := mesh.NewMesh()
		src := "4\n0 0\n1 0\n1 1\n0 1\n2\n1 1 2 3\n1 1 3 4\n1\n7 1 2\n"
		require.NoError(t, ReadNetgen(strings.NewReader(src), m, 2, mesh.Triangle))
		assert.Equal(t, 2, m.GeometricDimension())
		assert.Equal(t, 2, m.Count(mesh.Triangle))
		assert.Equal(t, 2, m.RegionCount())
		wall, ok := m.RegionByName("boundary 7")
		require.True(t, ok)
		assert.Len(t, wall.Elements(mesh.Line), 1)
	})

	t.Run("errors", func(t *testing.T) {
		var err error
		err = ReadNetgen(strings.NewReader("2\n0 0 0\n"), mesh.NewMesh(), 3, mesh.Tet)
		assert.True(t, errors.Is(err, ErrFileFormat), "%v", err)
		err = ReadNetgen(strings.NewReader("1\n0 0 0\n1\n1 1 2 3 9\n"), mesh.NewMesh(), 3, mesh.Tet)
		assert.True(t, errors.Is(err, ErrFileFormat), "%v", err)
		err = ReadNetgen(strings.NewReader(netgenTwoTets), mesh.NewMesh(), 3, mesh.Hex)
		assert.True(t, errors.Is(err, mesh.ErrUnsupported), "%v", err)
	})
}

const su2Square = `% unit square
NDIME= 2
NELEM= 1
9 0 1 2 3 0
NPOIN= 4
0 0 0
1 0 1
1 1 2
0 1 3
NMARK= 1
MARKER_TAG= wall
MARKER_ELEMS= 2
3 0 1
3 1 2
`

func TestReadSU2(t *testing.T) {
	m, err := ReadMeshFile(writeFile(t, "square.su2", su2Square))
	require.NoError(t, err)
	assert.Equal(t, 2, m.GeometricDimension())
	require.Equal(t, 1, m.Count(mesh.Quad))
	assert.Equal(t, 4, m.Count(mesh.Line))

	quad := m.Elements(mesh.Quad)[0]
	assert.Equal(t, [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, points(t, m, quad))
	area, err := mesh.Volume(m, quad)
	require.NoError(t, err)
	assert.InDelta(t, 1., area, 1e-15)

	wall, ok := m.RegionByName("wall")
	require.True(t, ok)
	assert.Len(t, wall.Elements(mesh.Line), 2)
	assert.False(t, wall.Contains(quad))

	for _, bad := range []string{
		"NPOIN= 1\n0 0\n",
		"NDIME= 2\nNELEM= 1\n99 0 1\nNPOIN= 2\n0 0\n1 0\n",
		"NDIME= 4\n",
		"NDIME= 2\nNPOIN= 3\n0 0\n",
	} {
		err := ReadSU2(strings.NewReader(bad), mesh.NewMesh())
		assert.True(t, errors.Is(err, ErrFileFormat), "%q: %v", bad, err)
	}
}

const gambitCube = `        CONTROL INFO 2.4.6
** GAMBIT NEUTRAL FILE
cube
PROGRAM:                Gambit     VERSION:  2.4.6
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         8         1         1         1         3         3
ENDOFSECTION
   NODAL COORDINATES 2.4.6
         1   0.0   0.0   0.0
         2   1.0   0.0   0.0
         3   1.0   1.0   0.0
         4   0.0   1.0   0.0
         5   0.0   0.0   1.0
         6   1.0   0.0   1.0
         7   1.0   1.0   1.0
         8   0.0   1.0   1.0
ENDOFSECTION
      ELEMENTS/CELLS 2.4.6
         1  4  8     1 2 3 4 5 6 7
                     8
ENDOFSECTION
       ELEMENT GROUP 2.4.6
GROUP:          1 ELEMENTS:          1 MATERIAL:          2 NFLAGS:          1
                           fluid
       0
         1
ENDOFSECTION
 BOUNDARY CONDITIONS 2.4.6
                            floor       1       1       0       6
         1        4        1
ENDOFSECTION
`

func TestReadGambitNeutral(t *testing.T) {
	m, err := ReadMeshFile(writeFile(t, "cube.neu", gambitCube))
	require.NoError(t, err)
	require.Equal(t, 1, m.Count(mesh.Hex))
	assert.Equal(t, 6, m.Count(mesh.Quad))
	assert.Equal(t, 12, m.Count(mesh.Line))

	hex := m.Elements(mesh.Hex)[0]
	assert.Equal(t, []float64{0, 1, 0}, points(t, m, hex)[2])
	assert.Equal(t, []float64{1, 1, 1}, points(t, m, hex)[7])
	vol, err := mesh.Volume(m, hex)
	require.NoError(t, err)
	assert.InDelta(t, 1., vol, 1e-15)

	fluid, ok := m.Region(1)
	require.True(t, ok)
	assert.Equal(t, "fluid", fluid.Name())
	assert.True(t, fluid.Contains(hex))

	floor, ok := m.RegionByName("floor")
	require.True(t, ok)
	faces := floor.Elements(mesh.Quad)
	require.Len(t, faces, 1)
	for _, p := range points(t, m, faces[0]) {
		assert.Equal(t, 0., p[2])
	}

	err = ReadGambitNeutral(strings.NewReader("no control section\n"), mesh.NewMesh())
	assert.True(t, errors.Is(err, ErrFileFormat))
}

const gmshSquare = `$MeshFormat
2.2 0 8
$EndMeshFormat
$PhysicalNames
2
1 1 "bottom wall"
2 2 "fluid"
$EndPhysicalNames
$Nodes
4
1 0 0 0
2 1 0 0
3 1 1 0
4 0 1 0
$EndNodes
$Elements
5
1 15 2 3 1 1
2 15 2 0 2 2
3 1 2 1 1 1 2
4 2 2 2 1 1 2 3
5 2 2 2 1 1 3 4
$EndElements
$NodeData
1
"ignored"
$EndNodeData
`

func TestReadGmsh22(t *testing.T) {
	m, err := ReadMeshFile(writeFile(t, "square.msh", gmshSquare))
	require.NoError(t, err)
	assert.Equal(t, 2, m.GeometricDimension())
	assert.Equal(t, 2, m.Count(mesh.Triangle))
	assert.Equal(t, 3, m.RegionCount())

	fluid, ok := m.RegionByName("fluid")
	require.True(t, ok)
	assert.Equal(t, 2, fluid.ID())
	assert.Len(t, fluid.Elements(mesh.Triangle), 2)

	wall, ok := m.RegionByName("bottom wall")
	require.True(t, ok)
	assert.Len(t, wall.Elements(mesh.Line), 1)

	corner, ok := m.Region(3)
	require.True(t, ok)
	assert.Equal(t, "", corner.Name())
	assert.Equal(t, []mesh.Handle{m.Elements(mesh.Vertex)[0]}, corner.Members())

	for _, bad := range []string{
		"$MeshFormat\n4.1 0 8\n$EndMeshFormat\n",
		"$Nodes\n1\n1 0 0 0\n$EndNodes\n$Elements\n0\n$EndElements\n",
		"$Nodes\n1\n1 0 0\n",
	} {
		err := ReadGmsh22(strings.NewReader(bad), mesh.NewMesh())
		assert.True(t, errors.Is(err, ErrFileFormat), "%q: %v", bad, err)
	}
	second := strings.Replace(gmshSquare, "4 2 2 2 1 1 2 3", "4 9 2 2 1 1 2 3 1 2 3", 1)
	err = ReadGmsh22(strings.NewReader(second), mesh.NewMesh())
	assert.True(t, errors.Is(err, mesh.ErrUnsupported))
}

func TestReadMeshFileErrors(t *testing.T) {
	_, err := ReadMeshFile(writeFile(t, "mesh.xyz", ""))
	assert.True(t, errors.Is(err, ErrFileFormat))
	_, err = ReadMeshFile(filepath.Join(t.TempDir(), "missing.su2"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
