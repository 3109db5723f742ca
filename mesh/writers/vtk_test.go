package writers

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gomesh/mesh"
)

func parse(t *testing.T, data []byte) *VTKFile {
	t.Helper()
	var f VTKFile
	require.NoError(t, xml.Unmarshal(data, &f))
	return &f
}

func readVTK(t *testing.T, path string) *VTKFile {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return parse(t, data)
}

func array(t *testing.T, arrays []DataArray, name string) DataArray {
	t.Helper()
	for _, a := range arrays {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("no data array %q", name)
	return DataArray{}
}

func TestWriteVTUQuads(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	m := tm.QuadGrid.MustBuild().Mesh

	base := filepath.Join(t.TempDir(), "grid.vtu")
	paths, err := WriteVTK(m, base)
	require.NoError(t, err)
	require.Equal(t, []string{base}, paths)

	f := readVTK(t, base)
	assert.Equal(t, "UnstructuredGrid", f.Type)
	require.NotNil(t, f.Piece)
	assert.Equal(t, 9, f.Piece.NumberOfPoints)
	assert.Equal(t, 4, f.Piece.NumberOfCells)
	conn := array(t, f.Piece.Cells, "connectivity")
	assert.Equal(t, "0 1 4 3 1 2 5 4 3 4 7 6 4 5 8 7", conn.Values)
	assert.Equal(t, "4 8 12 16", array(t, f.Piece.Cells, "offsets").Values)
	assert.Equal(t, "9 9 9 9", array(t, f.Piece.Cells, "types").Values)
	assert.Equal(t, 3, f.Piece.Points.NumberOfComponents)
	assert.Empty(t, f.Piece.PointData)
}

func TestWriteVTUHex(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	m := tm.SingleHex.MustBuild().Mesh
	var buf bytes.Buffer
	require.NoError(t, WriteVTU(&buf, m, m.Cells()))
	f := parse(t, buf.Bytes())
	assert.Equal(t, "0 1 3 2 4 5 7 6", array(t, f.Piece.Cells, "connectivity").Values)
	assert.Equal(t, "12", array(t, f.Piece.Cells, "types").Values)
	assert.Equal(t, "0 0 0 1 0 0 0 1 0 1 1 0 0 0 1 1 0 1 0 1 1 1 1 1", f.Piece.Points.Values)
}

func TestWriteRegions(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	bm := tm.UnitSquare.MustBuild()
	m := bm.Mesh
	r1, _ := m.Region(1)
	require.NoError(t, r1.SetName("lower"))

	base := filepath.Join(t.TempDir(), "square")
	paths, err := WriteVTK(m, base)
	require.NoError(t, err)
	require.Equal(t, []string{base + "_1.vtu", base + "_2.vtu", base + ".pvd"}, paths)

	pvd := readVTK(t, paths[2])
	assert.Equal(t, "Collection", pvd.Type)
	assert.Nil(t, pvd.Piece)
	assert.Equal(t, []DataSet{{Part: 1, File: "square_1.vtu"}, {Part: 2, File: "square_2.vtu"}}, pvd.Collection)

	for _, path := range paths[:2] {
		f := readVTK(t, path)
		assert.Equal(t, 3, f.Piece.NumberOfPoints)
		assert.Equal(t, 1, f.Piece.NumberOfCells)
		assert.Equal(t, "5", array(t, f.Piece.Cells, "types").Values)
	}

	// a boundary region is written with its lines
	bc, err := m.GetOrCreateRegion(7)
	require.NoError(t, err)
	wall, err := m.MakeLine(bm.Vertices["origin"], bm.Vertices["x"])
	require.NoError(t, err)
	require.NoError(t, bc.Add(wall))
	assert.Equal(t, []mesh.Handle{wall}, RegionCells(bc))
}

func TestFieldData(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	bm := tm.UnitSquare.MustBuild()
	m := bm.Mesh
	xs := m.Fields().RegisterScalar("x", mesh.Vertex)
	for _, name := range []string{"x", "xy"} {
		v := bm.Vertices[name]
		p, err := m.Point(v)
		require.NoError(t, err)
		require.NoError(t, xs.Set(v, p[0]))
	}
	ids := m.Fields().RegisterScalar("id", mesh.Triangle)
	flux := m.Fields().RegisterVector("flux", mesh.Triangle, 2)
	for _, tri := range m.Elements(mesh.Triangle) {
		require.NoError(t, ids.Set(tri, float64(tri.ID)))
		require.NoError(t, flux.Set(tri, []float64{1, -0.5}))
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVTU(&buf, m, m.Cells()))
	f := parse(t, buf.Bytes())

	x := array(t, f.Piece.PointData, "x")
	assert.Equal(t, "Float64", x.Type)
	assert.Equal(t, "nan 1 nan 1", x.Values)
	assert.Equal(t, "0 1", array(t, f.Piece.CellData, "id").Values)
	fl := array(t, f.Piece.CellData, "flux")
	assert.Equal(t, 2, fl.NumberOfComponents)
	assert.Equal(t, "1 -0.5 1 -0.5", fl.Values)
}
