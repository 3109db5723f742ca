// Package writers exports meshes as VTK XML unstructured grids.
package writers

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/notargets/gomesh/logger"
	"github.com/notargets/gomesh/mesh"
)

type DataArray struct {
	Type               string `xml:"type,attr"`
	Name               string `xml:"Name,attr,omitempty"`
	NumberOfComponents int    `xml:"NumberOfComponents,attr,omitempty"`
	Format             string `xml:"format,attr"`
	Values             string `xml:",chardata"`
}

type Piece struct {
	NumberOfPoints int         `xml:"NumberOfPoints,attr"`
	NumberOfCells  int         `xml:"NumberOfCells,attr"`
	PointData      []DataArray `xml:"PointData>DataArray"`
	CellData       []DataArray `xml:"CellData>DataArray"`
	Points         DataArray   `xml:"Points>DataArray"`
	Cells          []DataArray `xml:"Cells>DataArray"`
}

type DataSet struct {
	Part int    `xml:"part,attr"`
	File string `xml:"file,attr"`
}

// VTKFile is the root element of both .vtu and .pvd files
type VTKFile struct {
	XMLName    xml.Name  `xml:"VTKFile"`
	Type       string    `xml:"type,attr"`
	Version    string    `xml:"version,attr"`
	ByteOrder  string    `xml:"byte_order,attr"`
	Piece      *Piece    `xml:"UnstructuredGrid>Piece,omitempty"`
	Collection []DataSet `xml:"Collection>DataSet,omitempty"`
}

func join[T any](vals []T, format func(T) string) string {
	var sb strings.Builder
	for i, v := range vals {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(format(v))
	}
	return sb.String()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func floats(name string, components int, vals []float64) DataArray {
	return DataArray{Type: "Float64", Name: name, NumberOfComponents: components, Format: "ascii",
		Values: join(vals, formatFloat)}
}

func ints(name, typ string, vals []int) DataArray {
	return DataArray{Type: typ, Name: name, Format: "ascii", Values: join(vals, strconv.Itoa)}
}

/*
NewPiece collects the given cells with the vertices they use, renumbered from zero by
ascending vertex id. Connectivity is in VTK local order. Every vertex field and every
field registered on a kind of the cells becomes point or cell data, values missing on an
element are written as nan.
*/
func NewPiece(m *mesh.Mesh, cells []mesh.Handle) (*Piece, error) {
	var (
		local    = make(map[mesh.Handle]int)
		vertices []mesh.Handle
		conn     []int
		offsets  []int
		types    []int
	)
	for _, c := range cells {
		vs, err := m.Vertices(c)
		if err != nil {
			return nil, err
		}
		for _, v := range vs {
			if _, ok := local[v]; !ok {
				local[v] = -1
				vertices = append(vertices, v)
			}
		}
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i].ID < vertices[j].ID })
	for i, v := range vertices {
		local[v] = i
	}
	for _, c := range cells {
		vs, _ := m.Vertices(c)
		for _, l := range c.Kind.VTKOrder(len(vs)) {
			conn = append(conn, local[vs[l]])
		}
		offsets = append(offsets, len(conn))
		types = append(types, c.Kind.VTKType())
	}

	coords := make([]float64, 0, 3*len(vertices))
	for _, v := range vertices {
		p, err := m.Point(v)
		if err != nil {
			return nil, err
		}
		var xyz [3]float64
		copy(xyz[:], p)
		coords = append(coords, xyz[:]...)
	}
	piece := &Piece{
		NumberOfPoints: len(vertices),
		NumberOfCells:  len(cells),
		Points:         floats("", 3, coords),
		Cells: []DataArray{
			ints("connectivity", "Int64", conn),
			ints("offsets", "Int64", offsets),
			ints("types", "UInt8", types),
		},
	}
	piece.PointData = fieldData(m, vertices, func(mesh.Handle) mesh.ElementType { return mesh.Vertex })
	piece.CellData = fieldData(m, cells, func(h mesh.Handle) mesh.ElementType { return h.Kind })
	return piece, nil
}

// fieldData builds one array per field name found on the kinds of hs
func fieldData(m *mesh.Mesh, hs []mesh.Handle, kindOf func(mesh.Handle) mesh.ElementType) (arrays []DataArray) {
	var kinds []mesh.ElementType
	seen := make(map[mesh.ElementType]bool)
	for _, h := range hs {
		if k := kindOf(h); !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	fields := m.Fields()
	scalars, vectors := make(map[string]bool), make(map[string]int)
	var scalarNames, vectorNames []string
	for _, k := range kinds {
		for _, name := range fields.ScalarNames(k) {
			if !scalars[name] {
				scalars[name] = true
				scalarNames = append(scalarNames, name)
			}
		}
		for _, name := range fields.VectorNames(k) {
			f, _ := fields.Vector(name, k)
			if _, ok := vectors[name]; !ok {
				vectorNames = append(vectorNames, name)
			}
			if f.Components > vectors[name] {
				vectors[name] = f.Components
			}
		}
	}
	for _, name := range scalarNames {
		vals := make([]float64, len(hs))
		for i, h := range hs {
			vals[i] = math.NaN()
			if f, ok := fields.Scalar(name, kindOf(h)); ok {
				vals[i] = f.Get(h)
			}
		}
		arrays = append(arrays, floats(name, 0, vals))
	}
	for _, name := range vectorNames {
		n := vectors[name]
		vals := make([]float64, 0, n*len(hs))
		for _, h := range hs {
			v := make([]float64, n)
			for c := range v {
				v[c] = math.NaN()
			}
			if f, ok := fields.Vector(name, kindOf(h)); ok {
				copy(v, f.Get(h))
			}
			vals = append(vals, v...)
		}
		arrays = append(arrays, floats(name, n, vals))
	}
	return
}

func encode(w io.Writer, f *VTKFile) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(bw)
	enc.Indent("", " ")
	if err := enc.Encode(f); err != nil {
		return err
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteVTU writes the cells as a single unstructured grid
func WriteVTU(w io.Writer, m *mesh.Mesh, cells []mesh.Handle) error {
	piece, err := NewPiece(m, cells)
	if err != nil {
		return err
	}
	return encode(w, &VTKFile{Type: "UnstructuredGrid", Version: "0.1", ByteOrder: "LittleEndian", Piece: piece})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RegionCells lists the elements of the highest dimension in the region's closure
func RegionCells(r *mesh.Region) []mesh.Handle {
	for dim := 3; dim >= 0; dim-- {
		var hs []mesh.Handle
		for _, kind := range mesh.ElementTypes {
			if kind.GetDimension() == dim {
				hs = append(hs, r.Elements(kind)...)
			}
		}
		if len(hs) > 0 {
			return hs
		}
	}
	return nil
}

/*
WriteVTK writes the mesh under basename, any extension is dropped. A mesh without regions
becomes basename.vtu holding its cells. Otherwise each region is written to
basename_<id>.vtu and basename.pvd collects them with the region id as part number. The
written paths are returned, the collection last.
*/
func WriteVTK(m *mesh.Mesh, basename string) (paths []string, err error) {
	basename = strings.TrimSuffix(basename, filepath.Ext(basename))
	if m.RegionCount() == 0 {
		path := basename + ".vtu"
		err = writeFile(path, func(w io.Writer) error { return WriteVTU(w, m, m.Cells()) })
		if err != nil {
			return nil, err
		}
		logger.Debug("wrote vtu", "file", path, "cells", len(m.Cells()))
		return []string{path}, nil
	}
	pvd := &VTKFile{Type: "Collection", Version: "0.1", ByteOrder: "LittleEndian"}
	for _, r := range m.Regions() {
		path := fmt.Sprintf("%s_%d.vtu", basename, r.ID())
		cells := RegionCells(r)
		if err = writeFile(path, func(w io.Writer) error { return WriteVTU(w, m, cells) }); err != nil {
			return nil, err
		}
		logger.Debug("wrote region", "file", path, "region", r.ID(), "cells", len(cells))
		paths = append(paths, path)
		pvd.Collection = append(pvd.Collection, DataSet{Part: r.ID(), File: filepath.Base(path)})
	}
	path := basename + ".pvd"
	if err = writeFile(path, func(w io.Writer) error { return encode(w, pvd) }); err != nil {
		return nil, err
	}
	return append(paths, path), nil
}
