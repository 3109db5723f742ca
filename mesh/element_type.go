package mesh

import (
	"fmt"
	"strings"
)

// ElementType is the closed set of element kinds a mesh can hold
type ElementType int

const (
	Vertex ElementType = iota
	Line
	Triangle
	Quad
	Polygon
	Tet
	Hex
	Prism
	Pyramid
	numElementTypes
)

// ElementTypes lists every kind in bucket order
var ElementTypes = [...]ElementType{Vertex, Line, Triangle, Quad, Polygon, Tet, Hex, Prism, Pyramid}

var elementTypeNames = [...]string{"Vertex", "Line", "Triangle", "Quad", "Polygon", "Tet", "Hex", "Prism", "Pyramid"}

func (e ElementType) String() string {
	if !e.valid() {
		return fmt.Sprintf("ElementType(%d)", int(e))
	}
	return elementTypeNames[e]
}

func (e ElementType) valid() bool {
	return e >= Vertex && e < numElementTypes
}

// ParseElementType accepts the kind names case insensitively, plus a few common aliases
func ParseElementType(s string) (ElementType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertex", "point":
		return Vertex, nil
	case "line", "edge":
		return Line, nil
	case "triangle", "tri":
		return Triangle, nil
	case "quad", "quadrilateral":
		return Quad, nil
	case "polygon":
		return Polygon, nil
	case "tet", "tetrahedron":
		return Tet, nil
	case "hex", "hexahedron", "brick":
		return Hex, nil
	case "prism", "wedge":
		return Prism, nil
	case "pyramid":
		return Pyramid, nil
	}
	return Vertex, fmt.Errorf("%w: unknown element type %q", ErrUnsupported, s)
}

// GetDimension returns the topological dimension
func (e ElementType) GetDimension() int {
	switch e {
	case Vertex:
		return 0
	case Line:
		return 1
	case Triangle, Quad, Polygon:
		return 2
	case Tet, Hex, Prism, Pyramid:
		return 3
	}
	return -1
}

// GetNumVertices returns the fixed vertex count, -1 for the variable arity Polygon
func (e ElementType) GetNumVertices() int {
	switch e {
	case Vertex:
		return 1
	case Line:
		return 2
	case Triangle:
		return 3
	case Quad, Tet:
		return 4
	case Pyramid:
		return 5
	case Prism:
		return 6
	case Hex:
		return 8
	}
	return -1
}

func (e ElementType) IsSimplex() bool {
	switch e {
	case Vertex, Line, Triangle, Tet:
		return true
	}
	return false
}

// VTKType is the VTK cell type code
func (e ElementType) VTKType() int {
	switch e {
	case Vertex:
		return 1
	case Line:
		return 3
	case Triangle:
		return 5
	case Polygon:
		return 7
	case Quad:
		return 9
	case Tet:
		return 10
	case Hex:
		return 12
	case Prism:
		return 13
	case Pyramid:
		return 14
	}
	return 0
}

// FromVTKType inverts VTKType
func FromVTKType(code int) (ElementType, bool) {
	for _, e := range ElementTypes {
		if e.VTKType() == code {
			return e, true
		}
	}
	return Vertex, false
}

/*
VTKOrder maps VTK local vertex positions to local positions of this library's
tensor product ordering, for an element with n vertices. Position i of the VTK
connectivity holds local vertex VTKOrder(n)[i]. The maps are involutions, so the
same table converts VTK ordered input back.
*/
func (e ElementType) VTKOrder(n int) (order []int) {
	order = make([]int, n)
	for i := range order {
		order[i] = i
	}
	switch e {
	case Quad, Pyramid:
		order[2], order[3] = 3, 2
	case Hex:
		order[2], order[3] = 3, 2
		order[6], order[7] = 7, 6
	}
	return
}

// SubElement is one entry of a kind's boundary table: the sub kind and the local vertex indices it uses
type SubElement struct {
	Type  ElementType
	Local []int
}

var boundaryTables = map[ElementType][][]SubElement{}

func init() {
	for _, e := range []ElementType{Line, Triangle, Tet} {
		n := e.GetNumVertices()
		tables := make([][]SubElement, e.GetDimension())
		for d := 1; d < e.GetDimension(); d++ {
			for _, local := range simplexFaces(n, d+1) {
				tables[d] = append(tables[d], SubElement{Type: simplexOfDimension(d), Local: local})
			}
		}
		boundaryTables[e] = tables
	}
	boundaryTables[Quad] = [][]SubElement{nil, lines([][]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}})}
	boundaryTables[Hex] = [][]SubElement{nil,
		lines([][]int{{0, 1}, {0, 2}, {0, 4}, {1, 3}, {1, 5}, {2, 3}, {2, 6}, {3, 7}, {4, 5}, {4, 6}, {5, 7}, {6, 7}}),
		faces([][]int{{0, 1, 2, 3}, {0, 1, 4, 5}, {0, 2, 4, 6}, {1, 3, 5, 7}, {2, 3, 6, 7}, {4, 5, 6, 7}}),
	}
	boundaryTables[Prism] = [][]SubElement{nil,
		lines([][]int{{0, 1}, {0, 2}, {1, 2}, {0, 3}, {1, 4}, {2, 5}, {3, 4}, {3, 5}, {4, 5}}),
		faces([][]int{{0, 1, 2}, {3, 4, 5}, {0, 1, 3, 4}, {0, 2, 3, 5}, {1, 2, 4, 5}}),
	}
	boundaryTables[Pyramid] = [][]SubElement{nil,
		lines([][]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}, {0, 4}, {1, 4}, {2, 4}, {3, 4}}),
		faces([][]int{{0, 1, 2, 3}, {0, 1, 4}, {0, 2, 4}, {1, 3, 4}, {2, 3, 4}}),
	}
}

func simplexOfDimension(d int) ElementType {
	return [...]ElementType{Vertex, Line, Triangle, Tet}[d]
}

func lines(local [][]int) (sub []SubElement) {
	for _, l := range local {
		sub = append(sub, SubElement{Type: Line, Local: l})
	}
	return
}

func faces(local [][]int) (sub []SubElement) {
	for _, l := range local {
		t := Triangle
		if len(l) == 4 {
			t = Quad
		}
		sub = append(sub, SubElement{Type: t, Local: l})
	}
	return
}

/*
simplexFaces returns the k vertex sub simplices of an n vertex simplex, each as the
ascending complement of an omitted vertex set, with omitted sets enumerated in
lexicographic order. For facets, face i omits local vertex i.
*/
func simplexFaces(n, k int) (faces [][]int) {
	omit := make([]int, n-k)
	for i := range omit {
		omit[i] = i
	}
	for {
		face := make([]int, 0, k)
		j := 0
		for v := 0; v < n; v++ {
			if j < len(omit) && omit[j] == v {
				j++
				continue
			}
			face = append(face, v)
		}
		faces = append(faces, face)
		// next combination
		i := len(omit) - 1
		for i >= 0 && omit[i] == n-len(omit)+i {
			i--
		}
		if i < 0 {
			return
		}
		omit[i]++
		for j := i + 1; j < len(omit); j++ {
			omit[j] = omit[j-1] + 1
		}
	}
}

/*
BoundaryTable returns the ordered sub elements of dimension dim for an element of this
kind having n vertices. Dimension 0 is the vertex list itself. n only matters for Polygon.
*/
func (e ElementType) BoundaryTable(dim, n int) ([]SubElement, error) {
	if dim < 0 || dim >= e.GetDimension() {
		return nil, fmt.Errorf("%w: %s has no boundary of dimension %d", ErrOutOfRange, e, dim)
	}
	if dim == 0 {
		sub := make([]SubElement, n)
		for i := range sub {
			sub[i] = SubElement{Type: Vertex, Local: []int{i}}
		}
		return sub, nil
	}
	if e == Polygon {
		sub := make([]SubElement, n)
		for i := range sub {
			sub[i] = SubElement{Type: Line, Local: []int{i, (i + 1) % n}}
		}
		return sub, nil
	}
	return boundaryTables[e][dim], nil
}

// GetNumFaces is the count of dimension-1 sub elements
func (e ElementType) GetNumFaces(n int) int {
	if e == Vertex {
		return 0
	}
	sub, _ := e.BoundaryTable(e.GetDimension()-1, n)
	return len(sub)
}
