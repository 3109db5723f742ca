package mesh

import "fmt"

/*
Element is the stored topology of one mesh entity. The boundary lists are fixed at
creation: boundary[0] holds the vertices in stored order, boundary[d] the sub elements of
dimension d in the order given by the kind's BoundaryTable.
*/
type Element struct {
	handle   Handle
	boundary [][]Handle
	parent   Handle
}

func (e *Element) Handle() Handle { return e.handle }

func (e *Element) Type() ElementType { return e.handle.Kind }

func (e *Element) Dimension() int { return e.handle.Dimension() }

func (e *Element) Vertices() []Handle {
	return append([]Handle(nil), e.vertices()...)
}

func (e *Element) vertices() []Handle {
	if e.handle.Kind == Vertex {
		return []Handle{e.handle}
	}
	return e.boundary[0]
}

func (e *Element) NumVertices() int { return len(e.vertices()) }

// Boundary returns the boundary elements of dimension dim, 0 <= dim < Dimension()
func (e *Element) Boundary(dim int) ([]Handle, error) {
	if dim < 0 || dim >= e.Dimension() {
		return nil, fmt.Errorf("%w: %v has no boundary of dimension %d", ErrOutOfRange, e.handle, dim)
	}
	return append([]Handle(nil), e.boundary[dim]...), nil
}

// Facets is the boundary one dimension down
func (e *Element) Facets() []Handle {
	if e.Dimension() == 0 {
		return nil
	}
	return append([]Handle(nil), e.boundary[e.Dimension()-1]...)
}

// Parent is the source element this one was refined from, NoHandle otherwise
func (e *Element) Parent() Handle { return e.parent }

// closure is every boundary handle of every dimension
func (e *Element) closure() (hs []Handle) {
	for d := 0; d < e.Dimension(); d++ {
		hs = append(hs, e.boundary[d]...)
	}
	return
}

// VertexIndex returns the local position of vertex v, -1 when v is not a vertex of e
func (e *Element) VertexIndex(v Handle) int {
	for i, h := range e.vertices() {
		if h == v {
			return i
		}
	}
	return -1
}
