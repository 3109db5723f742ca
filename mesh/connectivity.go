package mesh

import (
	"fmt"

	"github.com/james-bowman/sparse"
)

/*
IncidenceMatrix returns the cell to vertex incidence of the elements of kind as a CSR
matrix, one row per live element in ascending id order and one column per vertex id.
The row order is returned alongside.
*/
func IncidenceMatrix(m *Mesh, kind ElementType) (*sparse.CSR, []Handle, error) {
	if kind == Vertex {
		return nil, nil, fmt.Errorf("%w: incidence of vertices", ErrUnsupported)
	}
	var (
		rows = m.Elements(kind)
		nv   = m.IDUpperBound(Vertex)
	)
	if len(rows) == 0 || nv == 0 {
		return nil, rows, fmt.Errorf("%w: no %s elements", ErrOutOfRange, kind)
	}
	CtoV := sparse.NewDOK(len(rows), nv)
	for i, h := range rows {
		for _, v := range m.buckets[kind].elements[h.ID].vertices() {
			CtoV.Set(i, v.ID, 1)
		}
	}
	return CtoV.ToCSR(), rows, nil
}

/*
FacetAdjacency pairs elements of a single fixed arity kind that share a facet, computed
as CtoC = CtoV * CtoV^T: off diagonal entries count shared vertices, and a count equal
to the facet's vertex count marks a shared facet. For the mixed facet kinds Prism and
Pyramid any shared face counts.
*/
func FacetAdjacency(m *Mesh, kind ElementType) (map[Handle][]Handle, error) {
	if kind == Polygon || kind == Vertex {
		return nil, fmt.Errorf("%w: facet adjacency for %s", ErrUnsupported, kind)
	}
	CtoV, rows, err := IncidenceMatrix(m, kind)
	if err != nil {
		return nil, err
	}
	var (
		nr, _   = CtoV.Dims()
		CtoC    = sparse.NewCSR(nr, nr, nil, nil, nil)
		minFace = facetVertexCount(kind)
		adj     = make(map[Handle][]Handle, nr)
	)
	CtoC.Mul(CtoV, CtoV.T())
	CtoC.DoNonZero(func(i, j int, v float64) {
		if i != j && int(v+0.5) >= minFace {
			adj[rows[i]] = append(adj[rows[i]], rows[j])
		}
	})
	for _, hs := range adj {
		sortHandles(hs)
	}
	return adj, nil
}

func facetVertexCount(kind ElementType) (n int) {
	table, _ := kind.BoundaryTable(kind.GetDimension()-1, kind.GetNumVertices())
	n = -1
	for _, sub := range table {
		if n < 0 || len(sub.Local) < n {
			n = len(sub.Local)
		}
	}
	return
}
