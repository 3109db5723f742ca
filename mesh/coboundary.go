package mesh

import (
	"fmt"

	"github.com/notargets/gomesh/logger"
)

type cobKey struct {
	srcDim, tgtDim int
}

type coboundaryCache struct {
	generation uint64
	index      map[cobKey]map[Handle][]Handle
}

// index returns the co-boundary multimap for the dimension pair, rebuilding on a generation change
func (m *Mesh) coboundaryIndex(srcDim, tgtDim int) map[Handle][]Handle {
	if m.cob.index == nil || m.cob.generation != m.generation {
		m.cob.index = make(map[cobKey]map[Handle][]Handle)
		m.cob.generation = m.generation
	}
	key := cobKey{srcDim, tgtDim}
	if idx, ok := m.cob.index[key]; ok {
		return idx
	}
	idx := make(map[Handle][]Handle)
	var nTargets int
	for _, kind := range ElementTypes {
		if kind.GetDimension() != tgtDim {
			continue
		}
		for _, e := range m.buckets[kind].elements {
			if e == nil {
				continue
			}
			nTargets++
			for _, b := range e.boundary[srcDim] {
				idx[b] = append(idx[b], e.handle)
			}
		}
	}
	m.cob.index[key] = idx
	logger.Debug("built co-boundary index", "source", srcDim, "target", tgtDim,
		"targets", nTargets, "keys", len(idx), "generation", m.generation)
	return idx
}

/*
Coboundary returns the elements of dimension dim that have h in their boundary,
ordered by kind then id. The index behind it is rebuilt lazily after any mutation.
*/
func (m *Mesh) Coboundary(h Handle, dim int) ([]Handle, error) {
	if _, err := m.Element(h); err != nil {
		return nil, err
	}
	if dim <= h.Dimension() || dim > 3 {
		return nil, fmt.Errorf("%w: no co-boundary of dimension %d for %v", ErrOutOfRange, dim, h)
	}
	return append([]Handle(nil), m.coboundaryIndex(h.Dimension(), dim)[h]...), nil
}

// CoboundaryOfType filters Coboundary to a single kind
func (m *Mesh) CoboundaryOfType(h Handle, kind ElementType) (hs []Handle, err error) {
	all, err := m.Coboundary(h, kind.GetDimension())
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.Kind == kind {
			hs = append(hs, c)
		}
	}
	return
}

/*
Neighbours returns the elements of h's dimension sharing at least one boundary element
of dimension connectorDim with h, without h and without repeats, in order of discovery
over h's boundary.
*/
func (m *Mesh) Neighbours(h Handle, connectorDim int) ([]Handle, error) {
	e, err := m.Element(h)
	if err != nil {
		return nil, err
	}
	connectors, err := e.Boundary(connectorDim)
	if err != nil {
		return nil, err
	}
	var (
		seen = map[Handle]bool{h: true}
		hs   []Handle
	)
	for _, c := range connectors {
		cob, err := m.Coboundary(c, e.Dimension())
		if err != nil {
			return nil, err
		}
		for _, n := range cob {
			if !seen[n] {
				seen[n] = true
				hs = append(hs, n)
			}
		}
	}
	return hs, nil
}

// FacetNeighbours are the neighbours across facets
func (m *Mesh) FacetNeighbours(h Handle) ([]Handle, error) {
	return m.Neighbours(h, h.Dimension()-1)
}
