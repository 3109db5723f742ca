package mesh

import (
	"github.com/notargets/gomesh/geometry"
	"github.com/notargets/gomesh/logger"
)

/*
Compact renumbers every bucket densely, dropping the slots of erased elements. It starts
a new epoch, so every handle issued before is rejected afterwards and every existing
view fails with ErrInvalidParent. The returned map translates old live handles to new.
*/
func (m *Mesh) Compact() map[Handle]Handle {
	var (
		remap    = make(map[Handle]Handle)
		newEpoch = m.epoch + 1
		idMaps   [numElementTypes][]int
	)
	for _, kind := range ElementTypes {
		b := &m.buckets[kind]
		ids := make([]int, len(b.elements))
		next := 0
		for i, e := range b.elements {
			if e == nil {
				ids[i] = -1
				continue
			}
			ids[i] = next
			remap[e.handle] = Handle{Kind: kind, ID: next, Epoch: newEpoch}
			next++
		}
		idMaps[kind] = ids
	}
	translate := func(hs []Handle) {
		for i, h := range hs {
			hs[i] = remap[h]
		}
	}
	var points []geometry.Point
	for _, kind := range ElementTypes {
		b := &m.buckets[kind]
		dense := make([]*Element, 0, b.count)
		for _, e := range b.elements {
			if e == nil {
				continue
			}
			if kind == Vertex {
				points = append(points, m.points[e.handle.ID])
			}
			e.handle = remap[e.handle]
			for d := range e.boundary {
				translate(e.boundary[d])
			}
			dense = append(dense, e)
		}
		b.elements = dense
		m.fields.remap(kind, idMaps[kind], len(dense))
	}
	m.points = points
	// Keys embed vertex ids, rebuild them
	lookup := make(map[string]Handle, len(m.lookup))
	for _, kind := range ElementTypes[1:] {
		for _, e := range m.buckets[kind].elements {
			lookup[vertexKey(kind, e.boundary[0])] = e.handle
		}
	}
	m.lookup = lookup
	for _, r := range m.regions {
		members := make(map[Handle]struct{}, len(r.members))
		for h := range r.members {
			members[remap[h]] = struct{}{}
		}
		closure := make(map[Handle]int, len(r.closure))
		for h, c := range r.closure {
			closure[remap[h]] = c
		}
		r.members, r.closure = members, closure
	}
	m.epoch = newEpoch
	m.generation++
	logger.Debug("compacted mesh", "elements", len(remap), "epoch", m.epoch)
	return remap
}
