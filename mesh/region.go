package mesh

import (
	"fmt"
	"sort"
)

/*
Region is a named subset of a mesh. Direct members are the elements added to it, the
closure additionally counts every boundary element of a member, so containment
queries on vertices and facets of member cells succeed.
*/
type Region struct {
	id      int
	name    string
	mesh    *Mesh
	members map[Handle]struct{}
	closure map[Handle]int
}

func (r *Region) ID() int { return r.id }

func (r *Region) Name() string { return r.name }

func (r *Region) SetName(name string) error {
	if other, ok := r.mesh.names[name]; ok && other != r.id {
		return fmt.Errorf("region name %q is used by region %d", name, other)
	}
	delete(r.mesh.names, r.name)
	r.name = name
	if name != "" {
		r.mesh.names[name] = r.id
	}
	return nil
}

func (r *Region) Mesh() *Mesh { return r.mesh }

// Len is the number of direct members
func (r *Region) Len() int { return len(r.members) }

// Add records membership of h, adding it twice has no effect
func (r *Region) Add(h Handle) error {
	e, err := r.mesh.Element(h)
	if err != nil {
		return err
	}
	if _, ok := r.members[h]; ok {
		return nil
	}
	r.members[h] = struct{}{}
	r.closure[h]++
	for _, b := range e.closure() {
		r.closure[b]++
	}
	return nil
}

func (r *Region) Remove(h Handle) error {
	e, err := r.mesh.Element(h)
	if err != nil {
		return err
	}
	r.remove(e)
	return nil
}

func (r *Region) remove(e *Element) {
	if _, ok := r.members[e.handle]; !ok {
		return
	}
	delete(r.members, e.handle)
	for _, b := range append(e.closure(), e.handle) {
		if r.closure[b]--; r.closure[b] <= 0 {
			delete(r.closure, b)
		}
	}
}

// Contains is direct membership
func (r *Region) Contains(h Handle) bool {
	_, ok := r.members[h]
	return ok
}

// IsIn is true for members and for every boundary element of a member
func (r *Region) IsIn(h Handle) bool {
	return r.closure[h] > 0
}

// Elements lists the closure elements of kind once each, by ascending id
func (r *Region) Elements(kind ElementType) (hs []Handle) {
	for h := range r.closure {
		if h.Kind == kind {
			hs = append(hs, h)
		}
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i].ID < hs[j].ID })
	return
}

// Members lists the direct members ordered by kind then id
func (r *Region) Members() (hs []Handle) {
	for h := range r.members {
		hs = append(hs, h)
	}
	sortHandles(hs)
	return
}

// MakeElement creates the element in the parent mesh and adds it to the region
func (r *Region) MakeElement(kind ElementType, vs []Handle) (Handle, error) {
	h, err := r.mesh.MakeElement(kind, vs)
	if err != nil {
		return NoHandle, err
	}
	return h, r.Add(h)
}

func sortHandles(hs []Handle) {
	sort.Slice(hs, func(i, j int) bool {
		if hs[i].Kind != hs[j].Kind {
			return hs[i].Kind < hs[j].Kind
		}
		return hs[i].ID < hs[j].ID
	})
}

func (m *Mesh) newRegion(id int, name string) *Region {
	r := &Region{
		id:      id,
		name:    name,
		mesh:    m,
		members: make(map[Handle]struct{}),
		closure: make(map[Handle]int),
	}
	m.regions[id] = r
	if name != "" {
		m.names[name] = id
	}
	return r
}

func (m *Mesh) nextRegionID() int {
	next := 0
	for id := range m.regions {
		if id >= next {
			next = id + 1
		}
	}
	return next
}

// CreateRegion makes a region with the id after the largest in use
func (m *Mesh) CreateRegion() *Region {
	return m.newRegion(m.nextRegionID(), "")
}

func (m *Mesh) GetOrCreateRegion(id int) (*Region, error) {
	if id < 0 {
		return nil, fmt.Errorf("%w: region id %d", ErrOutOfRange, id)
	}
	if r, ok := m.regions[id]; ok {
		return r, nil
	}
	return m.newRegion(id, ""), nil
}

func (m *Mesh) GetOrCreateRegionByName(name string) *Region {
	if id, ok := m.names[name]; ok {
		return m.regions[id]
	}
	return m.newRegion(m.nextRegionID(), name)
}

func (m *Mesh) Region(id int) (*Region, bool) {
	r, ok := m.regions[id]
	return r, ok
}

func (m *Mesh) RegionByName(name string) (*Region, bool) {
	id, ok := m.names[name]
	if !ok {
		return nil, false
	}
	return m.regions[id], true
}

// Regions lists the regions by ascending id
func (m *Mesh) Regions() (rs []*Region) {
	for _, r := range m.regions {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].id < rs[j].id })
	return
}

func (m *Mesh) RegionCount() int { return len(m.regions) }

// RegionsOf lists the ids of the regions h is a direct member of
func (m *Mesh) RegionsOf(h Handle) (ids []int) {
	for _, r := range m.Regions() {
		if r.Contains(h) {
			ids = append(ids, r.id)
		}
	}
	return
}
