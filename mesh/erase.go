package mesh

import (
	"fmt"

	"github.com/notargets/gomesh/logger"
)

/*
MarkErase adds h and every element having h in its boundary to the view. Every element
stores the boundary of all lower dimensions, so one co-boundary lookup per higher
dimension reaches the whole closure.
*/
func MarkErase(m *Mesh, v *View, h Handle) error {
	if err := v.check(); err != nil {
		return err
	}
	if v.parent != m {
		return fmt.Errorf("%w: view belongs to another mesh", ErrInvalidParent)
	}
	if _, err := m.Element(h); err != nil {
		return err
	}
	if err := v.Add(h); err != nil {
		return err
	}
	for d := h.Dimension() + 1; d <= 3; d++ {
		cob, err := m.Coboundary(h, d)
		if err != nil {
			return err
		}
		for _, c := range cob {
			if err := v.Add(c); err != nil {
				return err
			}
		}
	}
	return nil
}

/*
EraseElements removes every element marked in the view, drops their region membership
and clears the view. Elements already gone are skipped, so marking twice is harmless.
The number of erased elements is returned.
*/
func EraseElements(m *Mesh, v *View) (int, error) {
	if err := v.check(); err != nil {
		return 0, err
	}
	if v.parent != m {
		return 0, fmt.Errorf("%w: view belongs to another mesh", ErrInvalidParent)
	}
	var erased int
	for _, h := range v.order {
		e, err := m.Element(h)
		if err != nil {
			continue
		}
		for _, r := range m.regions {
			r.remove(e)
		}
		if e.handle.Kind != Vertex {
			delete(m.lookup, vertexKey(e.handle.Kind, e.boundary[0]))
		} else {
			m.points[e.handle.ID] = nil
		}
		b := &m.buckets[h.Kind]
		b.elements[h.ID] = nil
		b.count--
		erased++
	}
	if erased > 0 {
		m.generation++
	}
	v.Clear()
	logger.Debug("erased elements", "count", erased, "generation", m.generation)
	return erased, nil
}
