package mesh

import "fmt"

/*
View is a filtered subset of a mesh. It shares the parent's storage and keeps its own
inclusion list. A view is bound to the parent's compaction epoch, after a compaction
every operation on it fails with ErrInvalidParent.
*/
type View struct {
	parent   *Mesh
	epoch    uint32
	included map[Handle]struct{}
	order    []Handle
}

func (m *Mesh) NewView() *View {
	return &View{
		parent:   m,
		epoch:    m.epoch,
		included: make(map[Handle]struct{}),
	}
}

func (v *View) check() error {
	if v == nil || v.parent == nil {
		return fmt.Errorf("%w: view has no parent mesh", ErrInvalidParent)
	}
	if v.parent.epoch != v.epoch {
		return fmt.Errorf("%w: parent mesh was compacted after the view was created", ErrInvalidParent)
	}
	return nil
}

func (v *View) Mesh() (*Mesh, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	return v.parent, nil
}

func (v *View) Add(h Handle) error {
	if err := v.check(); err != nil {
		return err
	}
	if !v.parent.Valid(h) {
		return fmt.Errorf("%w: %v is not in the parent mesh", ErrInvalidHandle, h)
	}
	if _, ok := v.included[h]; ok {
		return nil
	}
	v.included[h] = struct{}{}
	v.order = append(v.order, h)
	return nil
}

func (v *View) Contains(h Handle) bool {
	_, ok := v.included[h]
	return ok
}

// Handles lists what was added, in insertion order, skipping elements since erased from the parent
func (v *View) Handles() ([]Handle, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	hs := make([]Handle, 0, len(v.order))
	for _, h := range v.order {
		if v.parent.Valid(h) {
			hs = append(hs, h)
		}
	}
	return hs, nil
}

// Elements lists the live included elements of kind by ascending id
func (v *View) Elements(kind ElementType) ([]Handle, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	var hs []Handle
	for _, h := range v.parent.Elements(kind) {
		if v.Contains(h) {
			hs = append(hs, h)
		}
	}
	return hs, nil
}

func (v *View) Len() int { return len(v.order) }

func (v *View) Clear() {
	v.included = make(map[Handle]struct{})
	v.order = nil
}
