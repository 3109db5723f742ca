package mesh

import "fmt"

/*
Handle is a non owning reference to an element. ID indexes the element's kind bucket,
Epoch is the compaction epoch of the mesh the handle was issued under. A handle is only
dereferenced through its mesh, which rejects erased ids and handles from an older epoch.
*/
type Handle struct {
	Kind  ElementType
	ID    int
	Epoch uint32
}

// NoHandle is the null handle
var NoHandle = Handle{ID: -1}

func (h Handle) Dimension() int { return h.Kind.GetDimension() }

func (h Handle) IsNull() bool { return h.ID < 0 }

func (h Handle) String() string {
	if h.IsNull() {
		return "NoHandle"
	}
	return fmt.Sprintf("%s[%d]", h.Kind, h.ID)
}
