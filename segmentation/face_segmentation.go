package segmentation

import (
	"fmt"
	"sort"

	"github.com/notargets/gomesh/mesh"
	"github.com/notargets/gomesh/types"
)

// Unset marks an empty orientation slot
const Unset = -1

/*
FaceSegmentInfo holds the two sides of an oriented surface triangle. Positive is the
region the triangle's normal points out of, Negative the region on the normal's side.
*/
type FaceSegmentInfo struct {
	Positive, Negative int
}

var unsetInfo = FaceSegmentInfo{Positive: Unset, Negative: Unset}

func (fi FaceSegmentInfo) IsOn(region int) bool {
	return region != Unset && (fi.Positive == region || fi.Negative == region)
}

// FacesOutward is true when the triangle's normal points out of region
func (fi FaceSegmentInfo) FacesOutward(region int) bool {
	return region != Unset && fi.Positive == region
}

// FaceSegmentation attaches a FaceSegmentInfo to every triangle of a surface mesh, by triangle id
type FaceSegmentation struct {
	mesh  *mesh.Mesh
	infos []FaceSegmentInfo
	used  map[int]struct{}
}

func NewFaceSegmentation(m *mesh.Mesh) *FaceSegmentation {
	fs := &FaceSegmentation{mesh: m, used: make(map[int]struct{})}
	fs.grow()
	return fs
}

// grow sizes the info array to the triangle id bound, new slots are unset
func (fs *FaceSegmentation) grow() {
	fs.infos = types.GrowSliceFill(fs.infos, fs.mesh.IDUpperBound(mesh.Triangle), unsetInfo)
}

func (fs *FaceSegmentation) Mesh() *mesh.Mesh { return fs.mesh }

// Info returns the slots of a triangle, both unset for triangles never assigned
func (fs *FaceSegmentation) Info(tri mesh.Handle) FaceSegmentInfo {
	if tri.Kind != mesh.Triangle || tri.ID < 0 || tri.ID >= len(fs.infos) {
		return unsetInfo
	}
	return fs.infos[tri.ID]
}

func (fs *FaceSegmentation) SetInfo(tri mesh.Handle, info FaceSegmentInfo) error {
	if tri.Kind != mesh.Triangle || !fs.mesh.Valid(tri) {
		return fmt.Errorf("%w: %v is not a triangle of the segmented mesh", mesh.ErrInvalidHandle, tri)
	}
	fs.grow()
	fs.infos[tri.ID] = info
	for _, r := range []int{info.Positive, info.Negative} {
		if r != Unset {
			fs.used[r] = struct{}{}
		}
	}
	return nil
}

// assign fills the outward or inward slot of tri with region
func (fs *FaceSegmentation) assign(tri mesh.Handle, region int, outward bool) error {
	info := fs.Info(tri)
	if outward {
		info.Positive = region
	} else {
		info.Negative = region
	}
	return fs.SetInfo(tri, info)
}

// Regions lists the region ids used by any slot, ascending
func (fs *FaceSegmentation) Regions() (ids []int) {
	for id := range fs.used {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

// Triangles lists the triangles on region, by ascending id
func (fs *FaceSegmentation) Triangles(region int) (hs []mesh.Handle) {
	for _, tri := range fs.mesh.Elements(mesh.Triangle) {
		if fs.Info(tri).IsOn(region) {
			hs = append(hs, tri)
		}
	}
	return
}

/*
OrientedSurface returns the vertex triples of the triangles on region, each wound so its
normal points out of the region.
*/
func (fs *FaceSegmentation) OrientedSurface(region int) ([][3]mesh.Handle, error) {
	var surf [][3]mesh.Handle
	for _, tri := range fs.Triangles(region) {
		vs, err := fs.mesh.Vertices(tri)
		if err != nil {
			return nil, err
		}
		if fs.Info(tri).FacesOutward(region) {
			surf = append(surf, [3]mesh.Handle{vs[0], vs[1], vs[2]})
		} else {
			surf = append(surf, [3]mesh.Handle{vs[0], vs[2], vs[1]})
		}
	}
	return surf, nil
}

// ApplyToRegions adds every triangle to the mesh regions named by its slots
func (fs *FaceSegmentation) ApplyToRegions() error {
	for _, tri := range fs.mesh.Elements(mesh.Triangle) {
		info := fs.Info(tri)
		for _, id := range []int{info.Positive, info.Negative} {
			if id == Unset {
				continue
			}
			r, err := fs.mesh.GetOrCreateRegion(id)
			if err != nil {
				return err
			}
			if err = r.Add(tri); err != nil {
				return err
			}
		}
	}
	return nil
}
