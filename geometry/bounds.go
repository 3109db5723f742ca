package geometry

import (
	"math"

	"seehuhn.de/go/geom/rect"
)

// Bounds returns the componentwise minimum and maximum of the points
func Bounds(pts []Point) (lo, hi Point) {
	if len(pts) == 0 {
		return
	}
	lo, hi = pts[0].Copy(), pts[0].Copy()
	for _, p := range pts[1:] {
		for i, v := range p {
			lo[i] = math.Min(lo[i], v)
			hi[i] = math.Max(hi[i], v)
		}
	}
	return
}

// Bounds2D projects the points onto the xy plane
func Bounds2D(pts []Point) (r rect.Rect) {
	if len(pts) == 0 {
		return
	}
	lo, hi := Bounds(pts)
	r = rect.Rect{LLx: lo[0], URx: hi[0]}
	if len(lo) > 1 {
		r.LLy, r.URy = lo[1], hi[1]
	}
	return
}
