package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/gomesh/geometry"
)

// Tetrahedral decompositions of the non simplex solids, as local vertex indices
var (
	hexTets     = [][4]int{{0, 1, 3, 7}, {0, 1, 5, 7}, {0, 2, 3, 7}, {0, 2, 6, 7}, {0, 4, 5, 7}, {0, 4, 6, 7}}
	prismTets   = [][4]int{{0, 1, 2, 3}, {1, 2, 3, 4}, {2, 3, 4, 5}}
	pyramidTets = [][4]int{{0, 1, 3, 4}, {0, 3, 2, 4}}
)

// Centroid is the vertex average of the element
func Centroid(m *Mesh, h Handle) (geometry.Point, error) {
	pts, err := m.Points(h)
	if err != nil {
		return nil, err
	}
	return geometry.Average(pts...), nil
}

// Volume is the measure of the element in its own dimension: 0, length, area or volume
func Volume(m *Mesh, h Handle) (float64, error) {
	pts, err := m.Points(h)
	if err != nil {
		return 0, err
	}
	switch h.Kind {
	case Vertex:
		return 0, nil
	case Line, Triangle, Tet:
		return geometry.SpannedVolume(pts...), nil
	case Quad:
		return geometry.SpannedVolume(pts[0], pts[1], pts[3]) +
			geometry.SpannedVolume(pts[0], pts[3], pts[2]), nil
	case Polygon:
		var area float64
		for i := 1; i+1 < len(pts); i++ {
			area += geometry.SpannedVolume(pts[0], pts[i], pts[i+1])
		}
		return area, nil
	case Hex:
		return tetSum(pts, hexTets), nil
	case Prism:
		return tetSum(pts, prismTets), nil
	case Pyramid:
		return tetSum(pts, pyramidTets), nil
	}
	return 0, fmt.Errorf("%w: volume of %v", ErrUnsupported, h)
}

func tetSum(pts []geometry.Point, tets [][4]int) (vol float64) {
	for _, t := range tets {
		vol += geometry.SpannedVolume(pts[t[0]], pts[t[1]], pts[t[2]], pts[t[3]])
	}
	return
}

// Surface is the summed volume of the element's facets
func Surface(m *Mesh, h Handle) (area float64, err error) {
	e, err := m.Element(h)
	if err != nil {
		return 0, err
	}
	for _, f := range e.Facets() {
		v, err := Volume(m, f)
		if err != nil {
			return 0, err
		}
		area += v
	}
	return
}

// MeshVolume sums the volume of the cells
func MeshVolume(m *Mesh) (vol float64, err error) {
	for _, c := range m.Cells() {
		v, err := Volume(m, c)
		if err != nil {
			return 0, err
		}
		vol += v
	}
	return
}

// Circumcenter of simplices, the vertex average for quads and hexes
func Circumcenter(m *Mesh, h Handle) (geometry.Point, error) {
	pts, err := m.Points(h)
	if err != nil {
		return nil, err
	}
	switch h.Kind {
	case Vertex:
		return pts[0].Copy(), nil
	case Line:
		return geometry.Mid(pts[0], pts[1]), nil
	case Triangle:
		return geometry.TriangleCircumcenter(pts[0], pts[1], pts[2])
	case Tet:
		return geometry.TetCircumcenter(pts[0], pts[1], pts[2], pts[3])
	case Quad, Hex:
		return geometry.Average(pts...), nil
	}
	return nil, fmt.Errorf("%w: circumcenter of %v", ErrUnsupported, h)
}

// PointDistance is the distance from p to the closest point of a vertex, line or triangle
func PointDistance(m *Mesh, p geometry.Point, h Handle) (float64, error) {
	pts, err := m.Points(h)
	if err != nil {
		return 0, err
	}
	if len(p) != m.geoDim {
		return 0, fmt.Errorf("%w: point %v in a %d dimensional mesh", ErrDimensionMismatch, p, m.geoDim)
	}
	switch h.Kind {
	case Vertex:
		return geometry.Distance(p, pts[0]), nil
	case Line:
		return geometry.PointSegmentDistance(p, pts[0], pts[1]), nil
	case Triangle:
		return geometry.PointTriangleDistance(p, pts[0], pts[1], pts[2]), nil
	}
	return 0, fmt.Errorf("%w: distance to %v", ErrUnsupported, h)
}

// Distance between two elements, for vertex, line and vertex-triangle combinations
func Distance(m *Mesh, a, b Handle) (float64, error) {
	if a.Kind > b.Kind {
		a, b = b, a
	}
	pa, err := m.Points(a)
	if err != nil {
		return 0, err
	}
	pb, err := m.Points(b)
	if err != nil {
		return 0, err
	}
	switch {
	case a.Kind == Vertex:
		return PointDistance(m, pa[0], b)
	case a.Kind == Line && b.Kind == Line:
		return geometry.SegmentSegmentDistance(pa[0], pa[1], pb[0], pb[1]), nil
	}
	return math.NaN(), fmt.Errorf("%w: distance between %v and %v", ErrUnsupported, a, b)
}
