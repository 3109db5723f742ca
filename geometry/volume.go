package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"seehuhn.de/go/geom/vec"
)

/*
SpannedVolume is the k-dimensional volume of the simplex spanned by k+1 points, in any
embedding dimension: sqrt(det(V^T V))/k! where the columns of V are the edge vectors
from the first point.
*/
func SpannedVolume(pts ...Point) float64 {
	k := len(pts) - 1
	if k < 1 {
		return 0
	}
	n := len(pts[0])
	V := mat.NewDense(n, k, nil)
	for j := 1; j <= k; j++ {
		e := Sub(pts[j], pts[0])
		for i := 0; i < n; i++ {
			V.Set(i, j-1, e[i])
		}
	}
	var G mat.Dense
	G.Mul(V.T(), V)
	det := mat.Det(&G)
	if det <= 0 {
		return 0
	}
	fact := 1.
	for i := 2; i <= k; i++ {
		fact *= float64(i)
	}
	return math.Sqrt(det) / fact
}

// OrientedVolume is the signed volume of tetrahedron abcd, positive when d lies on the side of abc its normal points to
func OrientedVolume(a, b, c, d Point) float64 {
	var (
		av     = ToR3(a)
		bv, cv = r3.Sub(ToR3(b), av), r3.Sub(ToR3(c), av)
		dv     = r3.Sub(ToR3(d), av)
	)
	return r3.Dot(r3.Cross(bv, cv), dv) / 6
}

func toVec2(p Point) vec.Vec2 {
	var c [2]float64
	copy(c[:], p)
	return vec.Vec2{X: c[0], Y: c[1]}
}

// SignedArea2D is positive for a counter clockwise triangle in the plane
func SignedArea2D(a, b, c Point) float64 {
	var (
		av     = toVec2(a)
		ab, ac = toVec2(b).Sub(av), toVec2(c).Sub(av)
	)
	return 0.5 * (ab.X*ac.Y - ab.Y*ac.X)
}
