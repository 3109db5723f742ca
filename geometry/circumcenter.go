package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"seehuhn.de/go/geom/vec"
)

const degenerateTol = 1.e-30

func Circumcenter2D(a, b, c Point) (Point, error) {
	var (
		av     = toVec2(a)
		bp, cp = toVec2(b).Sub(av), toVec2(c).Sub(av)
		D      = 2 * (bp.X*cp.Y - bp.Y*cp.X)
	)
	if math.Abs(D) < degenerateTol {
		return nil, fmt.Errorf("%w: collinear triangle %v %v %v", ErrDegenerate, a, b, c)
	}
	var (
		b2, c2 = bp.Dot(bp), cp.Dot(cp)
		u      = vec.Vec2{X: (cp.Y*b2 - bp.Y*c2) / D, Y: (bp.X*c2 - cp.X*b2) / D}
	)
	center := av.Add(u)
	return Point{center.X, center.Y}, nil
}

func Circumcenter3D(a, b, c Point) (Point, error) {
	var (
		av     = ToR3(a)
		bp, cp = r3.Sub(ToR3(b), av), r3.Sub(ToR3(c), av)
		n      = r3.Cross(bp, cp)
		n2     = r3.Dot(n, n)
	)
	if n2 < degenerateTol {
		return nil, fmt.Errorf("%w: collinear triangle %v %v %v", ErrDegenerate, a, b, c)
	}
	num := r3.Add(
		r3.Scale(r3.Dot(cp, cp), r3.Cross(n, bp)),
		r3.Scale(r3.Dot(bp, bp), r3.Cross(cp, n)),
	)
	return FromR3(r3.Add(av, r3.Scale(1/(2*n2), num))), nil
}

// TriangleCircumcenter dispatches on the embedding dimension
func TriangleCircumcenter(a, b, c Point) (Point, error) {
	switch len(a) {
	case 2:
		return Circumcenter2D(a, b, c)
	case 3:
		return Circumcenter3D(a, b, c)
	}
	return nil, fmt.Errorf("no triangle circumcenter in %d dimensions", len(a))
}

func TetCircumcenter(a, b, c, d Point) (Point, error) {
	var (
		av         = ToR3(a)
		bp, cp, dp = r3.Sub(ToR3(b), av), r3.Sub(ToR3(c), av), r3.Sub(ToR3(d), av)
		denom      = 2 * r3.Dot(bp, r3.Cross(cp, dp))
	)
	if math.Abs(denom) < degenerateTol {
		return nil, fmt.Errorf("%w: flat tetrahedron %v %v %v %v", ErrDegenerate, a, b, c, d)
	}
	num := r3.Add(r3.Add(
		r3.Scale(r3.Dot(dp, dp), r3.Cross(bp, cp)),
		r3.Scale(r3.Dot(cp, cp), r3.Cross(dp, bp))),
		r3.Scale(r3.Dot(bp, bp), r3.Cross(cp, dp)),
	)
	return FromR3(r3.Add(av, r3.Scale(1/denom, num))), nil
}
