package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// RayEps bounds both the singular determinant test and the barycentric slack of a hit
const RayEps = 1.e-6

/*
IntersectRayTriangle tests the segment r + lambda*d, lambda in [0,1], against triangle ABC.

It solves

	beta*(B-A) + gamma*(C-A) - lambda*d = r-A

and accepts when the barycentric coordinates and lambda all lie in [0,1] widened by RayEps.
When the system is singular the ray is parallel to the triangle and the test reduces to
whether r lies in the triangle's plane.
*/
func IntersectRayTriangle(r, d, a, b, c Point) bool {
	var (
		rv, dv         = ToR3(r), ToR3(d)
		av, bv, cv     = ToR3(a), ToR3(b), ToR3(c)
		eb, ec, rhsVec = r3.Sub(bv, av), r3.Sub(cv, av), r3.Sub(rv, av)
	)
	M := mat.NewDense(3, 3, []float64{
		eb.X, ec.X, -dv.X,
		eb.Y, ec.Y, -dv.Y,
		eb.Z, ec.Z, -dv.Z,
	})
	det := mat.Det(M)
	if math.Abs(det) < RayEps {
		n := TriangleNormal(a, b, c)
		center := Average(a, b, c)
		return math.Abs(Dot(n, Sub(r, center))) < RayEps
	}
	var x mat.VecDense
	if err := x.SolveVec(M, mat.NewVecDense(3, []float64{rhsVec.X, rhsVec.Y, rhsVec.Z})); err != nil {
		// an ill conditioned solve still yields a usable result
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return false
		}
	}
	var (
		beta, gamma, lambda = x.AtVec(0), x.AtVec(1), x.AtVec(2)
		alpha               = 1 - beta - gamma
		lower, upper        = -RayEps, 1 + RayEps
	)
	for _, v := range []float64{alpha, beta, gamma, lambda} {
		if v < lower || v > upper {
			return false
		}
	}
	return true
}
