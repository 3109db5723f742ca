package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

/*
Tolerance holds the epsilon used for approximate equality of scalars and points.

The absolute tolerance is |Eps|, the relative tolerance for a base magnitude is
max(|Eps|*base, |Eps|), so values near zero are compared absolutely and large values
relatively.
*/
type Tolerance struct {
	Eps float64 `yaml:"Eps"`
}

var DefaultTolerance = Tolerance{Eps: DefaultEps}

func NewTolerance(eps float64) Tolerance {
	if eps == 0 {
		return DefaultTolerance
	}
	return Tolerance{Eps: math.Abs(eps)}
}

func (tol Tolerance) AbsoluteTolerance() float64 {
	return math.Abs(tol.Eps)
}

func (tol Tolerance) RelativeTolerance(base float64) float64 {
	abs := tol.AbsoluteTolerance()
	return math.Max(abs*math.Abs(base), abs)
}

// IsEqual compares relative to the magnitude of the first argument
func (tol Tolerance) IsEqual(a, b float64) bool {
	return math.Abs(a-b) < tol.RelativeTolerance(a)
}

// IsZero is an absolute comparison against zero
func (tol Tolerance) IsZero(a float64) bool {
	return math.Abs(a) < tol.AbsoluteTolerance()
}

/*
IsEqualPoint reports whether two points coincide. Two points that are both within the
absolute tolerance of the origin are equal, exactly one being there makes them unequal,
otherwise the distance is compared relative to either point's norm.
*/
func (tol Tolerance) IsEqualPoint(p0, p1 []float64) bool {
	if len(p0) != len(p1) {
		return false
	}
	var (
		abs    = tol.AbsoluteTolerance()
		n0, n1 = floats.Norm(p0, 2), floats.Norm(p1, 2)
	)
	if n0 < abs && n1 < abs {
		return true
	}
	if n0 < abs || n1 < abs {
		return false
	}
	dist := floats.Distance(p0, p1, 2)
	return dist < tol.RelativeTolerance(n0) || dist < tol.RelativeTolerance(n1)
}
