package utils

const (
	NODETOL = 1.e-12
	// DefaultEps is the relative tolerance used when a job does not set one
	DefaultEps = 1.e-10
)

type EvalOp uint8

const (
	Equal EvalOp = iota
	Less
	Greater
	LessOrEqual
	GreaterOrEqual
)

// Compare applies op to a and b with tolerance tol
func (op EvalOp) Compare(tol Tolerance, a, b float64) bool {
	switch op {
	case Equal:
		return tol.IsEqual(a, b)
	case Less:
		return a < b && !tol.IsEqual(a, b)
	case Greater:
		return a > b && !tol.IsEqual(a, b)
	case LessOrEqual:
		return a < b || tol.IsEqual(a, b)
	case GreaterOrEqual:
		return a > b || tol.IsEqual(a, b)
	}
	return false
}
