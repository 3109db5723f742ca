package mesh

import (
	"errors"

	"github.com/notargets/gomesh/geometry"
)

var (
	ErrInvalidHandle      = errors.New("invalid handle")
	ErrDimensionMismatch  = errors.New("dimension mismatch")
	ErrOutOfRange         = errors.New("out of range")
	ErrDegenerateGeometry = geometry.ErrDegenerate
	ErrInvalidParent      = errors.New("invalid parent mesh")
	ErrArityMismatch      = errors.New("arity mismatch")
	ErrUnsupported        = errors.New("unsupported")
)
