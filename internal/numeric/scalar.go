// Package numeric provides the scalar abstraction shared by the coordinate
// matrix, dense kernels, and supernodal factorization: a small constraint
// over the real and complex field types the engine supports, plus the
// handful of field operations (conjugate, real part, magnitude) that differ
// between them.
package numeric

import (
	"math"
	"math/cmplx"
)

// Scalar is the field a factorization operates over: real double precision
// or complex double precision. Single/extended precision are not wired in;
// see DESIGN.md.
type Scalar interface {
	~float64 | ~complex128
}

// Conj returns the field conjugate: x unchanged for real scalars, the
// complex conjugate for complex scalars.
func Conj[T Scalar](x T) T {
	switch v := any(x).(type) {
	case complex128:
		return any(cmplx.Conj(v)).(T)
	default:
		return x
	}
}

// Real returns the real part of x.
func Real[T Scalar](x T) float64 {
	switch v := any(x).(type) {
	case complex128:
		return real(v)
	case float64:
		return v
	default:
		return 0
	}
}

// Abs returns the field magnitude of x.
func Abs[T Scalar](x T) float64 {
	switch v := any(x).(type) {
	case complex128:
		return cmplx.Abs(v)
	case float64:
		if v < 0 {
			return -v
		}
		return v
	default:
		return 0
	}
}

// Sqrt returns a value y with y*Conj(y) == x for real x >= 0; for complex x
// it returns a principal square root.
func Sqrt[T Scalar](x T) T {
	switch v := any(x).(type) {
	case complex128:
		return any(cmplx.Sqrt(v)).(T)
	case float64:
		return any(math.Sqrt(v)).(T)
	default:
		return x
	}
}

// IsComplex reports whether T is the complex128 instantiation.
func IsComplex[T Scalar]() bool {
	var zero T
	_, ok := any(zero).(complex128)
	return ok
}
