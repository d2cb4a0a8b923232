package dense

import (
	"github.com/andreasmuller/sparseldl/internal/numeric"
	"k8s.io/klog/v2"
)

// RegularizationControl bounds the "dead zone" (-negThreshold, posThreshold)
// that a computed pivot is not allowed to fall inside (spec §4.3 dynamic
// regularization): a pivot landing in the dead zone is pushed out to the
// nearer boundary instead of failing the factorization outright, which is
// what lets the supernodal driver push through the small or
// sign-indefinite pivots that arise from roundoff on a matrix that is SPD
// (or quasi-definite) only up to numerical noise.
type RegularizationControl struct {
	PosThreshold float64 // τ+, the boundary pivots are pushed up to
	NegThreshold float64 // τ-, the boundary pivots are pushed down to (as -τ-)

	// Signatures, when non-nil, gives the expected sign (+1 or -1) of each
	// pivot in factorization order; a dead-zone pivot is then pushed toward
	// the boundary matching its signature rather than its own (possibly
	// noisy) current sign, per spec §4.3's "respecting a sign signature
	// supplied by the caller". Left nil, the shift direction follows the
	// pivot's own sign as before.
	Signatures []int
}

// RegularizedFactor behaves like UnblockedFactor but never reports a
// failed pivot inside the dead zone: instead it shifts the offending
// diagonal entry to the nearest boundary and keeps going. It returns the
// number of pivots regularized (0 on a completely clean factorization);
// a genuine failure (a pivot that needed regularization but variant
// forbids it, e.g. Cholesky with a negative diagonal below -NegThreshold)
// still aborts and reports the column via the second return value, -1 on
// full success.
func RegularizedFactor[T numeric.Scalar](a View[T], variant Variant, control RegularizationControl) (regularized int, failedAt int) {
	n := a.Rows
	d := make([]T, n)
	failedAt = -1

	for j := 0; j < n; j++ {
		var sum T
		for k := 0; k < j; k++ {
			ljk := a.At(j, k)
			switch variant {
			case Cholesky:
				sum += ljk * numeric.Conj(ljk)
			case LDLAdjoint:
				sum += ljk * numeric.Conj(ljk) * d[k]
			case LDLTranspose:
				sum += ljk * ljk * d[k]
			}
		}
		diag := a.At(j, j) - sum
		re := numeric.Real(diag)

		if re > -control.NegThreshold && re < control.PosThreshold {
			negative := re < 0
			if control.Signatures != nil {
				negative = control.Signatures[j] < 0
			}
			shifted := control.PosThreshold
			if negative {
				shifted = -control.NegThreshold
			}
			klog.V(2).InfoS("regularizing pivot", "column", j, "original", re, "shifted", shifted)
			diag = applyShift(diag, shifted, variant)
			regularized++
		} else if variant == Cholesky && re <= 0 {
			return regularized, j
		}

		switch variant {
		case Cholesky:
			ljj := numeric.Sqrt(diag)
			a.Set(j, j, ljj)
			for i := j + 1; i < n; i++ {
				var s T
				for k := 0; k < j; k++ {
					s += a.At(i, k) * numeric.Conj(a.At(j, k))
				}
				a.Set(i, j, (a.At(i, j)-s)/ljj)
			}
		case LDLAdjoint, LDLTranspose:
			d[j] = diag
			a.Set(j, j, diag)
			for i := j + 1; i < n; i++ {
				var s T
				for k := 0; k < j; k++ {
					lik := a.At(i, k)
					ljk := a.At(j, k)
					if variant == LDLAdjoint {
						s += lik * numeric.Conj(ljk) * d[k]
					} else {
						s += lik * ljk * d[k]
					}
				}
				a.Set(i, j, (a.At(i, j)-s)/diag)
			}
		}
	}
	return regularized, failedAt
}

// applyShift replaces diag's real part with shifted while leaving any
// imaginary part untouched, matching the real-axis dead-zone shift spec
// §4.3 describes (the diagonal of a Hermitian/symmetric factorization is
// always real for Cholesky and LDLAdjoint; LDLTranspose's diagonal may be
// complex and is shifted along its real axis only).
func applyShift[T numeric.Scalar](diag T, shifted float64, variant Variant) T {
	switch v := any(diag).(type) {
	case complex128:
		return any(complex(shifted, imag(v))).(T)
	default:
		return any(shifted).(T)
	}
}
