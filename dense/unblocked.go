package dense

import (
	"github.com/andreasmuller/sparseldl/internal/numeric"
)

// Variant selects which triangular factorization a kernel call produces.
type Variant int

const (
	// Cholesky factors A = L Lᴴ (SPD only).
	Cholesky Variant = iota
	// LDLAdjoint factors A = L D Lᴴ with unit-lower L and real diagonal D.
	LDLAdjoint
	// LDLTranspose factors A = L D Lᵀ with unit-lower L and diagonal D.
	LDLTranspose
)

// UnblockedFactor factors the n x n symmetric/Hermitian matrix a in place
// (only the lower triangle is read and written) according to variant,
// following the column-by-column structure of sparsem's Cholesky
// (cholesky.go: diagonal element via a running sum of squares, then the
// off-diagonal column scaled by the diagonal), generalized here to also
// produce the unit-lower-triangular LDL variants by deferring the scaling
// of each contribution by the previously computed diagonal entries.
//
// It returns the number of successful pivots: a factorization is
// considered to have failed at column k < n when the resulting diagonal
// entry is non-positive (Cholesky) or zero (LDL); in that case columns
// 0..k-1 hold valid factor data and the rest of a is left undefined, per
// spec §4.3.
func UnblockedFactor[T numeric.Scalar](a View[T], variant Variant) int {
	n := a.Rows
	d := make([]T, n) // running diagonal values for LDL variants; unused for Cholesky

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

		switch variant {
		case Cholesky:
			if numeric.Real(diag) <= 0 {
				return j
			}
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
			if diag == 0 {
				return j
			}
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
	return n
}

// UnblockedSolveUnitLower solves L y = b in place via forward substitution,
// where a's strict lower triangle holds L (unit diagonal implied for LDL
// variants, explicit diagonal for Cholesky).
func UnblockedSolveUnitLower[T numeric.Scalar](a View[T], unitDiagonal bool, b []T) {
	n := a.Rows
	for i := 0; i < n; i++ {
		var sum T
		for k := 0; k < i; k++ {
			sum += a.At(i, k) * b[k]
		}
		b[i] -= sum
		if !unitDiagonal {
			b[i] /= a.At(i, i)
		}
	}
}

// UnblockedSolveUnitUpper solves Uᴴx = y (adjoint) or Uᵀx = y (transpose)
// in place via backward substitution against the strict lower triangle of
// a, read transposed/conjugated.
func UnblockedSolveUnitUpper[T numeric.Scalar](a View[T], unitDiagonal, adjoint bool, b []T) {
	n := a.Rows
	for i := n - 1; i >= 0; i-- {
		if !unitDiagonal {
			b[i] /= a.At(i, i)
		}
		for k := 0; k < i; k++ {
			val := a.At(i, k)
			if adjoint {
				val = numeric.Conj(val)
			}
			b[k] -= val * b[i]
		}
	}
}
