package dense

import "github.com/andreasmuller/sparseldl/internal/numeric"

// PivotedFactor factors the n x n symmetric/Hermitian matrix a in place
// using a diagonally pivoted LDLᴴ/LDLᵀ (Bunch-Kaufman style, restricted to
// 1x1 pivots — see decodeBunchKaufmanPivots's doc comment for how a 2x2
// pivot chosen by Sytrf is decoded), returning the row/column permutation applied
// (perm[i] is the original index now occupying position i) and the pivot
// count. Blocks at or above lapackThreshold delegate to lapack64.Sytrf
// for T == float64; everything else runs the pure-Go fallback below.
func PivotedFactor[T numeric.Scalar](a View[T], variant Variant, lapackThreshold int) (perm []int, pivots int) {
	if v, ok := any(a).(View[float64]); ok && a.Rows >= lapackThreshold {
		p, rowPerm := sytrfBlocked(v)
		return rowPerm, p
	}
	return pivotedUnblocked(a, variant)
}

func pivotedUnblocked[T numeric.Scalar](a View[T], variant Variant) ([]int, int) {
	n := a.Rows
	adjoint := variant == LDLAdjoint
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	for j := 0; j < n; j++ {
		best := j
		bestMag := numeric.Abs(a.At(j, j))
		for i := j + 1; i < n; i++ {
			m := numeric.Abs(a.At(i, i))
			if m > bestMag {
				bestMag, best = m, i
			}
		}
		if best != j {
			swapSymmetric(a, j, best, adjoint)
			perm[j], perm[best] = perm[best], perm[j]
		}

		diag := a.At(j, j)
		if diag == 0 {
			return perm, j
		}
		for i := j + 1; i < n; i++ {
			a.Set(i, j, a.At(i, j)/diag)
		}
		for k := j + 1; k < n; k++ {
			ljk := a.At(k, j)
			factor := ljk
			if adjoint {
				factor = numeric.Conj(ljk)
			}
			for i := k; i < n; i++ {
				a.Set(i, k, a.At(i, k)-a.At(i, j)*factor*diag)
			}
		}
	}
	return perm, n
}

// sym reads the logical (i, j) entry of the symmetric/Hermitian matrix a,
// which physically stores only its lower triangle (i >= j), mirroring
// (conjugating, for adjoint) across the diagonal for i < j.
func sym[T numeric.Scalar](a View[T], i, j int, adjoint bool) T {
	if i >= j {
		return a.At(i, j)
	}
	v := a.At(j, i)
	if adjoint {
		return numeric.Conj(v)
	}
	return v
}

func setSym[T numeric.Scalar](a View[T], i, j int, v T, adjoint bool) {
	if i >= j {
		a.Set(i, j, v)
		return
	}
	if adjoint {
		v = numeric.Conj(v)
	}
	a.Set(j, i, v)
}

// swapSymmetric applies the symmetric row/column permutation that swaps
// indices p and q simultaneously, the elementary step diagonal pivoting
// repeats to bring the largest remaining diagonal entry to the current
// position.
func swapSymmetric[T numeric.Scalar](a View[T], p, q int, adjoint bool) {
	if p == q {
		return
	}
	if p > q {
		p, q = q, p
	}
	n := a.Rows
	dp, dq := a.At(p, p), a.At(q, q)
	a.Set(p, p, dq)
	a.Set(q, q, dp)
	for r := 0; r < n; r++ {
		if r == p || r == q {
			continue
		}
		vp := sym(a, r, p, adjoint)
		vq := sym(a, r, q, adjoint)
		setSym(a, r, p, vq, adjoint)
		setSym(a, r, q, vp, adjoint)
	}
}
