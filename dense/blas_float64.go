package dense

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// asGeneral converts a View[float64] to the zero-copy blas64.General the
// installed BLAS implementation operates on.
func asGeneral(v View[float64]) blas64.General {
	return blas64.General{Rows: v.Rows, Cols: v.Cols, Stride: v.Stride, Data: v.Data}
}

func asSymmetric(v View[float64], uplo blas.Uplo) blas64.Symmetric {
	return blas64.Symmetric{N: v.Rows, Stride: v.Stride, Data: v.Data, Uplo: uplo}
}

func asTriangular(v View[float64], uplo blas.Uplo, diag blas.Diag) blas64.Triangular {
	return blas64.Triangular{N: v.Rows, Stride: v.Stride, Data: v.Data, Uplo: uplo, Diag: diag}
}

// potrfBlocked delegates a lapackThreshold-or-larger diagonal-block Cholesky
// factorization to lapack64.Potrf (spec §4.3 "delegate to LAPACK for large
// cases when available").
func potrfBlocked(a View[float64]) int {
	_, ok := lapack64.Potrf(asSymmetric(a, blas.Lower))
	if ok {
		return a.Rows
	}
	// Potrf reports only success/failure, not the failing column; fall
	// back to the unblocked path to recover a precise pivot count on the
	// (rare, already-failing) block.
	return UnblockedFactor(a, Cholesky)
}

// sytrfBlocked delegates the diagonally pivoted LDLᴴ diagonal-block
// factorization to lapack64.Sytrf (Bunch-Kaufman), returning the row
// permutation actually applied (1-based LAPACK ipiv decoded into a 0-based
// row permutation) alongside the pivot count.
func sytrfBlocked(a View[float64]) (pivots int, rowPerm []int) {
	ipiv := make([]int, a.Rows)
	ok := lapack64.Sytrf(asSymmetric(a, blas.Lower), ipiv)
	rowPerm = decodeBunchKaufmanPivots(ipiv, a.Rows)
	if ok {
		return a.Rows, rowPerm
	}
	return UnblockedFactor(a, LDLAdjoint), rowPerm
}

// decodeBunchKaufmanPivots turns LAPACK's signed, 1-or-2-step ipiv
// encoding into a single row permutation suitable for PermuteRowsInPlace.
// Only 1x1 pivots are decoded: a 2x2 pivot (negative entries) degrades to
// a same-index swap, so when Sytrf chose a 2x2 pivot the returned
// permutation does not describe the pivoting applied (see DESIGN.md). Its
// callers are PivotedFactor and, through factorDelegated, the LDL path of
// BlockedFactor, which discards the permutation.
func decodeBunchKaufmanPivots(ipiv []int, n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < n; i++ {
		p := ipiv[i]
		if p < 0 {
			p = -p
		}
		j := p - 1
		if j != i {
			perm[i], perm[j] = perm[j], perm[i]
		}
	}
	return perm
}

func trsmLowerRight(panel, diag View[float64], unitDiagonal bool) {
	// panel := panel * diag^-T (solve X * L^T = panel from the right),
	// the subdiagonal-panel solve of spec §4.3. unitDiagonal selects the
	// LDL variants' implicit-1 diagonal (Cholesky's diagonal is the real
	// factored value, so it runs NonUnit).
	d := blas.NonUnit
	if unitDiagonal {
		d = blas.Unit
	}
	blas64.Trsm(blas.Right, blas.Trans, 1, asTriangular(diag, blas.Lower, d), asGeneral(panel))
}

func syrkLowerUpdate(trailing, panel View[float64]) {
	// trailing -= panel * panel^T (Hermitian rank-k update), exact only
	// when the scaled-transpose factor z equals panel^T itself — i.e. the
	// Cholesky variant, whose diagonal D is implicitly the identity; the
	// LDL variants' signed D has no single-operand Syrk form and keep
	// using gemmUpdateDirect.
	blas64.Syrk(blas.NoTrans, -1, asGeneral(panel), 1, asSymmetric(trailing, blas.Lower))
}

// gemmUpdateDirect computes dst -= a * b (both operands already in the
// orientation the product needs), used by the blocked kernels' trailing-
// update step where b is the already-transposed Z factor from
// ScaledTranspose.
func gemmUpdateDirect(dst, a, b View[float64]) {
	blas64.Gemm(blas.NoTrans, blas.NoTrans, -1, asGeneral(a), asGeneral(b), 1, asGeneral(dst))
}

// GemmCompute computes dst = a * b (no accumulation), the tall-panel
// forward-solve update's fast path.
func GemmCompute(dst, a, b View[float64]) {
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, asGeneral(a), asGeneral(b), 0, asGeneral(dst))
}

// GemmComputeTrans computes dst = a^T * b (adjoint == transpose for real
// data), the tall-panel backward-solve update's fast path.
func GemmComputeTrans(dst, a, b View[float64]) {
	blas64.Gemm(blas.Trans, blas.NoTrans, 1, asGeneral(a), asGeneral(b), 0, asGeneral(dst))
}
