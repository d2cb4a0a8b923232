package dense

import "github.com/andreasmuller/sparseldl/internal/numeric"

// BlockedFactor factors the n x n symmetric/Hermitian matrix a in place by
// partitioning the trailing matrix into block columns of blockSize (spec
// §4.3): factor the diagonal block, solve the subdiagonal panel against it
// from the right, and update the trailing Schur complement via a
// Hermitian rank-blockSize outer product. Diagonal blocks at or above
// lapackThreshold delegate to lapack64.Potrf when T is float64 (spec
// "delegate to LAPACK for large cases when available"); smaller blocks,
// and every block for T == complex128 (no pure-Go complex LAPACK is wired
// in — see DESIGN.md), run the unblocked path.
func BlockedFactor[T numeric.Scalar](a View[T], variant Variant, blockSize, lapackThreshold int) int {
	n := a.Rows
	pivots := 0

	for j := 0; j < n; j += blockSize {
		bs := blockSize
		if j+bs > n {
			bs = n - j
		}
		diag := a.Sub(j, j, bs, bs)

		var p int
		if bs >= lapackThreshold {
			p = factorDelegated(diag, variant)
		} else {
			p = UnblockedFactor(diag, variant)
		}
		pivots += p
		if p < bs {
			return pivots
		}

		if j+bs < n {
			panel := a.Sub(j+bs, j, n-j-bs, bs)
			PanelSolveRight(panel, diag, variant)
			trailing := a.Sub(j+bs, j+bs, n-j-bs, n-j-bs)
			z := ScaledTranspose(panel, diag, variant)
			applyRankUpdate(trailing, panel, z, variant)
		}
	}
	return pivots
}

// factorDelegated dispatches the diagonal-block factorization to
// lapack64 when T is float64, and to the unblocked path otherwise.
func factorDelegated[T numeric.Scalar](diag View[T], variant Variant) int {
	if v, ok := any(diag).(View[float64]); ok {
		switch variant {
		case Cholesky:
			return potrfBlocked(v)
		default:
			p, _ := sytrfBlocked(v)
			return p
		}
	}
	return UnblockedFactor(diag, variant)
}

// PanelSolveRight solves panel := panel * diag^-H (Cholesky, LDLAdjoint)
// or panel := panel * diag^-T (LDLTranspose) in place, following the
// column-oriented right-triangular-solve algorithm (the same recursion
// blas64.Trsm implements): at step k, scale column k by 1/diag[k,k]
// (skipped for the unit-diagonal LDL variants, whose L has an implicit 1
// on the diagonal), then eliminate column k's contribution from every
// later column. For LDL variants a second pass then divides by D (spec
// §4.3 "the panel L_pj = A_pj * L_jj^-H * D_jj^-1"). Exported so the
// supernodal left-looking driver can apply it after its own descendant
// updates land, separately from BlockedFactor's all-in-one block step.
// panelTrsmThreshold is the panel row count at or above which the scale-and-
// eliminate step of PanelSolveRight delegates to blas64.Trsm (float64
// only) instead of the direct triple loop.
const panelTrsmThreshold = 16

func PanelSolveRight[T numeric.Scalar](panel, diag View[T], variant Variant) {
	bs := diag.Rows
	unitDiagonal := variant != Cholesky
	adjoint := variant != LDLTranspose

	if v, ok := any(panel).(View[float64]); ok && panel.Rows >= panelTrsmThreshold {
		d := any(diag).(View[float64])
		trsmLowerRight(v, d, unitDiagonal)
	} else {
		for k := 0; k < bs; k++ {
			if !unitDiagonal {
				dkk := diag.At(k, k)
				for i := 0; i < panel.Rows; i++ {
					panel.Set(i, k, panel.At(i, k)/dkk)
				}
			}
			for j := k + 1; j < bs; j++ {
				ljk := diag.At(j, k)
				if adjoint {
					ljk = numeric.Conj(ljk)
				}
				for i := 0; i < panel.Rows; i++ {
					panel.Set(i, j, panel.At(i, j)-panel.At(i, k)*ljk)
				}
			}
		}
	}

	if variant != Cholesky {
		for k := 0; k < bs; k++ {
			dkk := diag.At(k, k)
			for i := 0; i < panel.Rows; i++ {
				panel.Set(i, k, panel.At(i, k)/dkk)
			}
		}
	}
}

// ScaledTranspose computes Z = D * Lᴴ (LDLAdjoint), Z = D * Lᵀ
// (LDLTranspose), or Z = Lᴴ (Cholesky, D implicitly the identity) for the
// current panel L and diagonal block holding D on its diagonal, so the
// rank-blockSize update can be applied as trailing -= L * Z without
// recomputing the transpose inside the update (spec §4.3).
func ScaledTranspose[T numeric.Scalar](panel, diag View[T], variant Variant) View[T] {
	bs, m := diag.Rows, panel.Rows
	z := New[T](bs, m)
	adjoint := variant != LDLTranspose
	for i := 0; i < bs; i++ {
		var dval T
		if variant == Cholesky {
			dval = one[T]()
		} else {
			dval = diag.At(i, i)
		}
		for k := 0; k < m; k++ {
			v := panel.At(k, i)
			if adjoint {
				v = numeric.Conj(v)
			}
			z.Set(i, k, dval*v)
		}
	}
	return z
}

func one[T numeric.Scalar]() T {
	var zero T
	switch any(zero).(type) {
	case complex128:
		return any(complex(1, 0)).(T)
	default:
		return any(float64(1)).(T)
	}
}

// applyRankUpdate performs trailing -= panel * z for float64 blocks large
// enough to be worth the call overhead, dispatching to blas64.Syrk when
// variant is Cholesky (z is exactly panel^T there, so the update is the
// Hermitian rank-k form Syrk computes directly) and to blas64.Gemm
// otherwise (the LDL variants' z carries a signed diagonal scale that
// Syrk's single-operand form cannot absorb); smaller blocks, and complex128
// always (see BlockedFactor's doc comment), run the direct triple loop.
func applyRankUpdate[T numeric.Scalar](trailing, panel, z View[T], variant Variant) {
	const gemmThreshold = 16
	if v, ok := any(trailing).(View[float64]); ok && trailing.Rows >= gemmThreshold {
		p := any(panel).(View[float64])
		if variant == Cholesky {
			syrkLowerUpdate(v, p)
			return
		}
		zz := any(z).(View[float64])
		gemmUpdateDirect(v, p, zz)
		return
	}
	m, bs := panel.Rows, panel.Cols
	for col := 0; col < m; col++ {
		for row := 0; row < m; row++ {
			var s T
			for k := 0; k < bs; k++ {
				s += panel.At(row, k) * z.At(k, col)
			}
			trailing.Set(row, col, trailing.At(row, col)-s)
		}
	}
}
