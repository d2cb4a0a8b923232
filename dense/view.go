// Package dense implements the in-place blocked dense kernels that the
// supernodal factorization applies to diagonal blocks and subdiagonal
// panels: Cholesky, LDLᴴ, and LDLᵀ, their dynamically regularized and
// diagonally pivoted variants, and the DPP coin-flip variant, plus the
// supporting scaled-transpose, Hermitian rank-k update, and permutation
// kernels (spec §4.3).
//
// All kernels operate on View, a column-major rectangular view with an
// explicit leading dimension (Stride) — the same memory layout
// gonum.org/v1/gonum/blas/blas64.General uses, so a View over float64 data
// converts to a blas64.General at zero cost (see blas_float64.go).
// Diagonal blocks at or above the lapackThreshold argument
// (Control.LapackThreshold) delegate to lapack64 when T is float64; other
// blocks run the unblocked Go loops below, generalized from the
// column-by-column structure of sparsem's Cholesky (cholesky.go).
package dense

import (
	"fmt"

	"github.com/andreasmuller/sparseldl/internal/numeric"
)

// View is a column-major Rows x Cols matrix view with leading dimension
// Stride: element (i, j) lives at Data[j*Stride+i].
type View[T numeric.Scalar] struct {
	Rows, Cols, Stride int
	Data               []T
}

// New allocates a dense Rows x Cols view with Stride == Rows.
func New[T numeric.Scalar](rows, cols int) View[T] {
	return View[T]{Rows: rows, Cols: cols, Stride: rows, Data: make([]T, rows*cols)}
}

// At returns element (i, j).
func (v View[T]) At(i, j int) T { return v.Data[j*v.Stride+i] }

// Set assigns element (i, j).
func (v View[T]) Set(i, j int, x T) { v.Data[j*v.Stride+i] = x }

// Col returns the backing slice of column j.
func (v View[T]) Col(j int) []T { return v.Data[j*v.Stride : j*v.Stride+v.Rows] }

// Sub returns a Rows x Cols sub-view starting at (rowOff, colOff), sharing
// the parent's backing array.
func (v View[T]) Sub(rowOff, colOff, rows, cols int) View[T] {
	if rowOff < 0 || colOff < 0 || rowOff+rows > v.Rows || colOff+cols > v.Cols {
		panic(fmt.Sprintf("dense: Sub(%d,%d,%d,%d) out of bounds for %dx%d view", rowOff, colOff, rows, cols, v.Rows, v.Cols))
	}
	return View[T]{Rows: rows, Cols: cols, Stride: v.Stride, Data: v.Data[colOff*v.Stride+rowOff:]}
}

// Zero overwrites every entry with the zero value.
func (v View[T]) Zero() {
	for j := 0; j < v.Cols; j++ {
		col := v.Col(j)
		for i := range col[:v.Rows] {
			col[i] = 0
		}
	}
}

// CopyFrom copies src into v, which must have matching dimensions.
func (v View[T]) CopyFrom(src View[T]) {
	for j := 0; j < v.Cols; j++ {
		dstCol, srcCol := v.Col(j), src.Col(j)
		copy(dstCol[:v.Rows], srcCol[:v.Rows])
	}
}

// PermuteRowsInPlace reorders rows according to perm, where the new row i
// takes the old row perm[i] (used by diagonally pivoted LDL to apply the
// accumulated row/column swaps, and by solve to apply a per-supernode
// pivot permutation).
func PermuteRowsInPlace[T numeric.Scalar](v View[T], p []int) {
	scratch := make([]T, v.Rows)
	for j := 0; j < v.Cols; j++ {
		col := v.Col(j)
		for i := 0; i < v.Rows; i++ {
			scratch[i] = col[p[i]]
		}
		copy(col[:v.Rows], scratch)
	}
}

// PermuteColsInPlace reorders columns according to perm, where the new
// column j takes the old column perm[j].
func PermuteColsInPlace[T numeric.Scalar](v View[T], p []int) {
	scratch := New[T](v.Rows, v.Cols)
	for j := 0; j < v.Cols; j++ {
		copy(scratch.Col(j)[:v.Rows], v.Col(p[j])[:v.Rows])
	}
	v.CopyFrom(scratch)
}
