package supernodal

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/internal/numeric"
	"github.com/andreasmuller/sparseldl/perm"
	"github.com/andreasmuller/sparseldl/symbolic"
)

// Solve applies the sequence forward solve, diagonal solve (LDL variants
// only), backward solve, permute-back (spec §4.5) to rhs (n rows, one
// column per right-hand side) using factor and the same permutation p
// that produced it, returning a freshly allocated result. forwardThreshold
// and backwardThreshold are the panel row counts (spec §6
// forward/backward_solve_out_of_place_supernode_threshold) at or above
// which the forward/backward panel update delegates to blas64.Gemm (via
// an out-of-place gather/compute/scatter, since the right-hand side is
// stored row-major and a supernode's panel rows are not contiguous in it)
// instead of the direct triple loop.
func Solve[T numeric.Scalar](factor *LowerFactor[T], variant dense.Variant, p perm.Permutation, rhs [][]T, forwardThreshold, backwardThreshold int) [][]T {
	permuted := perm.PermuteRows(p, rhs)
	x := make([][]T, len(permuted))
	for i := range x {
		x[i] = append([]T(nil), permuted[i]...)
	}

	forwardSolve(factor, variant, x, forwardThreshold)
	if variant != dense.Cholesky {
		diagonalSolve(factor, x)
	}
	backwardSolve(factor, variant, x, backwardThreshold)

	back := perm.PermuteRowsInverse(p, x)
	out := make([][]T, len(back))
	for i := range out {
		out[i] = append([]T(nil), back[i]...)
	}
	return out
}

func forwardSolve[T numeric.Scalar](factor *LowerFactor[T], variant dense.Variant, x [][]T, threshold int) {
	part := factor.Partition
	unitDiagonal := variant != dense.Cholesky
	for s := 0; s < part.NumSupernodes(); s++ {
		diag := factor.Diag(s)
		off, sz := part.Offset[s], part.Size[s]
		for col := 0; col < numCols(x); col++ {
			b := gatherColumn(x, off, sz, col)
			dense.UnblockedSolveUnitLower(diag, unitDiagonal, b)
			scatterColumn(x, off, sz, col, b)
		}
		panel := factor.Panel(s)
		if panel.Rows > 0 {
			updatePanelForward(factor, s, panel, x, threshold)
		}
	}
}

func backwardSolve[T numeric.Scalar](factor *LowerFactor[T], variant dense.Variant, x [][]T, threshold int) {
	part := factor.Partition
	adjoint := variant != dense.LDLTranspose
	unitDiagonal := variant != dense.Cholesky
	for s := part.NumSupernodes() - 1; s >= 0; s-- {
		panel := factor.Panel(s)
		if panel.Rows > 0 {
			updatePanelBackward(factor, s, panel, x, adjoint, threshold)
		}
		diag := factor.Diag(s)
		off, sz := part.Offset[s], part.Size[s]
		for col := 0; col < numCols(x); col++ {
			b := gatherColumn(x, off, sz, col)
			dense.UnblockedSolveUnitUpper(diag, unitDiagonal, adjoint, b)
			scatterColumn(x, off, sz, col, b)
		}
	}
}

func diagonalSolve[T numeric.Scalar](factor *LowerFactor[T], x [][]T) {
	d := DiagonalFactor[T]{Factor: factor}
	n := len(x)
	for i := 0; i < n; i++ {
		dii := d.At(i)
		row := x[i]
		for c := range row {
			row[c] /= dii
		}
	}
}

func numCols[T any](x [][]T) int {
	if len(x) == 0 {
		return 0
	}
	return len(x[0])
}

func gatherColumn[T numeric.Scalar](x [][]T, off, sz, col int) []T {
	b := make([]T, sz)
	for i := 0; i < sz; i++ {
		b[i] = x[off+i][col]
	}
	return b
}

func scatterColumn[T numeric.Scalar](x [][]T, off, sz, col int, b []T) {
	for i := 0; i < sz; i++ {
		x[off+i][col] = b[i]
	}
}

// updatePanelForward subtracts the panel's contribution from the rows it
// points to: x[r] -= panel[localRow(r), :] * x_s, for every panel row r.
// Panels at or above threshold gather x_s into a dense buffer and
// delegate to blas64.Gemm for T == float64; smaller panels run the direct
// loop.
func updatePanelForward[T numeric.Scalar](factor *LowerFactor[T], s int, panel dense.View[T], x [][]T, threshold int) {
	part := factor.Partition
	off, sz := part.Offset[s], part.Size[s]
	nrhs := len(x[0])
	rows := factor.Structure.Rows[s]

	xs := dense.New[T](sz, nrhs)
	for i := 0; i < sz; i++ {
		for c := 0; c < nrhs; c++ {
			xs.Set(i, c, x[off+i][c])
		}
	}

	delta := dense.New[T](panel.Rows, nrhs)
	if v, ok := any(panel).(dense.View[float64]); ok && panel.Rows >= threshold {
		xsF := any(xs).(dense.View[float64])
		deltaF := any(delta).(dense.View[float64])
		dense.GemmCompute(deltaF, v, xsF)
	} else {
		for i := 0; i < panel.Rows; i++ {
			for c := 0; c < nrhs; c++ {
				var sum T
				for k := 0; k < sz; k++ {
					sum += panel.At(i, k) * xs.At(k, c)
				}
				delta.Set(i, c, sum)
			}
		}
	}

	for i, r := range rows {
		for c := 0; c < nrhs; c++ {
			x[r][c] -= delta.At(i, c)
		}
	}
}

// updatePanelBackward accumulates the panel rows' current values back
// into s's own system before the triangular solve: x_s -= panel^H * x_panel
// (adjoint) or panel^T * x_panel (transpose).
func updatePanelBackward[T numeric.Scalar](factor *LowerFactor[T], s int, panel dense.View[T], x [][]T, adjoint bool, threshold int) {
	part := factor.Partition
	off, sz := part.Offset[s], part.Size[s]
	nrhs := len(x[0])
	rows := factor.Structure.Rows[s]

	xPanel := dense.New[T](panel.Rows, nrhs)
	for i, r := range rows {
		for c := 0; c < nrhs; c++ {
			xPanel.Set(i, c, x[r][c])
		}
	}

	delta := dense.New[T](sz, nrhs)
	if v, ok := any(panel).(dense.View[float64]); ok && panel.Rows >= threshold {
		xpF := any(xPanel).(dense.View[float64])
		deltaF := any(delta).(dense.View[float64])
		dense.GemmComputeTrans(deltaF, v, xpF)
	} else {
		for i := 0; i < sz; i++ {
			for c := 0; c < nrhs; c++ {
				var sum T
				for k := 0; k < panel.Rows; k++ {
					pv := panel.At(k, i)
					if adjoint {
						pv = numeric.Conj(pv)
					}
					sum += pv * xPanel.At(k, c)
				}
				delta.Set(i, c, sum)
			}
		}
	}

	for i := 0; i < sz; i++ {
		for c := 0; c < nrhs; c++ {
			x[off+i][c] -= delta.At(i, c)
		}
	}
}

// SolveParallel is Solve's multi-threaded variant: the assembly forest's
// root subtrees are structurally independent (fill never crosses between
// them, since a row's ancestors are always reached by walking up its own
// tree), so each root's full forward/diagonal/backward pass runs in its
// own goroutine via golang.org/x/sync/errgroup, sharing a sync.Pool of
// gather buffers to keep allocation off the hot path across the many
// small supernodes near the leaves. forwardThreshold/backwardThreshold are
// the same panel-size thresholds Solve takes.
func SolveParallel[T numeric.Scalar](factor *LowerFactor[T], assembly *symbolic.AssemblyForest, variant dense.Variant, p perm.Permutation, rhs [][]T, forwardThreshold, backwardThreshold int) [][]T {
	permuted := perm.PermuteRows(p, rhs)
	x := make([][]T, len(permuted))
	for i := range x {
		x[i] = append([]T(nil), permuted[i]...)
	}

	pool := sync.Pool{New: func() any { return make([]T, 0, 64) }}
	unitDiagonal := variant != dense.Cholesky
	adjoint := variant != dense.LDLTranspose

	g, _ := errgroup.WithContext(context.Background())
	for _, root := range assembly.Roots() {
		root := root
		g.Go(func() error {
			order := subtreeOrder(assembly, root)
			for _, s := range order {
				diag := factor.Diag(s)
				off, sz := factor.Partition.Offset[s], factor.Partition.Size[s]
				for col := 0; col < numCols(x); col++ {
					b := poolGet(&pool, sz)
					for i := 0; i < sz; i++ {
						b[i] = x[off+i][col]
					}
					dense.UnblockedSolveUnitLower(diag, unitDiagonal, b)
					for i := 0; i < sz; i++ {
						x[off+i][col] = b[i]
					}
					pool.Put(b[:0])
				}
				if panel := factor.Panel(s); panel.Rows > 0 {
					updatePanelForward(factor, s, panel, x, forwardThreshold)
				}
			}
			if variant != dense.Cholesky {
				d := DiagonalFactor[T]{Factor: factor}
				for _, s := range order {
					off, sz := factor.Partition.Offset[s], factor.Partition.Size[s]
					for i := 0; i < sz; i++ {
						dii := d.At(off + i)
						for c := range x[off+i] {
							x[off+i][c] /= dii
						}
					}
				}
			}
			for i := len(order) - 1; i >= 0; i-- {
				s := order[i]
				if panel := factor.Panel(s); panel.Rows > 0 {
					updatePanelBackward(factor, s, panel, x, adjoint, backwardThreshold)
				}
				diag := factor.Diag(s)
				off, sz := factor.Partition.Offset[s], factor.Partition.Size[s]
				for col := 0; col < numCols(x); col++ {
					b := poolGet(&pool, sz)
					for k := 0; k < sz; k++ {
						b[k] = x[off+k][col]
					}
					dense.UnblockedSolveUnitUpper(diag, unitDiagonal, adjoint, b)
					for k := 0; k < sz; k++ {
						x[off+k][col] = b[k]
					}
					pool.Put(b[:0])
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	back := perm.PermuteRowsInverse(p, x)
	out := make([][]T, len(back))
	for i := range out {
		out[i] = append([]T(nil), back[i]...)
	}
	return out
}

func poolGet[T numeric.Scalar](pool *sync.Pool, n int) []T {
	b := pool.Get().([]T)
	if cap(b) < n {
		return make([]T, n)
	}
	return b[:n]
}

// subtreeOrder returns root's subtree in postorder: a depth-first walk
// that lists each supernode's children (in ChildrenOf order) before the
// supernode itself, so every descendant precedes its ancestors.
func subtreeOrder(assembly *symbolic.AssemblyForest, root int) []int {
	var order []int
	var visit func(s int)
	visit = func(s int) {
		for _, c := range assembly.ChildrenOf(s) {
			visit(c)
		}
		order = append(order, s)
	}
	visit(root)
	return order
}
