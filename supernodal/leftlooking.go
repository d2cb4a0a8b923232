package supernodal

import (
	"github.com/andreasmuller/sparseldl/coord"
	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/internal/numeric"
	"github.com/andreasmuller/sparseldl/perm"
	"github.com/andreasmuller/sparseldl/symbolic"
)

// LeftLooking is the accumulate-then-factor supernodal driver (spec
// §4.4): supernodes are visited in ascending index order (which, by
// construction of the assembly forest, is already a valid elimination
// order — every descendant has a strictly smaller index than its
// ancestors), each supernode's block first receives every update its
// already-factored descendants owe it, and only then is its own diagonal
// block factored and its panel solved.
type LeftLooking struct {
	BlockSize       int
	LapackThreshold int

	// Regularization, when non-nil, switches the diagonal-block step
	// from dense.BlockedFactor to dense.RegularizedFactor (spec §4.3
	// dynamic regularization): the block is factored unblocked rather
	// than delegated to LAPACK, since Potrf/Sytrf cannot react to a
	// dead-zone shift mid-factorization.
	Regularization *dense.RegularizationControl
}

// FactorLeftLooking assembles m (permuted by p) into a fresh LowerFactor
// according to part/structure and runs the left-looking numeric driver,
// producing variant's factorization (Cholesky, LDLAdjoint, or
// LDLTranspose). Go methods cannot carry their own type parameter beyond
// their receiver's, so the driver is a free function parameterized by the
// scalar type; LeftLooking itself only holds the non-generic block-size
// and LAPACK-delegation control knobs.
func FactorLeftLooking[T numeric.Scalar](cfg LeftLooking, m *coord.Matrix[T], part *symbolic.Partition, structure *symbolic.Structure, p perm.Permutation, variant dense.Variant) *Result[T] {
	factor := NewLowerFactor[T](part, structure)
	assemble(factor, m, p)
	descendantLists := buildDescendantLists(structure)

	result := &Result[T]{Factor: factor, Variant: variant, FailedAt: -1}
	numSupernodes := part.NumSupernodes()

	for s := 0; s < numSupernodes; s++ {
		for _, run := range descendantLists[s] {
			if run.descendant >= s {
				continue // only already-factored (strictly earlier) descendants contribute
			}
			applyDescendantUpdate(factor, s, run, variant)
		}

		diag := factor.Diag(s)
		var pivots int
		if cfg.Regularization != nil {
			local := *cfg.Regularization
			if local.Signatures != nil {
				start := part.Offset[s]
				local.Signatures = local.Signatures[start : start+part.Size[s]]
			}
			var failedAt int
			regularized, localFailedAt := dense.RegularizedFactor(diag, variant, local)
			result.Regularized += regularized
			failedAt = localFailedAt
			if failedAt >= 0 {
				pivots = failedAt
			} else {
				pivots = part.Size[s]
			}
		} else {
			pivots = dense.BlockedFactor(diag, variant, cfg.BlockSize, cfg.LapackThreshold)
		}
		result.Pivots += pivots
		if pivots < part.Size[s] {
			result.FailedAt = s
			return result
		}
		if panel := factor.Panel(s); panel.Rows > 0 {
			solvePanelAgainstDiag(panel, diag, variant)
		}
	}
	return result
}

// solvePanelAgainstDiag applies the same right-triangular panel solve
// BlockedFactor uses internally, exposed here because the left-looking
// driver factors the diagonal block and solves the panel as two separate
// steps (the panel only becomes available to solve once every descendant
// update has landed, which happens before BlockedFactor ever sees it).
func solvePanelAgainstDiag[T numeric.Scalar](panel, diag dense.View[T], variant dense.Variant) {
	dense.PanelSolveRight(panel, diag, variant)
}
