package supernodal

import (
	"golang.org/x/exp/rand"

	"github.com/andreasmuller/sparseldl/coord"
	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/internal/numeric"
	"github.com/andreasmuller/sparseldl/perm"
	"github.com/andreasmuller/sparseldl/symbolic"
)

// CoinFlipResult is the outcome of a supernodal DPP sample: which of the
// n columns, in factorization (permuted) order, were selected, and the
// sample's log-likelihood
// (spec §6 "the log-likelihood is the sum of log|d_k| over the diagonal
// entries produced during factorization").
type CoinFlipResult[T numeric.Scalar] struct {
	Factor        *LowerFactor[T]
	Selected      []bool
	LogLikelihood float64
}

// FactorCoinFlip runs the left-looking driver's descendant-update
// bookkeeping with dense.CoinFlipFactor in place of dense.BlockedFactor
// at each supernode's diagonal step, extending the DPP coin-flipping
// sampler (spec §6, catamari's Poulson algorithm — see dense.CoinFlipFactor's
// doc comment) from a single dense block to a full sparse supernodal
// factorization: descendant updates land exactly as they do for an
// ordinary LDL factorization, only the diagonal step's accept/reject
// coin flip and its d_k -1 adjustment on rejection differ.
func FactorCoinFlip[T numeric.Scalar](cfg LeftLooking, m *coord.Matrix[T], part *symbolic.Partition, structure *symbolic.Structure, p perm.Permutation, variant dense.Variant, maximumLikelihood bool, rng *rand.Rand) *CoinFlipResult[T] {
	factor := NewLowerFactor[T](part, structure)
	assemble(factor, m, p)
	descendantLists := buildDescendantLists(structure)

	n := len(part.MemberToIndex)
	selected := make([]bool, n)
	var logLikelihood float64

	for s := 0; s < part.NumSupernodes(); s++ {
		for _, run := range descendantLists[s] {
			if run.descendant >= s {
				continue
			}
			applyDescendantUpdate(factor, s, run, variant)
		}

		diag := factor.Diag(s)
		localSelected, ll := dense.CoinFlipFactor(diag, variant, maximumLikelihood, rng)
		logLikelihood += ll
		off := part.Offset[s]
		for i, sel := range localSelected {
			selected[off+i] = sel
		}

		if panel := factor.Panel(s); panel.Rows > 0 {
			dense.PanelSolveRight(panel, diag, variant)
		}
	}

	return &CoinFlipResult[T]{Factor: factor, Selected: selected, LogLikelihood: logLikelihood}
}
