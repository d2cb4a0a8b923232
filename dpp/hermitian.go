// Package dpp implements determinantal point process sampling on top of
// the supernodal and dense factorization kernels: HermitianSampler draws
// a sample from a sparse Hermitian (or real symmetric) L-ensemble kernel
// via the supernodal coin-flipping LDL factorization, and
// NonHermitianSampler draws from a dense, possibly non-symmetric kernel
// via the coin-flipping LU factorization (spec §6).
package dpp

import (
	"golang.org/x/exp/rand"

	"github.com/andreasmuller/sparseldl/coord"
	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/internal/numeric"
	"github.com/andreasmuller/sparseldl/perm"
	"github.com/andreasmuller/sparseldl/supernodal"
	"github.com/andreasmuller/sparseldl/symbolic"
)

// HermitianSampler draws samples from a sparse Hermitian/symmetric
// L-ensemble kernel matrix, reanalyzing and refactoring the kernel (via
// the coin-flipping supernodal LDL driver) on every call to Sample, since
// each sample's accept/reject coin flips change which entries of the
// factor are meaningful in a way that cannot be reused across draws.
type HermitianSampler[T numeric.Scalar] struct {
	AnalyzeOptions symbolic.Options
	FactorControl  supernodal.LeftLooking
	// Variant selects LDLAdjoint (Hermitian) or LDLTranspose (real
	// symmetric). dense.CoinFlipFactor does not check it: any value other
	// than LDLAdjoint, Cholesky included, runs the LDLᵀ recurrence.
	Variant dense.Variant
}

// Sample draws one sample from the kernel m under permutation p (the
// same fill-reducing ordering a corresponding Factor call would use), and
// returns which of m's original column indices were selected, alongside
// the sample's log-likelihood (sum of log|d_k| across every diagonal
// pivot produced, adjusted or not). When maximumLikelihood is true, each
// column's accept/reject coin flip is replaced by the deterministic
// majority rule (spec §6 dpp.sample(maximum_likelihood)) and rng may be
// nil.
func (s HermitianSampler[T]) Sample(m *coord.Matrix[T], p perm.Permutation, maximumLikelihood bool, rng *rand.Rand) (selected []int, logLikelihood float64) {
	pattern := symbolic.PatternFromMatrix(m, p)
	analysis := symbolic.Analyze(pattern, s.AnalyzeOptions)
	result := supernodal.FactorCoinFlip(s.FactorControl, m, analysis.Partition, analysis.Structure, p, s.Variant, maximumLikelihood, rng)
	return toOriginalIndices(result.Selected, p), result.LogLikelihood
}

func toOriginalIndices(selected []bool, p perm.Permutation) []int {
	var out []int
	for i, sel := range selected {
		if !sel {
			continue
		}
		orig := i
		if len(p.Perm) > 0 {
			orig = p.Perm[i]
		}
		out = append(out, orig)
	}
	return out
}
