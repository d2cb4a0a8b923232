package dpp

import (
	"golang.org/x/exp/rand"

	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/internal/numeric"
)

// NonHermitianSampler draws samples from a dense, possibly non-symmetric
// L-ensemble kernel via the coin-flipping LU factorization. Non-Hermitian
// kernels are not wired through the supernodal/sparse path: the
// retrieved pack's sparse infrastructure (symbolic analysis, supernodal
// storage) assumes a symmetric sparsity pattern, and a general
// non-symmetric kernel has no such structure to exploit, so this sampler
// works directly on a dense kernel of the caller's choosing (spec §6's
// "dense" non-Hermitian variant).
type NonHermitianSampler[T numeric.Scalar] struct{}

// Sample draws one sample from kernel (left untouched; the coin-flip
// elimination runs on an internal copy), returning which row/column
// indices were selected and the sample's log-likelihood. See
// HermitianSampler.Sample's doc comment for maximumLikelihood.
func (NonHermitianSampler[T]) Sample(kernel dense.View[T], maximumLikelihood bool, rng *rand.Rand) (selected []bool, logLikelihood float64) {
	working := dense.New[T](kernel.Rows, kernel.Cols)
	working.CopyFrom(kernel)
	return dense.CoinFlipLU(working, maximumLikelihood, rng)
}
