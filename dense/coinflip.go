package dense

import (
	"math"

	"github.com/andreasmuller/sparseldl/internal/numeric"
	"golang.org/x/exp/rand"
)

// CoinFlipFactor runs the DPP "coin-flipping" variant of the unblocked
// LDLᴴ/LDLᵀ factorization (Hough-Krishnapur-Peres-Virag / Poulson): at
// each column j, the just-computed Schur-complement diagonal entry d_j is
// the conditional probability that index j belongs to the sample given
// the choices already made for 0..j-1. A coin flip u ~ Uniform(0,1)
// decides inclusion: if u < min(1, Re(d_j)), j is selected and
// elimination proceeds with d_j unchanged; otherwise j is excluded and
// elimination proceeds with d_j - 1 in its place (the complementary
// kernel I - K shares the same Schur-complement recursion). Either way
// log|d_j| (post-adjustment) accumulates into the sample's log-likelihood.
//
// Cholesky is not a supported variant here: an excluded column's adjusted
// diagonal is frequently negative, which only the D-based LDL
// representation (not a Cholesky square root) can carry forward.
//
// When maximumLikelihood is true, the accept/reject coin flip is replaced
// by the deterministic rule "accept iff p > 0.5" (the maximum a
// posteriori sample given the choices made so far), and rng may be nil.
func CoinFlipFactor[T numeric.Scalar](a View[T], variant Variant, maximumLikelihood bool, rng *rand.Rand) (selected []bool, logLikelihood float64) {
	n := a.Rows
	d := make([]T, n)
	selected = make([]bool, n)

	for j := 0; j < n; j++ {
		var sum T
		for k := 0; k < j; k++ {
			ljk := a.At(j, k)
			if variant == LDLAdjoint {
				sum += ljk * numeric.Conj(ljk) * d[k]
			} else {
				sum += ljk * ljk * d[k]
			}
		}
		diag := a.At(j, j) - sum

		p := numeric.Real(diag)
		if p > 1 {
			p = 1
		} else if p < 0 {
			p = 0
		}
		if accept(p, maximumLikelihood, rng) {
			selected[j] = true
		} else {
			diag -= one[T]()
		}
		logLikelihood += math.Log(math.Abs(numeric.Real(diag)))

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
	return selected, logLikelihood
}

// CoinFlipLU runs the non-Hermitian analogue of CoinFlipFactor for dense
// L-ensemble kernels that are not symmetric: an unpivoted right-looking
// LU elimination with a coin flip against each pivot's real part as it is
// produced, rather than LAPACK-style partial pivoting (pivoting by
// magnitude would invalidate the pivot's meaning as a conditional
// inclusion probability). See CoinFlipFactor's doc comment for
// maximumLikelihood.
func CoinFlipLU[T numeric.Scalar](a View[T], maximumLikelihood bool, rng *rand.Rand) (selected []bool, logLikelihood float64) {
	n := a.Rows
	selected = make([]bool, n)

	for j := 0; j < n; j++ {
		diag := a.At(j, j)
		p := numeric.Real(diag)
		if p > 1 {
			p = 1
		} else if p < 0 {
			p = 0
		}
		if accept(p, maximumLikelihood, rng) {
			selected[j] = true
		} else {
			diag -= one[T]()
		}
		logLikelihood += math.Log(math.Abs(numeric.Real(diag)))
		a.Set(j, j, diag)

		if diag == 0 {
			continue
		}
		for i := j + 1; i < n; i++ {
			factor := a.At(i, j) / diag
			a.Set(i, j, factor)
			for k := j + 1; k < n; k++ {
				a.Set(i, k, a.At(i, k)-factor*a.At(j, k))
			}
		}
	}
	return selected, logLikelihood
}

// accept decides a single coin-flip inclusion given probability p: a
// uniform draw against p in the ordinary sampling mode, or, in
// maximum-likelihood mode, the deterministic rule obtained by substituting
// u := 0.5 into the ordinary "accept iff u < min(1, Re(d_k))" test (spec
// §4.3) — i.e. accept iff p > 0.5, strictly.
func accept(p float64, maximumLikelihood bool, rng *rand.Rand) bool {
	if maximumLikelihood {
		return p > 0.5
	}
	return rng.Float64() < p
}
