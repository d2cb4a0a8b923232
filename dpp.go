package sparseldl

import (
	"golang.org/x/exp/rand"

	"github.com/andreasmuller/sparseldl/coord"
	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/dpp"
	"github.com/andreasmuller/sparseldl/perm"
)

// Dpp draws repeated samples from the Hermitian determinantal point
// process with marginal kernel matrix (spec §6): each Sample call
// reanalyzes and refactors matrix via the coin-flipping supernodal LDL
// driver, since every draw's accept/reject choices change which entries
// of the factor are meaningful in a way earlier draws cannot be reused
// for.
type Dpp struct {
	matrix   *coord.Matrix[complex128]
	ordering perm.Permutation
	control  Control
	rng      *rand.Rand

	lastLogLikelihood float64
}

// NewDpp constructs a Dpp sampler over matrix under ordering, per control
// (spec's "Dpp::new(matrix, ordering, control)"; the constructor is a
// free function rather than a method on a zero Dpp value, following Go's
// NewT naming convention rather than an exported Dpp.New name Go doesn't
// have a receiver for yet). control.FactorizationType is coerced to
// LDLAdjoint when it names Cholesky, since a coin-flipping sample's
// rejected-pivot adjustment can only be carried forward in the D-based
// LDL representation. source seeds the sampler's RNG so scenarios that
// need reproducible draws can supply a fixed source.
func NewDpp(matrix *coord.Matrix[complex128], ordering perm.Permutation, control Control, source rand.Source) *Dpp {
	if control.FactorizationType == dense.Cholesky {
		control.FactorizationType = dense.LDLAdjoint
	}
	return &Dpp{
		matrix:   matrix,
		ordering: ordering,
		control:  control,
		rng:      rand.New(source),
	}
}

// Sample draws one sample from the DPP, returning the selected original
// row/column indices (spec "dpp.sample(maximum_likelihood) → Vec<Index>").
// The sample's log-likelihood is retained and available from
// LogLikelihood until the next Sample call.
func (d *Dpp) Sample(maximumLikelihood bool) []int {
	sampler := dpp.HermitianSampler[complex128]{
		AnalyzeOptions: symbolicOptions(d.control),
		FactorControl:  leftLookingConfig(d.control),
		Variant:        d.control.FactorizationType,
	}
	selected, ll := sampler.Sample(d.matrix, d.ordering, maximumLikelihood, d.rng)
	d.lastLogLikelihood = ll
	return selected
}

// LogLikelihood returns the log-likelihood of the most recent Sample call
// (spec "dpp.log_likelihood() → Real"); it is 0 before the first Sample
// call.
func (d *Dpp) LogLikelihood() float64 {
	return d.lastLogLikelihood
}
