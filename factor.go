// Package sparseldl ties the coordinate matrix, symbolic analysis, dense
// block kernels, supernodal numeric factorization, supernodal solve, and
// DPP sampler packages together behind the three entry points spec §6
// describes: Factor, Solve, and Refactor, plus the Dpp wrapper in dpp.go.
package sparseldl

import (
	"fmt"
	"math"
	"runtime"

	"github.com/andreasmuller/sparseldl/coord"
	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/perm"
	"github.com/andreasmuller/sparseldl/supernodal"
	"github.com/andreasmuller/sparseldl/symbolic"
)

// Factorization is the persistent result of a successful (or
// partially successful) Factor call: the symbolic analysis, the numeric
// factor itself, and the bookkeeping Refactor needs to decide whether the
// sparsity pattern is unchanged and the symbolic phase can be reused.
type Factorization struct {
	control    Control
	ordering   perm.Permutation
	numRows    int
	numCols    int
	numEntries int

	analysis *symbolic.Analysis
	factor   *supernodal.LowerFactor[complex128]
	variant  dense.Variant
}

// Result is the outcome of a Factor/Refactor call (spec §7): numerical
// failure and regularization are always carried here as values, never as
// errors.
type Result struct {
	Pivots      int
	FailedAt    int // supernode index of the first failed pivot, -1 on full success
	Regularized int // number of dead-zone pivot shifts applied
}

// Factor computes one of Cholesky, LDLAdjoint, or LDLTranspose of
// P*matrix*Pᵀ under the fill-reducing permutation ordering, per control.
// Structural errors (non-square matrix, a non-identity permutation whose
// length disagrees with matrix) abort the call and are returned as the
// third value; numerical failure and regularization are reported in
// Result, never as an error.
func Factor(matrix *coord.Matrix[complex128], ordering perm.Permutation, control Control) (f *Factorization, result Result, err error) {
	n := matrix.NumRows()
	if n != matrix.NumCols() {
		return nil, Result{}, fmt.Errorf("sparseldl: %w", ErrNonSquare)
	}
	if verr := ordering.Validate(n); verr != nil {
		return nil, Result{}, fmt.Errorf("sparseldl: %w: %v", ErrPermutationLength, verr)
	}

	// The symbolic and numeric phases allocate buffers sized by fill-in,
	// which for an adversarial ordering can run far beyond the input
	// matrix's own size; a failed allocation surfaces from Go's runtime as
	// a panic, not an error, so it is recovered here and reported as
	// ErrAllocation per spec §7's "Resource" failure mode rather than
	// crashing the caller's process.
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); ok {
				f, result, err = nil, Result{}, fmt.Errorf("sparseldl: %w: %v", ErrAllocation, r)
				return
			}
			panic(r)
		}
	}()

	pattern := symbolic.PatternFromMatrix(matrix, ordering)
	analysis := symbolic.Analyze(pattern, symbolicOptions(control))

	driver := control.Algorithm
	if control.DynamicRegularization.Enabled {
		driver = AlgorithmLeftLooking
	}

	var outcome *supernodal.Result[complex128]
	switch driver {
	case AlgorithmRightLooking:
		outcome = supernodal.FactorRightLooking(rightLookingConfig(control), matrix, analysis.Partition, analysis.Assembly, analysis.Structure, ordering, control.FactorizationType)
	case AlgorithmLeftLooking:
		outcome = supernodal.FactorLeftLooking(leftLookingConfig(control), matrix, analysis.Partition, analysis.Structure, ordering, control.FactorizationType)
	default: // AlgorithmAdaptive
		outcome = supernodal.FactorAdaptive(adaptiveConfig(control), matrix, analysis.Partition, analysis.Assembly, analysis.Structure, ordering, control.FactorizationType)
	}

	f = &Factorization{
		control:    control,
		ordering:   ordering,
		numRows:    n,
		numCols:    matrix.NumCols(),
		numEntries: matrix.NumEntries(),
		analysis:   analysis,
		factor:     outcome.Factor,
		variant:    control.FactorizationType,
	}
	result = Result{Pivots: outcome.Pivots, FailedAt: outcome.FailedAt, Regularized: outcome.Regularized}
	return f, result, nil
}

// Refactor reuses factorization's symbolic analysis when matrix's
// sparsity pattern is structurally unchanged from the one Factor last
// analyzed (same dimensions and entry count — spec §6 "reuses the existing
// symbolic phase when the sparsity pattern is unchanged"), and otherwise
// falls back to a full re-Factor. It mutates factorization's numeric
// factor in place and returns the new Result.
func Refactor(factorization *Factorization, matrix *coord.Matrix[complex128]) (result Result, err error) {
	if matrix.NumRows() != factorization.numRows || matrix.NumCols() != factorization.numCols || matrix.NumEntries() != factorization.numEntries {
		refreshed, result, err := Factor(matrix, factorization.ordering, factorization.control)
		if err != nil {
			return Result{}, err
		}
		*factorization = *refreshed
		return result, nil
	}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); ok {
				result, err = Result{}, fmt.Errorf("sparseldl: %w: %v", ErrAllocation, r)
				return
			}
			panic(r)
		}
	}()

	control := factorization.control
	var outcome *supernodal.Result[complex128]
	switch {
	case control.DynamicRegularization.Enabled:
		outcome = supernodal.FactorLeftLooking(leftLookingConfig(control), matrix, factorization.analysis.Partition, factorization.analysis.Structure, factorization.ordering, control.FactorizationType)
	case control.Algorithm == AlgorithmRightLooking:
		outcome = supernodal.FactorRightLooking(rightLookingConfig(control), matrix, factorization.analysis.Partition, factorization.analysis.Assembly, factorization.analysis.Structure, factorization.ordering, control.FactorizationType)
	case control.Algorithm == AlgorithmLeftLooking:
		outcome = supernodal.FactorLeftLooking(leftLookingConfig(control), matrix, factorization.analysis.Partition, factorization.analysis.Structure, factorization.ordering, control.FactorizationType)
	default:
		outcome = supernodal.FactorAdaptive(adaptiveConfig(control), matrix, factorization.analysis.Partition, factorization.analysis.Assembly, factorization.analysis.Structure, factorization.ordering, control.FactorizationType)
	}
	factorization.factor = outcome.Factor
	factorization.numEntries = matrix.NumEntries()
	return Result{Pivots: outcome.Pivots, FailedAt: outcome.FailedAt, Regularized: outcome.Regularized}, nil
}

func symbolicOptions(control Control) symbolic.Options {
	if !control.RelaxSupernodes {
		return symbolic.Options{}
	}
	return symbolic.Options{
		AllowableZeros:     control.AllowableSupernodeZeros,
		AllowableZeroRatio: control.AllowableSupernodeZeroRatio,
	}
}

func leftLookingConfig(control Control) supernodal.LeftLooking {
	cfg := supernodal.LeftLooking{BlockSize: control.BlockSize, LapackThreshold: control.LapackThreshold}
	if control.DynamicRegularization.Enabled {
		regCtrl := regularizationControl(control.DynamicRegularization)
		cfg.Regularization = &regCtrl
	}
	return cfg
}

func rightLookingConfig(control Control) supernodal.RightLooking {
	return supernodal.RightLooking{
		BlockSize:       control.BlockSize,
		LapackThreshold: control.LapackThreshold,
		MinParallelWork: control.ParallelWorkMin,
	}
}

func adaptiveConfig(control Control) supernodal.Adaptive {
	return supernodal.Adaptive{
		LeftLooking:     leftLookingConfig(control),
		RightLooking:    rightLookingConfig(control),
		ParallelWorkMin: control.ParallelWorkMin,
	}
}

// regularizationControl converts the exponent-based spec §6 knobs into the
// absolute dense.RegularizationControl thresholds dense.RegularizedFactor
// expects: an exponent e denotes a threshold of 2^e. Signatures passes
// through unchanged (FactorLeftLooking hands each supernode's slice of it
// to dense.RegularizedFactor). Relative
// is accepted on DynamicRegularization but not wired here — see DESIGN.md
// Open Questions — since scaling the exponent by a matrix norm would need
// a quantity (the matrix's own magnitude) this conversion has no access to
// and no SPEC_FULL.md scenario exercises the distinction.
func regularizationControl(dr DynamicRegularization) dense.RegularizationControl {
	pos := exponentToThreshold(dr.PositiveThresholdExponent)
	neg := exponentToThreshold(dr.NegativeThresholdExponent)
	return dense.RegularizationControl{PosThreshold: pos, NegThreshold: neg, Signatures: dr.Signatures}
}

func exponentToThreshold(exponent float64) float64 {
	return math.Pow(2, exponent)
}
