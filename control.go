package sparseldl

import (
	"github.com/andreasmuller/sparseldl/dense"
)

// Algorithm selects the numeric factorization driver.
type Algorithm int

const (
	// AlgorithmLeftLooking accumulates descendant updates before
	// factoring each supernode.
	AlgorithmLeftLooking Algorithm = iota
	// AlgorithmRightLooking factors each supernode as soon as its
	// subtree is complete and scatters its contribution to ancestors,
	// parallelizing sibling subtrees via errgroup.
	AlgorithmRightLooking
	// AlgorithmAdaptive picks LeftLooking or RightLooking per call based
	// on the assembly forest's estimated total work.
	AlgorithmAdaptive
)

// SupernodalStrategy selects how columns are grouped before factoring.
type SupernodalStrategy int

const (
	// Scalar names column-at-a-time factorization. Factor does not read
	// Strategy: it builds the fundamental (optionally relaxed) supernode
	// partition for every value, so Scalar factors exactly as Supernodal
	// does.
	Scalar SupernodalStrategy = iota
	// Supernodal groups columns into fundamental (optionally relaxed)
	// supernodes before factoring.
	Supernodal
	// StrategyAdaptive names a per-call choice between Scalar and
	// Supernodal; no such choice is made, since Factor does not read
	// Strategy and always builds supernodes.
	StrategyAdaptive
)

// DynamicRegularization controls the dead-zone pivot shifting that keeps a
// near-singular factorization from failing outright (spec §4.3, §7).
type DynamicRegularization struct {
	Enabled                   bool
	PositiveThresholdExponent float64
	NegativeThresholdExponent float64
	Relative                  bool
	// Signatures, when non-nil, gives the caller-supplied expected sign
	// (+1/-1) of each diagonal entry in factorization order; a pivot inside
	// the dead zone is shifted to the boundary matching its signature
	// rather than its own sign. Left nil, the shift follows the pivot's own
	// sign.
	Signatures []int
}

// Control holds every tunable knob the factorization, solve, and DPP
// entry points read, mirroring spec §6's enumerated Control surface.
// DefaultControl fills in the documented defaults; a caller may start from
// DefaultControl() and override only the fields that matter to them.
// Factor and NewDpp use the Control they are given as is (NewDpp only
// swaps a Cholesky FactorizationType for LDLAdjoint): they do not merge it
// over the defaults, so fields left at their zero value stay zero.
type Control struct {
	FactorizationType dense.Variant
	Algorithm         Algorithm
	Strategy          SupernodalStrategy

	RelaxSupernodes             bool
	AllowableSupernodeZeros     int
	AllowableSupernodeZeroRatio float64

	BlockSize int
	TileSize  int

	DynamicRegularization DynamicRegularization

	SupernodalPivoting bool

	ForwardSolveOutOfPlaceSupernodeThreshold  int
	BackwardSolveOutOfPlaceSupernodeThreshold int

	// LapackThreshold is the diagonal-block size at or above which dense
	// kernels delegate to LAPACK (float64 only) instead of the pure-Go
	// unblocked kernel; not named in spec §6 but required by the dense
	// package's BlockedFactor/PivotedFactor signatures,
	// so it is folded into Control rather than hardcoded (see DESIGN.md
	// Open Questions).
	LapackThreshold int

	// ParallelWorkMin is the total estimated flop count at or above which
	// AlgorithmAdaptive picks RightLooking over LeftLooking, and at or
	// above which RightLooking itself parallelizes a subtree rather than
	// running it sequentially (spec §4.4.3's min_parallel_work); TileSize
	// is spec-named but the actual scheduling granularity this engine
	// uses is a work estimate, not a fixed tile count, so ParallelWorkMin
	// is the concrete knob and TileSize is retained for API fidelity
	// (see DESIGN.md Open Questions).
	ParallelWorkMin int64
}

// DefaultControl returns the documented defaults (spec §6, concrete
// values resolved as an Open Question — see DESIGN.md): Cholesky
// factorization, the adaptive driver, full (unrelaxed) fundamental
// supernodes, block_size 128, tile_size 32, dynamic regularization
// disabled, and no supernodal pivoting.
func DefaultControl() Control {
	return Control{
		FactorizationType: dense.Cholesky,
		Algorithm:         AlgorithmAdaptive,
		Strategy:          Supernodal,

		RelaxSupernodes:             false,
		AllowableSupernodeZeros:     0,
		AllowableSupernodeZeroRatio: 0,

		BlockSize: 128,
		TileSize:  32,

		DynamicRegularization: DynamicRegularization{
			Enabled:                   false,
			PositiveThresholdExponent: -15,
			NegativeThresholdExponent: -15,
			Relative:                  true,
		},

		SupernodalPivoting: false,

		ForwardSolveOutOfPlaceSupernodeThreshold:  32,
		BackwardSolveOutOfPlaceSupernodeThreshold: 32,

		LapackThreshold: 256,
		ParallelWorkMin: 1 << 20,
	}
}
