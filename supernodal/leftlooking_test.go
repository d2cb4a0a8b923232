package supernodal

import (
	"testing"

	"github.com/andreasmuller/sparseldl/coord"
	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/perm"
	"github.com/andreasmuller/sparseldl/symbolic"
)

// buildSingularMatrix returns a 3x3 symmetric matrix with a zero
// eigenvalue (rows/cols 0 and 1 identical, row/col 2 uncoupled),
// along with its symbolic analysis under the identity permutation, to
// exercise the dynamic-regularization path (spec §4.3, §7 S4).
func buildSingularMatrix(t *testing.T) (*coord.Matrix[float64], *symbolic.Partition, *symbolic.Structure) {
	const n = 3
	m := coord.New[float64](n, n)
	m.QueueAdd(0, 0, 1)
	m.QueueAdd(1, 1, 1)
	m.QueueAdd(1, 0, 1)
	m.QueueAdd(0, 1, 1)
	m.QueueAdd(2, 2, 2)
	m.Flush()

	identity := perm.Identity(n)
	pattern := symbolic.PatternFromMatrix(m, identity)
	forest := symbolic.ComputeEliminationForest(pattern)
	columnStructs := symbolic.ColumnStructures(pattern, forest)
	part := symbolic.FundamentalSupernodes(n, columnStructs, forest)
	structure := symbolic.FillStructure(columnStructs, part)
	return m, part, structure
}

func TestFactorLeftLookingFailsOnSingularPivotWithoutRegularization(t *testing.T) {
	m, part, structure := buildSingularMatrix(t)
	identity := perm.Identity(3)
	cfg := LeftLooking{BlockSize: 64, LapackThreshold: 1 << 30}

	result := FactorLeftLooking(cfg, m, part, structure, identity, dense.Cholesky)
	if result.FailedAt < 0 {
		t.Fatal("expected a pivot failure without regularization")
	}
	if result.Regularized != 0 {
		t.Errorf("Regularized = %d, want 0", result.Regularized)
	}
}

// buildTwoSupernodeSingularMatrix returns a 4x4 matrix whose fundamental
// supernodes split as {0}, {1,2}, {3}, with a zero pivot at the second
// (local) column of the middle supernode — i.e. global column 2, not
// column 0 — so a test can tell whether Signatures is being read at the
// right global offset rather than always from the start of the slice.
func buildTwoSupernodeSingularMatrix(t *testing.T) (*coord.Matrix[float64], *symbolic.Partition, *symbolic.Structure) {
	const n = 4
	m := coord.New[float64](n, n)
	m.QueueAdd(0, 0, 5)
	m.QueueAdd(1, 1, 1)
	m.QueueAdd(2, 2, 1)
	m.QueueAdd(1, 2, 1)
	m.QueueAdd(2, 1, 1)
	m.QueueAdd(3, 3, 2)
	m.Flush()

	identity := perm.Identity(n)
	pattern := symbolic.PatternFromMatrix(m, identity)
	forest := symbolic.ComputeEliminationForest(pattern)
	columnStructs := symbolic.ColumnStructures(pattern, forest)
	part := symbolic.FundamentalSupernodes(n, columnStructs, forest)
	structure := symbolic.FillStructure(columnStructs, part)
	return m, part, structure
}

func TestFactorLeftLookingSlicesSignaturesByGlobalColumnOffset(t *testing.T) {
	m, part, structure := buildTwoSupernodeSingularMatrix(t)
	identity := perm.Identity(4)

	var middle int = -1
	for s, off := range part.Offset {
		if off == 1 {
			middle = s
		}
	}
	if middle < 0 {
		t.Fatal("expected a supernode starting at global column 1")
	}

	// Signatures[1] (wrong, pre-offset index) says negative; Signatures[2]
	// (the actual global column of the singular pivot) says positive.
	// Correct slicing reads Signatures[2].
	cfg := LeftLooking{
		BlockSize:       64,
		LapackThreshold: 1 << 30,
		Regularization: &dense.RegularizationControl{
			PosThreshold: 1e-6,
			NegThreshold: 1e-6,
			Signatures:   []int{1, -1, 1, 1},
		},
	}

	result := FactorLeftLooking(cfg, m, part, structure, identity, dense.LDLAdjoint)
	if result.FailedAt >= 0 {
		t.Fatalf("FailedAt = %d, want -1 (full success)", result.FailedAt)
	}
	diag := result.Factor.Diag(middle).At(1, 1)
	if diag <= 0 {
		t.Errorf("regularized diagonal at global column 2 = %v, want positive (signature +1 at the correct global offset)", diag)
	}
}

func TestFactorLeftLookingSucceedsWithRegularization(t *testing.T) {
	m, part, structure := buildSingularMatrix(t)
	identity := perm.Identity(3)
	cfg := LeftLooking{
		BlockSize:       64,
		LapackThreshold: 1 << 30,
		Regularization:  &dense.RegularizationControl{PosThreshold: 1e-6, NegThreshold: 1e-6},
	}

	result := FactorLeftLooking(cfg, m, part, structure, identity, dense.Cholesky)
	if result.FailedAt >= 0 {
		t.Fatalf("FailedAt = %d, want -1 (full success)", result.FailedAt)
	}
	if result.Pivots != part.Offset[len(part.Offset)-1]+part.Size[len(part.Size)-1] {
		t.Errorf("Pivots = %d, want full column count", result.Pivots)
	}
	if result.Regularized == 0 {
		t.Error("expected at least one regularized pivot")
	}
}
