package supernodal

import (
	"math"
	"testing"

	"github.com/andreasmuller/sparseldl/coord"
	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/perm"
	"github.com/andreasmuller/sparseldl/symbolic"
)

// buildCycleMatrix returns a small SPD sparse matrix, its dense
// equivalent, and the full symbolic analysis under the identity
// permutation: a 5-cycle (diagonal dominance guarantees SPD) whose
// wraparound edge (4,0) forces genuine fill-in, exercising supernode
// assembly beyond a simple banded case.
func buildCycleMatrix(t *testing.T) (*coord.Matrix[float64], *symbolic.Partition, *symbolic.AssemblyForest, *symbolic.Structure) {
	const n = 5
	m := coord.New[float64](n, n)
	for i := 0; i < n; i++ {
		m.QueueAdd(i, i, 4)
	}
	edges := [][2]int{{1, 0}, {2, 1}, {3, 2}, {4, 3}, {4, 0}}
	for _, e := range edges {
		m.QueueAdd(e[0], e[1], 1)
		m.QueueAdd(e[1], e[0], 1)
	}
	m.Flush()

	identity := perm.Identity(n)
	pattern := symbolic.PatternFromMatrix(m, identity)
	forest := symbolic.ComputeEliminationForest(pattern)
	columnStructs := symbolic.ColumnStructures(pattern, forest)
	part := symbolic.FundamentalSupernodes(n, columnStructs, forest)
	assembly := symbolic.BuildAssemblyForest(forest, part)
	structure := symbolic.FillStructure(columnStructs, part)
	return m, part, assembly, structure
}

func toDense(m *coord.Matrix[float64], n int) dense.View[float64] {
	d := dense.New[float64](n, n)
	for _, e := range m.Entries() {
		if e.Col <= e.Row {
			d.Set(e.Row, e.Col, e.Value)
		}
	}
	return d
}

func reconstructFactor(factor *LowerFactor[float64], n int) dense.View[float64] {
	d := dense.New[float64](n, n)
	for s := 0; s < factor.Partition.NumSupernodes(); s++ {
		off, sz := factor.Partition.Offset[s], factor.Partition.Size[s]
		diag := factor.Diag(s)
		for i := 0; i < sz; i++ {
			for j := 0; j <= i; j++ {
				d.Set(off+i, off+j, diag.At(i, j))
			}
		}
		panel := factor.Panel(s)
		rows := factor.Structure.Rows[s]
		for i, r := range rows {
			for j := 0; j < sz; j++ {
				d.Set(r, off+j, panel.At(i, j))
			}
		}
	}
	return d
}

func TestFactorLeftLookingMatchesDenseCholesky(t *testing.T) {
	m, part, _, structure := buildCycleMatrix(t)
	n := m.NumRows()
	identity := perm.Identity(n)

	cfg := LeftLooking{BlockSize: 64, LapackThreshold: 1 << 30}
	result := FactorLeftLooking(cfg, m, part, structure, identity, dense.Cholesky)
	if result.FailedAt != -1 {
		t.Fatalf("FailedAt = %d, want -1", result.FailedAt)
	}

	got := reconstructFactor(result.Factor, n)
	want := toDense(m, n)
	dense.UnblockedFactor(want, dense.Cholesky)

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			if math.Abs(got.At(i, j)-want.At(i, j)) > 1e-9 {
				t.Errorf("L(%d,%d) = %g, want %g", i, j, got.At(i, j), want.At(i, j))
			}
		}
	}
}

func TestFactorRightLookingMatchesLeftLooking(t *testing.T) {
	m, part, assembly, structure := buildCycleMatrix(t)
	n := m.NumRows()
	identity := perm.Identity(n)

	left := FactorLeftLooking(LeftLooking{BlockSize: 64, LapackThreshold: 1 << 30}, m, part, structure, identity, dense.LDLAdjoint)
	right := FactorRightLooking(RightLooking{BlockSize: 64, LapackThreshold: 1 << 30, MinParallelWork: 1 << 30}, m, part, assembly, structure, identity, dense.LDLAdjoint)

	if left.FailedAt != -1 || right.FailedAt != -1 {
		t.Fatalf("FailedAt: left=%d right=%d, want -1, -1", left.FailedAt, right.FailedAt)
	}

	gotLeft := reconstructFactor(left.Factor, n)
	gotRight := reconstructFactor(right.Factor, n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			if math.Abs(gotLeft.At(i, j)-gotRight.At(i, j)) > 1e-9 {
				t.Errorf("L(%d,%d): left=%g right=%g", i, j, gotLeft.At(i, j), gotRight.At(i, j))
			}
		}
	}
}
