package supernodal

import (
	"math"
	"testing"

	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/perm"
)

func TestSolveRecoversKnownSolution(t *testing.T) {
	m, part, _, structure := buildCycleMatrix(t)
	n := m.NumRows()
	identity := perm.Identity(n)

	result := FactorLeftLooking(LeftLooking{BlockSize: 64, LapackThreshold: 1 << 30}, m, part, structure, identity, dense.Cholesky)
	if result.FailedAt != -1 {
		t.Fatalf("FailedAt = %d, want -1", result.FailedAt)
	}

	x := []float64{1, 2, 3, 4, 5}
	a := toDense(m, n)
	rhs := make([][]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += symAt(a, i, j) * x[j]
		}
		rhs[i] = []float64{sum}
	}

	got := Solve(result.Factor, dense.Cholesky, identity, rhs, 32, 32)
	for i := 0; i < n; i++ {
		if math.Abs(got[i][0]-x[i]) > 1e-7 {
			t.Errorf("x[%d] = %g, want %g", i, got[i][0], x[i])
		}
	}
}

// symAt reads the symmetric (lower-stored) dense matrix at (i,j) regardless
// of which of i,j is the larger index.
func symAt(d interface {
	At(i, j int) float64
}, i, j int) float64 {
	if i >= j {
		return d.At(i, j)
	}
	return d.At(j, i)
}

func TestSolveParallelMatchesSolve(t *testing.T) {
	m, part, assembly, structure := buildCycleMatrix(t)
	n := m.NumRows()
	identity := perm.Identity(n)

	result := FactorLeftLooking(LeftLooking{BlockSize: 64, LapackThreshold: 1 << 30}, m, part, structure, identity, dense.LDLAdjoint)
	if result.FailedAt != -1 {
		t.Fatalf("FailedAt = %d, want -1", result.FailedAt)
	}

	rhs := [][]float64{{1}, {2}, {3}, {4}, {5}}
	seq := Solve(result.Factor, dense.LDLAdjoint, identity, rhs, 32, 32)
	par := SolveParallel(result.Factor, assembly, dense.LDLAdjoint, identity, rhs, 32, 32)

	for i := 0; i < n; i++ {
		if math.Abs(seq[i][0]-par[i][0]) > 1e-9 {
			t.Errorf("x[%d]: sequential=%g parallel=%g", i, seq[i][0], par[i][0])
		}
	}
}
