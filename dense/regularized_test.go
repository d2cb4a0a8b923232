package dense

import "testing"

func TestRegularizedFactorShiftsSmallPivot(t *testing.T) {
	// A single 2x2 block whose Schur-complement pivot at column 1 would
	// land inside the dead zone (0, 1e-6) without regularization.
	a := New[float64](2, 2)
	a.Set(0, 0, 4)
	a.Set(1, 0, 2) // so column-1 pivot = a11 - 2*2/4 = a11 - 1
	a.Set(1, 1, 1+1e-9)

	control := RegularizationControl{PosThreshold: 1e-6, NegThreshold: 1e-6}
	regularized, failedAt := RegularizedFactor(a, Cholesky, control)
	if failedAt != -1 {
		t.Fatalf("failedAt = %d, want -1 (no failure expected)", failedAt)
	}
	if regularized != 1 {
		t.Fatalf("regularized = %d, want 1", regularized)
	}
	if a.At(1, 1) < 1e-7 {
		t.Errorf("shifted pivot = %g, want at least PosThreshold", a.At(1, 1))
	}
}

func TestRegularizedFactorLeavesCleanPivotsAlone(t *testing.T) {
	a := spdView(4)
	control := RegularizationControl{PosThreshold: 1e-10, NegThreshold: 1e-10}
	regularized, failedAt := RegularizedFactor(a, LDLAdjoint, control)
	if failedAt != -1 {
		t.Fatalf("failedAt = %d, want -1", failedAt)
	}
	if regularized != 0 {
		t.Errorf("regularized = %d, want 0 on a well-conditioned matrix", regularized)
	}
}
