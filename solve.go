package sparseldl

import "github.com/andreasmuller/sparseldl/supernodal"

// Solve applies factorization's forward/diagonal/backward triangular
// solves and the caller's permutation to rhs, one column of the solution
// per column of rhs (spec §4.5, §6). Columns beyond factorization's
// dimension, or a rhs with the wrong row count, are the caller's
// responsibility to avoid — Solve does not itself re-validate structural
// preconditions Factor already checked.
func Solve(factorization *Factorization, rhs [][]complex128) [][]complex128 {
	control := factorization.control
	forward := control.ForwardSolveOutOfPlaceSupernodeThreshold
	backward := control.BackwardSolveOutOfPlaceSupernodeThreshold
	if control.Algorithm == AlgorithmRightLooking {
		return supernodal.SolveParallel(factorization.factor, factorization.analysis.Assembly, factorization.variant, factorization.ordering, rhs, forward, backward)
	}
	return supernodal.Solve(factorization.factor, factorization.variant, factorization.ordering, rhs, forward, backward)
}
