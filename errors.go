package sparseldl

import "errors"

// Sentinel errors for the structural and resource failures callers branch
// on programmatically (spec §7); numerical failure and regularization are
// never errors — they are carried as values in Result/supernodal.Result.
var (
	// ErrNonSquare is returned when Factor is given a non-square matrix.
	ErrNonSquare = errors.New("sparseldl: matrix is not square")

	// ErrPermutationLength is returned when a supplied permutation's
	// length does not match the matrix dimension.
	ErrPermutationLength = errors.New("sparseldl: permutation length does not match matrix dimension")

	// ErrAllocation is returned when a required allocation fails
	// (propagated from a recovered allocation panic, spec §7 "Resource").
	ErrAllocation = errors.New("sparseldl: allocation failure")
)
