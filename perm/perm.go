// Package perm implements the permutation pair (perm, iperm) used to map
// between the caller's original ordering and the fill-reducing ordering
// consumed by symbolic analysis.
package perm

import "fmt"

// Permutation is a pair of vectors with IPerm[Perm[i]] == i for all i.
// Either field may be nil, denoting the identity permutation of whatever
// length the caller implies by context.
type Permutation struct {
	Perm  []int
	IPerm []int
}

// Identity returns the length-n identity permutation.
func Identity(n int) Permutation {
	p := make([]int, n)
	ip := make([]int, n)
	for i := range p {
		p[i] = i
		ip[i] = i
	}
	return Permutation{Perm: p, IPerm: ip}
}

// Len returns the permutation's length, treating a nil Perm/IPerm pair as
// length 0 (identity, resolved against the caller's n elsewhere).
func (p Permutation) Len() int {
	if len(p.Perm) > 0 {
		return len(p.Perm)
	}
	return len(p.IPerm)
}

// Validate checks that Perm and IPerm are inverses of one another and that
// Perm is a permutation of [0, n).
func (p Permutation) Validate(n int) error {
	if len(p.Perm) == 0 && len(p.IPerm) == 0 {
		return nil // identity
	}
	if len(p.Perm) != n || len(p.IPerm) != n {
		return fmt.Errorf("perm: length mismatch: len(Perm)=%d len(IPerm)=%d want %d", len(p.Perm), len(p.IPerm), n)
	}
	seen := make([]bool, n)
	for i, pi := range p.Perm {
		if pi < 0 || pi >= n {
			return fmt.Errorf("perm: Perm[%d]=%d out of range [0,%d)", i, pi, n)
		}
		if seen[pi] {
			return fmt.Errorf("perm: Perm[%d]=%d duplicates an earlier entry", i, pi)
		}
		seen[pi] = true
		if p.IPerm[pi] != i {
			return fmt.Errorf("perm: IPerm[Perm[%d]]=%d, want %d", i, p.IPerm[pi], i)
		}
	}
	return nil
}

// Apply returns dst[i] = src[Perm[i]] (gather by the forward permutation),
// or a copy of src if the permutation is the identity.
func (p Permutation) Apply(src []int) []int {
	if len(p.Perm) == 0 {
		dst := make([]int, len(src))
		copy(dst, src)
		return dst
	}
	dst := make([]int, len(src))
	for i := range dst {
		dst[i] = src[p.Perm[i]]
	}
	return dst
}

// ApplyInverse returns dst[i] = src[IPerm[i]].
func (p Permutation) ApplyInverse(src []int) []int {
	if len(p.IPerm) == 0 {
		dst := make([]int, len(src))
		copy(dst, src)
		return dst
	}
	dst := make([]int, len(src))
	for i := range dst {
		dst[i] = src[p.IPerm[i]]
	}
	return dst
}

// PermuteRows reorders the rows of a row-major dense matrix so that row i
// of the result is row Perm[i] of src (used for solve's right-hand-side
// permutation step, spec §4.5 step 1).
func PermuteRows[T any](p Permutation, src [][]T) [][]T {
	if len(p.Perm) == 0 {
		dst := make([][]T, len(src))
		copy(dst, src)
		return dst
	}
	dst := make([][]T, len(src))
	for i := range dst {
		dst[i] = src[p.Perm[i]]
	}
	return dst
}

// PermuteRowsInverse reorders rows by the inverse permutation (spec §4.5
// step 5: applying iperm to rows of X).
func PermuteRowsInverse[T any](p Permutation, src [][]T) [][]T {
	if len(p.IPerm) == 0 {
		dst := make([][]T, len(src))
		copy(dst, src)
		return dst
	}
	dst := make([][]T, len(src))
	for i := range dst {
		dst[i] = src[p.IPerm[i]]
	}
	return dst
}
