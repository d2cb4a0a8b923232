package symbolic

import "sort"

// ColumnStructures computes, for every column j, the sorted set of rows
// i > j with a nonzero in column j of L after fill (spec §3 "for each
// column also a degree"; this is the fuller per-column structure that
// underlies both the degree count and the fundamental-supernode grouping
// rule of §4.2).
//
// It follows the classical elimination-tree recursion (Liu 1990; the same
// recursion CHOLMOD's and catamari's supernodal symbolic factorization
// build on, referenced from spec.md's citation of catamari's
// scalar_utils.hpp "Cf. Tim Davis's LDL symbolic factorization"):
//
//	Struct(j) = adjacency(j) ∪ ⋃_{c child of j} (Struct(c) \ {j})
//
// computed for j = 0..n-1, which is a valid processing order because
// forest.Parent[c] > c for every c, so every child of j has already been
// processed by the time j is reached.
func ColumnStructures(p Pattern, forest *EliminationForest) [][]int {
	n := p.N()
	colToRows := invertLowerPattern(p)

	children := make([][]int, n)
	for j := 0; j < n; j++ {
		if par := forest.Parent[j]; par != -1 {
			children[par] = append(children[par], j)
		}
	}

	structs := make([][]int, n)
	for j := 0; j < n; j++ {
		mark := make(map[int]bool, len(colToRows[j]))
		var acc []int
		for _, i := range colToRows[j] {
			if !mark[i] {
				mark[i] = true
				acc = append(acc, i)
			}
		}
		for _, c := range children[j] {
			for _, i := range structs[c] {
				if i == j {
					continue
				}
				if !mark[i] {
					mark[i] = true
					acc = append(acc, i)
				}
			}
		}
		sort.Ints(acc)
		structs[j] = acc
	}
	return structs
}

// invertLowerPattern builds, for each column j, the sorted list of rows i
// such that j appears in p.LowerRowColumns(i) (i.e. the original
// structural nonzeros of column j below the diagonal, before fill).
func invertLowerPattern(p Pattern) [][]int {
	n := p.N()
	cols := make([][]int, n)
	for i := 0; i < n; i++ {
		for _, j := range p.LowerRowColumns(i) {
			cols[j] = append(cols[j], i)
		}
	}
	for j := range cols {
		sort.Ints(cols[j])
	}
	return cols
}
