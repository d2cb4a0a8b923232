// Package symbolic implements the structural analysis of a permuted sparse
// symmetric matrix that the numeric factorization and solve phases consume:
// the elimination forest and column degrees, the fundamental and relaxed
// supernode partitions, the supernodal assembly forest, and the fill
// structure (per-supernode row pattern and its intersection with each
// ancestor supernode).
//
// Symbolic analysis operates purely on matrix structure, never on entry
// values, so this package depends on neither coord's scalar type parameter
// nor any numeric kernel; Pattern is the minimal structural view it needs.
package symbolic

import "sort"

// Pattern is the structural view of a permuted n x n symmetric matrix that
// symbolic analysis needs: for each row, the sorted column indices of its
// stored entries (both triangles need not be present; a Pattern may report
// only the lower triangle, which the algorithms below rely on for the
// off-diagonal walk).
type Pattern interface {
	N() int
	// LowerRowColumns returns the sorted column indices c < row of row's
	// stored entries (the strict lower triangle in the permuted ordering).
	LowerRowColumns(row int) []int
}

// EliminationForest holds, for each column j, the smallest row index i > j
// with a nonzero in column j of L (or -1 if none), and the number of
// off-diagonal nonzeros in column j of L after fill.
type EliminationForest struct {
	Parent       []int
	ColumnDegree []int
}

// ComputeEliminationForest computes the elimination forest and column
// degrees of a permuted symmetric matrix, following the union-find ascent
// with path compression described in spec §4.2 (the classical algorithm
// used by Davis's LDL symbolic factorization): for each row r, walk each
// off-diagonal entry (r, c) with c < r up the partially built forest from c
// toward its root, and set any unset parent pointer to r along the way.
// Column degrees are then counted from the finished forest: column j's
// degree is the number of rows whose ComputeRowPattern contains j.
func ComputeEliminationForest(p Pattern) *EliminationForest {
	n := p.N()
	parent := make([]int, n)
	degree := make([]int, n)
	ancestor := make([]int, n) // union-find path-compression shortcut
	for j := 0; j < n; j++ {
		parent[j] = -1
		ancestor[j] = -1
	}

	for r := 0; r < n; r++ {
		for _, c := range p.LowerRowColumns(r) {
			j := c
			for j != -1 && j < r {
				next := ancestor[j]
				ancestor[j] = r
				if next == -1 {
					if parent[j] == -1 {
						parent[j] = r
					}
					break
				}
				j = next
			}
		}
	}

	forest := &EliminationForest{Parent: parent, ColumnDegree: degree}
	for r := 0; r < n; r++ {
		for _, j := range ComputeRowPattern(p, forest, r) {
			degree[j]++
		}
	}
	return forest
}

// ComputeRowPattern computes the nonzero column pattern of L(row, :) — the
// set of columns j < row such that L[row, j] != 0 after fill — by unioning
// row's own structural entries with the elimination-forest ancestors of
// each, and returns it sorted ascending. This is the per-row structure used
// while forming a supernode's fill pattern (symbolic §4.2 "fill
// structure").
func ComputeRowPattern(p Pattern, forest *EliminationForest, row int) []int {
	mark := make(map[int]bool)
	var pattern []int
	for _, c := range p.LowerRowColumns(row) {
		j := c
		for j != -1 && j < row && !mark[j] {
			mark[j] = true
			pattern = append(pattern, j)
			j = forest.Parent[j]
		}
	}
	sort.Ints(pattern)
	return pattern
}

// densePattern is the in-package Pattern implementation used by tests and
// by callers that already hold a plain adjacency structure (e.g. built by
// the coord adapter in adapter.go).
type densePattern struct {
	n    int
	rows [][]int
}

func (d *densePattern) N() int                        { return d.n }
func (d *densePattern) LowerRowColumns(row int) []int { return d.rows[row] }

// NewPattern builds a Pattern from an explicit per-row column list. Callers
// must ensure each row's list is sorted and holds only columns < row.
func NewPattern(n int, lowerRows [][]int) Pattern {
	return &densePattern{n: n, rows: lowerRows}
}
