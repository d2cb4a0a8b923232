package symbolic

import (
	"sort"

	"github.com/andreasmuller/sparseldl/coord"
	"github.com/andreasmuller/sparseldl/internal/numeric"
	"github.com/andreasmuller/sparseldl/perm"
)

// PatternFromMatrix adapts a coord.Matrix under a permutation into a
// Pattern: row r of the returned Pattern is the strict lower triangle of
// row p.Perm[r] (equivalently column p.Perm[r]) of the original matrix,
// remapped through p and sorted. Only entries with a symmetric counterpart
// are needed structurally; both triangles of the input are consulted so
// that a matrix stored with only one triangle populated still yields the
// correct symmetric structure.
func PatternFromMatrix[T numeric.Scalar](m *coord.Matrix[T], p perm.Permutation) Pattern {
	n := m.NumRows()
	iperm := p.IPerm
	permv := p.Perm
	if len(iperm) == 0 {
		iperm = make([]int, n)
		permv = make([]int, n)
		for i := range iperm {
			iperm[i] = i
			permv[i] = i
		}
	}

	rows := make([][]int, n)
	seen := make([]map[int]bool, n)
	for i := range seen {
		seen[i] = make(map[int]bool)
	}

	add := func(newRow, newCol int) {
		if newCol >= newRow {
			return
		}
		if !seen[newRow][newCol] {
			seen[newRow][newCol] = true
			rows[newRow] = append(rows[newRow], newCol)
		}
	}

	for _, e := range m.Entries() {
		if e.Row == e.Col {
			continue
		}
		nr, nc := iperm[e.Row], iperm[e.Col]
		add(nr, nc)
		add(nc, nr)
	}

	for r := range rows {
		sort.Ints(rows[r])
	}
	return NewPattern(n, rows)
}
