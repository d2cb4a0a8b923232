package symbolic

import "testing"

// TestEliminationForestAncestorPath verifies property 2 from spec §8: for
// every off-diagonal nonzero (i, j) with j < i in the permuted matrix, i
// lies on the path from j to a root in the forest.
func TestEliminationForestAncestorPath(t *testing.T) {
	// A 5x5 arrow-plus-band pattern:
	// row1: col0
	// row2: col0, col1
	// row3: col2
	// row4: col0, col3
	p := NewPattern(5, [][]int{
		{},
		{0},
		{0, 1},
		{2},
		{0, 3},
	})

	forest := ComputeEliminationForest(p)

	for row := 0; row < 5; row++ {
		for _, col := range p.LowerRowColumns(row) {
			if !onPathToRoot(forest, col, row) {
				t.Errorf("entry (%d,%d): %d does not lie on path from %d to a root; parent=%v", row, col, row, col, forest.Parent)
			}
		}
	}
}

func onPathToRoot(f *EliminationForest, from, target int) bool {
	j := from
	for j != -1 {
		if j == target {
			return true
		}
		j = f.Parent[j]
	}
	return false
}

func TestEliminationForestChainMatrix(t *testing.T) {
	// Bidiagonal pattern: row i has entry at column i-1 for i>0. This is
	// the classic "chain" elimination tree: parent[j] = j+1 for j<n-1.
	n := 6
	rows := make([][]int, n)
	for i := 1; i < n; i++ {
		rows[i] = []int{i - 1}
	}
	p := NewPattern(n, rows)
	forest := ComputeEliminationForest(p)

	for j := 0; j < n-1; j++ {
		if forest.Parent[j] != j+1 {
			t.Errorf("Parent[%d] = %d, want %d", j, forest.Parent[j], j+1)
		}
	}
	if forest.Parent[n-1] != -1 {
		t.Errorf("Parent[%d] = %d, want -1 (root)", n-1, forest.Parent[n-1])
	}
}

func TestComputeRowPatternIncludesAncestors(t *testing.T) {
	// row2 has structural entry at col0; col0's parent (from row1's entry)
	// is 1. So L(2,:) fill pattern should include both 0 and 1.
	p := NewPattern(3, [][]int{
		{},
		{0},
		{0},
	})
	forest := ComputeEliminationForest(p)
	pattern := ComputeRowPattern(p, forest, 2)

	want := []int{0, 1}
	if len(pattern) != len(want) {
		t.Fatalf("ComputeRowPattern(2) = %v, want %v", pattern, want)
	}
	for i := range want {
		if pattern[i] != want[i] {
			t.Errorf("ComputeRowPattern(2)[%d] = %d, want %d", i, pattern[i], want[i])
		}
	}
}
