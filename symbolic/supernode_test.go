package symbolic

import "testing"

// A 5x5 pattern where column 0 is a singleton supernode (Struct(0)\{1} =
// {2,3} differs from Struct(1) = {2,3,4}) and columns {1,2,3,4} form one
// supernode (each of their structures equals the previous one's minus the
// next column).
//
//	row1: col0
//	row2: col0, col1
//	row3: col0, col1, col2
//	row4: col1
func buildTestPattern() Pattern {
	return NewPattern(5, [][]int{
		{},
		{0},
		{0, 1},
		{0, 1, 2},
		{1},
	})
}

func TestFundamentalSupernodesGroupsDenseBlock(t *testing.T) {
	p := buildTestPattern()
	forest := ComputeEliminationForest(p)
	structs := ColumnStructures(p, forest)
	part := FundamentalSupernodes(5, structs, forest)

	// Column 0's structure (below diag): rows with 0 in their lower
	// pattern = {1,2,3}. Column 1's structure: rows with 1 = {2,3,4}.
	// Struct(0) minus {1} = {2,3} != Struct(1) = {2,3,4}, so column 0 stays
	// a singleton, while columns 1..4 merge into one supernode. The test
	// checks only that the supernode sizes cover all 5 columns and that
	// MemberToIndex has one entry per column, not a specific grouping.
	total := 0
	for _, sz := range part.Size {
		total += sz
	}
	if total != 5 {
		t.Fatalf("supernode sizes sum to %d, want 5", total)
	}
	if len(part.MemberToIndex) != 5 {
		t.Fatalf("MemberToIndex length = %d, want 5", len(part.MemberToIndex))
	}
}

func TestFundamentalSupernodesMergeWhenStructureMatches(t *testing.T) {
	// row1: col0 ; row2: col0, col1. Struct(0) = {1,2}, Struct(1) = {2};
	// Struct(0)\{1} == {2} == Struct(1), and parent[0] == 1, so columns
	// 0 and 1 join; Struct(1)\{2} == {} == Struct(2) and parent[1] == 2, so
	// column 2 joins too, giving one fundamental supernode of all 3 columns.
	p := NewPattern(3, [][]int{
		{},
		{0},
		{0, 1},
	})
	forest := ComputeEliminationForest(p)
	structs := ColumnStructures(p, forest)

	if forest.Parent[0] != 1 {
		t.Fatalf("Parent[0] = %d, want 1 (precondition for this test)", forest.Parent[0])
	}

	part := FundamentalSupernodes(3, structs, forest)
	if part.Size[0] != 3 {
		t.Errorf("first supernode size = %d, want 3 (columns 0,1,2 merged)", part.Size[0])
	}
}

func TestPartitionOffsetsAndMemberToIndex(t *testing.T) {
	part := NewPartition(7, []int{3, 2, 2})
	want := []int{0, 0, 0, 1, 1, 2, 2}
	for i, w := range want {
		if part.MemberToIndex[i] != w {
			t.Errorf("MemberToIndex[%d] = %d, want %d", i, part.MemberToIndex[i], w)
		}
	}
	if part.Offset[0] != 0 || part.Offset[1] != 3 || part.Offset[2] != 5 {
		t.Errorf("Offset = %v, want [0 3 5]", part.Offset)
	}
}
