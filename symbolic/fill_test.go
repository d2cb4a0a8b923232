package symbolic

import "testing"

func TestFillStructureIntersectSizes(t *testing.T) {
	// Column structures: column 4 (last col of supernode 2, members
	// {3,4}) has panel rows {5,6,7}; supernode 3 ({5,6}) owns rows 5 and
	// 6, supernode 4 ({7}) owns row 7.
	columnStructs := [][]int{
		{}, {}, {}, {}, // columns 0..3 (structs of supernode members other than last col, unused here)
		{5, 6, 7}, // column 4
		{6, 7},    // column 5
		{7},       // column 6
		{},        // column 7
	}
	part := NewPartition(8, []int{1, 2, 2, 2, 1}) // supernodes: {0},{1,2},{3,4},{5,6},{7}
	st := FillStructure(columnStructs, part)

	s := part.MemberToIndex[4] // supernode owning column 4, the {3,4} block -> index 2
	if got := st.Rows[s]; len(got) != 3 || got[0] != 5 || got[1] != 6 || got[2] != 7 {
		t.Fatalf("Rows[%d] = %v, want [5 6 7]", s, got)
	}
	if got := st.IntersectSizes[s]; len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("IntersectSizes[%d] = %v, want [2 1]", s, got)
	}
	wantOwners := []int{part.MemberToIndex[5], part.MemberToIndex[7]}
	if got := st.Intersects[s]; len(got) != 2 || got[0] != wantOwners[0] || got[1] != wantOwners[1] {
		t.Errorf("Intersects[%d] = %v, want %v", s, got, wantOwners)
	}
	if st.Degree(s) != 3 {
		t.Errorf("Degree(%d) = %d, want 3", s, st.Degree(s))
	}
}
