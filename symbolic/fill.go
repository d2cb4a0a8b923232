package symbolic

import "sort"

// Structure holds, for every supernode s, the sorted row indices of its
// panel (Structure(s)) and the run-length encoding of how those rows
// partition across ancestor supernodes (IntersectSizes(s)), which lets the
// numeric update kernels avoid a binary search per scattered row (spec
// §4.2 "fill structure").
type Structure struct {
	Rows           [][]int // Rows[s] = Structure(s), sorted ascending
	IntersectSizes [][]int // IntersectSizes[s][k] = run length of the k-th ancestor block in Rows[s]
	Intersects     [][]int // Intersects[s][k] = supernode index owning that run
}

// FillStructure computes each supernode's panel structure from the
// per-column structures of its member columns: for a properly formed
// supernode, Structure(s) equals the below-diagonal structure of s's own
// last column, since member columns' structures nest by construction
// (fundamental/relaxed supernode formation guarantees
// Struct(firstCol) == members(s)\{firstCol} ∪ Struct(lastCol)).
func FillStructure(columnStructs [][]int, part *Partition) *Structure {
	numSupernodes := part.NumSupernodes()
	rows := make([][]int, numSupernodes)
	intersectSizes := make([][]int, numSupernodes)
	intersects := make([][]int, numSupernodes)

	for s := 0; s < numSupernodes; s++ {
		lastCol := part.Offset[s] + part.Size[s] - 1
		structure := append([]int(nil), columnStructs[lastCol]...)
		sort.Ints(structure)
		rows[s] = structure

		if len(structure) == 0 {
			continue
		}
		var sizes, owners []int
		runStart := 0
		runOwner := part.MemberToIndex[structure[0]]
		for i := 1; i <= len(structure); i++ {
			var owner int
			if i < len(structure) {
				owner = part.MemberToIndex[structure[i]]
			}
			if i == len(structure) || owner != runOwner {
				sizes = append(sizes, i-runStart)
				owners = append(owners, runOwner)
				runStart = i
				if i < len(structure) {
					runOwner = owner
				}
			}
		}
		intersectSizes[s] = sizes
		intersects[s] = owners
	}

	return &Structure{Rows: rows, IntersectSizes: intersectSizes, Intersects: intersects}
}

// Degree returns the number of panel rows (degree(s)) of supernode s.
func (st *Structure) Degree(s int) int { return len(st.Rows[s]) }
