package symbolic

// RelaxSupernodes processes the assembly forest in postorder and, for each
// supernode, considers merging each of its children into it (spec §4.2
// "Supernode relaxation"). A child is only a merge candidate when it is
// both the assembly-forest parent's child (already adjacent in the
// elimination order) and column-contiguous with it — i.e. the child's
// block ends exactly where the parent's begins. Column-contiguity does not
// hold for every ordering the analysis phase might be handed; when it
// fails for a child, that child is simply never a merge candidate, which
// only makes relaxation more conservative (fewer merges, not incorrect
// ones) — see DESIGN.md for why this scope was chosen over rewriting the
// permutation to force contiguity.
//
// Merging introduces explicit zeros equal to the number of rows the
// parent's panel structure has that the child's lacks, times the child's
// column count (the new zero entries that appear in the child's original
// columns once its panel is widened to the parent's row set). A merge is
// accepted when that count is at most allowableZeros, or the ratio of
// introduced zeros to the child's widened panel entries (the child's rows
// plus the missing rows, times the child's column count) is at most
// allowableZeroRatio. Among acceptable children the largest is merged
// first, and candidates are re-evaluated until none remain acceptable.
//
// The elimination forest and column structures are unchanged by
// relaxation (only supernode grouping changes); callers should rebuild the
// AssemblyForest and Structure from the returned Partition via
// BuildAssemblyForest and FillStructure.
func RelaxSupernodes(part *Partition, assembly *AssemblyForest, structure *Structure, allowableZeros int, allowableZeroRatio float64) *Partition {
	n := len(part.MemberToIndex)
	numSupernodes := part.NumSupernodes()

	// merged[s] == true means s has been absorbed into another supernode
	// and contributes no size of its own anymore.
	size := append([]int(nil), part.Size...)
	offset := append([]int(nil), part.Offset...)
	merged := make([]bool, numSupernodes)
	// unionTarget[s] follows a merged supernode to the survivor that now
	// owns its columns (path-compressed on read).
	unionTarget := make([]int, numSupernodes)
	for s := range unionTarget {
		unionTarget[s] = s
	}
	find := func(s int) int {
		for unionTarget[s] != s {
			unionTarget[s] = unionTarget[unionTarget[s]]
			s = unionTarget[s]
		}
		return s
	}

	for _, s := range PostOrder(assembly) {
		for {
			bestChild := -1
			bestSize := -1
			for _, c := range assembly.ChildrenOf(s) {
				c = find(c)
				if merged[c] || c == s {
					continue
				}
				if offset[c]+size[c] != offset[s] {
					continue // not column-contiguous; not a merge candidate
				}
				parentRows := structure.Rows[s]
				childRows := structure.Rows[c]
				missing := countMissing(parentRows, childRows)
				if missing == 0 {
					// free merge: child's panel already a superset
					if size[c] > bestSize {
						bestSize, bestChild = size[c], c
					}
					continue
				}
				introduced := missing * size[c]
				expanded := (len(childRows) + missing) * size[c]
				ratioOK := expanded > 0 && float64(introduced)/float64(expanded) <= allowableZeroRatio
				if introduced <= allowableZeros || ratioOK {
					if size[c] > bestSize {
						bestSize, bestChild = size[c], c
					}
				}
			}
			if bestChild == -1 {
				break
			}
			offset[s] = offset[bestChild]
			size[s] += size[bestChild]
			merged[bestChild] = true
			unionTarget[bestChild] = s
		}
	}

	var sizes []int
	for s := 0; s < numSupernodes; s++ {
		if !merged[s] {
			sizes = append(sizes, size[s])
		}
	}
	return NewPartition(n, sizes)
}

// countMissing returns the number of elements of a not present in b,
// assuming both are sorted ascending.
func countMissing(a, b []int) int {
	i, j, count := 0, 0, 0
	for i < len(a) {
		for j < len(b) && b[j] < a[i] {
			j++
		}
		if j >= len(b) || b[j] != a[i] {
			count++
		} else {
			j++
		}
		i++
	}
	return count
}
