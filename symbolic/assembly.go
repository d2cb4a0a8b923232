package symbolic

// AssemblyForest is the supernode-level tree induced by the scalar
// elimination forest via MemberToIndex: parent links and a packed
// child-offsets + children array, built once during analysis and never
// mutated during the numeric phase (spec §9 "arena-and-index structures").
type AssemblyForest struct {
	Parent       []int // Parent[s] = supernode owning forest.Parent of s's last column, or -1
	ChildOffsets []int // length NumSupernodes()+1
	Children     []int // length NumSupernodes()-numRoots, packed by ChildOffsets
}

// NumSupernodes returns the number of supernodes in the forest.
func (f *AssemblyForest) NumSupernodes() int { return len(f.Parent) }

// ChildrenOf returns the children of supernode s.
func (f *AssemblyForest) ChildrenOf(s int) []int {
	return f.Children[f.ChildOffsets[s]:f.ChildOffsets[s+1]]
}

// Roots returns the supernodes with no parent.
func (f *AssemblyForest) Roots() []int {
	var roots []int
	for s, p := range f.Parent {
		if p == -1 {
			roots = append(roots, s)
		}
	}
	return roots
}

// BuildAssemblyForest induces the supernode-level assembly forest from the
// scalar elimination forest and a supernode partition: the parent of
// supernode s is the supernode owning the elimination-forest parent of s's
// last column (spec §3 "Assembly forest").
func BuildAssemblyForest(forest *EliminationForest, part *Partition) *AssemblyForest {
	numSupernodes := part.NumSupernodes()
	parent := make([]int, numSupernodes)
	childCount := make([]int, numSupernodes+1)

	for s := 0; s < numSupernodes; s++ {
		lastCol := part.Offset[s] + part.Size[s] - 1
		p := forest.Parent[lastCol]
		if p == -1 {
			parent[s] = -1
		} else {
			parent[s] = part.MemberToIndex[p]
			childCount[parent[s]+1]++
		}
	}

	offsets := make([]int, numSupernodes+1)
	for s := 0; s < numSupernodes; s++ {
		offsets[s+1] = offsets[s] + childCount[s+1]
	}

	children := make([]int, offsets[numSupernodes])
	cursor := make([]int, numSupernodes)
	copy(cursor, offsets[:numSupernodes])
	for s := 0; s < numSupernodes; s++ {
		if p := parent[s]; p != -1 {
			children[cursor[p]] = s
			cursor[p]++
		}
	}

	return &AssemblyForest{Parent: parent, ChildOffsets: offsets, Children: children}
}

// PostOrder returns supernodes in a postorder traversal of the assembly
// forest: every child appears before its parent, and each root's subtree
// occupies a contiguous run. RelaxSupernodes and the right-looking
// driver's work estimate walk this order; the left-looking driver visits
// supernodes in ascending index order instead.
func PostOrder(f *AssemblyForest) []int {
	order := make([]int, 0, f.NumSupernodes())
	var visit func(s int)
	visit = func(s int) {
		for _, c := range f.ChildrenOf(s) {
			visit(c)
		}
		order = append(order, s)
	}
	for _, r := range f.Roots() {
		visit(r)
	}
	return order
}
