package symbolic

// Analysis bundles the full symbolic analysis of a permuted sparse
// symmetric pattern: the elimination forest, per-column fill structures,
// the (possibly relaxed) supernode partition, its assembly forest, and
// its fill structure — everything the numeric factorization and solve
// phases need and nothing they compute themselves.
type Analysis struct {
	Forest        *EliminationForest
	ColumnStructs [][]int
	Partition     *Partition
	Assembly      *AssemblyForest
	Structure     *Structure
}

// Options controls the supernode relaxation pass (spec §4.2); a zero
// value performs no relaxation, leaving the maximal fundamental
// supernode partition in place.
type Options struct {
	AllowableZeros     int
	AllowableZeroRatio float64
}

// Analyze runs the full symbolic-analysis pipeline on p: elimination
// forest, per-column structures, fundamental supernodes, assembly forest,
// fill structure, and (if opts requests it) supernode relaxation followed
// by rebuilding the assembly forest and fill structure against the
// relaxed partition.
func Analyze(p Pattern, opts Options) *Analysis {
	forest := ComputeEliminationForest(p)
	columnStructs := ColumnStructures(p, forest)
	part := FundamentalSupernodes(p.N(), columnStructs, forest)
	assembly := BuildAssemblyForest(forest, part)
	structure := FillStructure(columnStructs, part)

	if opts.AllowableZeros > 0 || opts.AllowableZeroRatio > 0 {
		part = RelaxSupernodes(part, assembly, structure, opts.AllowableZeros, opts.AllowableZeroRatio)
		assembly = BuildAssemblyForest(forest, part)
		structure = FillStructure(columnStructs, part)
	}

	return &Analysis{
		Forest:        forest,
		ColumnStructs: columnStructs,
		Partition:     part,
		Assembly:      assembly,
		Structure:     structure,
	}
}
