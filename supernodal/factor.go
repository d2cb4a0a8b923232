// Package supernodal implements the supernodal numeric factorization and
// triangular solve that consume symbolic analysis's elimination forest,
// supernode partition, assembly forest, and fill structure (spec §4.4,
// §4.5): a column-contiguous block per supernode holding its diagonal
// factor stacked on its panel, assembled from the input matrix and updated
// by every descendant supernode that contributes fill into it, following
// either the left-looking (accumulate-then-factor) or right-looking
// (factor-then-scatter, task-parallel) numeric driver.
package supernodal

import (
	"sort"

	"github.com/andreasmuller/sparseldl/coord"
	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/internal/numeric"
	"github.com/andreasmuller/sparseldl/perm"
	"github.com/andreasmuller/sparseldl/symbolic"
)

// LowerFactor stores the numeric supernodal factor: for each supernode s,
// a dense (Size[s]+Degree(s)) x Size[s] block whose top Size[s] rows are
// the diagonal factor (L and, on its own diagonal, D for the LDL
// variants) and whose remaining Degree(s) rows are the panel, ordered to
// match Structure.Rows[s]. Blocks are packed into one backing array
// (spec §9's "arena-and-index" storage, following sparsem/matrix.go's
// CSR-style packed-offset layout generalized from rows to supernode
// blocks).
type LowerFactor[T numeric.Scalar] struct {
	Partition   *symbolic.Partition
	Structure   *symbolic.Structure
	blockOffset []int
	data        []T
}

// NewLowerFactor allocates a zeroed factor storage for the given
// partition and fill structure.
func NewLowerFactor[T numeric.Scalar](part *symbolic.Partition, structure *symbolic.Structure) *LowerFactor[T] {
	numSupernodes := part.NumSupernodes()
	offsets := make([]int, numSupernodes+1)
	for s := 0; s < numSupernodes; s++ {
		h := part.Size[s] + structure.Degree(s)
		offsets[s+1] = offsets[s] + h*part.Size[s]
	}
	return &LowerFactor[T]{
		Partition:   part,
		Structure:   structure,
		blockOffset: offsets,
		data:        make([]T, offsets[numSupernodes]),
	}
}

// Block returns the full (Size[s]+Degree(s)) x Size[s] block of supernode
// s: its diagonal factor stacked on its panel.
func (f *LowerFactor[T]) Block(s int) dense.View[T] {
	h := f.Partition.Size[s] + f.Structure.Degree(s)
	w := f.Partition.Size[s]
	start := f.blockOffset[s]
	return dense.View[T]{Rows: h, Cols: w, Stride: h, Data: f.data[start : start+h*w]}
}

// Diag returns the Size[s] x Size[s] diagonal-factor sub-block of
// supernode s.
func (f *LowerFactor[T]) Diag(s int) dense.View[T] {
	w := f.Partition.Size[s]
	return f.Block(s).Sub(0, 0, w, w)
}

// Panel returns the Degree(s) x Size[s] panel sub-block of supernode s,
// whose rows correspond 1:1 (in order) to Structure.Rows[s].
func (f *LowerFactor[T]) Panel(s int) dense.View[T] {
	w := f.Partition.Size[s]
	deg := f.Structure.Degree(s)
	return f.Block(s).Sub(w, 0, deg, w)
}

// LocalRow returns the row offset within Block(s) that global index
// row maps to: row-Offset[s] if row is one of s's own columns, or
// Size[s] + the position of row within Structure.Rows[s] otherwise. ok
// is false if row belongs to neither.
func (f *LowerFactor[T]) LocalRow(s, row int) (local int, ok bool) {
	off, sz := f.Partition.Offset[s], f.Partition.Size[s]
	if row >= off && row < off+sz {
		return row - off, true
	}
	rows := f.Structure.Rows[s]
	i := sort.SearchInts(rows, row)
	if i < len(rows) && rows[i] == row {
		return sz + i, true
	}
	return 0, false
}

// DiagonalFactor is a convenience view over a LowerFactor's D entries (the
// diagonal-factor diagonal), addressed by column index in the
// factorization (permuted) order rather than by supernode-local position —
// used by the diagonal step of Solve and SolveParallel.
type DiagonalFactor[T numeric.Scalar] struct {
	Factor *LowerFactor[T]
}

// At returns D[col, col].
func (d DiagonalFactor[T]) At(col int) T {
	s := d.Factor.Partition.MemberToIndex[col]
	local := col - d.Factor.Partition.Offset[s]
	diag := d.Factor.Diag(s)
	return diag.At(local, local)
}

// Result is the outcome of a supernodal numeric factorization.
type Result[T numeric.Scalar] struct {
	Factor      *LowerFactor[T]
	Variant     dense.Variant
	Pivots      int // total successful pivots across all supernodes
	FailedAt    int // supernode index of the first failure, -1 on full success
	Regularized int // total dead-zone pivot shifts applied (regularized driver only)
}

// assemble scatters the permuted input matrix's entries into factor's
// blocks: entry (row, col) with col owned by supernode s lands at
// Block(s)'s (LocalRow(row), col-Offset[s]). An entry that lands above the
// diagonal is folded onto its mirror below it only when m does not store
// that mirror too, so a fully stored symmetric matrix contributes each
// off-diagonal value once.
func assemble[T numeric.Scalar](factor *LowerFactor[T], m *coord.Matrix[T], p perm.Permutation) {
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
	_ = permv

	for _, e := range m.Entries() {
		r, c := iperm[e.Row], iperm[e.Col]
		if c > r {
			if _, mirrored := m.EntryAt(e.Col, e.Row); mirrored {
				continue // the stored mirror supplies this lower-triangle value
			}
			r, c = c, r // only the lower triangle is stored structurally
		}
		s := factor.Partition.MemberToIndex[c]
		local, ok := factor.LocalRow(s, r)
		if !ok {
			continue // structurally absent entry below the analyzed fill pattern
		}
		block := factor.Block(s)
		col := c - factor.Partition.Offset[s]
		block.Set(local, col, block.At(local, col)+e.Value)
	}
}

// descendantRun describes the contiguous range of d's own rows (absolute
// indices, within Structure.Rows[d]) that is owned by ancestor s, plus
// where that range sits within Structure.Rows[d].
type descendantRun struct {
	descendant int
	runStart   int
	runSize    int
}

// buildDescendantLists inverts Structure.Intersects/IntersectSizes into,
// for every supernode s, the list of descendants that contribute an
// update into s's block, together with where in that descendant's panel
// s's contributing rows begin (spec §4.4's left-looking driver consumes
// this per ancestor; the right-looking driver instead walks it by
// descendant, scattering forward — see rightlooking.go).
func buildDescendantLists(structure *symbolic.Structure) [][]descendantRun {
	n := len(structure.Rows)
	lists := make([][]descendantRun, n)
	for d := 0; d < n; d++ {
		pos := 0
		for k, owner := range structure.Intersects[d] {
			size := structure.IntersectSizes[d][k]
			lists[owner] = append(lists[owner], descendantRun{descendant: d, runStart: pos, runSize: size})
			pos += size
		}
	}
	return lists
}

// applyDescendantUpdate subtracts descendant d's contribution into
// ancestor s's block: the rank-Size[d] update
//
//	Block(s)[localRow(r), localRow(c)] -= sum_k L[r,k] * D_d[k] * conj(L[c,k])
//
// for r ranging over every row of d's panel from run.runStart to the end
// (all of which are valid rows of s, by the nesting property of
// elimination-tree fill: every descendant row owned by an ancestor beyond
// s is also present in s's own fill structure) and c ranging over just
// run's own runSize rows (s's own columns within d's panel).
func applyDescendantUpdate[T numeric.Scalar](factor *LowerFactor[T], s int, run descendantRun, variant dense.Variant) {
	d := run.descendant
	panelD := factor.Panel(d)
	diagD := factor.Diag(d)
	allRows := panelD.Sub(run.runStart, 0, panelD.Rows-run.runStart, panelD.Cols)
	ownCols := panelD.Sub(run.runStart, 0, run.runSize, panelD.Cols)

	z := dense.ScaledTranspose(ownCols, diagD, variant) // Size[d] x runSize
	contribution := dense.New[T](allRows.Rows, run.runSize)
	for i := 0; i < allRows.Rows; i++ {
		for j := 0; j < run.runSize; j++ {
			var sum T
			for k := 0; k < allRows.Cols; k++ {
				sum += allRows.At(i, k) * z.At(k, j)
			}
			contribution.Set(i, j, sum)
		}
	}

	structRows := factor.Structure.Rows[d]
	block := factor.Block(s)
	for i := 0; i < allRows.Rows; i++ {
		absRow := rowAt(factor, d, run.runStart+i, structRows)
		li, ok := factor.LocalRow(s, absRow)
		if !ok {
			continue
		}
		for j := 0; j < run.runSize; j++ {
			absCol := rowAt(factor, d, run.runStart+j, structRows)
			lj, ok := factor.LocalRow(s, absCol)
			if !ok || lj >= factor.Partition.Size[s] {
				continue // only s's own columns are valid write targets
			}
			block.Set(li, lj, block.At(li, lj)-contribution.At(i, j))
		}
	}
}

// rowAt returns the absolute row index at panel position idx of
// supernode d's structure.
func rowAt[T numeric.Scalar](factor *LowerFactor[T], d, idx int, structRows []int) int {
	return structRows[idx]
}
