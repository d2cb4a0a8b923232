// Package coord implements the coordinate-form sparse matrix container:
// an ordered sequence of (row, column, value) entries plus row offsets,
// grown through batched add/remove queues flushed together so that row
// offsets are recomputed once per batch rather than once per operation.
//
// The row/column/value triple layout and the "convert to dense, operate,
// convert back" helpers follow the CSR container in sparsem's matrix.go;
// the queue/flush mutation discipline itself (QueueAdd/QueueRemove
// deferred until a Flush, duplicate keys summed on flush) follows
// catamari's CoordinateMatrix (QueueEntryAddition/QueueEntryRemoval/
// FlushEntryQueues in coordinate_matrix.hpp), which sparsem's
// fixed-at-construction CSRMatrix has no counterpart for.
package coord

import (
	"fmt"
	"sort"

	"github.com/andreasmuller/sparseldl/internal/numeric"
)

// Entry is a single nonzero of a Matrix.
type Entry[T numeric.Scalar] struct {
	Row, Col int
	Value    T
}

type key struct{ row, col int }

// Matrix is a sparse matrix in coordinate form with a sorted entry list and
// row offsets. It is safe to read concurrently; mutation must be
// serialized by the caller (queue/flush is not itself thread-safe).
type Matrix[T numeric.Scalar] struct {
	rows, cols int
	entries    []Entry[T]
	rowOffsets []int

	pendingAdd    map[key]T
	pendingRemove map[key]bool
}

// New creates an empty rows x cols coordinate matrix.
func New[T numeric.Scalar](rows, cols int) *Matrix[T] {
	return &Matrix[T]{
		rows:       rows,
		cols:       cols,
		rowOffsets: make([]int, rows+1),
	}
}

// NumRows returns the row count.
func (m *Matrix[T]) NumRows() int { return m.rows }

// NumCols returns the column count.
func (m *Matrix[T]) NumCols() int { return m.cols }

// NumEntries returns the number of stored (flushed) entries.
func (m *Matrix[T]) NumEntries() int { return len(m.entries) }

// ReserveAdd preallocates room for n additional queued entries.
func (m *Matrix[T]) ReserveAdd(n int) {
	if m.pendingAdd == nil {
		m.pendingAdd = make(map[key]T, n)
	}
}

// QueueAdd enqueues an addition of v at (r, c). If flushed while another
// queued (or already-present) entry shares the same (r, c), the values are
// summed (spec: "adding an entry equal to an existing (row, column) sums
// values").
func (m *Matrix[T]) QueueAdd(r, c int, v T) {
	m.checkBounds(r, c)
	if m.pendingAdd == nil {
		m.pendingAdd = make(map[key]T)
	}
	k := key{r, c}
	m.pendingAdd[k] = m.pendingAdd[k] + v
}

// QueueRemove enqueues removal of any entry at (r, c).
func (m *Matrix[T]) QueueRemove(r, c int) {
	m.checkBounds(r, c)
	if m.pendingRemove == nil {
		m.pendingRemove = make(map[key]bool)
	}
	m.pendingRemove[key{r, c}] = true
}

func (m *Matrix[T]) checkBounds(r, c int) {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(fmt.Sprintf("coord: index (%d,%d) out of bounds for %dx%d matrix", r, c, m.rows, m.cols))
	}
}

// Flush merges all queued additions and removals into the entry sequence:
// queued additions are sorted, merged with the existing sequence with
// duplicate keys summed, queued removals are then subtracted out, and row
// offsets are recomputed in a single pass. After Flush the entry sequence
// is strictly ascending by (row, column).
func (m *Matrix[T]) Flush() {
	if len(m.pendingAdd) == 0 && len(m.pendingRemove) == 0 {
		return
	}

	merged := make(map[key]T, len(m.entries)+len(m.pendingAdd))
	for _, e := range m.entries {
		merged[key{e.Row, e.Col}] = e.Value
	}
	for k, v := range m.pendingAdd {
		merged[k] = merged[k] + v
	}
	for k := range m.pendingRemove {
		delete(merged, k)
	}

	entries := make([]Entry[T], 0, len(merged))
	for k, v := range merged {
		entries = append(entries, Entry[T]{Row: k.row, Col: k.col, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Row != entries[j].Row {
			return entries[i].Row < entries[j].Row
		}
		return entries[i].Col < entries[j].Col
	})

	m.entries = entries
	m.pendingAdd = nil
	m.pendingRemove = nil
	m.recomputeRowOffsets()
}

func (m *Matrix[T]) recomputeRowOffsets() {
	offsets := make([]int, m.rows+1)
	idx := 0
	for r := 0; r < m.rows; r++ {
		offsets[r] = idx
		for idx < len(m.entries) && m.entries[idx].Row == r {
			idx++
		}
	}
	offsets[m.rows] = idx
	m.rowOffsets = offsets
}

// RowEntryOffset returns the position in the flushed entry sequence where
// row r begins.
func (m *Matrix[T]) RowEntryOffset(r int) int { return m.rowOffsets[r] }

// NumRowEntries returns the number of flushed entries in row r.
func (m *Matrix[T]) NumRowEntries(r int) int { return m.rowOffsets[r+1] - m.rowOffsets[r] }

// RowPattern returns the flushed entries of row r, in column order.
func (m *Matrix[T]) RowPattern(r int) []Entry[T] {
	return m.entries[m.rowOffsets[r]:m.rowOffsets[r+1]]
}

// EntryAt searches row r for an entry at column c via binary search over
// the row's slice, returning (zero, false) if absent.
func (m *Matrix[T]) EntryAt(r, c int) (T, bool) {
	row := m.RowPattern(r)
	i := sort.Search(len(row), func(i int) bool { return row[i].Col >= c })
	if i < len(row) && row[i].Col == c {
		return row[i].Value, true
	}
	var zero T
	return zero, false
}

// Entries returns all flushed entries, in (row, column) order. The
// returned slice must not be mutated.
func (m *Matrix[T]) Entries() []Entry[T] { return m.entries }

// FromTriples constructs a Matrix from a triple list that need not be
// sorted or deduplicated; duplicate (row, col) keys are summed, matching
// Flush's merge semantics.
func FromTriples[T numeric.Scalar](rows, cols int, triples []Entry[T]) *Matrix[T] {
	m := New[T](rows, cols)
	m.ReserveAdd(len(triples))
	for _, t := range triples {
		m.QueueAdd(t.Row, t.Col, t.Value)
	}
	m.Flush()
	return m
}

// ToTriples returns the flushed entries as a plain triple slice, the
// external (non-internal) form used by Matrix Market-style readers.
func (m *Matrix[T]) ToTriples() []Entry[T] {
	out := make([]Entry[T], len(m.entries))
	copy(out, m.entries)
	return out
}

// IsSymmetric reports whether the matrix is square and, for every
// off-diagonal entry (i,j), holds conj-symmetric value at (j,i) within tol.
func (m *Matrix[T]) IsSymmetric(tol float64) bool {
	if m.rows != m.cols {
		return false
	}
	for _, e := range m.entries {
		if e.Row == e.Col {
			continue
		}
		other, ok := m.EntryAt(e.Col, e.Row)
		if !ok {
			return false
		}
		if numeric.Abs(other-numeric.Conj(e.Value)) > tol {
			return false
		}
	}
	return true
}

// ToDense converts the matrix to a row-major dense slice-of-slices, used by
// the small unblocked kernels and by tests; not used on any hot path.
func (m *Matrix[T]) ToDense() [][]T {
	dense := make([][]T, m.rows)
	for i := range dense {
		dense[i] = make([]T, m.cols)
	}
	for _, e := range m.entries {
		dense[e.Row][e.Col] = e.Value
	}
	return dense
}
