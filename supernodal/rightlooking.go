package supernodal

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/andreasmuller/sparseldl/coord"
	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/internal/numeric"
	"github.com/andreasmuller/sparseldl/perm"
	"github.com/andreasmuller/sparseldl/symbolic"
)

// RightLooking is the factor-then-scatter supernodal driver (spec §4.4):
// a supernode is factored as soon as every descendant in its assembly-tree
// subtree has been factored and has pushed its contribution forward, and
// sibling subtrees with enough combined work are factored concurrently via
// golang.org/x/sync/errgroup, following sparsem's divide-and-conquer
// recursion style generalized from a balanced array split to the
// assembly forest's branching.
type RightLooking struct {
	BlockSize       int
	LapackThreshold int
	// MinParallelWork is the minimum estimated flop count (sum of
	// Size[s]^2 * (Degree(s)+1) over a subtree) below which a subtree is
	// processed sequentially in the calling goroutine rather than handed
	// to errgroup — avoids goroutine overhead on small subtrees near the
	// leaves of the assembly forest.
	MinParallelWork int64
}

type rightLookingState[T numeric.Scalar] struct {
	cfg       RightLooking
	factor    *LowerFactor[T]
	part      *symbolic.Partition
	assembly  *symbolic.AssemblyForest
	structure *symbolic.Structure
	variant   dense.Variant
	locks     []sync.Mutex
	work      []int64 // subtree work estimate, indexed by supernode

	mu       sync.Mutex
	pivots   int
	failedAt int
}

// FactorRightLooking runs RightLooking's driver for a concrete scalar
// type.
func FactorRightLooking[T numeric.Scalar](cfg RightLooking, m *coord.Matrix[T], part *symbolic.Partition, assembly *symbolic.AssemblyForest, structure *symbolic.Structure, p perm.Permutation, variant dense.Variant) *Result[T] {
	factor := NewLowerFactor[T](part, structure)
	assemble(factor, m, p)

	st := &rightLookingState[T]{
		cfg:       cfg,
		factor:    factor,
		part:      part,
		assembly:  assembly,
		structure: structure,
		variant:   variant,
		locks:     make([]sync.Mutex, part.NumSupernodes()),
		failedAt:  -1,
	}
	st.computeWorkEstimates()

	g, ctx := errgroup.WithContext(context.Background())
	for _, r := range assembly.Roots() {
		r := r
		g.Go(func() error { return st.factorSubtree(ctx, r) })
	}
	_ = g.Wait() // errors are failed-pivot sentinels already captured in st.failedAt

	return &Result[T]{Factor: factor, Variant: variant, Pivots: st.pivots, FailedAt: st.failedAt}
}

func (st *rightLookingState[T]) computeWorkEstimates() {
	n := st.part.NumSupernodes()
	st.work = make([]int64, n)
	for _, s := range symbolic.PostOrder(st.assembly) {
		sz := int64(st.part.Size[s])
		w := sz * sz * int64(st.structure.Degree(s)+1)
		for _, c := range st.assembly.ChildrenOf(s) {
			w += st.work[c]
		}
		st.work[s] = w
	}
}

var errPivotFailure = fmt.Errorf("supernodal: pivot failure, see Result.FailedAt")

func (st *rightLookingState[T]) factorSubtree(ctx context.Context, s int) error {
	children := st.assembly.ChildrenOf(s)
	if len(children) > 1 && st.work[s] >= st.cfg.MinParallelWork {
		klog.V(3).InfoS("scheduling subtree in parallel", "supernode", s, "children", len(children), "work", st.work[s], "minParallelWork", st.cfg.MinParallelWork)
		g, gctx := errgroup.WithContext(ctx)
		for _, c := range children {
			c := c
			g.Go(func() error { return st.factorSubtree(gctx, c) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for _, c := range children {
			if err := st.factorSubtree(ctx, c); err != nil {
				return err
			}
		}
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	diag := st.factor.Diag(s)
	pivots := dense.BlockedFactor(diag, st.variant, st.cfg.BlockSize, st.cfg.LapackThreshold)

	st.mu.Lock()
	st.pivots += pivots
	failed := pivots < st.part.Size[s]
	if failed && st.failedAt == -1 {
		st.failedAt = s
	}
	st.mu.Unlock()
	if failed {
		return errPivotFailure
	}

	if panel := st.factor.Panel(s); panel.Rows > 0 {
		dense.PanelSolveRight(panel, diag, st.variant)
	}

	pos := 0
	for k, owner := range st.structure.Intersects[s] {
		size := st.structure.IntersectSizes[s][k]
		run := descendantRun{descendant: s, runStart: pos, runSize: size}
		st.locks[owner].Lock()
		applyDescendantUpdate(st.factor, owner, run, st.variant)
		st.locks[owner].Unlock()
		pos += size
	}
	return nil
}
