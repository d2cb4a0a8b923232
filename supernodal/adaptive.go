package supernodal

import (
	"github.com/andreasmuller/sparseldl/coord"
	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/internal/numeric"
	"github.com/andreasmuller/sparseldl/perm"
	"github.com/andreasmuller/sparseldl/symbolic"
)

// Adaptive picks between the left-looking and right-looking drivers per
// factorization based on the total estimated work in the assembly forest
// (spec §4.4 "the adaptive driver should prefer left-looking's lower
// scheduling overhead on small or narrow problems, and right-looking's
// parallelism on large, bushy ones"): right-looking is only worth its
// task-scheduling overhead once the matrix is large enough that sibling
// subtrees can be factored concurrently to a meaningful degree.
type Adaptive struct {
	LeftLooking     LeftLooking
	RightLooking    RightLooking
	ParallelWorkMin int64 // total work at or above which right-looking is chosen
}

// FactorAdaptive runs whichever driver Adaptive selects for the given
// symbolic analysis, based on a coarse total-work estimate over the whole
// assembly forest.
func FactorAdaptive[T numeric.Scalar](cfg Adaptive, m *coord.Matrix[T], part *symbolic.Partition, assembly *symbolic.AssemblyForest, structure *symbolic.Structure, p perm.Permutation, variant dense.Variant) *Result[T] {
	if totalWork(part, structure) >= cfg.ParallelWorkMin {
		return FactorRightLooking(cfg.RightLooking, m, part, assembly, structure, p, variant)
	}
	return FactorLeftLooking(cfg.LeftLooking, m, part, structure, p, variant)
}

func totalWork(part *symbolic.Partition, structure *symbolic.Structure) int64 {
	var total int64
	for s := 0; s < part.NumSupernodes(); s++ {
		sz := int64(part.Size[s])
		total += sz * sz * int64(structure.Degree(s)+1)
	}
	return total
}
