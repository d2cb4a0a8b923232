package dpp

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/andreasmuller/sparseldl/coord"
	"github.com/andreasmuller/sparseldl/dense"
	"github.com/andreasmuller/sparseldl/perm"
	"github.com/andreasmuller/sparseldl/supernodal"
	"github.com/andreasmuller/sparseldl/symbolic"
)

func projectionKernel(n int) *coord.Matrix[float64] {
	// A diagonal 0/1 projection kernel: a trivial DPP whose samples are
	// deterministic (every diagonal-1 index always selected, every
	// diagonal-0 index never selected), useful for checking the sampler's
	// bookkeeping without depending on RNG behavior.
	m := coord.New[float64](n, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			m.QueueAdd(i, i, 1)
		}
	}
	m.Flush()
	return m
}

func TestHermitianSamplerOnProjectionKernelIsDeterministic(t *testing.T) {
	const n = 6
	m := projectionKernel(n)
	p := perm.Identity(n)

	sampler := HermitianSampler[float64]{
		FactorControl: supernodal.LeftLooking{BlockSize: 64, LapackThreshold: 1 << 30},
		Variant:       dense.LDLAdjoint,
	}
	rng := rand.New(rand.NewSource(1))
	selected, _ := sampler.Sample(m, p, false, rng)

	selectedSet := make(map[int]bool, len(selected))
	for _, s := range selected {
		selectedSet[s] = true
	}
	for i := 0; i < n; i++ {
		want := i%2 == 0
		if selectedSet[i] != want {
			t.Errorf("index %d selected = %v, want %v", i, selectedSet[i], want)
		}
	}
}

func TestHermitianSamplerRespectsAnalyzeOptions(t *testing.T) {
	const n = 4
	m := projectionKernel(n)
	p := perm.Identity(n)
	sampler := HermitianSampler[float64]{
		AnalyzeOptions: symbolic.Options{AllowableZeros: 2, AllowableZeroRatio: 0.5},
		FactorControl:  supernodal.LeftLooking{BlockSize: 64, LapackThreshold: 1 << 30},
		Variant:        dense.LDLTranspose,
	}
	rng := rand.New(rand.NewSource(2))
	selected, ll := sampler.Sample(m, p, false, rng)
	if len(selected) != 2 {
		t.Errorf("len(selected) = %d, want 2", len(selected))
	}
	if ll > 0 {
		t.Errorf("logLikelihood = %g, want <= 0", ll)
	}
}

func TestNonHermitianSamplerProducesSelectionPerIndex(t *testing.T) {
	const n = 3
	k := dense.New[float64](n, n)
	k.Set(0, 0, 0.9)
	k.Set(1, 1, 0.1)
	k.Set(2, 2, 0.5)
	var sampler NonHermitianSampler[float64]
	rng := rand.New(rand.NewSource(3))
	selected, ll := sampler.Sample(k, false, rng)
	if len(selected) != n {
		t.Fatalf("len(selected) = %d, want %d", len(selected), n)
	}
	if ll > 0 {
		t.Errorf("logLikelihood = %g, want <= 0", ll)
	}
	// The kernel must be untouched by Sample.
	if k.At(0, 0) != 0.9 || k.At(1, 1) != 0.1 || k.At(2, 2) != 0.5 {
		t.Errorf("Sample mutated the caller's kernel")
	}
}
