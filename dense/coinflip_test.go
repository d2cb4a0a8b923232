package dense

import (
	"testing"

	"golang.org/x/exp/rand"
)

func TestCoinFlipFactorProducesValidSelection(t *testing.T) {
	const n = 5
	a := spdView(n)
	// Rescale toward [0,1]-ish diagonal dominance so the coin-flip
	// probabilities are well-formed regardless of the random draws.
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			a.Set(i, j, a.At(i, j)/float64(n+i))
		}
	}
	rng := rand.New(rand.NewSource(42))
	selected, logLikelihood := CoinFlipFactor(a, LDLAdjoint, false, rng)
	if len(selected) != n {
		t.Fatalf("len(selected) = %d, want %d", len(selected), n)
	}
	if logLikelihood > 0 {
		t.Errorf("logLikelihood = %g, want <= 0 (sum of log-probabilities)", logLikelihood)
	}
}

func TestCoinFlipFactorMaximumLikelihoodIsDeterministic(t *testing.T) {
	const n = 5
	a := spdView(n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			a.Set(i, j, a.At(i, j)/float64(n+i))
		}
	}
	b := New[float64](n, n)
	b.CopyFrom(a)

	selected1, ll1 := CoinFlipFactor(a, LDLAdjoint, true, nil)
	selected2, ll2 := CoinFlipFactor(b, LDLAdjoint, true, nil)
	if ll1 != ll2 {
		t.Errorf("logLikelihood not deterministic: %g vs %g", ll1, ll2)
	}
	for i := range selected1 {
		if selected1[i] != selected2[i] {
			t.Errorf("selected[%d] not deterministic: %v vs %v", i, selected1[i], selected2[i])
		}
	}
}

func TestCoinFlipLUProducesValidSelection(t *testing.T) {
	const n = 4
	a := New[float64](n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				a.Set(i, j, 0.5)
			} else {
				a.Set(i, j, 0.05*float64(i-j))
			}
		}
	}
	rng := rand.New(rand.NewSource(7))
	selected, logLikelihood := CoinFlipLU(a, false, rng)
	if len(selected) != n {
		t.Fatalf("len(selected) = %d, want %d", len(selected), n)
	}
	if logLikelihood > 0 {
		t.Errorf("logLikelihood = %g, want <= 0", logLikelihood)
	}
}
