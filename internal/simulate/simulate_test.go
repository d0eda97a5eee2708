package simulate

import (
	"math"
	"testing"

	"github.com/htfilia/tradingboard/internal/rng"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestGBMDeterministicAcrossInstances(t *testing.T) {
	a, err := NewGBM(42, 100, 0.05, 0.2, 1.0/252)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewGBM(42, 100, 0.05, 0.2, 1.0/252)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		if av, bv := a.NextValue(), b.NextValue(); av != bv {
			t.Fatalf("step %d diverged: %v != %v", i, av, bv)
		}
	}
}

func TestGBMResetReplays(t *testing.T) {
	g, err := NewGBM(7, 50, 0.0, 0.3, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	var first []float64
	for i := 0; i < 10; i++ {
		first = append(first, g.NextValue())
	}
	g.Reset()
	for i := 0; i < 10; i++ {
		if v := g.NextValue(); v != first[i] {
			t.Fatalf("reset mismatch at %d: %v != %v", i, v, first[i])
		}
	}
}

func TestGBMReferenceFormula(t *testing.T) {
	const seed = 1
	startPrice, drift, vol, dt := 100.0, 0.05, 0.2, 1.0/252

	g, err := NewGBM(seed, startPrice, drift, vol, dt)
	if err != nil {
		t.Fatal(err)
	}
	ref := rng.New(seed)

	price := startPrice
	for i := 0; i < 20; i++ {
		shock := ref.Gaussian()
		price = price * math.Exp((drift-0.5*vol*vol)*dt+vol*math.Sqrt(dt)*shock)
		got := g.NextValue()
		if !almostEqual(got, price, 1e-9) {
			t.Fatalf("step %d: got %v want %v", i, got, price)
		}
	}
}

func TestGBMRejectsInvalidInputs(t *testing.T) {
	if _, err := NewGBM(1, 0, 0, 0.1, 1); err == nil {
		t.Fatal("expected error for non-positive start price")
	}
	if _, err := NewGBM(1, 100, 0, -0.1, 1); err == nil {
		t.Fatal("expected error for negative volatility")
	}
	if _, err := NewGBM(1, 100, 0, 0.1, 0); err == nil {
		t.Fatal("expected error for non-positive dt")
	}
}

func TestOUReferenceFormula(t *testing.T) {
	const seed = 2
	startRate, meanRev, longRun, vol, dt := 0.03, 0.5, 0.02, 0.01, 1.0/252

	o, err := NewOU(seed, startRate, meanRev, longRun, vol, dt)
	if err != nil {
		t.Fatal(err)
	}
	ref := rng.New(seed)

	rate := startRate
	for i := 0; i < 20; i++ {
		shock := ref.Gaussian()
		rate = rate + meanRev*(longRun-rate)*dt + vol*math.Sqrt(dt)*shock
		got := o.NextValue()
		if !almostEqual(got, rate, 1e-9) {
			t.Fatalf("step %d: got %v want %v", i, got, rate)
		}
	}
}

func TestOUCanGoNegative(t *testing.T) {
	o, err := NewOU(3, -0.01, 0.1, -0.02, 0.05, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	negativeSeen := false
	for i := 0; i < 200; i++ {
		if o.NextValue() < 0 {
			negativeSeen = true
			break
		}
	}
	if !negativeSeen {
		t.Fatal("expected OU rate to go negative at least once over 200 steps")
	}
}

func TestOURejectsInvalidInputs(t *testing.T) {
	if _, err := NewOU(1, 0.01, -0.1, 0.02, 0.01, 1); err == nil {
		t.Fatal("expected error for negative mean_reversion")
	}
	if _, err := NewOU(1, 0.01, 0.1, 0.02, -0.01, 1); err == nil {
		t.Fatal("expected error for negative volatility")
	}
	if _, err := NewOU(1, 0.01, 0.1, 0.02, 0.01, 0); err == nil {
		t.Fatal("expected error for non-positive dt")
	}
}
