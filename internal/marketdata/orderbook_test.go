package marketdata

import (
	"testing"
	"time"

	"github.com/htfilia/tradingboard/internal/rng"
)

func TestLadderBuilderDeterministic(t *testing.T) {
	cfg := LadderConfig{
		Levels:        3,
		TickSize:      0.01,
		BaseQuantity:  500,
		QuantityDecay: 0.6,
		PriceNoise:    0,
	}
	b := NewLadderBuilder(cfg, rng.New(42))

	snap := b.Build(100.0, time.Now())

	wantBids := []BookLevel{{99.99, 500}, {99.98, 300}, {99.97, 180}}
	wantAsks := []BookLevel{{100.01, 500}, {100.02, 300}, {100.03, 180}}

	for i, lvl := range snap.Bids {
		if lvl.Price != wantBids[i].Price || lvl.Quantity != wantBids[i].Quantity {
			t.Fatalf("bid level %d: got %+v want %+v", i, lvl, wantBids[i])
		}
	}
	for i, lvl := range snap.Asks {
		if lvl.Price != wantAsks[i].Price || lvl.Quantity != wantAsks[i].Quantity {
			t.Fatalf("ask level %d: got %+v want %+v", i, lvl, wantAsks[i])
		}
	}

	if err := snap.Validate(); err != nil {
		t.Fatalf("snapshot invalid: %v", err)
	}
}

func TestLadderBuilderNoiseStaysMonotone(t *testing.T) {
	cfg := LadderConfig{
		Levels:        5,
		TickSize:      0.01,
		BaseQuantity:  100,
		QuantityDecay: 0.8,
		PriceNoise:    0.05,
	}
	r := rng.New(1)
	b := NewLadderBuilder(cfg, r)

	for trial := 0; trial < 200; trial++ {
		snap := b.Build(50.0, time.Now())
		if err := snap.Validate(); err != nil {
			t.Fatalf("trial %d: snapshot invalid: %v", trial, err)
		}
	}
}
