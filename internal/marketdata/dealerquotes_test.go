package marketdata

import (
	"testing"
	"time"

	"github.com/htfilia/tradingboard/internal/rng"
)

func TestDealerQuoteBuilderInvariant(t *testing.T) {
	cfg := DealerQuoteConfig{
		Dealers:          []string{"GS", "JPM", "MS"},
		BaseSpread:       0.02,
		SpreadVolatility: 0.05,
		MinSpread:        0.005,
	}
	b := NewDealerQuoteBuilder(cfg, rng.New(9))

	for trial := 0; trial < 200; trial++ {
		quotes := b.Generate("BOND1", 100.0, time.Now())
		if len(quotes) != len(cfg.Dealers) {
			t.Fatalf("expected %d quotes, got %d", len(cfg.Dealers), len(quotes))
		}
		for _, q := range quotes {
			if err := q.Validate(); err != nil {
				t.Fatalf("trial %d: %v", trial, err)
			}
			if q.Ask-q.Bid < cfg.MinSpread-1e-9 {
				t.Fatalf("spread %v below min %v", q.Ask-q.Bid, cfg.MinSpread)
			}
		}
	}
}
