package marketdata

import (
	"math"
	"time"

	"github.com/htfilia/tradingboard/internal/rng"
)

// DealerQuoteConfig configures the dealer-quote builder.
type DealerQuoteConfig struct {
	Dealers          []string
	BaseSpread       float64
	SpreadVolatility float64
	MinSpread        float64
}

// DealerQuoteBuilder emits one quote per configured dealer around a mid
// price, with a jittered spread clamped to a configured minimum.
type DealerQuoteBuilder struct {
	cfg DealerQuoteConfig
	rng *rng.Source
}

// NewDealerQuoteBuilder constructs a dealer-quote builder.
func NewDealerQuoteBuilder(cfg DealerQuoteConfig, r *rng.Source) *DealerQuoteBuilder {
	return &DealerQuoteBuilder{cfg: cfg, rng: r}
}

// Generate produces one DealerQuoteEvent per configured dealer.
func (b *DealerQuoteBuilder) Generate(instrumentID string, mid float64, ts time.Time) []DealerQuoteEvent {
	quotes := make([]DealerQuoteEvent, len(b.cfg.Dealers))
	for i, dealer := range b.cfg.Dealers {
		jitter := b.rng.NormalN(b.cfg.SpreadVolatility)
		spread := math.Max(b.cfg.MinSpread, b.cfg.BaseSpread+jitter)
		quotes[i] = DealerQuoteEvent{
			InstrumentID: instrumentID,
			DealerID:     dealer,
			Timestamp:    ts,
			Bid:          round6(mid - spread/2),
			Ask:          round6(mid + spread/2),
		}
	}
	return quotes
}
