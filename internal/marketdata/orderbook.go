package marketdata

import (
	"math"
	"time"

	"github.com/htfilia/tradingboard/internal/rng"
)

// LadderConfig configures a symmetric, geometric-decay order-book ladder.
type LadderConfig struct {
	Levels        int
	TickSize      float64
	BaseQuantity  float64
	QuantityDecay float64
	PriceNoise    float64
}

// LadderBuilder builds an N-level order-book snapshot from a mid price.
// It is pure CPU: Build never suspends.
type LadderBuilder struct {
	cfg LadderConfig
	rng *rng.Source
}

// NewLadderBuilder constructs a ladder builder driven by rng for noise
// sampling. Pass a deterministic rng.Source to get reproducible books.
func NewLadderBuilder(cfg LadderConfig, r *rng.Source) *LadderBuilder {
	return &LadderBuilder{cfg: cfg, rng: r}
}

// Build produces an order-book snapshot around mid at timestamp ts.
//
// Offsets are clamped to be strictly increasing level-over-level even when
// price noise is present, so the snapshot invariants (§3) always hold
// without redrawing — the builder stays a deterministic function of the
// injected RNG stream.
func (b *LadderBuilder) Build(mid float64, ts time.Time) OrderBookSnapshot {
	bids := make([]BookLevel, b.cfg.Levels)
	asks := make([]BookLevel, b.cfg.Levels)

	prevBidOffset := 0.0
	prevAskOffset := 0.0

	for k := 0; k < b.cfg.Levels; k++ {
		baseOffset := b.cfg.TickSize * float64(k+1)

		var bidNoise, askNoise float64
		if b.cfg.PriceNoise > 0 {
			bidNoise = b.rng.NormalN(b.cfg.PriceNoise)
			askNoise = b.rng.NormalN(b.cfg.PriceNoise)
		}

		bidOffset := baseOffset + bidNoise
		if bidOffset <= prevBidOffset {
			bidOffset = prevBidOffset + b.cfg.TickSize
		}
		prevBidOffset = bidOffset

		askOffset := baseOffset + askNoise
		if askOffset <= prevAskOffset {
			askOffset = prevAskOffset + b.cfg.TickSize
		}
		prevAskOffset = askOffset

		qty := b.cfg.BaseQuantity * math.Pow(b.cfg.QuantityDecay, float64(k))

		bids[k] = BookLevel{Price: round6(mid - bidOffset), Quantity: round6(qty)}
		asks[k] = BookLevel{Price: round6(mid + askOffset), Quantity: round6(qty)}
	}

	return OrderBookSnapshot{
		Timestamp: ts,
		Bids:      bids,
		Asks:      asks,
	}
}
