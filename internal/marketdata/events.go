// Package marketdata builds and emits the synthetic market-data events that
// drive the platform: ticks, order-book ladders and dealer quotes, scheduled
// per instrument and pushed through a retrying persist+publish pipeline.
package marketdata

import (
	"fmt"
	"math"
	"time"
)

// TickEvent is a single bid/mid/ask sample for an instrument.
type TickEvent struct {
	InstrumentID    string                 `json:"instrument_id"`
	Timestamp       time.Time              `json:"timestamp"`
	Bid             float64                `json:"bid"`
	Ask             float64                `json:"ask"`
	Mid             float64                `json:"mid"`
	LiquidityRegime string                 `json:"liquidity_regime"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// Validate enforces the tick invariant: bid <= mid <= ask.
func (t TickEvent) Validate() error {
	if t.Bid > t.Mid || t.Mid > t.Ask {
		return fmt.Errorf("tick invariant violated: bid=%v mid=%v ask=%v", t.Bid, t.Mid, t.Ask)
	}
	return nil
}

// BookLevel is a single price/quantity rung of an order-book ladder.
type BookLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// OrderBookSnapshot is an immutable N-level ladder around a mid price.
type OrderBookSnapshot struct {
	InstrumentID string      `json:"instrument_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Bids         []BookLevel `json:"bids"`
	Asks         []BookLevel `json:"asks"`
}

// Validate enforces the snapshot invariants: strictly descending bids,
// strictly ascending asks, best_bid < best_ask when both sides are present.
func (s OrderBookSnapshot) Validate() error {
	for i := 1; i < len(s.Bids); i++ {
		if !(s.Bids[i].Price < s.Bids[i-1].Price) {
			return fmt.Errorf("bids not strictly descending at level %d", i)
		}
	}
	for i := 1; i < len(s.Asks); i++ {
		if !(s.Asks[i].Price > s.Asks[i-1].Price) {
			return fmt.Errorf("asks not strictly ascending at level %d", i)
		}
	}
	if len(s.Bids) > 0 && len(s.Asks) > 0 && !(s.Bids[0].Price < s.Asks[0].Price) {
		return fmt.Errorf("best_bid %v not < best_ask %v", s.Bids[0].Price, s.Asks[0].Price)
	}
	return nil
}

// DealerQuoteEvent is an OTC bid/ask attributed to a named dealer.
type DealerQuoteEvent struct {
	InstrumentID string    `json:"instrument_id"`
	DealerID     string    `json:"dealer_id"`
	Timestamp    time.Time `json:"timestamp"`
	Bid          float64   `json:"bid"`
	Ask          float64   `json:"ask"`
}

// Validate enforces the dealer quote invariant: ask > bid.
func (q DealerQuoteEvent) Validate() error {
	if !(q.Ask > q.Bid) {
		return fmt.Errorf("dealer quote invariant violated: ask=%v bid=%v", q.Ask, q.Bid)
	}
	return nil
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// BuildTick derives bid/ask from mid using half the configured tick size.
func BuildTick(instrumentID string, mid, tickSize float64, regime string, ts time.Time) TickEvent {
	half := tickSize / 2
	return TickEvent{
		InstrumentID:    instrumentID,
		Timestamp:       ts,
		Bid:             round6(mid - half),
		Ask:             round6(mid + half),
		Mid:             round6(mid),
		LiquidityRegime: regime,
	}
}
