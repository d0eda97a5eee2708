package marketdata

import (
	"context"
	"log"
	"time"
)

// Simulator is the capability a feed needs from its price process: only
// the next mark. Satisfied by *simulate.GBM and *simulate.OU without an
// import, keeping the pipeline decoupled from the simulator package.
type Simulator interface {
	NextValue() float64
}

// BookGenerator is the capability a feed needs to build an order-book
// ladder from a mid price.
type BookGenerator interface {
	Build(mid float64, ts time.Time) OrderBookSnapshot
}

// QuoteGenerator is the capability a feed needs to build dealer quotes
// from a mid price.
type QuoteGenerator interface {
	Generate(instrumentID string, mid float64, ts time.Time) []DealerQuoteEvent
}

// TickSink persists and publishes tick events.
type TickSink interface {
	PersistTick(ctx context.Context, ev TickEvent) error
	PublishTick(ctx context.Context, ev TickEvent) error
}

// BookSink persists and publishes order-book snapshots.
type BookSink interface {
	PersistBook(ctx context.Context, snap OrderBookSnapshot) error
	PublishBook(ctx context.Context, snap OrderBookSnapshot) error
}

// QuoteSink persists and publishes dealer quotes.
type QuoteSink interface {
	PersistQuote(ctx context.Context, q DealerQuoteEvent) error
	PublishQuote(ctx context.Context, q DealerQuoteEvent) error
}

// BookCacheWriter is the single-writer side of the book cache (internal/bookcache).
type BookCacheWriter interface {
	Update(instrumentID string, snap OrderBookSnapshot)
}

// Broadcaster is an optional capability for fanning out events to live
// dashboard viewers over WebSocket. Feeds without one simply skip it.
type Broadcaster interface {
	BroadcastTick(instrumentID string, ev TickEvent)
	BroadcastBook(instrumentID string, snap OrderBookSnapshot)
	BroadcastQuote(instrumentID string, q DealerQuoteEvent)
}

// Feed composes a simulator (required) with an optional book generator and
// an optional dealer-quote generator, per Design Notes §9: "A feed
// composes three optional capabilities (simulator required, book generator
// optional, dealer-quote generator optional)."
type Feed struct {
	InstrumentID    string
	TickSize        float64
	LiquidityRegime string
	UpdateInterval  time.Duration

	Simulator      Simulator
	BookGenerator  BookGenerator  // nil if this instrument has no order book
	QuoteGenerator QuoteGenerator // nil if this instrument has no dealer quotes

	TickSink  TickSink
	BookSink  BookSink  // nil unless BookGenerator is set
	QuoteSink QuoteSink // nil unless QuoteGenerator is set
	BookCache BookCacheWriter

	Broadcaster Broadcaster

	Retry RetryPolicy

	scheduler Scheduler
	lastTick  TickEvent // single writer: the pump loop
}

// Due reports whether this feed should emit at wall time t.
func (f *Feed) Due(t time.Time) bool {
	return f.scheduler.Due(t)
}

// LastTick returns the most recently cached tick for this feed.
func (f *Feed) LastTick() TickEvent {
	return f.lastTick
}

// EmitOnce runs the full ordered emission sequence for one due feed (spec
// §4.5): build tick, persist then publish it, cache it, optionally build
// and persist/publish a book (updating the book cache), optionally build
// and persist/publish dealer quotes. next_due is NOT advanced here — the
// caller (Pipeline.Pump) advances it unconditionally after calling this,
// so a persistently failing feed cannot monopolize retries.
func (f *Feed) EmitOnce(ctx context.Context, t time.Time) error {
	mid := f.Simulator.NextValue()
	tick := BuildTick(f.InstrumentID, mid, f.TickSize, f.LiquidityRegime, t)

	if err := f.Retry.Do(ctx, func(ctx context.Context) error {
		return f.TickSink.PersistTick(ctx, tick)
	}); err != nil {
		return err
	}
	if err := f.Retry.Do(ctx, func(ctx context.Context) error {
		return f.TickSink.PublishTick(ctx, tick)
	}); err != nil {
		return err
	}

	f.lastTick = tick
	if f.Broadcaster != nil {
		f.Broadcaster.BroadcastTick(f.InstrumentID, tick)
	}

	if f.BookGenerator != nil {
		snap := f.BookGenerator.Build(mid, t)
		snap.InstrumentID = f.InstrumentID

		if err := f.Retry.Do(ctx, func(ctx context.Context) error {
			return f.BookSink.PersistBook(ctx, snap)
		}); err != nil {
			return err
		}
		if err := f.Retry.Do(ctx, func(ctx context.Context) error {
			return f.BookSink.PublishBook(ctx, snap)
		}); err != nil {
			return err
		}

		if f.BookCache != nil {
			f.BookCache.Update(f.InstrumentID, snap)
		}
		if f.Broadcaster != nil {
			f.Broadcaster.BroadcastBook(f.InstrumentID, snap)
		}
	}

	if f.QuoteGenerator != nil {
		quotes := f.QuoteGenerator.Generate(f.InstrumentID, mid, t)
		for _, q := range quotes {
			if err := f.Retry.Do(ctx, func(ctx context.Context) error {
				return f.QuoteSink.PersistQuote(ctx, q)
			}); err != nil {
				return err
			}
			if err := f.Retry.Do(ctx, func(ctx context.Context) error {
				return f.QuoteSink.PublishQuote(ctx, q)
			}); err != nil {
				return err
			}
			if f.Broadcaster != nil {
				f.Broadcaster.BroadcastQuote(f.InstrumentID, q)
			}
		}
	}

	return nil
}

// Pipeline drives every due feed through exactly one EmitOnce per pump.
// Feeds are emitted sequentially within a pump; no ordering is guaranteed
// across feeds (spec §4.5).
type Pipeline struct {
	Feeds []*Feed
}

// Pump checks every feed's due status at wall time t and emits the due
// ones in order. next_due is advanced unconditionally, even on failure.
func (p *Pipeline) Pump(ctx context.Context, t time.Time) {
	for _, f := range p.Feeds {
		if !f.Due(t) {
			continue
		}
		err := f.EmitOnce(ctx, t)
		f.scheduler.Advance(t, f.UpdateInterval)
		if err != nil {
			log.Printf("marketdata: feed %s emission failed: %v", f.InstrumentID, err)
		}
	}
}
