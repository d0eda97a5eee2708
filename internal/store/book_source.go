package store

import (
	"context"

	"github.com/htfilia/tradingboard/internal/trading"
)

// BookSource implements trading.BookSource by reading the latest durable
// order-book snapshot the market-data service persisted to order_books.
// The trading and market-data services run as separate processes, so the
// in-memory internal/bookcache.Cache (single-writer/multi-reader within
// one process) cannot be shared across them; this adapter reads the same
// snapshot from Mongo instead, trading a small amount of staleness for a
// simple, stateless trading-service deployment (Design Notes §9).
type BookSource struct {
	sink *MarketDataSink
}

// NewBookSource wraps a MarketDataSink as a trading.BookSource.
func NewBookSource(sink *MarketDataSink) *BookSource {
	return &BookSource{sink: sink}
}

// GetOrderBook returns the latest snapshot for instrumentID, converted
// from the market-data wire shape into trading's own Level type.
func (b *BookSource) GetOrderBook(ctx context.Context, instrumentID string) (trading.ListedInstrumentBook, error) {
	snap, err := b.sink.LatestBook(ctx, instrumentID)
	if err != nil {
		return trading.ListedInstrumentBook{}, err
	}
	if snap == nil {
		return trading.ListedInstrumentBook{}, trading.NewInstrumentNotFoundError(instrumentID)
	}

	book := trading.ListedInstrumentBook{
		InstrumentID: snap.InstrumentID,
		Bids:         make([]trading.Level, len(snap.Bids)),
		Asks:         make([]trading.Level, len(snap.Asks)),
	}
	for i, lvl := range snap.Bids {
		book.Bids[i] = trading.Level{Price: lvl.Price, Quantity: lvl.Quantity}
	}
	for i, lvl := range snap.Asks {
		book.Asks[i] = trading.Level{Price: lvl.Price, Quantity: lvl.Quantity}
	}
	return book, nil
}
