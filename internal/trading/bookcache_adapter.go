package trading

import (
	"context"
	"errors"

	"github.com/htfilia/tradingboard/internal/bookcache"
)

// BookCacheSource adapts the market-data book cache (bookcache.Cache) into
// the trading package's BookSource port, translating its wire-format
// snapshot into the domain-local ListedInstrumentBook and its not-found
// sentinel into ErrInstrumentNotFound.
type BookCacheSource struct {
	Cache *bookcache.Cache
}

// GetOrderBook implements BookSource.
func (s BookCacheSource) GetOrderBook(ctx context.Context, instrumentID string) (ListedInstrumentBook, error) {
	snap, err := s.Cache.Get(instrumentID)
	if err != nil {
		if errors.Is(err, bookcache.ErrInstrumentNotFound) {
			return ListedInstrumentBook{}, NewInstrumentNotFoundError(instrumentID)
		}
		return ListedInstrumentBook{}, err
	}

	bids := make([]Level, len(snap.Bids))
	for i, l := range snap.Bids {
		bids[i] = Level{Price: l.Price, Quantity: l.Quantity}
	}
	asks := make([]Level, len(snap.Asks))
	for i, l := range snap.Asks {
		asks[i] = Level{Price: l.Price, Quantity: l.Quantity}
	}

	return ListedInstrumentBook{
		InstrumentID: instrumentID,
		Bids:         bids,
		Asks:         asks,
	}, nil
}
