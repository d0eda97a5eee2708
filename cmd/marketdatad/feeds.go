package main

import (
	"github.com/htfilia/tradingboard/internal/bookcache"
	"github.com/htfilia/tradingboard/internal/instrument"
	"github.com/htfilia/tradingboard/internal/marketdata"
	"github.com/htfilia/tradingboard/internal/rng"
	"github.com/htfilia/tradingboard/internal/simulate"
)

// buildFeeds constructs one Feed per instrument in the catalog, wired to
// the shared sink, book cache, retry policy and optional broadcaster,
// folding in any scenario overrides before constructing the simulator
// and optional ladder/dealer-quote generators (spec §4.1, §4.2, §4.3).
func buildFeeds(catalog []instrument.Config, sink interface {
	marketdata.TickSink
	marketdata.BookSink
	marketdata.QuoteSink
}, cache *bookcache.Cache, broadcaster marketdata.Broadcaster, retry marketdata.RetryPolicy) ([]*marketdata.Feed, error) {
	feeds := make([]*marketdata.Feed, 0, len(catalog))

	for _, cfg := range catalog {
		params := instrument.ApplyScenario(cfg)

		sim, err := simulate.New(string(cfg.InstrumentType), cfg.Seed, cfg.StartPrice,
			params.Drift, params.Volatility, params.MeanReversion, params.LongRunMean, cfg.StepSeconds)
		if err != nil {
			return nil, err
		}

		feed := &marketdata.Feed{
			InstrumentID:    cfg.InstrumentID,
			TickSize:        cfg.TickSize,
			LiquidityRegime: string(params.LiquidityRegime),
			UpdateInterval:  params.UpdateInterval,
			Simulator:       sim,
			TickSink:        sink,
			BookCache:       cache,
			Broadcaster:     broadcaster,
			Retry:           retry,
		}

		if cfg.OrderBook != nil {
			bookRNG := rng.New(cfg.Seed)
			feed.BookGenerator = marketdata.NewLadderBuilder(marketdata.LadderConfig{
				Levels:        cfg.OrderBook.Levels,
				TickSize:      cfg.TickSize,
				BaseQuantity:  cfg.OrderBook.BaseQuantity,
				QuantityDecay: cfg.OrderBook.QuantityDecay,
				PriceNoise:    cfg.OrderBook.PriceNoise,
			}, bookRNG)
			feed.BookSink = sink
		}

		if cfg.DealerQuotes != nil {
			quoteRNG := rng.New(cfg.Seed)
			feed.QuoteGenerator = marketdata.NewDealerQuoteBuilder(marketdata.DealerQuoteConfig{
				Dealers:          cfg.DealerQuotes.Dealers,
				BaseSpread:       cfg.DealerQuotes.BaseSpread,
				SpreadVolatility: cfg.DealerQuotes.SpreadVolatility,
				MinSpread:        cfg.DealerQuotes.MinSpread,
			}, quoteRNG)
			feed.QuoteSink = sink
		}

		feeds = append(feeds, feed)
	}

	return feeds, nil
}
