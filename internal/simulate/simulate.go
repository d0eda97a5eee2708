// Package simulate implements the seeded stochastic price processes behind
// every market-data feed: geometric Brownian motion for equities, options
// and futures, and an Ornstein-Uhlenbeck mean-reverting process for rates
// and swaps.
package simulate

import (
	"fmt"
	"math"

	"github.com/htfilia/tradingboard/internal/rng"
)

// Simulator produces the next mark for an instrument. Implementations are
// stateful and deterministic given a fixed seed.
type Simulator interface {
	NextValue() float64
	Reset()
}

// GBM is the geometric Brownian motion simulator used for equities, options
// and futures. State is a single price.
type GBM struct {
	rng   *rng.Source
	seed  int64
	start float64
	price float64

	drift      float64
	volatility float64
	dt         float64
}

// NewGBM constructs a GBM simulator. It rejects non-positive start prices,
// negative volatility, and non-positive dt, matching spec §4.1.
func NewGBM(seed int64, startPrice, drift, volatility, dt float64) (*GBM, error) {
	if startPrice <= 0 {
		return nil, fmt.Errorf("gbm: start_price must be > 0")
	}
	if volatility < 0 {
		return nil, fmt.Errorf("gbm: volatility must be >= 0")
	}
	if dt <= 0 {
		return nil, fmt.Errorf("gbm: dt must be > 0")
	}
	return &GBM{
		rng:        rng.New(seed),
		seed:       seed,
		start:      startPrice,
		price:      startPrice,
		drift:      drift,
		volatility: volatility,
		dt:         dt,
	}, nil
}

// NextValue advances the price one step and returns the new mark.
func (g *GBM) NextValue() float64 {
	shock := g.rng.Gaussian()
	g.price = g.price * math.Exp((g.drift-0.5*g.volatility*g.volatility)*g.dt+g.volatility*math.Sqrt(g.dt)*shock)
	return g.price
}

// Reset restores the initial price and re-seeds the RNG, enabling replay.
func (g *GBM) Reset() {
	g.price = g.start
	g.rng.Reset()
}

// OU is the Ornstein-Uhlenbeck mean-reverting simulator used for rates and
// swaps. State is a single rate, which may go negative.
type OU struct {
	rng  *rng.Source
	seed int64
	start float64
	rate float64

	meanReversion float64
	longRunMean   float64
	volatility    float64
	dt            float64
}

// NewOU constructs an OU simulator. It rejects negative mean_reversion,
// negative volatility, and non-positive dt, matching spec §4.1.
func NewOU(seed int64, startRate, meanReversion, longRunMean, volatility, dt float64) (*OU, error) {
	if meanReversion < 0 {
		return nil, fmt.Errorf("ou: mean_reversion must be >= 0")
	}
	if volatility < 0 {
		return nil, fmt.Errorf("ou: volatility must be >= 0")
	}
	if dt <= 0 {
		return nil, fmt.Errorf("ou: dt must be > 0")
	}
	return &OU{
		rng:           rng.New(seed),
		seed:          seed,
		start:         startRate,
		rate:          startRate,
		meanReversion: meanReversion,
		longRunMean:   longRunMean,
		volatility:    volatility,
		dt:            dt,
	}, nil
}

// NextValue advances the rate one step and returns the new mark.
func (o *OU) NextValue() float64 {
	shock := o.rng.Gaussian()
	o.rate = o.rate + o.meanReversion*(o.longRunMean-o.rate)*o.dt + o.volatility*math.Sqrt(o.dt)*shock
	return o.rate
}

// Reset restores the initial rate and re-seeds the RNG, enabling replay.
func (o *OU) Reset() {
	o.rate = o.start
	o.rng.Reset()
}

// New builds the appropriate simulator for an instrument type and its
// effective (post-scenario) parameters.
func New(instrumentType string, seed int64, startPrice float64, drift, volatility, meanReversion, longRunMean, dt float64) (Simulator, error) {
	switch instrumentType {
	case "RATE", "SWAP":
		return NewOU(seed, startPrice, meanReversion, longRunMean, volatility, dt)
	default:
		return NewGBM(seed, startPrice, drift, volatility, dt)
	}
}
