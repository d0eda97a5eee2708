// Package instrument defines immutable instrument configuration and the
// scenario overrides applied at feed construction.
package instrument

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Type identifies the simulator family an instrument uses.
type Type string

const (
	Equity Type = "EQUITY"
	Rate   Type = "RATE"
	Option Type = "OPTION"
	Future Type = "FUTURE"
	Swap   Type = "SWAP"
)

// LiquidityRegime is an opaque label attached to ticks; it has no bearing on
// matching.
type LiquidityRegime string

const (
	High    LiquidityRegime = "HIGH"
	Medium  LiquidityRegime = "MEDIUM"
	Low     LiquidityRegime = "LOW"
	Extreme LiquidityRegime = "EXTREME"
)

// OrderBookSettings configures the ladder builder for an instrument.
type OrderBookSettings struct {
	Levels         int     `json:"levels"`
	BaseQuantity   float64 `json:"base_quantity"`
	QuantityDecay  float64 `json:"quantity_decay"`
	PriceNoise     float64 `json:"price_noise"`
}

// DealerQuoteSettings configures the dealer-quote builder for an instrument.
type DealerQuoteSettings struct {
	Dealers         []string `json:"dealers"`
	BaseSpread      float64  `json:"base_spread"`
	SpreadVolatility float64 `json:"spread_volatility"`
	MinSpread       float64  `json:"min_spread"`
}

// Scenario is a set of parameter overrides applied at construction.
type Scenario struct {
	Name                   string          `json:"name"`
	VolatilityScale        float64         `json:"volatility_scale"`
	DriftShift             float64         `json:"drift_shift"`
	LongRunMeanShift       float64         `json:"long_run_mean_shift"`
	LiquidityRegime        LiquidityRegime `json:"liquidity_regime"`
	UpdateIntervalOverride time.Duration   `json:"update_interval_override"`
	Halted                 bool            `json:"halted"`
}

// Config is the immutable, load-once configuration for one instrument.
type Config struct {
	InstrumentID    string          `json:"instrument_id"`
	InstrumentType  Type            `json:"instrument_type"`
	StartPrice      float64         `json:"start_price"`
	TickSize        float64         `json:"tick_size"`
	StepSeconds     float64         `json:"step_seconds"`
	UpdateInterval  time.Duration   `json:"update_interval"`
	LiquidityRegime LiquidityRegime `json:"liquidity_regime"`
	Seed            int64           `json:"seed"`

	Drift          float64 `json:"drift"`
	Volatility     float64 `json:"volatility"`
	MeanReversion  float64 `json:"mean_reversion"`
	LongRunMean    float64 `json:"long_run_mean"`

	OrderBook    *OrderBookSettings   `json:"order_book_settings,omitempty"`
	DealerQuotes *DealerQuoteSettings `json:"dealer_quote_settings,omitempty"`
	Scenario     *Scenario            `json:"scenario,omitempty"`
}

// Validate rejects configurations that would make a simulator reject its
// inputs at construction time, per spec §4.1.
func (c Config) Validate() error {
	if c.StartPrice <= 0 {
		return fmt.Errorf("instrument %s: start_price must be > 0", c.InstrumentID)
	}
	if c.TickSize <= 0 {
		return fmt.Errorf("instrument %s: tick_size must be > 0", c.InstrumentID)
	}
	if c.StepSeconds <= 0 {
		return fmt.Errorf("instrument %s: step_seconds must be > 0", c.InstrumentID)
	}
	if c.Volatility < 0 {
		return fmt.Errorf("instrument %s: volatility must be >= 0", c.InstrumentID)
	}
	if (c.InstrumentType == Rate || c.InstrumentType == Swap) && c.MeanReversion < 0 {
		return fmt.Errorf("instrument %s: mean_reversion must be >= 0", c.InstrumentID)
	}
	return nil
}

// EffectiveParameters is the result of applying a scenario to a Config,
// keeping the simulator itself stateless with respect to scenario policy.
type EffectiveParameters struct {
	Drift           float64
	Volatility      float64
	MeanReversion   float64
	LongRunMean     float64
	LiquidityRegime LiquidityRegime
	UpdateInterval  time.Duration
}

// ApplyScenario derives the effective simulation parameters for a config,
// folding in any scenario overrides. Halting an instrument forces its
// update interval to at least one day.
func ApplyScenario(c Config) EffectiveParameters {
	p := EffectiveParameters{
		Drift:           c.Drift,
		Volatility:      c.Volatility,
		MeanReversion:   c.MeanReversion,
		LongRunMean:     c.LongRunMean,
		LiquidityRegime: c.LiquidityRegime,
		UpdateInterval:  c.UpdateInterval,
	}

	sc := c.Scenario
	if sc == nil {
		return p
	}

	p.Drift += sc.DriftShift
	if sc.VolatilityScale != 0 {
		p.Volatility *= sc.VolatilityScale
	}
	p.LongRunMean += sc.LongRunMeanShift
	if sc.LiquidityRegime != "" {
		p.LiquidityRegime = sc.LiquidityRegime
	}
	if sc.UpdateIntervalOverride > 0 {
		p.UpdateInterval = sc.UpdateIntervalOverride
	}
	if sc.Halted {
		minHalted := 24 * time.Hour
		if p.UpdateInterval < minHalted {
			p.UpdateInterval = minHalted
		}
	}

	return p
}

// LoadCatalog reads a JSON array of instrument configs from path.
func LoadCatalog(path string) ([]Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instruments file: %w", err)
	}
	var cfgs []Config
	if err := json.Unmarshal(b, &cfgs); err != nil {
		return nil, fmt.Errorf("parse instruments file: %w", err)
	}
	for _, c := range cfgs {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return cfgs, nil
}
