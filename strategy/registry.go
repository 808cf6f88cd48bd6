package strategy

import (
	"fmt"
	"sort"
)

// Entry couples a strategy constructor with its aggregation weight.
type Entry struct {
	New    func() Strategy
	Weight float64
}

// registry enumerates the available strategies keyed by identifier. Weights
// default to 1.0; deviations temper strategies whose raw confidences proved
// unreliable in backtests.
var registry = map[string]Entry{
	"ma":                    {New: func() Strategy { return NewMovingAverageCrossover() }, Weight: 1.0},
	"rsi":                   {New: func() Strategy { return NewRSI() }, Weight: 1.2},
	"bb":                    {New: func() Strategy { return NewBollingerBands() }, Weight: 1.0},
	"vb":                    {New: func() Strategy { return NewVolatilityBreakout() }, Weight: 1.0},
	"macd":                  {New: func() Strategy { return NewMACD() }, Weight: 1.0},
	"stoch":                 {New: func() Strategy { return NewStochastic() }, Weight: 1.0},
	"williams":              {New: func() Strategy { return NewWilliamsR() }, Weight: 1.0},
	"sar":                   {New: func() Strategy { return NewParabolicSAR() }, Weight: 1.0},
	"ichimoku":              {New: func() Strategy { return NewIchimoku() }, Weight: 1.0},
	"momentum":              {New: func() Strategy { return NewMomentum() }, Weight: 1.0},
	"mean_reversion":        {New: func() Strategy { return NewMeanReversion() }, Weight: 1.0},
	"trend_following":       {New: func() Strategy { return NewTrendFollowing() }, Weight: 1.0},
	"advanced_volatility":   {New: func() Strategy { return NewAdvancedVolatility() }, Weight: 1.0},
	"support_resistance":    {New: func() Strategy { return NewSupportResistance() }, Weight: 1.0},
	"divergence":            {New: func() Strategy { return NewDivergence() }, Weight: 1.0},
	"volume_price":          {New: func() Strategy { return NewVolumePrice() }, Weight: 1.0},
	"fibonacci":             {New: func() Strategy { return NewFibonacciRetracement() }, Weight: 1.0},
	"adaptive":              {New: func() Strategy { return NewAdaptive() }, Weight: 1.0},
	"elliott_wave":          {New: func() Strategy { return NewElliottWave() }, Weight: 1.0},
	"harmonic_pattern":      {New: func() Strategy { return NewHarmonicPattern() }, Weight: 1.0},
	"order_flow":            {New: func() Strategy { return NewOrderFlow() }, Weight: 1.0},
	"market_microstructure": {New: func() Strategy { return NewMarketMicrostructure() }, Weight: 1.0},
	"sentiment":             {New: func() Strategy { return NewSentimentAnalysis() }, Weight: 1.0},
	"momentum_divergence":   {New: func() Strategy { return NewMomentumDivergence() }, Weight: 1.0},
	"volatility_regime":     {New: func() Strategy { return NewVolatilityRegime() }, Weight: 1.0},
	"price_action":          {New: func() Strategy { return NewPriceAction() }, Weight: 1.0},
	"correlation":           {New: func() Strategy { return NewCorrelation() }, Weight: 0.5},
	"ml_inspired":           {New: func() Strategy { return NewMachineLearningInspired() }, Weight: 1.0},
}

// Identifiers returns the sorted identifiers of all registered strategies.
func Identifiers() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Weight returns the configured aggregation weight for the provided strategy
// identifier, defaulting to 1.0 for unknown identifiers.
func Weight(id string) float64 {
	entry, ok := registry[id]
	if !ok {
		return 1.0
	}

	return entry.Weight
}

// New instantiates the strategy registered under the provided identifier.
func New(id string) (Strategy, error) {
	entry, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", id)
	}

	return entry.New(), nil
}

// NewSet instantiates the strategies registered under the provided
// identifiers, or all registered strategies when none are provided.
func NewSet(ids []string) ([]Strategy, error) {
	if len(ids) == 0 {
		ids = Identifiers()
	}

	set := make([]Strategy, 0, len(ids))
	for _, id := range ids {
		strat, err := New(id)
		if err != nil {
			return nil, err
		}
		set = append(set, strat)
	}

	return set, nil
}
