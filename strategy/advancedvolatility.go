package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// AdvancedVolatility trades multi-bar momentum during average true range
// expansions, scaling confidence with the expansion ratio.
type AdvancedVolatility struct {
	Period     int
	Multiplier float64
}

// NewAdvancedVolatility initializes an advanced volatility strategy with the
// default 20 period and 1.5 expansion multiplier.
func NewAdvancedVolatility() *AdvancedVolatility {
	return &AdvancedVolatility{
		Period:     20,
		Multiplier: 1.5,
	}
}

// Name returns the strategy identifier.
func (s *AdvancedVolatility) Name() string { return "advanced_volatility" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *AdvancedVolatility) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *AdvancedVolatility) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	atr := indicator.ATRSeries(candles, s.Period)
	currentATR := indicator.Last(atr)
	avgATR := indicator.Mean(atr)
	if !indicator.Valid(currentATR) || !indicator.Valid(avgATR) || avgATR == 0 {
		return shared.HoldSignal()
	}

	volatilityRatio := currentATR / avgATR

	closes := closeSeries(candles)
	past := indicator.At(closes, 5)
	if !indicator.Valid(past) || past == 0 {
		return shared.HoldSignal()
	}

	priceChange := (indicator.Last(closes) - past) / past
	confidence := capConfidence(volatilityRatio/3, 0.9)

	if volatilityRatio > s.Multiplier {
		switch {
		case priceChange > 0.01:
			return shared.Signal{Direction: shared.Up, Confidence: confidence}
		case priceChange < -0.01:
			return shared.Signal{Direction: shared.Down, Confidence: confidence}
		}
	}

	return shared.HoldSignal()
}
