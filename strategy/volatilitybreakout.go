package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// VolatilityBreakout trades with last-bar momentum when the current average
// true range expands well beyond its historical mean.
type VolatilityBreakout struct {
	Period     int
	Multiplier float64
}

// NewVolatilityBreakout initializes a volatility breakout strategy with the
// default 20 period and 1.5 expansion multiplier.
func NewVolatilityBreakout() *VolatilityBreakout {
	return &VolatilityBreakout{
		Period:     20,
		Multiplier: 1.5,
	}
}

// Name returns the strategy identifier.
func (s *VolatilityBreakout) Name() string { return "vb" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *VolatilityBreakout) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *VolatilityBreakout) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	atr := indicator.ATRSeries(candles, s.Period)
	currentATR := indicator.Last(atr)
	avgATR := indicator.Mean(atr)
	if !indicator.Valid(currentATR) || !indicator.Valid(avgATR) {
		return shared.HoldSignal()
	}

	if currentATR > avgATR*s.Multiplier {
		// Expanding volatility, follow the last bar's momentum.
		closes := closeSeries(candles)
		priceChange := indicator.At(closes, 1) - indicator.At(closes, 2)
		if priceChange > 0 {
			return shared.Signal{Direction: shared.Up, Confidence: 0.7}
		}
		return shared.Signal{Direction: shared.Down, Confidence: 0.7}
	}

	return shared.HoldSignal()
}
