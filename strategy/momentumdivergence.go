package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// MomentumDivergence looks for disagreement between rolling price extremes
// and rolling extremes of raw momentum (close minus the close Period bars
// earlier).
type MomentumDivergence struct {
	Period int
}

// NewMomentumDivergence initializes a momentum divergence strategy with the
// default 14 period.
func NewMomentumDivergence() *MomentumDivergence {
	return &MomentumDivergence{
		Period: 14,
	}
}

// Name returns the strategy identifier.
func (s *MomentumDivergence) Name() string { return "momentum_divergence" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *MomentumDivergence) Lookback() int { return s.Period * 2 }

// Evaluate derives a signal from the provided candle buffer.
func (s *MomentumDivergence) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	closes := closeSeries(candles)
	momentum := indicator.DiffSeries(closes, s.Period)

	lookback := 10
	if half := len(candles) / 2; half < lookback {
		lookback = half
	}

	priceHighs := indicator.RollingMax(highSeries(candles), 3)
	priceLows := indicator.RollingMin(lowSeries(candles), 3)
	momentumHighs := indicator.RollingMax(momentum, 3)
	momentumLows := indicator.RollingMin(momentum, 3)

	// Bullish divergence: price makes a lower low while momentum holds a
	// higher low.
	if indicator.At(priceLows, 1) < indicator.At(priceLows, lookback) &&
		indicator.At(momentumLows, 1) > indicator.At(momentumLows, lookback) {
		return shared.Signal{Direction: shared.Up, Confidence: 0.9}
	}

	// Bearish divergence: price makes a higher high while momentum fades.
	if indicator.At(priceHighs, 1) > indicator.At(priceHighs, lookback) &&
		indicator.At(momentumHighs, 1) < indicator.At(momentumHighs, lookback) {
		return shared.Signal{Direction: shared.Down, Confidence: 0.9}
	}

	return shared.HoldSignal()
}
