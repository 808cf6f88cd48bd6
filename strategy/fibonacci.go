package strategy

import (
	"math"

	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// FibonacciRetracement buys price sitting at a retracement level of the
// recent swing range, with confidence weighted by the level's significance.
type FibonacciRetracement struct {
	Period int
}

// NewFibonacciRetracement initializes a Fibonacci retracement strategy with
// the default 20 period swing window.
func NewFibonacciRetracement() *FibonacciRetracement {
	return &FibonacciRetracement{
		Period: 20,
	}
}

// Name returns the strategy identifier.
func (s *FibonacciRetracement) Name() string { return "fibonacci" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *FibonacciRetracement) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *FibonacciRetracement) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	recentHigh := indicator.Last(indicator.RollingMax(highSeries(candles), s.Period))
	recentLow := indicator.Last(indicator.RollingMin(lowSeries(candles), s.Period))

	priceRange := recentHigh - recentLow
	if priceRange == 0 {
		return shared.HoldSignal()
	}

	price := candles[len(candles)-1].Close
	tolerance := priceRange * 0.01

	// Retracement levels measured down from the swing high, with confidence
	// rising toward the midpoint.
	levels := []struct {
		ratio      float64
		confidence float64
	}{
		{0.236, 0.7},
		{0.382, 0.8},
		{0.500, 0.9},
		{0.618, 0.8},
	}

	for _, level := range levels {
		target := recentHigh - priceRange*level.ratio
		if math.Abs(price-target) < tolerance {
			return shared.Signal{Direction: shared.Up, Confidence: level.confidence}
		}
	}

	return shared.HoldSignal()
}
