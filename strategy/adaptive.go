package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// Regime represents the detected market regime.
type Regime int

const (
	Trending Regime = iota
	Ranging
	Volatile
)

// String stringifies the provided regime.
func (r Regime) String() string {
	switch r {
	case Trending:
		return "trending"
	case Ranging:
		return "ranging"
	case Volatile:
		return "volatile"
	default:
		return "unknown"
	}
}

// Adaptive switches between trend following, mean reversion and volatility
// breakout playbooks depending on the detected market regime.
type Adaptive struct{}

// NewAdaptive initializes an adaptive regime-switching strategy.
func NewAdaptive() *Adaptive {
	return &Adaptive{}
}

// Name returns the strategy identifier.
func (s *Adaptive) Name() string { return "adaptive" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *Adaptive) Lookback() int { return 50 }

// detectRegime classifies the market using short-window return volatility and
// the spread between the short and long moving averages.
func (s *Adaptive) detectRegime(closes []float64) Regime {
	returns := indicator.PctChangeSeries(closes)
	volatility := indicator.Last(indicator.StdDevSeries(returns, 20))

	smaShort := indicator.SMA(closes, 10)
	smaLong := indicator.SMA(closes, 30)

	trendStrength := 0.0
	if indicator.Valid(smaShort) && indicator.Valid(smaLong) && smaLong != 0 {
		trendStrength = (smaShort - smaLong) / smaLong
		if trendStrength < 0 {
			trendStrength = -trendStrength
		}
	}

	switch {
	case indicator.Valid(volatility) && volatility > 0.02:
		return Volatile
	case trendStrength > 0.01:
		return Trending
	default:
		return Ranging
	}
}

// Evaluate derives a signal from the provided candle buffer.
func (s *Adaptive) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	closes := closeSeries(candles)

	switch s.detectRegime(closes) {
	case Trending:
		emaShort := indicator.Last(indicator.EMASeries(closes, 10))
		emaLong := indicator.Last(indicator.EMASeries(closes, 30))
		if emaShort > emaLong {
			return shared.Signal{Direction: shared.Up, Confidence: 0.8}
		}
		return shared.Signal{Direction: shared.Down, Confidence: 0.8}

	case Ranging:
		sma := indicator.SMA(closes, 20)
		std := indicator.StdDev(closes, 20)

		var zScore float64
		if indicator.Valid(std) && std > 0 {
			zScore = (indicator.Last(closes) - sma) / std
		}

		switch {
		case zScore > 1.5:
			return shared.Signal{Direction: shared.Down, Confidence: 0.7}
		case zScore < -1.5:
			return shared.Signal{Direction: shared.Up, Confidence: 0.7}
		}

	case Volatile:
		// Range expansion measured as the rolling high-low envelope width.
		highs := indicator.RollingMax(highSeries(candles), 20)
		lows := indicator.RollingMin(lowSeries(candles), 20)

		envelope := make([]float64, len(candles))
		for i := range envelope {
			envelope[i] = highs[i] - lows[i]
		}

		current := indicator.Last(envelope)
		average := indicator.Mean(envelope)
		prev := indicator.At(closes, 2)

		if indicator.Valid(current) && indicator.Valid(average) &&
			current > average*1.5 && prev != 0 {
			priceChange := (indicator.Last(closes) - prev) / prev
			if priceChange > 0 {
				return shared.Signal{Direction: shared.Up, Confidence: 0.8}
			}
			return shared.Signal{Direction: shared.Down, Confidence: 0.8}
		}
	}

	return shared.HoldSignal()
}
