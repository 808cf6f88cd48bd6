package strategy

import (
	"math"

	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// MeanReversion fades z-score extremes of price against its rolling mean.
type MeanReversion struct {
	Period int
	StdDev float64
}

// NewMeanReversion initializes a mean reversion strategy with the default
// 20 period and 2 deviation trigger.
func NewMeanReversion() *MeanReversion {
	return &MeanReversion{
		Period: 20,
		StdDev: 2,
	}
}

// Name returns the strategy identifier.
func (s *MeanReversion) Name() string { return "mean_reversion" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *MeanReversion) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *MeanReversion) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	closes := closeSeries(candles)
	sma := indicator.SMA(closes, s.Period)
	std := indicator.StdDev(closes, s.Period)
	price := indicator.Last(closes)

	var zScore float64
	if indicator.Valid(std) && std > 0 {
		zScore = (price - sma) / std
	}

	confidence := capConfidence(math.Abs(zScore)/3, 0.9)

	switch {
	case zScore > s.StdDev:
		// Price stretched above the mean.
		return shared.Signal{Direction: shared.Down, Confidence: confidence}
	case zScore < -s.StdDev:
		// Price stretched below the mean.
		return shared.Signal{Direction: shared.Up, Confidence: confidence}
	default:
		return shared.HoldSignal()
	}
}
