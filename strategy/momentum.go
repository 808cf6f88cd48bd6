package strategy

import (
	"math"

	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// Momentum signals on the rate of change of price over the lookback window,
// scaling confidence with the magnitude of the move.
type Momentum struct {
	Period    int
	Threshold float64
}

// NewMomentum initializes a momentum strategy with the default 10 period and
// 0.5 percent activation threshold.
func NewMomentum() *Momentum {
	return &Momentum{
		Period:    10,
		Threshold: 0.5,
	}
}

// Name returns the strategy identifier.
func (s *Momentum) Name() string { return "momentum" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *Momentum) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *Momentum) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	closes := closeSeries(candles)
	current := indicator.Last(closes)
	past := indicator.At(closes, s.Period)
	if past == 0 {
		return shared.HoldSignal()
	}

	momentum := ((current - past) / past) * 100
	confidence := capConfidence(math.Abs(momentum)/10, 0.9)

	switch {
	case momentum > s.Threshold:
		return shared.Signal{Direction: shared.Up, Confidence: confidence}
	case momentum < -s.Threshold:
		return shared.Signal{Direction: shared.Down, Confidence: confidence}
	default:
		return shared.HoldSignal()
	}
}
