package strategy

import (
	"github.com/ryel/quorum/shared"
)

// ParabolicSAR signals on which side of a simplified stop-and-reverse level
// price currently sits. The level is derived from the last bar's range rather
// than Wilder's accelerating factor.
type ParabolicSAR struct {
	Acceleration float64
	Maximum      float64
}

// NewParabolicSAR initializes a parabolic SAR strategy with the default
// 0.02/0.2 factors.
func NewParabolicSAR() *ParabolicSAR {
	return &ParabolicSAR{
		Acceleration: 0.02,
		Maximum:      0.2,
	}
}

// Name returns the strategy identifier.
func (s *ParabolicSAR) Name() string { return "sar" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *ParabolicSAR) Lookback() int { return 2 }

// sar derives the simplified stop-and-reverse level from the last bar.
func (s *ParabolicSAR) sar(last *shared.Candle) float64 {
	switch {
	case last.Close > last.High*0.99:
		// Price near the high, level trails below the low.
		return last.Low * 0.99
	case last.Close < last.Low*1.01:
		// Price near the low, level rides above the high.
		return last.High * 1.01
	default:
		return last.Close
	}
}

// Evaluate derives a signal from the provided candle buffer.
func (s *ParabolicSAR) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	last := &candles[len(candles)-1]
	sar := s.sar(last)

	switch {
	case last.Close > sar:
		return shared.Signal{Direction: shared.Up, Confidence: 0.7}
	case last.Close < sar:
		return shared.Signal{Direction: shared.Down, Confidence: 0.7}
	default:
		return shared.HoldSignal()
	}
}
