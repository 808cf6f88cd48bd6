package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// WilliamsR signals on Williams %R oversold/overbought extremes.
type WilliamsR struct {
	Period     int
	Oversold   float64
	Overbought float64
}

// NewWilliamsR initializes a Williams %R strategy with the default 14 period
// and -80/-20 extremes.
func NewWilliamsR() *WilliamsR {
	return &WilliamsR{
		Period:     14,
		Oversold:   -80,
		Overbought: -20,
	}
}

// Name returns the strategy identifier.
func (s *WilliamsR) Name() string { return "williams" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *WilliamsR) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *WilliamsR) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	williamsR := indicator.WilliamsR(candles, s.Period)

	switch {
	case williamsR < s.Oversold:
		return shared.Signal{Direction: shared.Up, Confidence: 0.9}
	case williamsR > s.Overbought:
		return shared.Signal{Direction: shared.Down, Confidence: 0.9}
	default:
		return shared.HoldSignal()
	}
}
