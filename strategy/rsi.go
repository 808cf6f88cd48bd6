package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// RSI signals strongly on oversold/overbought extremes and leans with the
// midline otherwise.
type RSI struct {
	Period     int
	Oversold   float64
	Overbought float64
}

// NewRSI initializes an RSI strategy with the default 14 period and 30/70
// extremes.
func NewRSI() *RSI {
	return &RSI{
		Period:     14,
		Oversold:   30,
		Overbought: 70,
	}
}

// Name returns the strategy identifier.
func (s *RSI) Name() string { return "rsi" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *RSI) Lookback() int { return s.Period + 1 }

// Evaluate derives a signal from the provided candle buffer.
func (s *RSI) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	rsi := indicator.RSI(closeSeries(candles), s.Period)

	switch {
	case rsi < s.Oversold:
		return shared.Signal{Direction: shared.Up, Confidence: 0.9}
	case rsi > s.Overbought:
		return shared.Signal{Direction: shared.Down, Confidence: 0.9}
	case rsi < 50:
		return shared.Signal{Direction: shared.Up, Confidence: 0.6}
	default:
		return shared.Signal{Direction: shared.Down, Confidence: 0.6}
	}
}
