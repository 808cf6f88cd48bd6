package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// MACD signals when the MACD line and histogram agree on direction.
type MACD struct {
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
}

// NewMACD initializes a MACD strategy with the default 12/26/9 spans.
func NewMACD() *MACD {
	return &MACD{
		FastPeriod:   12,
		SlowPeriod:   26,
		SignalPeriod: 9,
	}
}

// Name returns the strategy identifier.
func (s *MACD) Name() string { return "macd" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *MACD) Lookback() int { return s.SlowPeriod }

// Evaluate derives a signal from the provided candle buffer.
func (s *MACD) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	macd, signal, histogram := indicator.MACD(closeSeries(candles),
		s.FastPeriod, s.SlowPeriod, s.SignalPeriod)

	switch {
	case macd > signal && histogram > 0:
		return shared.Signal{Direction: shared.Up, Confidence: 0.8}
	case macd < signal && histogram < 0:
		return shared.Signal{Direction: shared.Down, Confidence: 0.8}
	default:
		return shared.HoldSignal()
	}
}
