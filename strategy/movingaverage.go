package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// MovingAverageCrossover signals on short/long simple moving average crosses,
// with weaker continuation signals while the averages stay separated.
type MovingAverageCrossover struct {
	ShortWindow int
	LongWindow  int
}

// NewMovingAverageCrossover initializes a moving average crossover strategy
// with the default 10/20 windows.
func NewMovingAverageCrossover() *MovingAverageCrossover {
	return &MovingAverageCrossover{
		ShortWindow: 10,
		LongWindow:  20,
	}
}

// Name returns the strategy identifier.
func (s *MovingAverageCrossover) Name() string { return "ma" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *MovingAverageCrossover) Lookback() int { return s.LongWindow }

// Evaluate derives a signal from the provided candle buffer.
func (s *MovingAverageCrossover) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	closes := closeSeries(candles)
	shortMA := indicator.SMASeries(closes, s.ShortWindow)
	longMA := indicator.SMASeries(closes, s.LongWindow)

	currentShort := indicator.Last(shortMA)
	currentLong := indicator.Last(longMA)
	prevShort := indicator.At(shortMA, 2)
	prevLong := indicator.At(longMA, 2)
	if !indicator.Valid(prevShort) || !indicator.Valid(prevLong) {
		prevShort = currentShort
		prevLong = currentLong
	}

	switch {
	case currentShort > currentLong && prevShort <= prevLong:
		// Fresh cross above.
		return shared.Signal{Direction: shared.Up, Confidence: 0.8}
	case currentShort < currentLong && prevShort >= prevLong:
		// Fresh cross below.
		return shared.Signal{Direction: shared.Down, Confidence: 0.8}
	case currentShort > currentLong:
		return shared.Signal{Direction: shared.Up, Confidence: 0.6}
	default:
		return shared.Signal{Direction: shared.Down, Confidence: 0.6}
	}
}
