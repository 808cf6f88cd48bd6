package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// Stochastic signals strongly on oscillator extremes and weakly when both
// lines sit on the same side of the midline.
type Stochastic struct {
	KPeriod    int
	DPeriod    int
	Oversold   float64
	Overbought float64
}

// NewStochastic initializes a stochastic oscillator strategy with the default
// 14/3 periods and 20/80 extremes.
func NewStochastic() *Stochastic {
	return &Stochastic{
		KPeriod:    14,
		DPeriod:    3,
		Oversold:   20,
		Overbought: 80,
	}
}

// Name returns the strategy identifier.
func (s *Stochastic) Name() string { return "stoch" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *Stochastic) Lookback() int { return s.KPeriod }

// Evaluate derives a signal from the provided candle buffer.
func (s *Stochastic) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	k, d := indicator.Stochastic(candles, s.KPeriod, s.DPeriod)

	switch {
	case k < s.Oversold && d < s.Oversold:
		return shared.Signal{Direction: shared.Up, Confidence: 0.9}
	case k > s.Overbought && d > s.Overbought:
		return shared.Signal{Direction: shared.Down, Confidence: 0.9}
	case k < 50 && d < 50:
		return shared.Signal{Direction: shared.Up, Confidence: 0.6}
	case k > 50 && d > 50:
		return shared.Signal{Direction: shared.Down, Confidence: 0.6}
	default:
		return shared.HoldSignal()
	}
}
