package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// SupportResistance fades price approaching rolling extremes: selling near
// resistance and buying near support.
type SupportResistance struct {
	Period int
}

// NewSupportResistance initializes a support/resistance strategy with the
// default 20 period.
func NewSupportResistance() *SupportResistance {
	return &SupportResistance{
		Period: 20,
	}
}

// Name returns the strategy identifier.
func (s *SupportResistance) Name() string { return "support_resistance" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *SupportResistance) Lookback() int { return s.Period * 2 }

// Evaluate derives a signal from the provided candle buffer.
func (s *SupportResistance) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	price := candles[len(candles)-1].Close
	if price == 0 {
		return shared.HoldSignal()
	}

	resistance := indicator.Last(indicator.RollingMax(highSeries(candles), s.Period))
	support := indicator.Last(indicator.RollingMin(lowSeries(candles), s.Period))

	distanceToResistance := (resistance - price) / price
	distanceToSupport := (price - support) / price

	switch {
	case distanceToResistance < 0.005:
		// Within half a percent of resistance.
		return shared.Signal{Direction: shared.Down, Confidence: 0.8}
	case distanceToSupport < 0.005:
		// Within half a percent of support.
		return shared.Signal{Direction: shared.Up, Confidence: 0.8}
	default:
		return shared.HoldSignal()
	}
}
