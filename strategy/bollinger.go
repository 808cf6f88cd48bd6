package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// BollingerBands signals when price touches the outer bands of a rolling
// mean/deviation channel.
type BollingerBands struct {
	Period int
	StdDev float64
}

// NewBollingerBands initializes a Bollinger band strategy with the default
// 20 period and 2 deviation width.
func NewBollingerBands() *BollingerBands {
	return &BollingerBands{
		Period: 20,
		StdDev: 2,
	}
}

// Name returns the strategy identifier.
func (s *BollingerBands) Name() string { return "bb" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *BollingerBands) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *BollingerBands) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	closes := closeSeries(candles)
	sma := indicator.SMA(closes, s.Period)
	std := indicator.StdDev(closes, s.Period)
	if !indicator.Valid(sma) || !indicator.Valid(std) {
		return shared.HoldSignal()
	}

	upper := sma + std*s.StdDev
	lower := sma - std*s.StdDev
	price := indicator.Last(closes)

	switch {
	case price <= lower:
		return shared.Signal{Direction: shared.Up, Confidence: 0.8}
	case price >= upper:
		return shared.Signal{Direction: shared.Down, Confidence: 0.8}
	default:
		return shared.HoldSignal()
	}
}
