package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// Ichimoku signals when price clears both leading cloud spans.
type Ichimoku struct{}

// NewIchimoku initializes an Ichimoku cloud strategy with the standard
// 9/26/52 periods.
func NewIchimoku() *Ichimoku {
	return &Ichimoku{}
}

// Name returns the strategy identifier.
func (s *Ichimoku) Name() string { return "ichimoku" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *Ichimoku) Lookback() int { return 52 }

// Evaluate derives a signal from the provided candle buffer.
func (s *Ichimoku) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	highs := highSeries(candles)
	lows := lowSeries(candles)

	// Tenkan-sen: midpoint of the 9 period range.
	tenkan := (indicator.Last(indicator.RollingMax(highs, 9)) +
		indicator.Last(indicator.RollingMin(lows, 9))) / 2

	// Kijun-sen: midpoint of the 26 period range.
	kijun := (indicator.Last(indicator.RollingMax(highs, 26)) +
		indicator.Last(indicator.RollingMin(lows, 26))) / 2

	// Leading spans.
	spanA := (tenkan + kijun) / 2
	spanB := (indicator.Last(indicator.RollingMax(highs, 52)) +
		indicator.Last(indicator.RollingMin(lows, 52))) / 2

	price := candles[len(candles)-1].Close

	upperCloud := spanA
	lowerCloud := spanB
	if spanB > spanA {
		upperCloud, lowerCloud = spanB, spanA
	}

	switch {
	case price > upperCloud:
		return shared.Signal{Direction: shared.Up, Confidence: 0.8}
	case price < lowerCloud:
		return shared.Signal{Direction: shared.Down, Confidence: 0.8}
	default:
		return shared.HoldSignal()
	}
}
