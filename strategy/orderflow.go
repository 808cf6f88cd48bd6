package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// OrderFlow reads buying and selling pressure from price relative to the
// rolling VWAP combined with volume surges.
type OrderFlow struct {
	Period int
}

// NewOrderFlow initializes an order flow strategy with the default 20 period.
func NewOrderFlow() *OrderFlow {
	return &OrderFlow{
		Period: 20,
	}
}

// Name returns the strategy identifier.
func (s *OrderFlow) Name() string { return "order_flow" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *OrderFlow) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *OrderFlow) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	vwap := indicator.RollingVWAP(candles, s.Period)
	if !indicator.Valid(vwap) {
		return shared.HoldSignal()
	}

	volumes := volumeSeries(candles)
	avgVolume := indicator.SMA(volumes, s.Period)

	volumeSurge := 1.0
	if indicator.Valid(avgVolume) && avgVolume > 0 {
		volumeSurge = indicator.Last(volumes) / avgVolume
	}

	price := candles[len(candles)-1].Close
	confidence := capConfidence(volumeSurge/2, 0.9)

	switch {
	case price > vwap && volumeSurge > 1.5:
		// Strong buying pressure.
		return shared.Signal{Direction: shared.Up, Confidence: confidence}
	case price < vwap && volumeSurge > 1.5:
		// Strong selling pressure.
		return shared.Signal{Direction: shared.Down, Confidence: confidence}
	default:
		return shared.HoldSignal()
	}
}
