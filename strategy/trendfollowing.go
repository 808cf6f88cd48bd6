package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// TrendFollowing trades with the exponential moving average trend when the
// short average is also still moving in the trend direction, scaling
// confidence with trend strength.
type TrendFollowing struct {
	ShortPeriod int
	LongPeriod  int
}

// NewTrendFollowing initializes a trend following strategy with the default
// 10/30 spans.
func NewTrendFollowing() *TrendFollowing {
	return &TrendFollowing{
		ShortPeriod: 10,
		LongPeriod:  30,
	}
}

// Name returns the strategy identifier.
func (s *TrendFollowing) Name() string { return "trend_following" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *TrendFollowing) Lookback() int { return s.LongPeriod }

// Evaluate derives a signal from the provided candle buffer.
func (s *TrendFollowing) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	closes := closeSeries(candles)
	emaShort := indicator.EMASeries(closes, s.ShortPeriod)
	emaLong := indicator.EMASeries(closes, s.LongPeriod)

	currentShort := indicator.Last(emaShort)
	currentLong := indicator.Last(emaLong)
	prevShort := indicator.At(emaShort, 2)
	if currentLong == 0 {
		return shared.HoldSignal()
	}

	trendUp := currentShort > currentLong
	trendStrength := (currentShort - currentLong) / currentLong
	if trendStrength < 0 {
		trendStrength = -trendStrength
	}

	var momentum float64
	if prevShort > 0 {
		momentum = (currentShort - prevShort) / prevShort
	}

	confidence := capConfidence(trendStrength*10, 0.9)

	switch {
	case trendUp && momentum > 0:
		return shared.Signal{Direction: shared.Up, Confidence: confidence}
	case !trendUp && momentum < 0:
		return shared.Signal{Direction: shared.Down, Confidence: confidence}
	default:
		return shared.HoldSignal()
	}
}
