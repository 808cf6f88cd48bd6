package strategy

import (
	"math"

	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// MachineLearningInspired scores a small feature set (price momentum and
// acceleration, volume momentum, RSI and MACD) on a symmetric scorecard and
// trades when the aggregate score is decisive.
type MachineLearningInspired struct {
	Period int
}

// NewMachineLearningInspired initializes an ML-inspired strategy with the
// default 20 period.
func NewMachineLearningInspired() *MachineLearningInspired {
	return &MachineLearningInspired{
		Period: 20,
	}
}

// Name returns the strategy identifier.
func (s *MachineLearningInspired) Name() string { return "ml_inspired" }

// Lookback returns the minimum number of candles required to evaluate.
// MACD is the widest feature at 26 bars.
func (s *MachineLearningInspired) Lookback() int { return 26 }

// Evaluate derives a signal from the provided candle buffer.
func (s *MachineLearningInspired) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	closes := closeSeries(candles)
	volumes := volumeSeries(candles)

	fiveBarChange := indicator.PctChangeN(closes, 5)
	priceMomentum := indicator.Last(fiveBarChange)
	priceAcceleration := indicator.Last(indicator.DiffSeries(fiveBarChange, 1))
	volumeMomentum := indicator.Last(indicator.PctChangeN(volumes, 5))
	rsi := indicator.RSI(closes, 14)
	macd, _, _ := indicator.MACD(closes, 12, 26, 9)

	score := 0.0

	// Bullish conditions.
	if priceMomentum > 0.01 {
		score += 0.2
	}
	if priceAcceleration > 0 {
		score += 0.2
	}
	if volumeMomentum > 0.1 {
		score += 0.2
	}
	if rsi < 70 {
		score += 0.2
	}
	if macd > 0 {
		score += 0.2
	}

	// Bearish conditions.
	if priceMomentum < -0.01 {
		score -= 0.2
	}
	if priceAcceleration < 0 {
		score -= 0.2
	}
	if volumeMomentum < -0.1 {
		score -= 0.2
	}
	if rsi > 30 {
		score -= 0.2
	}
	if macd < 0 {
		score -= 0.2
	}

	switch {
	case score > 0.5:
		return shared.Signal{Direction: shared.Up, Confidence: math.Min(score, 0.9)}
	case score < -0.5:
		return shared.Signal{Direction: shared.Down, Confidence: math.Min(math.Abs(score), 0.9)}
	default:
		return shared.HoldSignal()
	}
}
