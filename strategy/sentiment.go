package strategy

import (
	"math"

	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// SentimentAnalysis reads crowd sentiment from consecutive close streaks
// confirmed by a rising short term volume average.
type SentimentAnalysis struct {
	Period int
}

// NewSentimentAnalysis initializes a sentiment strategy with the default
// 20 period.
func NewSentimentAnalysis() *SentimentAnalysis {
	return &SentimentAnalysis{
		Period: 20,
	}
}

// Name returns the strategy identifier.
func (s *SentimentAnalysis) Name() string { return "sentiment" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *SentimentAnalysis) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *SentimentAnalysis) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	returns := indicator.PctChangeSeries(closeSeries(candles))

	var bullishStreak, bearishStreak int
	for i := 1; i <= 5 && i <= len(returns); i++ {
		if indicator.At(returns, i) > 0 {
			bullishStreak++
			continue
		}
		break
	}
	for i := 1; i <= 5 && i <= len(returns); i++ {
		if indicator.At(returns, i) < 0 {
			bearishStreak++
			continue
		}
		break
	}

	volumes := volumeSeries(candles)
	shortVolAvg := indicator.Last(indicator.SMASeries(volumes, 5))
	longVolAvg := indicator.Last(indicator.SMASeries(volumes, s.Period))

	volumeTrend := 1.0
	if longVolAvg > 0 {
		volumeTrend = shortVolAvg / longVolAvg
	}

	switch {
	case bullishStreak >= 3 && volumeTrend > 1.2:
		return shared.Signal{Direction: shared.Up, Confidence: math.Min(float64(bullishStreak)*0.2, 0.9)}
	case bearishStreak >= 3 && volumeTrend > 1.2:
		return shared.Signal{Direction: shared.Down, Confidence: math.Min(float64(bearishStreak)*0.2, 0.9)}
	default:
		return shared.HoldSignal()
	}
}
