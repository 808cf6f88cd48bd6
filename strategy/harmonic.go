package strategy

import (
	"math"

	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// HarmonicPattern matches the leg ratios of a bullish Gartley XABCD pattern
// on rolling swing highs.
type HarmonicPattern struct {
	PatternLength int
}

// NewHarmonicPattern initializes a harmonic pattern strategy with the default
// 30 bar pattern window.
func NewHarmonicPattern() *HarmonicPattern {
	return &HarmonicPattern{
		PatternLength: 30,
	}
}

// Name returns the strategy identifier.
func (s *HarmonicPattern) Name() string { return "harmonic_pattern" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *HarmonicPattern) Lookback() int { return s.PatternLength }

// Evaluate derives a signal from the provided candle buffer.
func (s *HarmonicPattern) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	swings := indicator.RollingMax(highSeries(candles), 3)

	x := indicator.At(swings, 5)
	a := indicator.At(swings, 4)
	b := indicator.At(swings, 3)
	c := indicator.At(swings, 2)
	d := indicator.At(swings, 1)

	var abRatio, bcRatio, cdRatio float64
	if xa := math.Abs(x - a); xa > 0 {
		abRatio = math.Abs(b-a) / xa
	}
	if ab := math.Abs(a - b); ab > 0 {
		bcRatio = math.Abs(c-b) / ab
	}
	if bc := math.Abs(b - c); bc > 0 {
		cdRatio = math.Abs(d-c) / bc
	}

	// Gartley ratios: AB ~0.618 of XA, BC ~0.382 of AB, CD ~0.886 of BC.
	if abRatio > 0.5 && abRatio < 0.7 &&
		bcRatio > 0.3 && bcRatio < 0.5 &&
		cdRatio > 0.8 && cdRatio < 1.0 {
		return shared.Signal{Direction: shared.Up, Confidence: 0.9}
	}

	return shared.HoldSignal()
}
