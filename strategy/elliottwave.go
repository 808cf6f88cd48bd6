package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// ElliottWave matches heuristic impulse and correction wave shapes on rolling
// swing highs and lows.
type ElliottWave struct {
	WaveLength int
}

// NewElliottWave initializes an Elliott wave strategy with the default
// 20 bar wave window.
func NewElliottWave() *ElliottWave {
	return &ElliottWave{
		WaveLength: 20,
	}
}

// Name returns the strategy identifier.
func (s *ElliottWave) Name() string { return "elliott_wave" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *ElliottWave) Lookback() int { return s.WaveLength }

// Evaluate derives a signal from the provided candle buffer.
func (s *ElliottWave) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	swingHighs := indicator.RollingMax(highSeries(candles), 5)
	swingLows := indicator.RollingMin(lowSeries(candles), 5)

	// Impulse wave: higher highs across waves 1, 3 and 5 with corrective
	// waves 2 and 4 holding rising lows.
	if indicator.At(swingHighs, 1) > indicator.At(swingHighs, 3) &&
		indicator.At(swingHighs, 3) > indicator.At(swingHighs, 5) &&
		indicator.At(swingLows, 2) > indicator.At(swingLows, 4) {
		return shared.Signal{Direction: shared.Up, Confidence: 0.85}
	}

	// Correction wave: falling swing highs against rising swing lows.
	if indicator.At(swingHighs, 1) < indicator.At(swingHighs, 2) &&
		indicator.At(swingLows, 1) > indicator.At(swingLows, 2) {
		return shared.Signal{Direction: shared.Down, Confidence: 0.75}
	}

	return shared.HoldSignal()
}
