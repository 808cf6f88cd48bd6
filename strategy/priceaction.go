package strategy

import (
	"github.com/ryel/quorum/shared"
)

// PriceAction detects single and two candle reversal patterns: engulfing
// candles, hammers and shooting stars.
type PriceAction struct{}

// NewPriceAction initializes a price action strategy.
func NewPriceAction() *PriceAction {
	return &PriceAction{}
}

// Name returns the strategy identifier.
func (s *PriceAction) Name() string { return "price_action" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *PriceAction) Lookback() int { return 2 }

// Evaluate derives a signal from the provided candle buffer.
func (s *PriceAction) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	current := candles[len(candles)-1]
	previous := candles[len(candles)-2]

	switch {
	// Bullish engulfing: a bullish candle opening below the previous close
	// and closing above the previous open.
	case current.Bullish() && current.Open < previous.Close && current.Close > previous.Open:
		return shared.Signal{Direction: shared.Up, Confidence: 0.8}

	// Bearish engulfing: a bearish candle opening above the previous close
	// and closing below the previous open.
	case current.Bearish() && current.Open > previous.Close && current.Close < previous.Open:
		return shared.Signal{Direction: shared.Down, Confidence: 0.8}

	// Hammer: a bullish candle with a lower wick more than twice the upper
	// wick.
	case current.Bullish() && (current.Close-current.Low) > 2*(current.High-current.Close):
		return shared.Signal{Direction: shared.Up, Confidence: 0.7}

	// Shooting star: a bearish candle with an upper wick more than twice the
	// lower wick.
	case current.Bearish() && (current.High-current.Open) > 2*(current.Open-current.Low):
		return shared.Signal{Direction: shared.Down, Confidence: 0.7}

	default:
		return shared.HoldSignal()
	}
}
