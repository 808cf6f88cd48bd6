package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// Divergence looks for disagreement between recent price extremes and RSI
// extremes: price making new highs while RSI fails to confirm is bearish, and
// the inverse is bullish.
type Divergence struct {
	Period int
}

// NewDivergence initializes an RSI divergence strategy with the default
// 14 period.
func NewDivergence() *Divergence {
	return &Divergence{
		Period: 14,
	}
}

// Name returns the strategy identifier.
func (s *Divergence) Name() string { return "divergence" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *Divergence) Lookback() int { return s.Period * 2 }

// Evaluate derives a signal from the provided candle buffer.
func (s *Divergence) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	rsi := indicator.RSISeries(closeSeries(candles), s.Period)

	lookback := len(candles) / 2
	if lookback > 10 {
		lookback = 10
	}

	priceHighs := indicator.RollingMax(highSeries(candles), 3)
	priceLows := indicator.RollingMin(lowSeries(candles), 3)
	rsiHighs := indicator.RollingMax(rsi, 3)
	rsiLows := indicator.RollingMin(rsi, 3)

	// Bearish divergence: price higher, RSI lower.
	if indicator.Last(priceHighs) > indicator.At(priceHighs, lookback) &&
		indicator.Last(rsiHighs) < indicator.At(rsiHighs, lookback) {
		return shared.Signal{Direction: shared.Down, Confidence: 0.9}
	}

	// Bullish divergence: price lower, RSI higher.
	if indicator.Last(priceLows) < indicator.At(priceLows, lookback) &&
		indicator.Last(rsiLows) > indicator.At(rsiLows, lookback) {
		return shared.Signal{Direction: shared.Up, Confidence: 0.9}
	}

	return shared.HoldSignal()
}
