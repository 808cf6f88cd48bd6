package strategy

import (
	"math"

	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// MarketMicrostructure proxies spread and price efficiency from candle data:
// tight spreads with efficient movement are read as orderly accumulation,
// wide spreads with stagnant movement as distribution.
type MarketMicrostructure struct {
	Period int
}

// NewMarketMicrostructure initializes a microstructure strategy with the
// default 20 period.
func NewMarketMicrostructure() *MarketMicrostructure {
	return &MarketMicrostructure{
		Period: 20,
	}
}

// Name returns the strategy identifier.
func (s *MarketMicrostructure) Name() string { return "market_microstructure" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *MarketMicrostructure) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *MarketMicrostructure) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	// High-low range relative to close as a bid-ask spread proxy.
	spreads := make([]float64, len(candles))
	for i := range candles {
		if candles[i].Close == 0 {
			spreads[i] = math.NaN()
			continue
		}
		spreads[i] = (candles[i].High - candles[i].Low) / candles[i].Close
	}

	avgSpread := indicator.Last(indicator.SMASeries(spreads, s.Period))
	currentSpread := indicator.Last(spreads)

	// Mean absolute return as a price efficiency proxy.
	returns := indicator.PctChangeSeries(closeSeries(candles))
	absReturns := make([]float64, len(returns))
	for i := range returns {
		absReturns[i] = math.Abs(returns[i])
	}

	efficiency := indicator.Last(indicator.SMASeries(absReturns, s.Period))

	switch {
	case currentSpread < avgSpread*0.8 && efficiency > 0.01:
		// Tight spread with efficient movement.
		return shared.Signal{Direction: shared.Up, Confidence: 0.8}
	case currentSpread > avgSpread*1.2 && efficiency < 0.005:
		// Wide spread with stagnant movement.
		return shared.Signal{Direction: shared.Down, Confidence: 0.7}
	default:
		return shared.HoldSignal()
	}
}
