package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// VolatilityRegime classifies the market by rolling return volatility and the
// volatility of that volatility. Expanding high vol regimes lean down,
// compressing low vol regimes lean up.
type VolatilityRegime struct {
	Period int
}

// NewVolatilityRegime initializes a volatility regime strategy with the
// default 20 period.
func NewVolatilityRegime() *VolatilityRegime {
	return &VolatilityRegime{
		Period: 20,
	}
}

// Name returns the strategy identifier.
func (s *VolatilityRegime) Name() string { return "volatility_regime" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *VolatilityRegime) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *VolatilityRegime) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	returns := indicator.PctChangeSeries(closeSeries(candles))
	volatility := indicator.StdDevSeries(returns, s.Period)
	volOfVol := indicator.StdDevSeries(volatility, s.Period)

	currentVol := indicator.Last(volatility)
	currentVolOfVol := indicator.Last(volOfVol)
	avgVol := indicator.Mean(volatility)
	avgVolOfVol := indicator.Mean(volOfVol)

	switch {
	case currentVol > avgVol*1.5:
		// High volatility regime, still expanding.
		if currentVolOfVol > avgVolOfVol*1.2 {
			return shared.Signal{Direction: shared.Down, Confidence: 0.8}
		}
	case currentVol < avgVol*0.7:
		// Low volatility regime, still compressing.
		if currentVolOfVol < avgVolOfVol*0.8 {
			return shared.Signal{Direction: shared.Up, Confidence: 0.7}
		}
	}

	return shared.HoldSignal()
}
