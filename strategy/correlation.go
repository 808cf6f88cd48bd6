package strategy

import (
	"math"

	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// Correlation measures the autocorrelation of recent returns against their
// one step lag. Positive autocorrelation backs continuation, negative backs
// reversal.
type Correlation struct {
	Period int
}

// NewCorrelation initializes a correlation strategy with the default
// 20 period.
func NewCorrelation() *Correlation {
	return &Correlation{
		Period: 20,
	}
}

// Name returns the strategy identifier.
func (s *Correlation) Name() string { return "correlation" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *Correlation) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *Correlation) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	returns := indicator.PctChangeSeries(closeSeries(candles))
	if len(returns) < s.Period {
		return shared.HoldSignal()
	}

	tail := returns[len(returns)-s.Period:]
	lagged := make([]float64, len(tail))
	lagged[0] = math.NaN()
	copy(lagged[1:], tail[:len(tail)-1])

	corr := indicator.Correlation(tail, lagged)
	lastReturn := indicator.Last(returns)

	switch {
	case corr > 0.3:
		// Positive autocorrelation, ride the last move.
		confidence := math.Min(math.Abs(corr), 0.9)
		if lastReturn > 0 {
			return shared.Signal{Direction: shared.Up, Confidence: confidence}
		}
		return shared.Signal{Direction: shared.Down, Confidence: confidence}

	case corr < -0.3:
		// Negative autocorrelation, fade the last move.
		confidence := math.Min(math.Abs(corr), 0.9)
		if lastReturn > 0 {
			return shared.Signal{Direction: shared.Down, Confidence: confidence}
		}
		return shared.Signal{Direction: shared.Up, Confidence: confidence}

	default:
		return shared.HoldSignal()
	}
}
