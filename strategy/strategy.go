// Package strategy implements the catalogue of technical-analysis strategies
// and the confidence-weighted voting aggregator that combines them.
package strategy

import (
	"github.com/ryel/quorum/shared"
)

// Strategy defines the requirements for a trading strategy. Strategies are
// pure functions of the buffer's current contents and hold no trade-outcome
// state.
type Strategy interface {
	// Name returns the strategy identifier.
	Name() string
	// Lookback returns the minimum number of candles required to evaluate.
	Lookback() int
	// Evaluate derives a signal from the provided candle buffer. Buffers
	// shorter than the strategy lookback yield the neutral signal.
	Evaluate(buf *shared.CandleBuffer) shared.Signal
}

// ready fetches the buffer contents if the minimum lookback is met.
func ready(buf *shared.CandleBuffer, lookback int) ([]shared.Candle, bool) {
	if buf == nil || buf.Len() < lookback {
		return nil, false
	}

	return buf.Candles(), true
}

// closeSeries extracts the ordered close series from the provided candles.
func closeSeries(candles []shared.Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Close
	}

	return out
}

// highSeries extracts the ordered high series from the provided candles.
func highSeries(candles []shared.Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].High
	}

	return out
}

// lowSeries extracts the ordered low series from the provided candles.
func lowSeries(candles []shared.Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Low
	}

	return out
}

// volumeSeries extracts the ordered volume series from the provided candles.
func volumeSeries(candles []shared.Candle) []float64 {
	out := make([]float64, len(candles))
	for i := range candles {
		out[i] = candles[i].Volume
	}

	return out
}

// capConfidence clamps the provided confidence to the supplied ceiling.
func capConfidence(confidence, ceiling float64) float64 {
	if confidence > ceiling {
		return ceiling
	}

	return confidence
}
