package indicator

import (
	"math"
	"testing"

	"github.com/peterldowns/testy/assert"

	"github.com/ryel/quorum/shared"
)

func TestRSI(t *testing.T) {
	// Ensure a monotonically declining series drives the RSI to 0.
	declining := make([]float64, 20)
	for idx := range declining {
		declining[idx] = 100 - float64(idx)
	}
	assert.True(t, approx(RSI(declining, 14), 0))

	// Ensure a monotonically rising series yields 100, there is no average
	// loss to divide by.
	rising := make([]float64, 20)
	for idx := range rising {
		rising[idx] = 100 + float64(idx)
	}
	assert.True(t, approx(RSI(rising, 14), 100))

	// Ensure too short a series is undefined.
	assert.True(t, math.IsNaN(RSI(declining[:10], 14)))
}

func TestMACD(t *testing.T) {
	// Ensure a constant series yields a zero macd line, signal and histogram.
	flat := make([]float64, 30)
	for idx := range flat {
		flat[idx] = 50
	}
	macd, signal, hist := MACD(flat, 12, 26, 9)
	assert.True(t, approx(macd, 0))
	assert.True(t, approx(signal, 0))
	assert.True(t, approx(hist, 0))

	// Ensure a rising series yields a positive macd line.
	rising := make([]float64, 40)
	for idx := range rising {
		rising[idx] = float64(idx)
	}
	macd, _, _ = MACD(rising, 12, 26, 9)
	assert.True(t, macd > 0)

	// Ensure too short a series is undefined.
	macd, signal, hist = MACD(flat[:10], 12, 26, 9)
	assert.True(t, math.IsNaN(macd))
	assert.True(t, math.IsNaN(signal))
	assert.True(t, math.IsNaN(hist))
}

func TestTrueRangeAndATR(t *testing.T) {
	candles := []shared.Candle{
		{High: 12, Low: 8, Close: 10},
		{High: 14, Low: 9, Close: 13},
		{High: 22, Low: 12, Close: 20},
	}

	tr := TrueRangeSeries(candles)
	assert.True(t, math.IsNaN(tr[0]))
	// max(14-9, |14-10|, |9-10|) = 5.
	assert.True(t, approx(tr[1], 5))
	// max(22-12, |22-13|, |12-13|) = 10.
	assert.True(t, approx(tr[2], 10))

	atr := ATRSeries(candles, 2)
	assert.True(t, approx(Last(atr), 7.5))
}

func TestStochastic(t *testing.T) {
	// Closes pinned at the rolling high drive %K to 100.
	candles := make([]shared.Candle, 20)
	for idx := range candles {
		price := float64(idx + 1)
		candles[idx] = shared.Candle{High: price, Low: price - 1, Close: price}
	}

	k, d := Stochastic(candles, 14, 3)
	assert.True(t, approx(k, 100))
	assert.True(t, approx(d, 100))

	// Ensure a flat window yields the neutral value for both lines.
	flat := make([]shared.Candle, 20)
	for idx := range flat {
		flat[idx] = shared.Candle{High: 10, Low: 10, Close: 10}
	}
	k, d = Stochastic(flat, 14, 3)
	assert.True(t, approx(k, 50))
	assert.True(t, approx(d, 50))

	// Ensure too short a series is undefined.
	k, d = Stochastic(candles[:5], 14, 3)
	assert.True(t, math.IsNaN(k))
	assert.True(t, math.IsNaN(d))
}

func TestWilliamsR(t *testing.T) {
	// A close at the rolling low yields -100.
	candles := make([]shared.Candle, 14)
	for idx := range candles {
		candles[idx] = shared.Candle{High: 20, Low: 10, Close: 15}
	}
	candles[len(candles)-1].Close = 10

	assert.True(t, approx(WilliamsR(candles, 14), -100))

	// A close at the rolling high yields 0.
	candles[len(candles)-1].Close = 20
	assert.True(t, approx(WilliamsR(candles, 14), 0))

	// Ensure a flat window yields the neutral value.
	flat := make([]shared.Candle, 14)
	for idx := range flat {
		flat[idx] = shared.Candle{High: 10, Low: 10, Close: 10}
	}
	assert.True(t, approx(WilliamsR(flat, 14), -50))

	// Ensure too short a series is undefined.
	assert.True(t, math.IsNaN(WilliamsR(candles[:5], 14)))
}

func TestRollingVWAP(t *testing.T) {
	// Equal volumes reduce the vwap to the mean typical price.
	candles := []shared.Candle{
		{High: 12, Low: 8, Close: 10, Volume: 5},
		{High: 22, Low: 18, Close: 20, Volume: 5},
	}
	assert.True(t, approx(RollingVWAP(candles, 2), 15))

	// Ensure zero total volume is undefined.
	empty := []shared.Candle{{Close: 10}, {Close: 20}}
	assert.True(t, math.IsNaN(RollingVWAP(empty, 2)))

	// Ensure too short a series is undefined.
	assert.True(t, math.IsNaN(RollingVWAP(candles, 5)))
}
