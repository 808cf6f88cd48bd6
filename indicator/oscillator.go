package indicator

import (
	"math"

	"github.com/ryel/quorum/shared"
)

// RSISeries computes the relative strength index series using rolling average
// gains and losses over the provided period. A zero average loss yields 100.
func RSISeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period+1 {
		return out
	}

	deltas := DiffSeries(values, 1)
	for i := period; i < len(values); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			switch {
			case deltas[j] > 0:
				gainSum += deltas[j]
			case deltas[j] < 0:
				lossSum += -deltas[j]
			}
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		if avgLoss == 0 {
			out[i] = 100
			continue
		}

		rs := avgGain / avgLoss
		out[i] = 100 - (100 / (1 + rs))
	}

	return out
}

// RSI computes the relative strength index of the most recent window.
func RSI(values []float64, period int) float64 {
	series := RSISeries(values, period)
	return Last(series)
}

// MACD computes the MACD line, signal line and histogram at the final bar.
func MACD(values []float64, fastSpan, slowSpan, signalSpan int) (float64, float64, float64) {
	if len(values) < slowSpan {
		return math.NaN(), math.NaN(), math.NaN()
	}

	fast := EMASeries(values, fastSpan)
	slow := EMASeries(values, slowSpan)

	macd := make([]float64, len(values))
	for i := range values {
		macd[i] = fast[i] - slow[i]
	}

	signal := EMASeries(macd, signalSpan)
	macdLast := Last(macd)
	signalLast := Last(signal)

	return macdLast, signalLast, macdLast - signalLast
}

// TrueRangeSeries computes the true range series. The first entry is undefined
// since it has no prior close.
func TrueRangeSeries(candles []shared.Candle) []float64 {
	out := nanSeries(len(candles))
	for i := 1; i < len(candles); i++ {
		highLow := candles[i].High - candles[i].Low
		highClose := math.Abs(candles[i].High - candles[i-1].Close)
		lowClose := math.Abs(candles[i].Low - candles[i-1].Close)
		out[i] = math.Max(highLow, math.Max(highClose, lowClose))
	}

	return out
}

// ATRSeries computes the average true range series for the provided window.
func ATRSeries(candles []shared.Candle, period int) []float64 {
	return SMASeries(TrueRangeSeries(candles), period)
}

// Stochastic computes the %K and %D oscillator values at the final bar. A flat
// window with no high-low range yields the neutral value 50 for both lines.
func Stochastic(candles []shared.Candle, kPeriod, dPeriod int) (float64, float64) {
	if len(candles) < kPeriod {
		return math.NaN(), math.NaN()
	}

	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i := range candles {
		highs[i] = candles[i].High
		lows[i] = candles[i].Low
	}

	highest := RollingMax(highs, kPeriod)
	lowest := RollingMin(lows, kPeriod)

	k := nanSeries(len(candles))
	for i := kPeriod - 1; i < len(candles); i++ {
		span := highest[i] - lowest[i]
		if span == 0 {
			k[i] = 50
			continue
		}
		k[i] = 100 * ((candles[i].Close - lowest[i]) / span)
	}

	d := SMASeries(k, dPeriod)
	return Last(k), Last(d)
}

// WilliamsR computes the Williams %R oscillator at the final bar. A flat
// window yields the neutral value -50.
func WilliamsR(candles []shared.Candle, period int) float64 {
	if len(candles) < period {
		return math.NaN()
	}

	window := candles[len(candles)-period:]
	highest := window[0].High
	lowest := window[0].Low
	for i := 1; i < len(window); i++ {
		if window[i].High > highest {
			highest = window[i].High
		}
		if window[i].Low < lowest {
			lowest = window[i].Low
		}
	}

	span := highest - lowest
	if span == 0 {
		return -50
	}

	return -100 * ((highest - window[len(window)-1].Close) / span)
}

// RollingVWAP computes the volume weighted average price over the most recent
// window using typical prices.
func RollingVWAP(candles []shared.Candle, period int) float64 {
	if len(candles) < period {
		return math.NaN()
	}

	var priceVolume, volume float64
	for _, c := range candles[len(candles)-period:] {
		typical := (c.High + c.Low + c.Close) / 3
		priceVolume += typical * c.Volume
		volume += c.Volume
	}
	if volume == 0 {
		return math.NaN()
	}

	return priceVolume / volume
}
