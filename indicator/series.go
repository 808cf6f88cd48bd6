// Package indicator provides technical indicator computations over candle and
// price series data.
//
// All series functions return slices aligned with their input, using NaN for
// positions where the indicator is undefined (eg. before a rolling window has
// filled). Comparisons against NaN evaluate to false, so consuming rules fall
// through to their neutral branch until enough data is available.
package indicator

import (
	"math"
)

// Valid reports whether the provided value is a usable indicator value.
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SMASeries computes the simple moving average series for the provided window.
func SMASeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		valid := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				valid = false
				break
			}
			sum += values[j]
		}
		if valid {
			out[i] = sum / float64(period)
		}
	}

	return out
}

// SMA computes the simple moving average of the most recent window.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range values[len(values)-period:] {
		if math.IsNaN(v) {
			return math.NaN()
		}
		sum += v
	}

	return sum / float64(period)
}

// EMASeries computes the exponential moving average series for the provided
// span, seeded with the first value.
func EMASeries(values []float64, span int) []float64 {
	out := nanSeries(len(values))
	if span <= 0 || len(values) == 0 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}

	return out
}

// StdDevSeries computes the rolling sample standard deviation series for the
// provided window.
func StdDevSeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 1 {
		return out
	}

	means := SMASeries(values, period)
	for i := period - 1; i < len(values); i++ {
		if math.IsNaN(means[i]) {
			continue
		}
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			diff := values[j] - means[i]
			sum += diff * diff
		}
		out[i] = math.Sqrt(sum / float64(period-1))
	}

	return out
}

// StdDev computes the sample standard deviation of the most recent window.
func StdDev(values []float64, period int) float64 {
	if period <= 1 || len(values) < period {
		return math.NaN()
	}

	series := StdDevSeries(values[len(values)-period:], period)
	return series[len(series)-1]
}

// RollingMax computes the rolling maximum series for the provided window.
func RollingMax(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		max := values[i-period+1]
		valid := !math.IsNaN(max)
		for j := i - period + 2; j <= i; j++ {
			if math.IsNaN(values[j]) {
				valid = false
				break
			}
			if values[j] > max {
				max = values[j]
			}
		}
		if valid {
			out[i] = max
		}
	}

	return out
}

// RollingMin computes the rolling minimum series for the provided window.
func RollingMin(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		min := values[i-period+1]
		valid := !math.IsNaN(min)
		for j := i - period + 2; j <= i; j++ {
			if math.IsNaN(values[j]) {
				valid = false
				break
			}
			if values[j] < min {
				min = values[j]
			}
		}
		if valid {
			out[i] = min
		}
	}

	return out
}

// DiffSeries computes the n-step difference series.
func DiffSeries(values []float64, n int) []float64 {
	out := nanSeries(len(values))
	if n <= 0 {
		return out
	}

	for i := n; i < len(values); i++ {
		out[i] = values[i] - values[i-n]
	}

	return out
}

// PctChangeSeries computes the single-step percentage change series.
func PctChangeSeries(values []float64) []float64 {
	return PctChangeN(values, 1)
}

// PctChangeN computes the n-step percentage change series.
func PctChangeN(values []float64, n int) []float64 {
	out := nanSeries(len(values))
	if n <= 0 {
		return out
	}

	for i := n; i < len(values); i++ {
		if values[i-n] == 0 {
			continue
		}
		out[i] = (values[i] - values[i-n]) / values[i-n]
	}

	return out
}

// Mean computes the mean of the valid entries of the provided series.
func Mean(values []float64) float64 {
	sum := 0.0
	count := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN()
	}

	return sum / float64(count)
}

// Last returns the final entry of the provided series.
func Last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	return values[len(values)-1]
}

// At returns the series entry n positions from the end, with At(values, 1)
// being the final entry.
func At(values []float64, n int) float64 {
	if n <= 0 || n > len(values) {
		return math.NaN()
	}

	return values[len(values)-n]
}

// Correlation computes the Pearson correlation coefficient of the provided
// paired series, skipping pairs with an undefined member.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) {
		return math.NaN()
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	count := 0
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
		sumYY += y[i] * y[i]
		count++
	}
	if count < 2 {
		return math.NaN()
	}

	n := float64(count)
	den := math.Sqrt(n*sumXX-sumX*sumX) * math.Sqrt(n*sumYY-sumY*sumY)
	if den == 0 {
		return math.NaN()
	}

	return (n*sumXY - sumX*sumY) / den
}

// nanSeries returns a series of the provided length filled with NaN.
func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}
