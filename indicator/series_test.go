package indicator

import (
	"math"
	"testing"

	"github.com/peterldowns/testy/assert"
)

// approx reports whether two values agree within a small tolerance.
func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMASeries(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	series := SMASeries(values, 2)

	// Ensure entries before a filled window are undefined.
	assert.True(t, math.IsNaN(series[0]))

	assert.True(t, approx(series[1], 1.5))
	assert.True(t, approx(series[2], 2.5))
	assert.True(t, approx(series[3], 3.5))

	// Ensure the single value form matches the final series entry.
	assert.True(t, approx(SMA(values, 2), 3.5))

	// Ensure an oversized window yields no defined entries.
	short := SMASeries(values, 8)
	for idx := range short {
		assert.True(t, math.IsNaN(short[idx]))
	}
	assert.True(t, math.IsNaN(SMA(values, 8)))
}

func TestEMASeries(t *testing.T) {
	values := []float64{2, 4, 6}
	series := EMASeries(values, 3)

	// Ensure the series is seeded with the first value.
	assert.True(t, approx(series[0], 2))

	// alpha = 2/(3+1) = 0.5.
	assert.True(t, approx(series[1], 3))
	assert.True(t, approx(series[2], 4.5))
}

func TestStdDevSeries(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	// Sample standard deviation over the full window.
	got := StdDev(values, len(values))
	want := math.Sqrt(32.0 / 7.0)
	assert.True(t, approx(got, want))

	series := StdDevSeries(values, len(values))
	assert.True(t, approx(Last(series), want))
	assert.True(t, math.IsNaN(series[0]))
}

func TestRollingExtremes(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5}

	maxes := RollingMax(values, 3)
	assert.True(t, math.IsNaN(maxes[1]))
	assert.True(t, approx(maxes[2], 4))
	assert.True(t, approx(maxes[3], 4))
	assert.True(t, approx(maxes[4], 5))

	mins := RollingMin(values, 3)
	assert.True(t, approx(mins[2], 1))
	assert.True(t, approx(mins[3], 1))
	assert.True(t, approx(mins[4], 1))
}

func TestDiffAndPctChange(t *testing.T) {
	values := []float64{10, 12, 9, 18}

	diffs := DiffSeries(values, 1)
	assert.True(t, math.IsNaN(diffs[0]))
	assert.True(t, approx(diffs[1], 2))
	assert.True(t, approx(diffs[2], -3))
	assert.True(t, approx(diffs[3], 9))

	lagged := DiffSeries(values, 2)
	assert.True(t, math.IsNaN(lagged[1]))
	assert.True(t, approx(lagged[2], -1))
	assert.True(t, approx(lagged[3], 6))

	pct := PctChangeSeries(values)
	assert.True(t, math.IsNaN(pct[0]))
	assert.True(t, approx(pct[1], 0.2))
	assert.True(t, approx(pct[2], -0.25))
	assert.True(t, approx(pct[3], 1))

	pctN := PctChangeN(values, 2)
	assert.True(t, approx(pctN[2], -0.1))
	assert.True(t, approx(pctN[3], 0.5))
}

func TestMeanLastAt(t *testing.T) {
	values := []float64{math.NaN(), 2, 4}

	// Ensure the mean skips undefined entries.
	assert.True(t, approx(Mean(values), 3))
	assert.True(t, math.IsNaN(Mean([]float64{math.NaN()})))
	assert.True(t, math.IsNaN(Mean(nil)))

	assert.True(t, approx(Last(values), 4))
	assert.True(t, math.IsNaN(Last(nil)))

	// Ensure At indexes from the end, with 1 being the final entry.
	assert.True(t, approx(At(values, 1), 4))
	assert.True(t, approx(At(values, 2), 2))
	assert.True(t, math.IsNaN(At(values, 0)))
	assert.True(t, math.IsNaN(At(values, 4)))
}

func TestCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}

	// Perfectly correlated series.
	assert.True(t, approx(Correlation(x, y), 1))

	// Perfectly anti-correlated series.
	inv := []float64{10, 8, 6, 4, 2}
	assert.True(t, approx(Correlation(x, inv), -1))

	// Ensure pairs with an undefined member are skipped.
	gappy := []float64{2, math.NaN(), 6, 8, 10}
	assert.True(t, approx(Correlation(x, gappy), 1))

	// Mismatched lengths and flat series are undefined.
	assert.True(t, math.IsNaN(Correlation(x, []float64{1})))
	assert.True(t, math.IsNaN(Correlation(x, []float64{3, 3, 3, 3, 3})))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(1.5))
	assert.False(t, Valid(math.NaN()))
	assert.False(t, Valid(math.Inf(1)))
	assert.False(t, Valid(math.Inf(-1)))
}
