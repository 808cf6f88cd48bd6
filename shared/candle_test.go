package shared

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestGranularity(t *testing.T) {
	// Ensure granularities map to their period in seconds.
	assert.Equal(t, OneMinute.Seconds(), 60)
	assert.Equal(t, FiveMinute.Seconds(), 300)
	assert.Equal(t, FifteenMinute.Seconds(), 900)
	assert.Equal(t, OneHour.Seconds(), 3600)

	// Ensure seconds round trip back to granularities, defaulting to one
	// minute for unknown periods.
	assert.Equal(t, GranularityFromSeconds(300), FiveMinute)
	assert.Equal(t, GranularityFromSeconds(900), FifteenMinute)
	assert.Equal(t, GranularityFromSeconds(3600), OneHour)
	assert.Equal(t, GranularityFromSeconds(7), OneMinute)

	assert.Equal(t, FiveMinute.String(), "5m")
}

func TestCandle(t *testing.T) {
	bullish := Candle{Open: 1, Close: 3, High: 4, Low: 0.5}
	assert.True(t, bullish.Bullish())
	assert.False(t, bullish.Bearish())
	assert.Equal(t, bullish.Body(), float64(2))

	bearish := Candle{Open: 3, Close: 1}
	assert.True(t, bearish.Bearish())
	assert.False(t, bearish.Bullish())
	assert.Equal(t, bearish.Body(), float64(2))
}
