package shared

import "time"

// Granularity represents the candle aggregation period.
type Granularity int

const (
	OneMinute Granularity = iota
	FiveMinute
	FifteenMinute
	OneHour
)

// Seconds returns the granularity duration in seconds.
func (g Granularity) Seconds() int {
	switch g {
	case OneMinute:
		return 60
	case FiveMinute:
		return 300
	case FifteenMinute:
		return 900
	case OneHour:
		return 3600
	default:
		return 60
	}
}

// GranularityFromSeconds maps a period in seconds to its granularity,
// defaulting to one minute for unknown periods.
func GranularityFromSeconds(seconds int) Granularity {
	switch seconds {
	case 300:
		return FiveMinute
	case 900:
		return FifteenMinute
	case 3600:
		return OneHour
	default:
		return OneMinute
	}
}

// String stringifies the provided granularity.
func (g Granularity) String() string {
	switch g {
	case OneMinute:
		return "1m"
	case FiveMinute:
		return "5m"
	case FifteenMinute:
		return "15m"
	case OneHour:
		return "1H"
	default:
		return "unknown"
	}
}

// Candle represents a unit OHLCV bar for an instrument. Candles are immutable
// once recorded.
type Candle struct {
	Open   float64
	Low    float64
	High   float64
	Close  float64
	Volume float64
	Date   time.Time

	// Metadata.
	Symbol      string
	Granularity Granularity
}

// Body returns the absolute size of the candle body.
func (c *Candle) Body() float64 {
	body := c.Close - c.Open
	if body < 0 {
		return -body
	}
	return body
}

// Bullish reports whether the candle closed above its open.
func (c *Candle) Bullish() bool {
	return c.Close > c.Open
}

// Bearish reports whether the candle closed below its open.
func (c *Candle) Bearish() bool {
	return c.Close < c.Open
}
