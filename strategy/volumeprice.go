package strategy

import (
	"github.com/ryel/quorum/indicator"
	"github.com/ryel/quorum/shared"
)

// VolumePrice trades price moves that arrive on substantially above-average
// volume, scaling confidence with the volume ratio.
type VolumePrice struct {
	Period int
}

// NewVolumePrice initializes a volume/price strategy with the default
// 20 period.
func NewVolumePrice() *VolumePrice {
	return &VolumePrice{
		Period: 20,
	}
}

// Name returns the strategy identifier.
func (s *VolumePrice) Name() string { return "volume_price" }

// Lookback returns the minimum number of candles required to evaluate.
func (s *VolumePrice) Lookback() int { return s.Period }

// Evaluate derives a signal from the provided candle buffer.
func (s *VolumePrice) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	candles, ok := ready(buf, s.Lookback())
	if !ok {
		return shared.HoldSignal()
	}

	volumes := volumeSeries(candles)
	avgVolume := indicator.SMA(volumes, s.Period)

	volumeRatio := 1.0
	if indicator.Valid(avgVolume) && avgVolume > 0 {
		volumeRatio = indicator.Last(volumes) / avgVolume
	}

	closes := closeSeries(candles)
	prev := indicator.At(closes, 2)
	if !indicator.Valid(prev) || prev == 0 {
		return shared.HoldSignal()
	}

	priceChange := (indicator.Last(closes) - prev) / prev
	confidence := capConfidence(volumeRatio/3, 0.9)

	if volumeRatio > 1.5 {
		switch {
		case priceChange > 0.005:
			return shared.Signal{Direction: shared.Up, Confidence: confidence}
		case priceChange < -0.005:
			return shared.Signal{Direction: shared.Down, Confidence: confidence}
		}
	}

	return shared.HoldSignal()
}
