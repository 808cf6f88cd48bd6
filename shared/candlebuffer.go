package shared

import (
	"errors"
	"sync"

	"go.uber.org/atomic"
)

const (
	// BufferCapacity is the default maximum number of entries for a candle buffer.
	BufferCapacity = 1000
)

// CandleBuffer is a bounded rolling window of candles for an instrument.
// Candles are appended in chronological order and the oldest entries are
// evicted once the buffer reaches capacity. Gap handling is the feed's
// responsibility, not the buffer's.
type CandleBuffer struct {
	data    []Candle
	dataMtx sync.RWMutex
	start   atomic.Int32
	count   atomic.Int32
	size    atomic.Int32
}

// NewCandleBuffer initializes a new candle buffer with the provided capacity.
func NewCandleBuffer(size int32) (*CandleBuffer, error) {
	if size <= 0 {
		return nil, errors.New("candle buffer capacity must be positive")
	}

	buf := &CandleBuffer{
		data: make([]Candle, size),
	}

	buf.size.Store(size)
	return buf, nil
}

// Append adds the provided candle to the buffer, evicting the oldest entry
// when the buffer is at capacity.
func (b *CandleBuffer) Append(candle Candle) {
	b.dataMtx.Lock()
	defer b.dataMtx.Unlock()

	start := b.start.Load()
	count := b.count.Load()
	size := b.size.Load()
	end := (start + count) % size
	b.data[end] = candle

	if count == size {
		// Overwrite the oldest entry when the buffer is at capacity.
		b.start.Store((start + 1) % size)
	} else {
		b.count.Add(1)
	}
}

// Len returns the number of candles currently held.
func (b *CandleBuffer) Len() int {
	return int(b.count.Load())
}

// Last returns the most recently appended candle.
func (b *CandleBuffer) Last() *Candle {
	b.dataMtx.RLock()
	defer b.dataMtx.RUnlock()

	start := b.start.Load()
	count := b.count.Load()
	size := b.size.Load()
	if count == 0 {
		return nil
	}

	end := (start + count - 1) % size
	candle := b.data[end]
	return &candle
}

// Candles returns an ordered copy of the buffer contents, oldest first.
func (b *CandleBuffer) Candles() []Candle {
	b.dataMtx.RLock()
	defer b.dataMtx.RUnlock()

	start := b.start.Load()
	count := b.count.Load()
	size := b.size.Load()

	set := make([]Candle, count)
	for i := int32(0); i < count; i++ {
		set[i] = b.data[(start+i)%size]
	}

	return set
}

// Field identifies a single OHLCV series of the buffer.
type Field int

const (
	OpenField Field = iota
	HighField
	LowField
	CloseField
	VolumeField
)

// Series returns the ordered values of a single OHLCV field, oldest first.
func (b *CandleBuffer) Series(field Field) []float64 {
	b.dataMtx.RLock()
	defer b.dataMtx.RUnlock()

	start := b.start.Load()
	count := b.count.Load()
	size := b.size.Load()

	series := make([]float64, count)
	for i := int32(0); i < count; i++ {
		candle := &b.data[(start+i)%size]
		switch field {
		case OpenField:
			series[i] = candle.Open
		case HighField:
			series[i] = candle.High
		case LowField:
			series[i] = candle.Low
		case CloseField:
			series[i] = candle.Close
		case VolumeField:
			series[i] = candle.Volume
		}
	}

	return series
}

// Closes returns the ordered close series, oldest first.
func (b *CandleBuffer) Closes() []float64 {
	return b.Series(CloseField)
}
