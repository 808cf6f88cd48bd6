package strategy

import (
	"math"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"

	"github.com/ryel/quorum/shared"
)

// panicStrategy always panics during evaluation.
type panicStrategy struct{}

func (s *panicStrategy) Name() string     { return "panic" }
func (s *panicStrategy) Lookback() int    { return 1 }
func (s *panicStrategy) Evaluate(buf *shared.CandleBuffer) shared.Signal {
	panic("indicator arithmetic fault")
}

func newTestAggregator(t *testing.T, strategies []Strategy) *Aggregator {
	t.Helper()

	logger := zerolog.Nop()
	agg, err := NewAggregator(&AggregatorConfig{
		Strategies: strategies,
		Logger:     &logger,
	})
	assert.NoError(t, err)

	return agg
}

func TestAggregatorConfigValidate(t *testing.T) {
	// Ensure the aggregator config validation catches missing fields.
	cfg := &AggregatorConfig{}
	assert.Error(t, cfg.Validate())

	logger := zerolog.Nop()
	cfg = &AggregatorConfig{Logger: &logger}
	assert.Error(t, cfg.Validate())

	cfg = &AggregatorConfig{Strategies: []Strategy{NewRSI()}, Logger: &logger}
	assert.NoError(t, cfg.Validate())
}

func TestCombine(t *testing.T) {
	agg := newTestAggregator(t, []Strategy{NewRSI()})

	// Two up votes against one weak down vote and eight holds.
	signals := []shared.WeightedSignal{
		{Signal: shared.Signal{Direction: shared.Up, Confidence: 0.9}, Strategy: "a", Weight: 1},
		{Signal: shared.Signal{Direction: shared.Up, Confidence: 0.8}, Strategy: "b", Weight: 1},
		{Signal: shared.Signal{Direction: shared.Down, Confidence: 0.1}, Strategy: "c", Weight: 1},
	}
	for i := 0; i < 8; i++ {
		signals = append(signals, shared.WeightedSignal{Signal: shared.HoldSignal(), Weight: 1})
	}

	// up votes = 1.7, down votes = 0.1, total = 1.8.
	// up share = 1.7/1.8, confidence = min(1.7/1.8*1.5, 0.95) = 0.95.
	combined := agg.Combine(signals)
	assert.Equal(t, combined.Direction, shared.Up)
	assert.Equal(t, combined.Confidence, 0.95)

	// Ensure combining is idempotent over the same input.
	again := agg.Combine(signals)
	assert.Equal(t, combined, again)
}

func TestCombineBelowThreshold(t *testing.T) {
	agg := newTestAggregator(t, []Strategy{NewRSI()})

	// A split vote with no plurality holds.
	signals := []shared.WeightedSignal{
		{Signal: shared.Signal{Direction: shared.Up, Confidence: 0.5}, Weight: 1},
		{Signal: shared.Signal{Direction: shared.Down, Confidence: 0.5}, Weight: 1},
		{Signal: shared.Signal{Direction: shared.Hold, Confidence: 0.5}, Weight: 1},
	}
	combined := agg.Combine(signals)
	assert.Equal(t, combined, shared.HoldSignal())

	// All-hold input with zero conviction holds.
	combined = agg.Combine([]shared.WeightedSignal{
		{Signal: shared.HoldSignal(), Weight: 1},
		{Signal: shared.HoldSignal(), Weight: 1},
	})
	assert.Equal(t, combined, shared.HoldSignal())

	// An empty round holds.
	combined = agg.Combine(nil)
	assert.Equal(t, combined, shared.HoldSignal())
}

func TestCombineWeights(t *testing.T) {
	agg := newTestAggregator(t, []Strategy{NewRSI()})

	// A heavily down-weighted direction loses a vote it would otherwise win.
	signals := []shared.WeightedSignal{
		{Signal: shared.Signal{Direction: shared.Up, Confidence: 0.9}, Weight: 0.1},
		{Signal: shared.Signal{Direction: shared.Down, Confidence: 0.4}, Weight: 1},
	}
	combined := agg.Combine(signals)
	assert.Equal(t, combined.Direction, shared.Down)

	// down votes = 0.4, total = 0.49.
	want := math.Min(0.4/0.49*1.5, 0.95)
	assert.Equal(t, combined.Confidence, want)
}

func TestEvaluatePanicIsolation(t *testing.T) {
	// Ensure a panicking strategy degrades to a hold vote for the round
	// without aborting aggregation.
	agg := newTestAggregator(t, []Strategy{&panicStrategy{}, NewRSI()})

	closes := make([]float64, 20)
	for idx := range closes {
		closes[idx] = 100 - float64(idx)
	}
	buf := bufferWithCloses(t, closes)

	signals := agg.Evaluate(buf)
	assert.Equal(t, len(signals), 2)
	assert.Equal(t, signals[0].Strategy, "panic")
	assert.Equal(t, signals[0].Signal, shared.HoldSignal())
	assert.Equal(t, signals[1].Strategy, "rsi")
	assert.Equal(t, signals[1].Signal, shared.Signal{Direction: shared.Up, Confidence: 0.9})

	// Ensure registry weights are attached to the evaluated signals.
	assert.Equal(t, signals[1].Weight, 1.2)
}

func TestRegistry(t *testing.T) {
	// Ensure all twenty-eight strategies are registered.
	ids := Identifiers()
	assert.Equal(t, len(ids), 28)

	// Ensure instantiation by identifier works for the full set.
	set, err := NewSet(nil)
	assert.NoError(t, err)
	assert.Equal(t, len(set), len(ids))

	// Ensure a subset can be selected.
	set, err = NewSet([]string{"ma", "rsi"})
	assert.NoError(t, err)
	assert.Equal(t, len(set), 2)
	assert.Equal(t, set[0].Name(), "ma")
	assert.Equal(t, set[1].Name(), "rsi")

	// Ensure unknown identifiers are rejected.
	_, err = NewSet([]string{"unknown"})
	assert.Error(t, err)

	// Ensure weights default to 1.0 with the documented exceptions.
	assert.Equal(t, Weight("rsi"), 1.2)
	assert.Equal(t, Weight("correlation"), 0.5)
	assert.Equal(t, Weight("ma"), 1.0)
	assert.Equal(t, Weight("unknown"), 1.0)

	// Ensure names round trip through the registry.
	for _, id := range ids {
		strat, err := New(id)
		assert.NoError(t, err)
		assert.Equal(t, strat.Name(), id)
	}
}
