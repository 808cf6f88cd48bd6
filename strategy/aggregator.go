package strategy

import (
	"errors"
	"math"

	"github.com/rs/zerolog"

	"github.com/ryel/quorum/shared"
)

const (
	// voteThreshold is the minimum share of total weighted conviction a
	// direction needs before the aggregator acts on it.
	voteThreshold = 0.35

	// confidenceScale amplifies the winning vote share into the combined
	// confidence.
	confidenceScale = 1.5

	// confidenceCap bounds the combined confidence below certainty.
	confidenceCap = 0.95
)

// AggregatorConfig is the configuration struct for the signal aggregator.
type AggregatorConfig struct {
	// Strategies is the set of strategies contributing votes.
	Strategies []Strategy
	// Logger is the aggregator logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sanity checks pass.
func (cfg *AggregatorConfig) Validate() error {
	var errs error

	if len(cfg.Strategies) == 0 {
		errs = errors.Join(errs, errors.New("no strategies provided for the aggregator"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, errors.New("logger cannot be nil"))
	}

	return errs
}

// Aggregator combines per-strategy signals into one decision by
// confidence-weighted voting.
type Aggregator struct {
	cfg *AggregatorConfig
}

// NewAggregator initializes a new signal aggregator.
func NewAggregator(cfg *AggregatorConfig) (*Aggregator, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &Aggregator{
		cfg: cfg,
	}, nil
}

// Evaluate runs every strategy against the provided candle buffer and
// collects their weighted signals. A strategy that panics contributes a hold
// vote for the round instead of aborting it.
func (a *Aggregator) Evaluate(buf *shared.CandleBuffer) []shared.WeightedSignal {
	signals := make([]shared.WeightedSignal, 0, len(a.cfg.Strategies))
	for _, strat := range a.cfg.Strategies {
		signals = append(signals, shared.WeightedSignal{
			Signal:   a.evaluateOne(strat, buf),
			Strategy: strat.Name(),
			Weight:   Weight(strat.Name()),
		})
	}

	return signals
}

func (a *Aggregator) evaluateOne(strat Strategy, buf *shared.CandleBuffer) (sig shared.Signal) {
	defer func() {
		r := recover()
		if r != nil {
			a.cfg.Logger.Error().Str("strategy", strat.Name()).
				Msgf("strategy evaluation fault, holding: %v", r)
			sig = shared.HoldSignal()
		}
	}()

	return strat.Evaluate(buf)
}

// Combine folds the provided weighted signals into a single decision. A
// direction must carry more than a third of the total weighted conviction and
// beat the opposing direction to win the vote.
func (a *Aggregator) Combine(signals []shared.WeightedSignal) shared.Signal {
	var upVotes, downVotes, holdVotes float64
	for _, ws := range signals {
		vote := ws.Confidence * ws.Weight
		switch ws.Direction {
		case shared.Up:
			upVotes += vote
		case shared.Down:
			downVotes += vote
		default:
			holdVotes += vote
		}
	}

	total := upVotes + downVotes + holdVotes
	if total == 0 {
		return shared.HoldSignal()
	}

	upPct := upVotes / total
	downPct := downVotes / total

	switch {
	case upPct > voteThreshold && upPct > downPct:
		return shared.Signal{
			Direction:  shared.Up,
			Confidence: math.Min(upPct*confidenceScale, confidenceCap),
		}
	case downPct > voteThreshold && downPct > upPct:
		return shared.Signal{
			Direction:  shared.Down,
			Confidence: math.Min(downPct*confidenceScale, confidenceCap),
		}
	default:
		return shared.HoldSignal()
	}
}
