// Package engine drives the trading loop: poll candles, feed the buffer,
// aggregate strategy signals, gate through risk and submit contracts.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryel/quorum/risk"
	"github.com/ryel/quorum/shared"
	"github.com/ryel/quorum/strategy"
)

const (
	// maxMonitors is the maximum number of concurrent contract monitors.
	maxMonitors = 8

	// monitorInterval is the delay between contract status checks.
	monitorInterval = time.Second * 3

	// monitorIterations bounds how many status checks a monitor performs
	// before giving up on a contract.
	monitorIterations = 40

	// candleFetchCount is the number of candles requested per poll.
	candleFetchCount = 100
)

// EngineConfig is the configuration struct for the trading engine.
type EngineConfig struct {
	// Symbols are the traded instruments.
	Symbols []string
	// Granularity is the candle granularity polled for.
	Granularity shared.Granularity
	// ConfidenceThreshold is the minimum combined confidence before a
	// contract is submitted.
	ConfidenceThreshold float64
	// PollInterval is the delay between polling cycles.
	PollInterval time.Duration
	// InstrumentDelay is the delay between instruments within a cycle.
	InstrumentDelay time.Duration
	// DurationTicks is the contract duration in ticks.
	DurationTicks int
	// MinOrderSizes maps instruments to their minimum order size.
	MinOrderSizes map[string]float64
	// Broker is the candle feed and order submission client.
	Broker shared.Broker
	// Aggregator combines per-strategy signals into one decision.
	Aggregator *strategy.Aggregator
	// Risk gates trade admission and tracks account state.
	Risk *risk.Manager
	// PersistClosedTrade stores a settled trade, if persistence is enabled.
	PersistClosedTrade func(ctx context.Context, trade *risk.TradeRecord) error
	// Logger is the engine logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sanity checks pass.
func (cfg *EngineConfig) Validate() error {
	var errs error

	if len(cfg.Symbols) == 0 {
		errs = errors.Join(errs, errors.New("no symbols provided for the engine"))
	}
	if cfg.ConfidenceThreshold <= 0 || cfg.ConfidenceThreshold >= 1 {
		errs = errors.Join(errs, errors.New("confidence threshold must be in (0, 1)"))
	}
	if cfg.PollInterval <= 0 {
		errs = errors.Join(errs, errors.New("poll interval must be positive"))
	}
	if cfg.DurationTicks <= 0 {
		errs = errors.Join(errs, errors.New("contract duration must be positive"))
	}
	if cfg.Broker == nil {
		errs = errors.Join(errs, errors.New("broker cannot be nil"))
	}
	if cfg.Aggregator == nil {
		errs = errors.Join(errs, errors.New("aggregator cannot be nil"))
	}
	if cfg.Risk == nil {
		errs = errors.Join(errs, errors.New("risk manager cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, errors.New("logger cannot be nil"))
	}

	return errs
}

// position is the engine's shadow record of an open contract.
type position struct {
	ContractID string
	Symbol     string
	Direction  shared.Direction
	Amount     float64
	OpenedAt   time.Time
}

// Engine is the trading orchestrator.
type Engine struct {
	cfg *EngineConfig

	buffers map[string]*shared.CandleBuffer

	positionsMtx sync.Mutex
	positions    map[string]position

	monitors sync.WaitGroup
	workers  chan struct{}
}

// NewEngine initializes a new trading engine.
func NewEngine(cfg *EngineConfig) (*Engine, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	buffers := make(map[string]*shared.CandleBuffer, len(cfg.Symbols))
	for _, symbol := range cfg.Symbols {
		buf, err := shared.NewCandleBuffer(shared.BufferCapacity)
		if err != nil {
			return nil, err
		}
		buffers[symbol] = buf
	}

	return &Engine{
		cfg:       cfg,
		buffers:   buffers,
		positions: make(map[string]position),
		workers:   make(chan struct{}, maxMonitors),
	}, nil
}

// refreshBalance pulls the authoritative balance from the broker into the
// risk manager.
func (e *Engine) refreshBalance(ctx context.Context) {
	balance, err := e.cfg.Broker.GetBalance(ctx)
	if err != nil {
		e.cfg.Logger.Error().Err(err).Msg("fetching balance")
		return
	}

	e.cfg.Risk.UpdateBalance(balance.Amount)
}

// updateBuffer appends candles newer than the buffer's last entry.
func (e *Engine) updateBuffer(buf *shared.CandleBuffer, candles []shared.Candle) {
	last := buf.Last()
	for idx := range candles {
		if last != nil && !candles[idx].Date.After(last.Date) {
			continue
		}
		buf.Append(candles[idx])
	}
}

// hasOpenPosition reports whether the provided symbol has an open contract.
func (e *Engine) hasOpenPosition(symbol string) bool {
	e.positionsMtx.Lock()
	defer e.positionsMtx.Unlock()

	for _, pos := range e.positions {
		if pos.Symbol == symbol {
			return true
		}
	}

	return false
}

// processSymbol runs one evaluation pass for the provided symbol.
func (e *Engine) processSymbol(ctx context.Context, symbol string) {
	buf := e.buffers[symbol]

	candles, err := e.cfg.Broker.GetCandles(ctx, symbol, e.cfg.Granularity, candleFetchCount)
	if err != nil {
		e.cfg.Logger.Error().Err(err).Str("symbol", symbol).
			Msg("fetching candles, retrying next cycle")
		return
	}

	e.updateBuffer(buf, candles)

	if e.hasOpenPosition(symbol) {
		return
	}

	signals := e.cfg.Aggregator.Evaluate(buf)
	combined := e.cfg.Aggregator.Combine(signals)

	if combined.Direction == shared.Hold || combined.Confidence < e.cfg.ConfidenceThreshold {
		return
	}

	size := e.cfg.Risk.CalculatePositionSize(combined.Confidence)
	if min, ok := e.cfg.MinOrderSizes[symbol]; ok && size < min {
		size = min
	}

	if !e.cfg.Risk.CanTrade(size) {
		return
	}

	contractID, err := e.cfg.Broker.Buy(ctx, symbol, size, combined.Direction, e.cfg.DurationTicks)
	if err != nil {
		e.cfg.Logger.Error().Err(err).Str("symbol", symbol).
			Msg("submitting contract, retrying next cycle")
		return
	}

	pos := position{
		ContractID: contractID,
		Symbol:     symbol,
		Direction:  combined.Direction,
		Amount:     size,
		OpenedAt:   time.Now(),
	}

	e.positionsMtx.Lock()
	e.positions[contractID] = pos
	e.positionsMtx.Unlock()

	e.cfg.Logger.Info().Str("symbol", symbol).
		Str("direction", combined.Direction.String()).
		Float64("confidence", combined.Confidence).
		Float64("amount", size).
		Str("contract", contractID).
		Msg("contract submitted")

	e.monitors.Add(1)
	e.workers <- struct{}{}
	go func() {
		e.monitorContract(ctx, pos)
		<-e.workers
		e.monitors.Done()
	}()
}

// monitorContract polls an open contract until it settles or the monitor
// budget runs out, then records the outcome.
func (e *Engine) monitorContract(ctx context.Context, pos position) {
	defer func() {
		e.positionsMtx.Lock()
		delete(e.positions, pos.ContractID)
		e.positionsMtx.Unlock()
	}()

	for i := 0; i < monitorIterations; i++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(monitorInterval):
		}

		status, err := e.cfg.Broker.CheckContract(ctx, pos.ContractID)
		if err != nil {
			e.cfg.Logger.Error().Err(err).Str("contract", pos.ContractID).
				Msg("checking contract")
			continue
		}

		if !status.Settled {
			continue
		}

		record := e.cfg.Risk.RecordTrade(pos.Amount, status.Profit, pos.Symbol, pos.Direction)
		if e.cfg.PersistClosedTrade != nil {
			err := e.cfg.PersistClosedTrade(ctx, &record)
			if err != nil {
				e.cfg.Logger.Error().Err(err).Str("contract", pos.ContractID).
					Msg("persisting closed trade")
			}
		}

		e.refreshBalance(ctx)
		return
	}

	e.cfg.Logger.Warn().Str("contract", pos.ContractID).
		Msg("monitor budget exhausted before contract settled")
}

// Run manages the lifecycle processes of the trading engine.
func (e *Engine) Run(ctx context.Context) {
	e.refreshBalance(ctx)

	for {
		if ctx.Err() != nil {
			break
		}

		switch {
		case e.cfg.Risk.ShouldStopTrading():
			e.cfg.Logger.Warn().Msg("circuit breaker tripped, pausing for this cycle")
		case e.cfg.Risk.ShouldTakeProfit():
			e.cfg.Logger.Info().Msg("profit target reached, pausing for this cycle")
		default:
			for _, symbol := range e.cfg.Symbols {
				if ctx.Err() != nil {
					break
				}
				e.processSymbol(ctx, symbol)

				if e.cfg.InstrumentDelay > 0 {
					select {
					case <-ctx.Done():
					case <-time.After(e.cfg.InstrumentDelay):
					}
				}
			}
		}

		select {
		case <-ctx.Done():
		case <-time.After(e.cfg.PollInterval):
		}
	}

	e.monitors.Wait()
}
