// Package service wires the broker, strategies, risk manager and engine
// into a runnable trading service.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/ryel/quorum/broker"
	"github.com/ryel/quorum/database"
	"github.com/ryel/quorum/engine"
	"github.com/ryel/quorum/risk"
	"github.com/ryel/quorum/shared"
	"github.com/ryel/quorum/strategy"
)

// TraderConfig represents the configuration struct for the trader service.
type TraderConfig struct {
	// Symbols represents the traded instruments.
	Symbols []string
	// Granularity is the candle granularity, in seconds.
	Granularity int
	// Strategies selects the strategies to run, all when empty.
	Strategies []string
	// ConfidenceThreshold is the minimum combined confidence to trade on.
	ConfidenceThreshold float64
	// PollInterval is the delay between polling cycles.
	PollInterval time.Duration
	// DurationTicks is the contract duration in ticks.
	DurationTicks int
	// MinOrderSizes maps instruments to their minimum order size.
	MinOrderSizes map[string]float64
	// BrokerURL is the broker websocket endpoint.
	BrokerURL string
	// APIToken authorizes the broker session.
	APIToken string
	// MaxDailyTrades caps the number of trades per day.
	MaxDailyTrades int
	// MaxDailyLoss caps the accumulated daily loss.
	MaxDailyLoss float64
	// MaxConsecutiveLosses caps the losing streak.
	MaxConsecutiveLosses int
	// BaseAmount is the default stake used for position sizing.
	BaseAmount float64
	// DatabaseEndpoint is the trade store endpoint, persistence is disabled
	// when empty.
	DatabaseEndpoint string
	// DatabaseUser is the trade store user.
	DatabaseUser string
	// DatabasePass is the trade store user pass.
	DatabasePass string
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config sane inputs.
func (cfg *TraderConfig) Validate() error {
	var errs error

	if len(cfg.Symbols) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no symbols provided for trader service"))
	}
	if cfg.BrokerURL == "" {
		errs = errors.Join(errs, fmt.Errorf("broker url cannot be an empty string"))
	}
	if cfg.APIToken == "" {
		errs = errors.Join(errs, fmt.Errorf("api token cannot be an empty string"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}

	return errs
}

// Trader represents the trading service.
type Trader struct {
	cfg           *TraderConfig
	brokerClient  *broker.DerivClient
	riskManager   *risk.Manager
	tradingEngine *engine.Engine
	jobScheduler  *gocron.Scheduler
	logger        *zerolog.Logger
	wg            sync.WaitGroup
}

// NewTrader initializes a new trader service.
func NewTrader(cfg *TraderConfig) (*Trader, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "trader").Logger()

	brokerLogger := logger.With().Str("component", "broker").Logger()
	brokerClient, err := broker.NewDerivClient(&broker.DerivConfig{
		URL:      cfg.BrokerURL,
		APIToken: cfg.APIToken,
		Logger:   &brokerLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating broker client: %v", err)
	}

	riskLogger := logger.With().Str("component", "riskmanager").Logger()
	riskManager, err := risk.NewManager(&risk.ManagerConfig{
		MaxDailyTrades:       cfg.MaxDailyTrades,
		MaxDailyLoss:         cfg.MaxDailyLoss,
		MaxConsecutiveLosses: cfg.MaxConsecutiveLosses,
		BaseAmount:           cfg.BaseAmount,
		Now:                  time.Now,
		Logger:               &riskLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating risk manager: %v", err)
	}

	strategies, err := strategy.NewSet(cfg.Strategies)
	if err != nil {
		return nil, fmt.Errorf("creating strategies: %v", err)
	}

	aggregatorLogger := logger.With().Str("component", "aggregator").Logger()
	aggregator, err := strategy.NewAggregator(&strategy.AggregatorConfig{
		Strategies: strategies,
		Logger:     &aggregatorLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating aggregator: %v", err)
	}

	var persistClosedTrade func(ctx context.Context, trade *risk.TradeRecord) error
	if cfg.DatabaseEndpoint != "" {
		dbLogger := logger.With().Str("component", "database").Logger()
		db, err := database.NewDatabase(context.Background(), &database.DatabaseConfig{
			Endpoint: cfg.DatabaseEndpoint,
			User:     cfg.DatabaseUser,
			Pass:     cfg.DatabasePass,
			Logger:   &dbLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating database: %v", err)
		}
		persistClosedTrade = db.PersistClosedTrade
	}

	engineLogger := logger.With().Str("component", "engine").Logger()
	tradingEngine, err := engine.NewEngine(&engine.EngineConfig{
		Symbols:             cfg.Symbols,
		Granularity:         shared.GranularityFromSeconds(cfg.Granularity),
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		PollInterval:        cfg.PollInterval,
		InstrumentDelay:     time.Second,
		DurationTicks:       cfg.DurationTicks,
		MinOrderSizes:       cfg.MinOrderSizes,
		Broker:              brokerClient,
		Aggregator:          aggregator,
		Risk:                riskManager,
		PersistClosedTrade:  persistClosedTrade,
		Logger:              &engineLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating engine: %v", err)
	}

	jobScheduler := gocron.NewScheduler(time.Local)

	service := &Trader{
		cfg:           cfg,
		brokerClient:  brokerClient,
		riskManager:   riskManager,
		tradingEngine: tradingEngine,
		jobScheduler:  jobScheduler,
		logger:        &logger,
	}

	return service, nil
}

// Run handles the lifecycle processes of the trader service.
func (t *Trader) Run(ctx context.Context) {
	err := t.brokerClient.Connect(ctx)
	if err != nil {
		t.logger.Error().Msgf("connecting broker: %v", err)
		t.cfg.Cancel()
		return
	}
	defer t.brokerClient.Close()

	_, err = t.jobScheduler.Every(1).Hour().Do(t.riskManager.LogRiskSummary)
	if err != nil {
		t.logger.Error().Msgf("scheduling risk summary: %v", err)
	}
	t.jobScheduler.StartAsync()
	defer t.jobScheduler.Stop()

	t.wg.Add(1)
	go func() {
		t.tradingEngine.Run(ctx)
		t.wg.Done()
	}()

	t.wg.Wait()
}
