package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/ryel/quorum/service"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Printf("loading config: %v", err)
		return
	}

	minOrderSizes, err := cfg.ParseMinOrderSizes()
	if err != nil {
		log.Printf("parsing min order sizes: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	traderCfg := service.TraderConfig{
		Symbols:              cfg.Symbols,
		Granularity:          cfg.Granularity,
		Strategies:           cfg.Strategies,
		ConfidenceThreshold:  cfg.ConfidenceThreshold,
		PollInterval:         time.Duration(cfg.PollIntervalSeconds) * time.Second,
		DurationTicks:        cfg.DurationTicks,
		MinOrderSizes:        minOrderSizes,
		BrokerURL:            cfg.BrokerURL,
		APIToken:             cfg.APIToken,
		MaxDailyTrades:       cfg.MaxDailyTrades,
		MaxDailyLoss:         cfg.MaxDailyLoss,
		MaxConsecutiveLosses: cfg.MaxConsecutiveLosses,
		BaseAmount:           cfg.BaseAmount,
		DatabaseEndpoint:     cfg.DatabaseEndpoint,
		DatabaseUser:         cfg.DatabaseUser,
		DatabasePass:         cfg.DatabasePass,
		Cancel:               cancel,
	}
	trader, err := service.NewTrader(&traderCfg)
	if err != nil {
		log.Printf("creating trader service: %v", err)
		return
	}

	go handleTermination(ctx, cancel)
	trader.Run(ctx)
}
