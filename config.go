package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the configuration struct for the service.
type Config struct {
	// Symbols represents the traded instruments.
	Symbols []string
	// APIToken authorizes the broker session.
	APIToken string
	// BrokerURL is the broker websocket endpoint.
	BrokerURL string
	// Strategies selects the strategies to run, all when empty.
	Strategies []string
	// ConfidenceThreshold is the minimum combined confidence to trade on.
	ConfidenceThreshold float64
	// Granularity is the candle granularity in seconds.
	Granularity int
	// PollIntervalSeconds is the delay between polling cycles.
	PollIntervalSeconds int
	// DurationTicks is the contract duration in ticks.
	DurationTicks int
	// MaxDailyTrades caps the number of trades per day.
	MaxDailyTrades int
	// MaxDailyLoss caps the accumulated daily loss.
	MaxDailyLoss float64
	// MaxConsecutiveLosses caps the losing streak.
	MaxConsecutiveLosses int
	// BaseAmount is the default stake used for position sizing.
	BaseAmount float64
	// MinOrderSizes maps instruments to their minimum order size, formatted
	// as symbol:size pairs, eg. "R_100:1.0,R_50:0.5".
	MinOrderSizes string
	// DatabaseEndpoint is the trade store endpoint, persistence is disabled
	// when empty.
	DatabaseEndpoint string
	// DatabaseUser is the trade store user.
	DatabaseUser string
	// DatabasePass is the trade store user pass.
	DatabasePass string

	registeredFlags map[string]bool
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if len(cfg.Symbols) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no symbols provided for trader service"))
	}
	if cfg.APIToken == "" {
		errs = errors.Join(errs, fmt.Errorf("api token cannot be an empty string"))
	}
	if cfg.BrokerURL == "" {
		errs = errors.Join(errs, fmt.Errorf("broker url cannot be an empty string"))
	}
	if cfg.ConfidenceThreshold <= 0 || cfg.ConfidenceThreshold >= 1 {
		errs = errors.Join(errs, fmt.Errorf("confidence threshold must be in (0, 1)"))
	}
	if _, err := cfg.ParseMinOrderSizes(); err != nil {
		errs = errors.Join(errs, err)
	}

	return errs
}

// ParseMinOrderSizes parses the configured symbol:size pairs.
func (cfg *Config) ParseMinOrderSizes() (map[string]float64, error) {
	sizes := make(map[string]float64)
	if cfg.MinOrderSizes == "" {
		return sizes, nil
	}

	for _, pair := range strings.Split(cfg.MinOrderSizes, ",") {
		symbol, size, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("malformed min order size pair: %q", pair)
		}
		parsed, err := strconv.ParseFloat(size, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing min order size for %s: %w", symbol, err)
		}
		sizes[strings.TrimSpace(symbol)] = parsed
	}

	return sizes, nil
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
// The fallback is used when the corresponding environment variable is unset.
func (cfg *Config) registerFlag(name string, value interface{}, fallback string, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(strings.ToUpper(name))
	if defValue == "" {
		defValue = fallback
	}
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	case reflect.Float64:
		var def float64
		if defValue != "" {
			def, _ = strconv.ParseFloat(defValue, 64)
		}
		flag.Float64Var(value.(*float64), name, def, usage)
	case reflect.Slice:
		// Only handle []string
		if val.Elem().Type().Elem().Kind() == reflect.String {
			var def []string
			if defValue != "" {
				def = strings.Split(defValue, ",")
			}
			flag.Func(name, usage, func(s string) error {
				*value.(*[]string) = strings.Split(s, ",")
				return nil
			})
			// Set default if not provided via flag
			if len(def) > 0 {
				*value.(*[]string) = def
			}
		} else {
			return fmt.Errorf("%s: unsupported slice type", name)
		}
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	for _, reg := range []struct {
		name     string
		value    interface{}
		fallback string
		usage    string
	}{
		{"symbols", &cfg.Symbols, "", "the traded instruments"},
		{"apitoken", &cfg.APIToken, "", "the broker api token"},
		{"brokerurl", &cfg.BrokerURL, "wss://ws.derivws.com/websockets/v3?app_id=1089", "the broker websocket endpoint"},
		{"strategies", &cfg.Strategies, "", "the strategies to run, all when empty"},
		{"confidencethreshold", &cfg.ConfidenceThreshold, "0.4", "the minimum combined confidence to trade on"},
		{"granularity", &cfg.Granularity, "60", "the candle granularity in seconds"},
		{"pollinterval", &cfg.PollIntervalSeconds, "60", "the delay between polling cycles in seconds"},
		{"durationticks", &cfg.DurationTicks, "5", "the contract duration in ticks"},
		{"maxdailytrades", &cfg.MaxDailyTrades, "20", "the maximum number of trades per day"},
		{"maxdailyloss", &cfg.MaxDailyLoss, "50.0", "the maximum accumulated daily loss"},
		{"maxconsecutivelosses", &cfg.MaxConsecutiveLosses, "5", "the maximum losing streak"},
		{"baseamount", &cfg.BaseAmount, "1.0", "the default stake for position sizing"},
		{"minordersizes", &cfg.MinOrderSizes, "", "per-instrument minimum order sizes as symbol:size pairs"},
		{"databaseendpoint", &cfg.DatabaseEndpoint, "", "the trade store endpoint"},
		{"databaseuser", &cfg.DatabaseUser, "", "the trade store user"},
		{"databasepass", &cfg.DatabasePass, "", "the trade store user pass"},
	} {
		err = cfg.registerFlag(reg.name, reg.value, reg.fallback, reg.usage)
		if err != nil {
			return err
		}
	}

	// Parse command-line flags.
	flag.Parse()

	return cfg.Validate()
}
