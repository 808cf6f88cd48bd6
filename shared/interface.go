package shared

import (
	"context"
)

// Balance represents an account balance snapshot reported by the broker.
type Balance struct {
	Amount   float64
	Currency string
}

// ContractStatus represents the broker-reported state of an open contract.
type ContractStatus struct {
	ContractID string
	// Settled indicates the contract has been closed out by the broker.
	Settled bool
	// Profit is the realized profit or loss, valid once the contract settles.
	Profit float64
}

// Broker defines the requirements for interacting with the upstream broker.
// All calls are expected to enforce their own timeouts via the provided context.
type Broker interface {
	// GetCandles fetches the most recent count candles for the provided symbol.
	GetCandles(ctx context.Context, symbol string, granularity Granularity, count int) ([]Candle, error)
	// Buy submits a market order in the provided direction and returns the
	// broker-issued contract id.
	Buy(ctx context.Context, symbol string, amount float64, direction Direction, durationTicks int) (string, error)
	// CheckContract fetches the status of an open contract.
	CheckContract(ctx context.Context, contractID string) (ContractStatus, error)
	// GetBalance fetches the authoritative account balance.
	GetBalance(ctx context.Context) (Balance, error)
}
