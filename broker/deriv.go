// Package broker implements the websocket client used to fetch candles,
// submit contracts and query balances.
package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"go.uber.org/atomic"

	"github.com/ryel/quorum/shared"
)

const (
	// writeTimeout is the websocket write deadline.
	writeTimeout = time.Second * 10

	// callTimeout bounds a request/response round trip when the caller's
	// context carries no deadline.
	callTimeout = time.Second * 15
)

// DerivConfig is the configuration struct for the deriv client.
type DerivConfig struct {
	// URL is the websocket endpoint, including the app id.
	URL string
	// APIToken authorizes the trading session.
	APIToken string
	// Logger is the client logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sanity checks pass.
func (cfg *DerivConfig) Validate() error {
	var errs error

	if cfg.URL == "" {
		errs = errors.Join(errs, errors.New("websocket url cannot be empty"))
	}
	if cfg.APIToken == "" {
		errs = errors.Join(errs, errors.New("api token cannot be empty"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, errors.New("logger cannot be nil"))
	}

	return errs
}

// DerivClient is a request/response websocket client for the deriv API.
// Responses are correlated to requests by req_id, so concurrent callers can
// share one connection.
type DerivClient struct {
	cfg      *DerivConfig
	reqID    atomic.Uint64
	writeMtx sync.Mutex
	conn     *websocket.Conn

	pendingMtx sync.Mutex
	pending    map[uint64]chan gjson.Result
}

// Ensure the deriv client implements the Broker interface.
var _ shared.Broker = (*DerivClient)(nil)

// NewDerivClient initializes a new deriv client.
func NewDerivClient(cfg *DerivConfig) (*DerivClient, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &DerivClient{
		cfg:     cfg,
		pending: make(map[uint64]chan gjson.Result),
	}, nil
}

// Connect dials the websocket endpoint, authorizes the session and starts
// the read loop.
func (c *DerivClient) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", c.cfg.URL, err)
	}

	c.conn = conn
	go c.readLoop()

	resp, err := c.call(ctx, map[string]any{"authorize": c.cfg.APIToken})
	if err != nil {
		return fmt.Errorf("authorizing session: %w", err)
	}

	c.cfg.Logger.Info().Str("loginid", resp.Get("authorize.loginid").String()).
		Msg("session authorized")

	return nil
}

// Close terminates the websocket connection.
func (c *DerivClient) Close() error {
	if c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// readLoop dispatches incoming messages to their waiting callers by req_id.
func (c *DerivClient) readLoop() {
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			c.failPending(err)
			return
		}

		result := gjson.ParseBytes(message)
		id := result.Get("req_id").Uint()
		if id == 0 {
			continue
		}

		c.pendingMtx.Lock()
		ch, ok := c.pending[id]
		delete(c.pending, id)
		c.pendingMtx.Unlock()

		if ok {
			ch <- result
		}
	}
}

// failPending drops all in-flight calls after a connection failure.
func (c *DerivClient) failPending(err error) {
	c.pendingMtx.Lock()
	defer c.pendingMtx.Unlock()

	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}

	c.cfg.Logger.Error().Err(err).Msg("websocket connection closed")
}

// call sends the provided request and waits for its correlated response.
func (c *DerivClient) call(ctx context.Context, req map[string]any) (gjson.Result, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, callTimeout)
		defer cancel()
	}

	id := c.reqID.Add(1)
	req["req_id"] = id

	ch := make(chan gjson.Result, 1)
	c.pendingMtx.Lock()
	c.pending[id] = ch
	c.pendingMtx.Unlock()

	c.writeMtx.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	err := c.conn.WriteJSON(req)
	c.writeMtx.Unlock()
	if err != nil {
		c.pendingMtx.Lock()
		delete(c.pending, id)
		c.pendingMtx.Unlock()
		return gjson.Result{}, fmt.Errorf("writing request: %w", err)
	}

	select {
	case <-ctx.Done():
		c.pendingMtx.Lock()
		delete(c.pending, id)
		c.pendingMtx.Unlock()
		return gjson.Result{}, ctx.Err()
	case resp, ok := <-ch:
		if !ok {
			return gjson.Result{}, errors.New("connection closed while awaiting response")
		}
		if resp.Get("error").Exists() {
			return gjson.Result{}, fmt.Errorf("api error %s: %s",
				resp.Get("error.code").String(), resp.Get("error.message").String())
		}
		return resp, nil
	}
}

// ParseCandles parses candles from the provided json data.
func ParseCandles(data []gjson.Result, symbol string, granularity shared.Granularity) []shared.Candle {
	candles := make([]shared.Candle, 0, len(data))

	for idx := range data {
		candles = append(candles, shared.Candle{
			Open:        data[idx].Get("open").Float(),
			Low:         data[idx].Get("low").Float(),
			High:        data[idx].Get("high").Float(),
			Close:       data[idx].Get("close").Float(),
			Volume:      data[idx].Get("volume").Float(),
			Date:        time.Unix(data[idx].Get("epoch").Int(), 0),
			Symbol:      symbol,
			Granularity: granularity,
		})
	}

	return candles
}

// GetCandles fetches the most recent candles for the provided symbol.
func (c *DerivClient) GetCandles(ctx context.Context, symbol string, granularity shared.Granularity, count int) ([]shared.Candle, error) {
	resp, err := c.call(ctx, map[string]any{
		"ticks_history": symbol,
		"style":         "candles",
		"granularity":   granularity.Seconds(),
		"count":         count,
		"end":           "latest",
	})
	if err != nil {
		return nil, fmt.Errorf("fetching candles for %s: %w", symbol, err)
	}

	return ParseCandles(resp.Get("candles").Array(), symbol, granularity), nil
}

// Buy submits a contract in the provided direction and returns its id.
func (c *DerivClient) Buy(ctx context.Context, symbol string, amount float64, direction shared.Direction, durationTicks int) (string, error) {
	var contractType string
	switch direction {
	case shared.Up:
		contractType = "CALL"
	case shared.Down:
		contractType = "PUT"
	default:
		return "", fmt.Errorf("no contract type for direction %s", direction)
	}

	resp, err := c.call(ctx, map[string]any{
		"buy":   1,
		"price": amount,
		"parameters": map[string]any{
			"contract_type": contractType,
			"symbol":        symbol,
			"amount":        amount,
			"basis":         "stake",
			"currency":      "USD",
			"duration":      durationTicks,
			"duration_unit": "t",
		},
	})
	if err != nil {
		return "", fmt.Errorf("buying %s contract for %s: %w", contractType, symbol, err)
	}

	return resp.Get("buy.contract_id").String(), nil
}

// ParseContractStatus parses a contract status from the provided json data.
func ParseContractStatus(data gjson.Result) shared.ContractStatus {
	return shared.ContractStatus{
		ContractID: data.Get("contract_id").String(),
		Settled:    data.Get("is_sold").Bool(),
		Profit:     data.Get("profit").Float(),
	}
}

// CheckContract queries the status of an open contract.
func (c *DerivClient) CheckContract(ctx context.Context, contractID string) (shared.ContractStatus, error) {
	resp, err := c.call(ctx, map[string]any{
		"proposal_open_contract": 1,
		"contract_id":            contractID,
	})
	if err != nil {
		return shared.ContractStatus{}, fmt.Errorf("checking contract %s: %w", contractID, err)
	}

	return ParseContractStatus(resp.Get("proposal_open_contract")), nil
}

// GetBalance fetches the account balance.
func (c *DerivClient) GetBalance(ctx context.Context) (shared.Balance, error) {
	resp, err := c.call(ctx, map[string]any{"balance": 1})
	if err != nil {
		return shared.Balance{}, fmt.Errorf("fetching balance: %w", err)
	}

	return shared.Balance{
		Amount:   resp.Get("balance.balance").Float(),
		Currency: resp.Get("balance.currency").String(),
	}, nil
}
