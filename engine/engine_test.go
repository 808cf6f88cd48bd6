package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"

	"github.com/ryel/quorum/risk"
	"github.com/ryel/quorum/shared"
	"github.com/ryel/quorum/strategy"
)

// stubBroker is an in-memory broker for engine tests.
type stubBroker struct {
	mtx     sync.Mutex
	candles []shared.Candle
	balance float64
	buys    []string
	settled bool
	profit  float64
	nextID  int
}

func (b *stubBroker) GetCandles(ctx context.Context, symbol string, granularity shared.Granularity, count int) ([]shared.Candle, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	out := make([]shared.Candle, len(b.candles))
	copy(out, b.candles)
	return out, nil
}

func (b *stubBroker) Buy(ctx context.Context, symbol string, amount float64, direction shared.Direction, durationTicks int) (string, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.nextID++
	id := "contract-1"
	b.buys = append(b.buys, id)
	return id, nil
}

func (b *stubBroker) CheckContract(ctx context.Context, contractID string) (shared.ContractStatus, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return shared.ContractStatus{ContractID: contractID, Settled: b.settled, Profit: b.profit}, nil
}

func (b *stubBroker) GetBalance(ctx context.Context) (shared.Balance, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return shared.Balance{Amount: b.balance, Currency: "USD"}, nil
}

func (b *stubBroker) buyCount() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return len(b.buys)
}

// decliningCandles builds a monotonically declining close series that drives
// the RSI strategy oversold.
func decliningCandles(n int) []shared.Candle {
	base := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	candles := make([]shared.Candle, n)
	for idx := range candles {
		price := 100 - float64(idx)*0.5
		candles[idx] = shared.Candle{
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 100,
			Date:   base.Add(time.Duration(idx) * time.Minute),
		}
	}

	return candles
}

func newTestEngine(t *testing.T, stub *stubBroker) *Engine {
	t.Helper()

	logger := zerolog.Nop()

	riskMgr, err := risk.NewManager(&risk.ManagerConfig{
		MaxDailyTrades:       20,
		MaxDailyLoss:         50.0,
		MaxConsecutiveLosses: 5,
		BaseAmount:           1.0,
		Now:                  time.Now,
		Logger:               &logger,
	})
	assert.NoError(t, err)

	strategies, err := strategy.NewSet([]string{"rsi"})
	assert.NoError(t, err)

	aggregator, err := strategy.NewAggregator(&strategy.AggregatorConfig{
		Strategies: strategies,
		Logger:     &logger,
	})
	assert.NoError(t, err)

	eng, err := NewEngine(&EngineConfig{
		Symbols:             []string{"R_100"},
		Granularity:         shared.OneMinute,
		ConfidenceThreshold: 0.4,
		PollInterval:        time.Millisecond * 10,
		DurationTicks:       5,
		Broker:              stub,
		Aggregator:          aggregator,
		Risk:                riskMgr,
		Logger:              &logger,
	})
	assert.NoError(t, err)

	eng.refreshBalance(context.Background())
	return eng
}

func TestEngineConfigValidate(t *testing.T) {
	// Ensure the engine config validation catches missing fields.
	cfg := &EngineConfig{}
	_, err := NewEngine(cfg)
	assert.Error(t, err)
}

func TestUpdateBuffer(t *testing.T) {
	stub := &stubBroker{candles: decliningCandles(30), balance: 1000}
	eng := newTestEngine(t, stub)

	buf := eng.buffers["R_100"]
	eng.updateBuffer(buf, stub.candles)
	assert.Equal(t, buf.Len(), 30)

	// Ensure refetched candles are not appended twice.
	eng.updateBuffer(buf, stub.candles)
	assert.Equal(t, buf.Len(), 30)

	// Ensure only candles newer than the buffer tail are appended.
	newer := decliningCandles(31)
	eng.updateBuffer(buf, newer)
	assert.Equal(t, buf.Len(), 31)
}

func TestProcessSymbolSubmitsContract(t *testing.T) {
	stub := &stubBroker{candles: decliningCandles(30), balance: 1000}
	eng := newTestEngine(t, stub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A declining series drives the RSI vote oversold, clearing the
	// confidence threshold and the risk gate.
	eng.processSymbol(ctx, "R_100")
	assert.Equal(t, stub.buyCount(), 1)

	// Ensure the shadow position blocks a second entry on the same symbol.
	eng.processSymbol(ctx, "R_100")
	assert.Equal(t, stub.buyCount(), 1)
}

func TestMonitorContractSettlement(t *testing.T) {
	stub := &stubBroker{candles: decliningCandles(30), balance: 1000, settled: true, profit: -2.5}
	eng := newTestEngine(t, stub)

	var persisted []risk.TradeRecord
	var persistMtx sync.Mutex
	eng.cfg.PersistClosedTrade = func(ctx context.Context, trade *risk.TradeRecord) error {
		persistMtx.Lock()
		defer persistMtx.Unlock()
		persisted = append(persisted, *trade)
		return nil
	}

	pos := position{
		ContractID: "contract-1",
		Symbol:     "R_100",
		Direction:  shared.Up,
		Amount:     3.0,
		OpenedAt:   time.Now(),
	}
	eng.positionsMtx.Lock()
	eng.positions[pos.ContractID] = pos
	eng.positionsMtx.Unlock()

	eng.monitorContract(context.Background(), pos)

	// Ensure the settled outcome lands in the risk manager and the store.
	stats := eng.cfg.Risk.DailyStats()
	assert.Equal(t, stats.TotalTrades, 1)
	assert.Equal(t, stats.DailyLoss, 2.5)
	assert.Equal(t, stats.ConsecutiveLosses, 1)

	persistMtx.Lock()
	defer persistMtx.Unlock()
	assert.Equal(t, len(persisted), 1)
	assert.Equal(t, persisted[0].Symbol, "R_100")
	assert.Equal(t, persisted[0].ProfitLoss, -2.5)

	// Ensure the shadow position is cleared.
	eng.positionsMtx.Lock()
	defer eng.positionsMtx.Unlock()
	assert.Equal(t, len(eng.positions), 0)
}

func TestMonitorContractCancelled(t *testing.T) {
	stub := &stubBroker{candles: decliningCandles(30), balance: 1000}
	eng := newTestEngine(t, stub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pos := position{ContractID: "contract-1", Symbol: "R_100", Amount: 1.0}
	eng.monitorContract(ctx, pos)

	// Ensure nothing is recorded for an abandoned monitor.
	stats := eng.cfg.Risk.DailyStats()
	assert.Equal(t, stats.TotalTrades, 0)
}

func TestProcessSymbolRiskRejected(t *testing.T) {
	stub := &stubBroker{candles: decliningCandles(30), balance: 1000}
	eng := newTestEngine(t, stub)

	// Exhaust most of the daily loss budget so any computed position size
	// overshoots half of what remains.
	eng.cfg.Risk.RecordTrade(1.0, -49, "R_100", shared.Down)

	eng.processSymbol(context.Background(), "R_100")
	assert.Equal(t, stub.buyCount(), 0)
}
