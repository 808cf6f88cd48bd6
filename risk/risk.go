// Package risk gates trade admission against account level loss limits,
// sizes positions from signal confidence, and tracks daily trading
// statistics.
package risk

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ryel/quorum/shared"
)

const (
	// maxAccountLossPct is the share of the initial balance that may be lost
	// before trading halts.
	maxAccountLossPct = 0.25

	// maxPositionPct is the share of the current balance a single position
	// may stake.
	maxPositionPct = 0.05

	// profitTargetPct is the account growth at which profit taking triggers.
	profitTargetPct = 0.10

	// minPositionSize and maxPositionSize bound the final position size.
	minPositionSize = 1.0
	maxPositionSize = 200.0

	// minTradesForWinRate is the daily sample size below which the win rate
	// circuit breaker stays quiet.
	minTradesForWinRate = 5

	// minWinRate is the daily win rate (percent) below which trading stops.
	minWinRate = 30.0
)

// TradeRecord describes a completed trade.
type TradeRecord struct {
	ID           string
	Timestamp    time.Time
	Symbol       string
	Direction    shared.Direction
	Amount       float64
	ProfitLoss   float64
	BalanceAfter float64
}

// AccountStatus is a point-in-time snapshot of account risk metrics.
type AccountStatus struct {
	InitialBalance      float64
	CurrentBalance      float64
	TotalProfitLoss     float64
	ProfitPercentage    float64
	CurrentLoss         float64
	MaxAllowedLoss      float64
	RemainingRiskBudget float64
	CurrentDrawdown     float64
	ShouldTakeProfit    bool
}

// DailyStats summarizes the current trading day.
type DailyStats struct {
	TotalTrades       int
	WinningTrades     int
	LosingTrades      int
	WinRate           float64
	TotalProfit       float64
	TotalLoss         float64
	NetProfitLoss     float64
	DailyLoss         float64
	ConsecutiveLosses int
}

// ManagerConfig is the configuration struct for the risk manager.
type ManagerConfig struct {
	// MaxDailyTrades caps the number of trades admitted per day.
	MaxDailyTrades int
	// MaxDailyLoss caps the accumulated daily loss before trading stops.
	MaxDailyLoss float64
	// MaxConsecutiveLosses caps the losing streak before trading stops.
	MaxConsecutiveLosses int
	// BaseAmount is the default stake used for position sizing.
	BaseAmount float64
	// Now returns the current time.
	Now func() time.Time
	// Logger is the risk manager logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sanity checks pass.
func (cfg *ManagerConfig) Validate() error {
	var errs error

	if cfg.MaxDailyTrades <= 0 {
		errs = errors.Join(errs, errors.New("max daily trades must be positive"))
	}
	if cfg.MaxDailyLoss <= 0 {
		errs = errors.Join(errs, errors.New("max daily loss must be positive"))
	}
	if cfg.MaxConsecutiveLosses <= 0 {
		errs = errors.Join(errs, errors.New("max consecutive losses must be positive"))
	}
	if cfg.BaseAmount <= 0 {
		errs = errors.Join(errs, errors.New("base amount must be positive"))
	}
	if cfg.Now == nil {
		errs = errors.Join(errs, errors.New("now source cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, errors.New("logger cannot be nil"))
	}

	return errs
}

// Manager is the single writer of account state. Every mutating and reading
// method serializes through its mutex, so the trading loop and contract
// monitors never race on the daily counters or balance.
type Manager struct {
	cfg *ManagerConfig

	mtx               sync.Mutex
	dailyTrades       []TradeRecord
	dailyLoss         float64
	dailyStart        time.Time
	consecutiveLosses int
	initialBalance    float64
	currentBalance    float64
	peakBalance       float64
	currentDrawdown   float64
	totalProfitLoss   float64
	balanceSet        bool
}

// NewManager initializes a new risk manager.
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &Manager{
		cfg:        cfg,
		dailyStart: dateOf(cfg.Now()),
	}, nil
}

// dateOf truncates the provided time to its local date.
func dateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// resetDailyStats rolls the daily counters over when the local date changes.
// Callers must hold the mutex.
func (m *Manager) resetDailyStats() {
	current := dateOf(m.cfg.Now())
	if !current.Equal(m.dailyStart) {
		m.dailyTrades = nil
		m.dailyLoss = 0
		m.dailyStart = current
		m.cfg.Logger.Info().Time("date", current).Msg("new trading day started")
	}
}

// CanTrade checks whether a trade of the provided amount is admissible under
// the account loss limits. Rejections are logged with their reason and are
// advisory, not errors.
func (m *Manager) CanTrade(amount float64) bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.resetDailyStats()

	if !m.balanceSet || m.currentBalance <= 0 {
		m.cfg.Logger.Warn().Msg("trade rejected: no balance available")
		return false
	}

	if m.initialBalance > 0 {
		currentLoss := m.initialBalance - m.currentBalance
		maxAllowedLoss := m.initialBalance * maxAccountLossPct
		if currentLoss >= maxAllowedLoss {
			m.cfg.Logger.Warn().Float64("loss", currentLoss).
				Float64("limit", maxAllowedLoss).
				Msg("trade rejected: maximum account loss reached")
			return false
		}

		remainingBudget := maxAllowedLoss - currentLoss
		if amount > remainingBudget*0.5 {
			m.cfg.Logger.Warn().Float64("amount", amount).
				Float64("budget", remainingBudget*0.5).
				Msg("trade rejected: amount exceeds remaining risk budget")
			return false
		}
	}

	if amount/m.currentBalance > maxPositionPct {
		m.cfg.Logger.Warn().Float64("amount", amount).
			Float64("balance", m.currentBalance).
			Msg("trade rejected: amount exceeds maximum position share")
		return false
	}

	if len(m.dailyTrades) >= m.cfg.MaxDailyTrades {
		m.cfg.Logger.Warn().Int("limit", m.cfg.MaxDailyTrades).
			Msg("trade rejected: daily trade limit reached")
		return false
	}

	return true
}

// CalculatePositionSize sizes a position from signal confidence, clamped by
// the remaining risk budget, the maximum position share and the absolute
// bounds. The result is rounded to two decimals.
func (m *Manager) CalculatePositionSize(confidence float64) float64 {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	baseAmount := m.cfg.BaseAmount
	if !m.balanceSet || m.currentBalance <= 0 {
		return baseAmount
	}

	var leverage float64
	switch {
	case confidence >= 0.8:
		leverage = 3.0
	case confidence >= 0.7:
		leverage = 2.0
	case confidence >= 0.6:
		leverage = 1.5
	default:
		leverage = 1.0
	}

	size := baseAmount * leverage

	if m.initialBalance > 0 {
		currentLoss := m.initialBalance - m.currentBalance
		maxAllowedLoss := m.initialBalance * maxAccountLossPct
		remainingBudget := math.Max(0, maxAllowedLoss-currentLoss)
		if remainingBudget > 0 {
			size = math.Min(size, remainingBudget*0.5)
		}
	}

	size = math.Min(size, m.currentBalance*maxPositionPct)
	size = math.Max(minPositionSize, math.Min(size, maxPositionSize))

	return math.Round(size*100) / 100
}

// RecordTrade appends a completed trade and updates the daily counters, the
// losing streak and the current balance.
func (m *Manager) RecordTrade(amount, profitLoss float64, symbol string, direction shared.Direction) TradeRecord {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.resetDailyStats()

	record := TradeRecord{
		ID:           uuid.New().String(),
		Timestamp:    m.cfg.Now(),
		Symbol:       symbol,
		Direction:    direction,
		Amount:       amount,
		ProfitLoss:   profitLoss,
		BalanceAfter: m.currentBalance + profitLoss,
	}
	m.dailyTrades = append(m.dailyTrades, record)

	if profitLoss < 0 {
		m.dailyLoss += math.Abs(profitLoss)
		m.consecutiveLosses++
	} else {
		m.consecutiveLosses = 0
	}

	if m.balanceSet {
		m.currentBalance += profitLoss
	}

	m.cfg.Logger.Info().Str("symbol", symbol).
		Str("direction", direction.String()).
		Float64("amount", amount).
		Float64("profitloss", profitLoss).
		Float64("dailyloss", m.dailyLoss).
		Int("consecutivelosses", m.consecutiveLosses).
		Msg("trade recorded")

	return record
}

// UpdateBalance sets the current balance from the broker's authoritative
// figure. The first observed balance seeds the initial and peak balances.
func (m *Manager) UpdateBalance(balance float64) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if !m.balanceSet {
		m.initialBalance = balance
		m.peakBalance = balance
		m.balanceSet = true
		m.cfg.Logger.Info().Float64("balance", balance).Msg("initial balance set")
	}

	m.currentBalance = balance

	if balance > m.peakBalance {
		m.peakBalance = balance
	}
	if m.peakBalance > 0 {
		m.currentDrawdown = (m.peakBalance - balance) / m.peakBalance
	}
	if m.initialBalance > 0 {
		m.totalProfitLoss = balance - m.initialBalance
	}
}

// ShouldTakeProfit reports whether the account has reached its profit target.
func (m *Manager) ShouldTakeProfit() bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.shouldTakeProfit()
}

// shouldTakeProfit expects the mutex to be held by the caller.
func (m *Manager) shouldTakeProfit() bool {
	if !m.balanceSet || m.initialBalance <= 0 {
		return false
	}

	profitPct := (m.currentBalance - m.initialBalance) / m.initialBalance
	return profitPct >= profitTargetPct
}

// ShouldStopTrading reports whether the daily circuit breaker has tripped:
// a poor win rate over enough trades, the daily loss limit, or too many
// consecutive losses.
func (m *Manager) ShouldStopTrading() bool {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.resetDailyStats()

	stats := m.dailyStats()

	if stats.TotalTrades >= minTradesForWinRate && stats.WinRate < minWinRate {
		m.cfg.Logger.Warn().Float64("winrate", stats.WinRate).
			Msg("stopping for the day: win rate too low")
		return true
	}

	if m.dailyLoss >= m.cfg.MaxDailyLoss {
		m.cfg.Logger.Warn().Float64("dailyloss", m.dailyLoss).
			Msg("stopping for the day: daily loss limit reached")
		return true
	}

	if m.consecutiveLosses >= m.cfg.MaxConsecutiveLosses {
		m.cfg.Logger.Warn().Int("consecutivelosses", m.consecutiveLosses).
			Msg("stopping for the day: too many consecutive losses")
		return true
	}

	return false
}

// AccountStatus returns a snapshot of the account risk metrics. The zero
// value is returned before the first balance update.
func (m *Manager) AccountStatus() AccountStatus {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if !m.balanceSet || m.initialBalance <= 0 {
		return AccountStatus{}
	}

	currentLoss := m.initialBalance - m.currentBalance
	maxAllowedLoss := m.initialBalance * maxAccountLossPct

	return AccountStatus{
		InitialBalance:      m.initialBalance,
		CurrentBalance:      m.currentBalance,
		TotalProfitLoss:     m.totalProfitLoss,
		ProfitPercentage:    (m.currentBalance - m.initialBalance) / m.initialBalance,
		CurrentLoss:         currentLoss,
		MaxAllowedLoss:      maxAllowedLoss,
		RemainingRiskBudget: math.Max(0, maxAllowedLoss-currentLoss),
		CurrentDrawdown:     m.currentDrawdown,
		ShouldTakeProfit:    m.shouldTakeProfit(),
	}
}

// DailyStats returns a summary of the current trading day.
func (m *Manager) DailyStats() DailyStats {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.resetDailyStats()

	return m.dailyStats()
}

// dailyStats expects the mutex to be held by the caller.
func (m *Manager) dailyStats() DailyStats {
	stats := DailyStats{
		TotalTrades:       len(m.dailyTrades),
		DailyLoss:         m.dailyLoss,
		ConsecutiveLosses: m.consecutiveLosses,
	}

	for _, trade := range m.dailyTrades {
		switch {
		case trade.ProfitLoss > 0:
			stats.WinningTrades++
			stats.TotalProfit += trade.ProfitLoss
		case trade.ProfitLoss < 0:
			stats.LosingTrades++
			stats.TotalLoss += math.Abs(trade.ProfitLoss)
		}
	}

	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100
	}
	stats.NetProfitLoss = stats.TotalProfit - stats.TotalLoss

	return stats
}

// LogRiskSummary logs the current risk posture.
func (m *Manager) LogRiskSummary() {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.resetDailyStats()

	stats := m.dailyStats()
	m.cfg.Logger.Info().
		Int("trades", stats.TotalTrades).
		Int("maxtrades", m.cfg.MaxDailyTrades).
		Float64("winrate", stats.WinRate).
		Float64("netpnl", stats.NetProfitLoss).
		Float64("dailyloss", m.dailyLoss).
		Float64("maxdailyloss", m.cfg.MaxDailyLoss).
		Int("consecutivelosses", m.consecutiveLosses).
		Int("maxconsecutivelosses", m.cfg.MaxConsecutiveLosses).
		Float64("balance", m.currentBalance).
		Float64("initialbalance", m.initialBalance).
		Msg("risk summary")
}
