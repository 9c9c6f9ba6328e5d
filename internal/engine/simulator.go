package engine

import (
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradesim/internal/align"
	"tradesim/types"
)

// Simulator replays an aligned (price, signal, size) series against a single
// paper-trading account: all-or-nothing integral share lots, a flat fee per
// trade, no shorting, no partial fills. Affordability is checked before a
// trade is committed, so cash can never go negative.
type Simulator struct {
	cfg    SimulationConfig
	logger *zap.Logger
}

func NewSimulator(cfg SimulationConfig, logger *zap.Logger) (*Simulator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{cfg: cfg, logger: logger}, nil
}

// Run walks the series once, left to right, and returns the completed
// Ledger. A malformed price on a single timestep degrades that step to a
// no-trade carry-forward and never aborts the run.
func (s *Simulator) Run(series *align.Series) (*Ledger, error) {
	if series == nil || series.Len() == 0 {
		return nil, align.ErrEmptySeries
	}
	if s.cfg.Mode == ModeContinuous {
		return s.runContinuous(series), nil
	}
	return s.runDiscrete(series), nil
}

func (s *Simulator) runDiscrete(series *align.Series) *Ledger {
	ledger := &Ledger{
		Ticker:         series.Ticker,
		InitialCapital: s.cfg.InitialCapital,
		Entries:        make([]LedgerEntry, 0, series.Len()),
	}

	cash := s.cfg.InitialCapital
	var shares int64
	lastPrice := decimal.Zero

	for i := 0; i < series.Len(); i++ {
		price := series.Prices[i]
		signal := series.Signals[i]
		cost := decimal.Zero

		if price.IsPositive() {
			lastPrice = price
			switch {
			case signal == types.SignalEnter && shares == 0:
				var bought int64
				bought, cash, cost = s.enter(cash, price, series.Sizes[i])
				shares = bought
			case signal != types.SignalEnter && shares > 0:
				cash = cash.Add(price.Mul(decimal.NewFromInt(shares))).Sub(s.cfg.FixedTradeCost)
				shares = 0
				cost = s.cfg.FixedTradeCost
			}
		} else {
			// Recoverable per-timestep data fault: no trade this step, state
			// carries forward, equity accounting below still runs.
			s.logger.Warn("unusable price, degrading to no-trade step",
				zap.String("ticker", series.Ticker),
				zap.Time("timestamp", series.Timestamps[i]),
				zap.String("price", price.String()))
		}

		mark := price
		if !price.IsPositive() {
			mark = lastPrice
		}
		ledger.Entries = append(ledger.Entries, LedgerEntry{
			Timestamp:       series.Timestamps[i],
			Price:           mark,
			Signal:          signal,
			Cash:            cash,
			Shares:          shares,
			TransactionCost: cost,
			Equity:          cash.Add(mark.Mul(decimal.NewFromInt(shares))),
			InPosition:      shares > 0,
		})
	}

	ledger.finalize()
	return ledger
}

// enter attempts to open a position: the trade budget is the post-fee cash
// scaled by the position size, and the lot is floor(budget / price) whole
// shares. A zero lot means no trade and no fee.
func (s *Simulator) enter(cash, price, size decimal.Decimal) (int64, decimal.Decimal, decimal.Decimal) {
	one := decimal.NewFromInt(1)
	if size.IsNegative() {
		size = decimal.Zero
	}
	if size.GreaterThan(one) {
		// Sizing can scale a trade down, never above available cash.
		size = one
	}

	budget := cash.Sub(s.cfg.FixedTradeCost).Mul(size)
	if !budget.GreaterThan(price) {
		return 0, cash, decimal.Zero
	}
	shares := budget.Div(price).Floor().IntPart()
	if shares <= 0 {
		return 0, cash, decimal.Zero
	}
	cash = cash.Sub(price.Mul(decimal.NewFromInt(shares))).Sub(s.cfg.FixedTradeCost)
	return shares, cash, s.cfg.FixedTradeCost
}

// runContinuous implements the alternate continuous-allocation model: the
// position held over step t is the previous step's signal scaled by the
// previous step's size, and the equity curve multiplies through
// position * daily return minus a proportional cost on position changes.
// Shares are not modeled; the ledger carries the full equity as cash.
func (s *Simulator) runContinuous(series *align.Series) *Ledger {
	ledger := &Ledger{
		Ticker:         series.Ticker,
		InitialCapital: s.cfg.InitialCapital,
		Entries:        make([]LedgerEntry, 0, series.Len()),
	}

	equity := s.cfg.InitialCapital.InexactFloat64()
	prevPosition := 0.0
	lastPrice := decimal.Zero

	for i := 0; i < series.Len(); i++ {
		price := series.Prices[i]

		position := 0.0
		dailyReturn := 0.0
		if i > 0 {
			position = float64(series.Signals[i-1]) * sizeAt(series, i-1)
			prev := series.Prices[i-1]
			if price.IsPositive() && prev.IsPositive() {
				dailyReturn = price.Sub(prev).Div(prev).InexactFloat64()
			}
		}

		turnover := math.Abs(position - prevPosition)
		costAmount := s.cfg.ProportionalCost * turnover * equity
		equity = equity * (1 + position*dailyReturn - s.cfg.ProportionalCost*turnover)
		prevPosition = position

		if price.IsPositive() {
			lastPrice = price
		}
		equityDec := decimal.NewFromFloat(equity)
		cost := decimal.Zero
		if turnover > 0 {
			cost = decimal.NewFromFloat(costAmount)
		}
		ledger.Entries = append(ledger.Entries, LedgerEntry{
			Timestamp:       series.Timestamps[i],
			Price:           lastPrice,
			Signal:          series.Signals[i],
			Cash:            equityDec,
			Shares:          0,
			TransactionCost: cost,
			Equity:          equityDec,
			InPosition:      position != 0,
		})
	}

	ledger.finalize()
	return ledger
}

func sizeAt(series *align.Series, i int) float64 {
	size := series.Sizes[i].InexactFloat64()
	if size < 0 {
		return 0
	}
	return size
}
