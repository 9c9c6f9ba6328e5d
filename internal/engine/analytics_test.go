package engine

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"tradesim/types"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	analyzer, err := NewAnalyzer(DefaultAnalyticsConfig())
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	return analyzer
}

// craftedLedger builds a finalized ledger straight from a cumulative-return
// curve, with a constant benchmark price.
func craftedLedger(cumulative []float64, inPosition []bool) *Ledger {
	l := &Ledger{InitialCapital: decimal.NewFromInt(1)}
	for i, c := range cumulative {
		l.Entries = append(l.Entries, LedgerEntry{
			Price:      decimal.NewFromInt(100),
			Equity:     decimal.NewFromFloat(c),
			InPosition: inPosition != nil && inPosition[i],
		})
	}
	l.finalize()
	return l
}

func TestAnalyzer_InvalidConfig(t *testing.T) {
	cfg := DefaultAnalyticsConfig()
	cfg.Annualization = 0
	if _, err := NewAnalyzer(cfg); err != ErrInvalidAnnualization {
		t.Errorf("NewAnalyzer() error = %v, want %v", err, ErrInvalidAnnualization)
	}
}

func TestTailMetrics(t *testing.T) {
	// For a 5-element sample the 5th percentile is the minimum, and the tail
	// at or below it is that single observation.
	l := &Ledger{StepReturns: []float64{-0.05, -0.02, 0.01, 0.03, -0.10}}
	m := calcTailMetrics(l)
	if !approx(m.valueAtRisk, -0.10) {
		t.Errorf("VaR = %f, want -0.10", m.valueAtRisk)
	}
	if !approx(m.conditionalVaR, -0.10) {
		t.Errorf("CVaR = %f, want -0.10", m.conditionalVaR)
	}

	if m := calcTailMetrics(&Ledger{}); m.valueAtRisk != 0 || m.conditionalVaR != 0 {
		t.Errorf("empty tail metrics = %+v, want zeros", m)
	}
}

func TestDrawdownMetrics(t *testing.T) {
	l := craftedLedger([]float64{1, 1.1, 0.99, 1.045, 1.21, 1.21}, nil)

	// Peak after t1 is 1.1 until t4 sets 1.21.
	m := calcDrawdownMetrics(l)
	if !approx(m.maxDrawdown, -0.1) {
		t.Errorf("maxDrawdown = %f, want -0.1", m.maxDrawdown)
	}
	if !approx(m.avgDrawdown, -0.075) {
		t.Errorf("avgDrawdown = %f, want -0.075", m.avgDrawdown)
	}
	if m.duration != 2 {
		t.Errorf("duration = %d, want 2", m.duration)
	}

	// Drawdown is bounded above by zero and exactly zero at new peaks.
	for i, dd := range l.Drawdown {
		if dd > 0 {
			t.Errorf("drawdown[%d] = %f > 0", i, dd)
		}
		if l.Cumulative[i] >= l.Peak[i] && dd != 0 {
			t.Errorf("drawdown[%d] = %f at a running peak, want 0", i, dd)
		}
	}
}

func TestDrawdownMetrics_MonotoneCurve(t *testing.T) {
	m := calcDrawdownMetrics(craftedLedger([]float64{1, 1.01, 1.02, 1.03}, nil))
	if m.maxDrawdown != 0 || m.avgDrawdown != 0 || m.duration != 0 {
		t.Errorf("metrics on a rising curve = %+v, want zeros", m)
	}
}

func TestTradeMetricsGroup(t *testing.T) {
	l := craftedLedger(
		[]float64{1, 1, 1.2, 1.2, 1.2, 1.08},
		[]bool{false, true, true, false, true, false},
	)
	// Trade 1: entry 1 exit 3, return 1.2/1-1 = 0.2. Trade 2: entry 4
	// exit 5, return 1.08/1.2-1 = -0.1.
	m := calcTradeMetrics(l)
	if m.totalTrades != 2 {
		t.Fatalf("totalTrades = %d, want 2", m.totalTrades)
	}
	if !approx(m.winRate, 0.5) {
		t.Errorf("winRate = %f, want 0.5", m.winRate)
	}
	if !approx(m.avgWin, 0.2) {
		t.Errorf("avgWin = %f, want 0.2", m.avgWin)
	}
	if !approx(m.avgLoss, -0.1) {
		t.Errorf("avgLoss = %f, want -0.1", m.avgLoss)
	}
	if !approx(m.profitFactor, 2.0) {
		t.Errorf("profitFactor = %f, want 2.0", m.profitFactor)
	}
	if !approx(m.avgDuration, 1.5) {
		t.Errorf("avgDuration = %f, want 1.5", m.avgDuration)
	}
}

func TestTradeMetricsGroup_NoTrades(t *testing.T) {
	m := calcTradeMetrics(craftedLedger([]float64{1, 1, 1}, nil))
	if m.totalTrades != 0 || m.winRate != 0 || m.profitFactor != 0 {
		t.Errorf("metrics without trades = %+v, want zeros", m)
	}
}

func TestRiskMetrics_ZeroVariance(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	l := &Ledger{StepReturns: []float64{0.01, 0.01, 0.01, 0.01}}
	m := analyzer.calcRiskMetrics(l)
	if m.volatility != 0 {
		t.Errorf("volatility = %f, want 0", m.volatility)
	}
	if m.sharpeRatio != 0 {
		t.Errorf("sharpe on zero-variance returns = %f, want 0", m.sharpeRatio)
	}
}

func TestRiskMetrics_SortinoNeedsDownside(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	// All excess returns positive: no downside observations, sortino 0.
	l := &Ledger{StepReturns: []float64{0.05, 0.07, 0.06, 0.08}}
	m := analyzer.calcRiskMetrics(l)
	if m.sortinoRatio != 0 {
		t.Errorf("sortino without downside = %f, want 0", m.sortinoRatio)
	}
	if m.sharpeRatio <= 0 {
		t.Errorf("sharpe = %f, want > 0", m.sharpeRatio)
	}
}

func TestMarketMetrics_TracksBenchmark(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	l := &Ledger{
		StepReturns:         []float64{0, 0.02, -0.01, 0.03},
		BenchmarkReturns:    []float64{0, 0.02, -0.01, 0.03},
		Cumulative:          []float64{1, 1.02, 1.0098, 1.040094},
		BenchmarkCumulative: []float64{1, 1.02, 1.0098, 1.040094},
		Entries:             make([]LedgerEntry, 4),
	}
	m := analyzer.calcMarketMetrics(l)
	if !approx(m.beta, 1) {
		t.Errorf("beta against itself = %f, want 1", m.beta)
	}
	// With beta 1 and identical curves, alpha collapses to zero.
	if math.Abs(m.alpha) > 1e-9 {
		t.Errorf("alpha against itself = %f, want 0", m.alpha)
	}
	if m.informationRatio != 0 {
		t.Errorf("information ratio of a zero diff series = %f, want 0", m.informationRatio)
	}
}

func TestMarketMetrics_FlatBenchmark(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	l := craftedLedger([]float64{1, 1.01, 0.99, 1.02}, nil)
	// Constant benchmark price means zero benchmark variance.
	if m := analyzer.calcMarketMetrics(l); m.beta != 0 {
		t.Errorf("beta on flat benchmark = %f, want 0", m.beta)
	}
}

func TestAnnualize(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	// A full year of timesteps annualizes to itself.
	if got := analyzer.annualize(0.1, 252); !approx(got, 0.1) {
		t.Errorf("annualize(0.1, 252) = %f, want 0.1", got)
	}
	if got := analyzer.annualize(0.1, 0); got != 0 {
		t.Errorf("annualize over zero steps = %f, want 0", got)
	}
}

func TestAnalyze_SingleTimestep(t *testing.T) {
	sim := newTestSimulator(t, DefaultSimulationConfig())
	ledger, err := sim.Run(testSeries([]string{"100"}, []types.Signal{types.SignalEnter}))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	metrics := newTestAnalyzer(t).Analyze(ledger)
	for _, key := range []string{"sharpe_ratio", "total_trades", "max_drawdown"} {
		if metrics[key] != 0 {
			t.Errorf("%s on a length-1 series = %f, want 0", key, metrics[key])
		}
	}
}

func TestAnalyze_FullBundle(t *testing.T) {
	prices := []string{"100", "104", "101", "108", "103", "107", "112", "109", "115", "111"}
	signals := []types.Signal{
		types.SignalEnter, types.SignalFlat, types.SignalEnter, types.SignalFlat,
		types.SignalEnter, types.SignalEnter, types.SignalFlat, types.SignalEnter,
		types.SignalFlat, types.SignalFlat,
	}

	sim := newTestSimulator(t, DefaultSimulationConfig())
	ledger, err := sim.Run(testSeries(prices, signals))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	metrics := newTestAnalyzer(t).Analyze(ledger)

	wantKeys := []string{
		"total_return", "annualized_return", "volatility", "sharpe_ratio",
		"sortino_ratio", "calmar_ratio", "max_drawdown", "avg_drawdown",
		"drawdown_duration", "total_trades", "win_rate", "avg_win", "avg_loss",
		"profit_factor", "avg_trade_duration", "information_ratio", "beta",
		"alpha", "var_95", "cvar_95",
	}
	for _, key := range wantKeys {
		v, ok := metrics[key]
		if !ok {
			t.Errorf("metric %q missing from bundle", key)
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("metric %q = %f, want finite", key, v)
		}
	}
	if metrics["max_drawdown"] > 0 {
		t.Errorf("max_drawdown = %f, want <= 0", metrics["max_drawdown"])
	}
	if metrics["total_trades"] < 1 {
		t.Errorf("total_trades = %f, want >= 1", metrics["total_trades"])
	}
	if wr := metrics["win_rate"]; wr < 0 || wr > 1 {
		t.Errorf("win_rate = %f, want within [0,1]", wr)
	}
}
