package engine

import (
	"math"
	"sync"
)

// MetricsBundle is a flat metric-name to scalar mapping derived once per
// completed simulation run. Treated as immutable by consumers.
type MetricsBundle map[string]float64

// Analyzer derives risk/return statistics from a completed Ledger. Analyze
// is a pure function of the ledger: no external state, deterministic, safe
// to call repeatedly.
type Analyzer struct {
	cfg AnalyticsConfig
}

func NewAnalyzer(cfg AnalyticsConfig) (*Analyzer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg}, nil
}

// Analyze computes the full metrics bundle. The metric groups are mutually
// independent pure functions over the same immutable ledger, so they run
// concurrently; each goroutine writes only its own result struct.
func (a *Analyzer) Analyze(ledger *Ledger) MetricsBundle {
	var (
		returns  returnMetrics
		risk     riskMetrics
		drawdown drawdownMetrics
		trades   tradeMetrics
		market   marketMetrics
		tail     tailMetrics
	)

	var wg sync.WaitGroup
	wg.Add(6)
	go func() {
		defer wg.Done()
		returns = a.calcReturnMetrics(ledger)
	}()
	go func() {
		defer wg.Done()
		risk = a.calcRiskMetrics(ledger)
	}()
	go func() {
		defer wg.Done()
		drawdown = calcDrawdownMetrics(ledger)
	}()
	go func() {
		defer wg.Done()
		trades = calcTradeMetrics(ledger)
	}()
	go func() {
		defer wg.Done()
		market = a.calcMarketMetrics(ledger)
	}()
	go func() {
		defer wg.Done()
		tail = calcTailMetrics(ledger)
	}()
	wg.Wait()

	// Calmar depends on two groups, so it is assembled last.
	calmar := 0.0
	if drawdown.maxDrawdown != 0 {
		calmar = returns.annualizedReturn / math.Abs(drawdown.maxDrawdown)
	}

	return MetricsBundle{
		"total_return":       returns.totalReturn,
		"annualized_return":  returns.annualizedReturn,
		"volatility":         risk.volatility,
		"sharpe_ratio":       risk.sharpeRatio,
		"sortino_ratio":      risk.sortinoRatio,
		"calmar_ratio":       calmar,
		"max_drawdown":       drawdown.maxDrawdown,
		"avg_drawdown":       drawdown.avgDrawdown,
		"drawdown_duration":  float64(drawdown.duration),
		"total_trades":       float64(trades.totalTrades),
		"win_rate":           trades.winRate,
		"avg_win":            trades.avgWin,
		"avg_loss":           trades.avgLoss,
		"profit_factor":      trades.profitFactor,
		"avg_trade_duration": trades.avgDuration,
		"information_ratio":  market.informationRatio,
		"beta":               market.beta,
		"alpha":              market.alpha,
		"var_95":             tail.valueAtRisk,
		"cvar_95":            tail.conditionalVaR,
	}
}

type returnMetrics struct {
	totalReturn      float64
	annualizedReturn float64
}

func (a *Analyzer) calcReturnMetrics(l *Ledger) returnMetrics {
	m := returnMetrics{totalReturn: totalReturn(l.Cumulative)}
	m.annualizedReturn = a.annualize(m.totalReturn, l.Len())
	return m
}

func totalReturn(cumulative []float64) float64 {
	if len(cumulative) == 0 {
		return 0
	}
	return cumulative[len(cumulative)-1] - 1
}

// annualize converts a total return over n timesteps to an annual rate. Total
// equity never goes below zero under the discrete-share model, so the base is
// never negative.
func (a *Analyzer) annualize(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Pow(1+total, a.cfg.Annualization/float64(n)) - 1
}

type riskMetrics struct {
	volatility   float64
	sharpeRatio  float64
	sortinoRatio float64
}

func (a *Analyzer) calcRiskMetrics(l *Ledger) riskMetrics {
	m := riskMetrics{
		volatility: stdev(l.StepReturns) * math.Sqrt(a.cfg.Annualization),
	}

	stepRiskFree := a.cfg.RiskFreeRate / a.cfg.Annualization
	excess := make([]float64, len(l.StepReturns))
	var downside []float64
	for i, r := range l.StepReturns {
		excess[i] = r - stepRiskFree
		if excess[i] < 0 {
			downside = append(downside, excess[i])
		}
	}

	if sd := stdev(excess); sd != 0 {
		m.sharpeRatio = mean(excess) / sd * math.Sqrt(a.cfg.Annualization)
	}
	if sd := stdev(downside); sd != 0 {
		m.sortinoRatio = mean(excess) / sd * math.Sqrt(a.cfg.Annualization)
	}
	return m
}

type drawdownMetrics struct {
	maxDrawdown float64
	avgDrawdown float64
	duration    int
}

func calcDrawdownMetrics(l *Ledger) drawdownMetrics {
	var m drawdownMetrics
	var negatives []float64
	current := 0
	for _, dd := range l.Drawdown {
		if dd < m.maxDrawdown {
			m.maxDrawdown = dd
		}
		if dd < 0 {
			negatives = append(negatives, dd)
			current++
			if current > m.duration {
				m.duration = current
			}
		} else {
			current = 0
		}
	}
	m.avgDrawdown = mean(negatives)
	return m
}

type tradeMetrics struct {
	totalTrades  int
	winRate      float64
	avgWin       float64
	avgLoss      float64
	profitFactor float64
	avgDuration  float64
}

func calcTradeMetrics(l *Ledger) tradeMetrics {
	var m tradeMetrics
	trades := reconstructTrades(l.InPositionFlags(), l.Cumulative)
	if len(trades) == 0 {
		return m
	}

	var wins, losses []float64
	var sumWins, sumLosses, sumDuration float64
	for _, t := range trades {
		sumDuration += float64(t.Duration())
		switch {
		case t.Return > 0:
			wins = append(wins, t.Return)
			sumWins += t.Return
		case t.Return < 0:
			losses = append(losses, t.Return)
			sumLosses += t.Return
		}
	}

	m.totalTrades = len(trades)
	m.winRate = float64(len(wins)) / float64(len(trades))
	m.avgWin = mean(wins)
	m.avgLoss = mean(losses)
	m.avgDuration = sumDuration / float64(len(trades))
	if len(losses) > 0 && sumLosses != 0 {
		m.profitFactor = math.Abs(sumWins / sumLosses)
	}
	return m
}

type marketMetrics struct {
	beta             float64
	alpha            float64
	informationRatio float64
}

func (a *Analyzer) calcMarketMetrics(l *Ledger) marketMetrics {
	var m marketMetrics

	strategy, benchmark := rightAlign(l.StepReturns, l.BenchmarkReturns)
	if benchVar := variance(benchmark); benchVar != 0 {
		m.beta = covariance(strategy, benchmark) / benchVar
	}

	annualReturn := a.annualize(totalReturn(l.Cumulative), l.Len())
	annualBenchmark := a.annualize(totalReturn(l.BenchmarkCumulative), l.Len())
	expected := a.cfg.RiskFreeRate + m.beta*(annualBenchmark-a.cfg.RiskFreeRate)
	m.alpha = annualReturn - expected

	diff := make([]float64, len(strategy))
	for i := range strategy {
		diff[i] = strategy[i] - benchmark[i]
	}
	if sd := stdev(diff); sd != 0 {
		m.informationRatio = mean(diff) / sd * math.Sqrt(a.cfg.Annualization)
	}
	return m
}

// rightAlign truncates both series to their common tail length.
func rightAlign(xs, ys []float64) ([]float64, []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	return xs[len(xs)-n:], ys[len(ys)-n:]
}

type tailMetrics struct {
	valueAtRisk    float64
	conditionalVaR float64
}

func calcTailMetrics(l *Ledger) tailMetrics {
	var m tailMetrics
	if len(l.StepReturns) == 0 {
		return m
	}
	m.valueAtRisk = percentile(l.StepReturns, 0.05)
	var tail []float64
	for _, r := range l.StepReturns {
		if r <= m.valueAtRisk {
			tail = append(tail, r)
		}
	}
	m.conditionalVaR = mean(tail)
	return m
}
