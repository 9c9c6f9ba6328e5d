package engine

import (
	"fmt"
	"io"
	"strings"
)

// WriteReport renders the formatted performance report for one run.
func WriteReport(w io.Writer, name string, m MetricsBundle) error {
	line := strings.Repeat("=", 70)

	_, err := fmt.Fprintf(w, `%s
PERFORMANCE METRICS REPORT: %s
%s

RETURNS:
  Total Return:              %12.2f%%
  Annualized Return:         %12.2f%%
  Volatility (Ann.):         %12.2f%%

RISK-ADJUSTED RETURNS:
  Sharpe Ratio:              %12.2f
  Sortino Ratio:             %12.2f
  Calmar Ratio:              %12.2f
  Information Ratio:         %12.2f

DRAWDOWN METRICS:
  Maximum Drawdown:          %12.2f%%
  Average Drawdown:          %12.2f%%
  Longest DD Duration:       %12.0f steps

TRADE STATISTICS:
  Total Trades:              %12.0f
  Win Rate:                  %12.2f%%
  Average Win:               %12.2f%%
  Average Loss:              %12.2f%%
  Profit Factor:             %12.2f
  Avg Trade Duration:        %12.1f steps

MARKET COMPARISON:
  Beta:                      %12.2f
  Alpha (Ann.):              %12.2f%%

RISK METRICS:
  Value at Risk (95%%):       %12.2f%%
  Conditional VaR (95%%):     %12.2f%%

%s
`,
		line, name, line,
		m["total_return"]*100,
		m["annualized_return"]*100,
		m["volatility"]*100,
		m["sharpe_ratio"],
		m["sortino_ratio"],
		m["calmar_ratio"],
		m["information_ratio"],
		m["max_drawdown"]*100,
		m["avg_drawdown"]*100,
		m["drawdown_duration"],
		m["total_trades"],
		m["win_rate"]*100,
		m["avg_win"]*100,
		m["avg_loss"]*100,
		m["profit_factor"],
		m["avg_trade_duration"],
		m["beta"],
		m["alpha"]*100,
		m["var_95"]*100,
		m["cvar_95"]*100,
		line,
	)
	return err
}

// RunResult identifies one completed ticker/strategy run for cross-run
// comparison.
type RunResult struct {
	Ticker   string
	Strategy string
	Metrics  MetricsBundle
}

// WriteComparison renders the strategy comparison table across runs.
func WriteComparison(w io.Writer, results []RunResult) error {
	if len(results) == 0 {
		return nil
	}
	line := strings.Repeat("=", 80)
	if _, err := fmt.Fprintf(w, "%s\nSTRATEGY COMPARISON\n%s\n", line, line); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-12s %-16s %10s %8s %10s %10s\n",
		"Ticker", "Strategy", "Return", "Sharpe", "Max DD", "Win Rate"); err != nil {
		return err
	}
	for _, r := range results {
		m := r.Metrics
		_, err := fmt.Fprintf(w, "%-12s %-16s %9.2f%% %8.2f %9.2f%% %9.2f%%\n",
			r.Ticker, r.Strategy,
			m["total_return"]*100,
			m["sharpe_ratio"],
			m["max_drawdown"]*100,
			m["win_rate"]*100)
		if err != nil {
			return err
		}
	}
	return nil
}
