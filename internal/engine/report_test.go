package engine

import (
	"strings"
	"testing"
)

func TestWriteReport(t *testing.T) {
	m := MetricsBundle{
		"total_return":  0.25,
		"sharpe_ratio":  1.5,
		"max_drawdown":  -0.12,
		"total_trades":  4,
		"win_rate":      0.75,
		"profit_factor": 2.1,
		"var_95":        -0.03,
	}

	var buf strings.Builder
	if err := WriteReport(&buf, "AAPL sma_crossover(50,200)", m); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	out := buf.String()

	wantFragments := []string{
		"PERFORMANCE METRICS REPORT: AAPL sma_crossover(50,200)",
		"Total Return:", "25.00%",
		"Sharpe Ratio:", "1.50",
		"Maximum Drawdown:", "-12.00%",
		"Total Trades:",
		"Win Rate:", "75.00%",
		"Value at Risk (95%):", "-3.00%",
	}
	for _, frag := range wantFragments {
		if !strings.Contains(out, frag) {
			t.Errorf("report missing %q\n%s", frag, out)
		}
	}
}

func TestWriteComparison(t *testing.T) {
	results := []RunResult{
		{Ticker: "AAPL", Strategy: "rsi(14)", Metrics: MetricsBundle{
			"total_return": 0.10, "sharpe_ratio": 0.8, "max_drawdown": -0.05, "win_rate": 0.6,
		}},
		{Ticker: "MSFT", Strategy: "macd(12,26,9)", Metrics: MetricsBundle{
			"total_return": -0.02, "sharpe_ratio": -0.1, "max_drawdown": -0.2, "win_rate": 0.4,
		}},
	}

	var buf strings.Builder
	if err := WriteComparison(&buf, results); err != nil {
		t.Fatalf("WriteComparison() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "STRATEGY COMPARISON") {
		t.Errorf("comparison header missing:\n%s", out)
	}
	for _, want := range []string{"AAPL", "rsi(14)", "MSFT", "macd(12,26,9)"} {
		if !strings.Contains(out, want) {
			t.Errorf("comparison missing %q", want)
		}
	}

	var empty strings.Builder
	if err := WriteComparison(&empty, nil); err != nil {
		t.Fatalf("WriteComparison(nil) error = %v", err)
	}
	if empty.Len() != 0 {
		t.Errorf("comparison of no results wrote %q", empty.String())
	}
}
