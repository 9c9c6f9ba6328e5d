package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"tradesim/types"
)

// LedgerEntry is the per-timestep record produced by one simulation step.
// Entries are append-only while the simulation advances and immutable once
// the run completes.
type LedgerEntry struct {
	Timestamp       time.Time
	Price           decimal.Decimal
	Signal          types.Signal
	Cash            decimal.Decimal
	Shares          int64
	TransactionCost decimal.Decimal
	Equity          decimal.Decimal
	InPosition      bool
}

// Ledger is the full output of a simulation run: the per-timestep entries
// plus the derived return and drawdown series the analytics engine consumes.
// The derived series are float64; exact cash conservation lives in the
// decimal entry fields.
type Ledger struct {
	Ticker         string
	InitialCapital decimal.Decimal
	Entries        []LedgerEntry

	// Derived series, one element per entry.
	Cumulative          []float64 // equity / initial capital
	StepReturns         []float64 // equity pct change, 0 at t=0
	BenchmarkReturns    []float64 // price pct change, 0 at t=0
	BenchmarkCumulative []float64 // cumulative product of 1 + benchmark return
	Peak                []float64 // running maximum of Cumulative
	Drawdown            []float64 // (Cumulative - Peak) / Peak, always <= 0
}

func (l *Ledger) Len() int {
	return len(l.Entries)
}

// InPositionFlags returns the holding flag series used for trade
// reconstruction.
func (l *Ledger) InPositionFlags() []bool {
	flags := make([]bool, len(l.Entries))
	for i, e := range l.Entries {
		flags[i] = e.InPosition
	}
	return flags
}

// finalize computes the derived series over the completed entries. Called
// exactly once, at the end of a run.
func (l *Ledger) finalize() {
	n := len(l.Entries)
	l.Cumulative = make([]float64, n)
	l.StepReturns = make([]float64, n)
	l.BenchmarkReturns = make([]float64, n)
	l.BenchmarkCumulative = make([]float64, n)
	l.Peak = make([]float64, n)
	l.Drawdown = make([]float64, n)

	initial := l.InitialCapital.InexactFloat64()
	for i := 0; i < n; i++ {
		equity := l.Entries[i].Equity.InexactFloat64()
		if initial != 0 {
			l.Cumulative[i] = equity / initial
		}

		if i == 0 {
			l.BenchmarkCumulative[i] = 1
			l.Peak[i] = l.Cumulative[i]
			continue
		}

		prevEquity := l.Entries[i-1].Equity.InexactFloat64()
		if prevEquity != 0 {
			l.StepReturns[i] = equity/prevEquity - 1
		}

		price := l.Entries[i].Price.InexactFloat64()
		prevPrice := l.Entries[i-1].Price.InexactFloat64()
		if prevPrice > 0 {
			l.BenchmarkReturns[i] = price/prevPrice - 1
		}
		l.BenchmarkCumulative[i] = l.BenchmarkCumulative[i-1] * (1 + l.BenchmarkReturns[i])

		l.Peak[i] = l.Peak[i-1]
		if l.Cumulative[i] > l.Peak[i] {
			l.Peak[i] = l.Cumulative[i]
		}
	}

	for i := 0; i < n; i++ {
		if l.Peak[i] > 0 {
			l.Drawdown[i] = (l.Cumulative[i] - l.Peak[i]) / l.Peak[i]
		}
	}
}
