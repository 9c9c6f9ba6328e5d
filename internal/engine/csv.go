package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// WriteLedgerCSVFile writes the per-timestep ledger to a CSV file at the
// given path. External consumers chart the equity curve and drawdown from
// this export.
func WriteLedgerCSVFile(path string, ledger *Ledger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ledger file: %w", err)
	}
	defer f.Close()

	return WriteLedgerCSV(f, ledger)
}

// WriteLedgerCSV writes the ledger to any io.Writer as CSV. Pass os.Stdout
// for debugging, or a file.
func WriteLedgerCSV(w io.Writer, ledger *Ledger) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"timestamp", // RFC3339
		"price",
		"signal",
		"cash",
		"shares",
		"transaction_cost",
		"equity",
		"in_position",
		"cumulative_return",
		"benchmark_cumulative",
		"drawdown",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range ledger.Entries {
		record := []string{
			e.Timestamp.Format(time.RFC3339),
			e.Price.String(),
			e.Signal.String(),
			e.Cash.String(),
			strconv.FormatInt(e.Shares, 10),
			e.TransactionCost.String(),
			e.Equity.String(),
			strconv.FormatBool(e.InPosition),
			strconv.FormatFloat(ledger.Cumulative[i], 'f', -1, 64),
			strconv.FormatFloat(ledger.BenchmarkCumulative[i], 'f', -1, 64),
			strconv.FormatFloat(ledger.Drawdown[i], 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
