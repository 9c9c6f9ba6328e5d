// Package feed loads bar series from CSV files. Expected columns:
// timestamp,open,high,low,close,volume. Header optional, timestamps in
// RFC3339 or 2006-01-02 form, rows in ascending time order.
package feed

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"tradesim/types"
)

var (
	ErrTooFewColumns = errors.New("csv row has fewer than 6 columns")
	ErrNotAscending  = errors.New("csv rows are not in ascending time order")
)

// LoadCSV reads a bar series for one ticker from a CSV file.
func LoadCSV(path, ticker string, interval types.Interval) ([]types.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open bar file for %s", ticker)
	}
	defer f.Close()

	bars, err := ReadBars(f, ticker, interval)
	if err != nil {
		return nil, errors.Wrapf(err, "read bars from %s", path)
	}
	return bars, nil
}

// ReadBars parses bars from any reader.
func ReadBars(r io.Reader, ticker string, interval types.Interval) ([]types.Bar, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	var bars []types.Bar
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}
		bar, err := parseRow(record, ticker, interval)
		if err != nil {
			return nil, err
		}
		if len(bars) > 0 && !bar.Timestamp.After(bars[len(bars)-1].Timestamp) {
			return nil, ErrNotAscending
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := parseTimestamp(record[0])
	return err != nil
}

func parseRow(record []string, ticker string, interval types.Interval) (types.Bar, error) {
	if len(record) < 6 {
		return types.Bar{}, ErrTooFewColumns
	}
	ts, err := parseTimestamp(record[0])
	if err != nil {
		return types.Bar{}, errors.Wrapf(err, "parse timestamp %q", record[0])
	}

	fields := make([]decimal.Decimal, 5)
	for i := 0; i < 5; i++ {
		fields[i], err = decimal.NewFromString(strings.TrimSpace(record[i+1]))
		if err != nil {
			return types.Bar{}, errors.Wrapf(err, "parse field %q", record[i+1])
		}
	}
	return types.Bar{
		Ticker:    ticker,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
		Interval:  interval,
		Timestamp: ts,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", s)
}
