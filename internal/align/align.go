// Package align joins price, signal, and position-size streams on a common
// ordered timestamp axis. The simulation engine requires its input to be
// pre-aligned; this package owns that contract.
package align

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tradesim/types"
)

var (
	ErrLengthMismatch     = errors.New("price and signal series have different lengths")
	ErrTimestampsNotOrder = errors.New("timestamps are not strictly increasing")
	ErrEmptySeries        = errors.New("aligned series is empty")
)

// Series is the aligned input consumed by the simulator: one record per
// trading timestamp, strictly increasing timestamps, parallel slices.
type Series struct {
	Ticker     string
	Timestamps []time.Time
	Prices     []decimal.Decimal
	Signals    []types.Signal
	Sizes      []decimal.Decimal
}

func (s *Series) Len() int {
	return len(s.Timestamps)
}

// FromBars builds a Series from a bar feed and a signal series generated on
// the same bars. Sizes is optional; a nil slice defaults every timestep to
// full sizing (1.0). Mismatched lengths are fatal: producing equal-length
// input is the caller's contract.
func FromBars(bars []types.Bar, signals []types.Signal, sizes []decimal.Decimal) (*Series, error) {
	if len(bars) != len(signals) {
		return nil, ErrLengthMismatch
	}
	if sizes != nil && len(sizes) != len(bars) {
		return nil, ErrLengthMismatch
	}
	if len(bars) == 0 {
		return nil, ErrEmptySeries
	}

	s := &Series{
		Timestamps: make([]time.Time, len(bars)),
		Prices:     make([]decimal.Decimal, len(bars)),
		Signals:    make([]types.Signal, len(bars)),
		Sizes:      make([]decimal.Decimal, len(bars)),
	}
	s.Ticker = bars[0].Ticker

	fullSize := decimal.NewFromInt(1)
	for i, bar := range bars {
		if i > 0 && !bar.Timestamp.After(bars[i-1].Timestamp) {
			return nil, ErrTimestampsNotOrder
		}
		s.Timestamps[i] = bar.Timestamp
		s.Prices[i] = bar.Close
		s.Signals[i] = signals[i]
		if sizes != nil {
			s.Sizes[i] = sizes[i]
		} else {
			s.Sizes[i] = fullSize
		}
	}
	return s, nil
}

// PricePoint is a timestamped price observation from an arbitrary source.
type PricePoint struct {
	Time  time.Time
	Price decimal.Decimal
}

// SignalPoint is a timestamped signal observation.
type SignalPoint struct {
	Time   time.Time
	Signal types.Signal
}

// SizePoint is a timestamped position-size observation.
type SizePoint struct {
	Time time.Time
	Size decimal.Decimal
}

// Join intersects independently sourced price and signal streams on their
// common timestamps. Both streams must be strictly increasing in time.
// Timestamps present in only one stream are dropped; a timestamp absent from
// the size stream defaults to full sizing. Sizes may be nil.
func Join(prices []PricePoint, signals []SignalPoint, sizes []SizePoint) (*Series, error) {
	if err := checkOrderedPrices(prices); err != nil {
		return nil, err
	}
	if err := checkOrderedSignals(signals); err != nil {
		return nil, err
	}

	sizeAt := make(map[time.Time]decimal.Decimal, len(sizes))
	for _, sp := range sizes {
		sizeAt[sp.Time] = sp.Size
	}

	s := &Series{}
	fullSize := decimal.NewFromInt(1)
	i, j := 0, 0
	for i < len(prices) && j < len(signals) {
		pt, st := prices[i].Time, signals[j].Time
		switch {
		case pt.Before(st):
			i++
		case st.Before(pt):
			j++
		default:
			s.Timestamps = append(s.Timestamps, pt)
			s.Prices = append(s.Prices, prices[i].Price)
			s.Signals = append(s.Signals, signals[j].Signal)
			if size, ok := sizeAt[pt]; ok {
				s.Sizes = append(s.Sizes, size)
			} else {
				s.Sizes = append(s.Sizes, fullSize)
			}
			i++
			j++
		}
	}
	if s.Len() == 0 {
		return nil, ErrEmptySeries
	}
	return s, nil
}

func checkOrderedPrices(points []PricePoint) error {
	for i := 1; i < len(points); i++ {
		if !points[i].Time.After(points[i-1].Time) {
			return ErrTimestampsNotOrder
		}
	}
	return nil
}

func checkOrderedSignals(points []SignalPoint) error {
	for i := 1; i < len(points); i++ {
		if !points[i].Time.After(points[i-1].Time) {
			return ErrTimestampsNotOrder
		}
	}
	return nil
}
