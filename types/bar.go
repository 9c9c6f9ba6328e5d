package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Bar struct {
	AssetId   int             `json:"id"`
	Ticker    string          `json:"ticker"`
	Open      decimal.Decimal `json:"open"`
	Close     decimal.Decimal `json:"close"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Volume    decimal.Decimal `json:"volume"`
	Interval  Interval        `json:"interval"`
	Timestamp time.Time       `json:"timestamp"`
}

// Closes extracts the close prices of a bar series in order.
func Closes(bars []Bar) []decimal.Decimal {
	closes := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
