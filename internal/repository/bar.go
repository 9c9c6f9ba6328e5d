package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"tradesim/types"
)

var supportedIntervals = map[types.Interval]string{
	types.OneMinute:      "1",
	types.FiveMinutes:    "5",
	types.FifteenMinutes: "15",
	types.ThirtyMinutes:  "30",
	types.Hour:           "60",
	types.FourHours:      "240",
	types.Day:            "D",
	types.Week:           "W",
}

// GetBars retrieves the bar series for an asset over [start, end].
func (db *Database) GetBars(assetId int, ticker string, interval types.Interval, start, end time.Time, ctx context.Context) ([]types.Bar, error) {
	stored, ok := supportedIntervals[interval]
	if !ok {
		return nil, ErrIntervalNotSupported
	}
	args := getBarsParams{
		AssetID:   int32(assetId),
		Interval:  stored,
		StartTime: &start,
		EndTime:   &end,
	}
	rows, err := db.bars.GetBars(ctx, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoBars
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoBars
	}
	return convertBars(rows, interval, ticker), nil
}

func convertBars(rows []barRow, interval types.Interval, ticker string) []types.Bar {
	var bars []types.Bar
	for _, row := range rows {
		bars = append(bars, types.Bar{
			AssetId:   int(row.AssetID),
			Ticker:    ticker,
			Open:      row.Open,
			Close:     row.Close,
			High:      row.High,
			Low:       row.Low,
			Volume:    row.Volume,
			Interval:  interval,
			Timestamp: *row.Timestamp,
		})
	}
	return bars
}
