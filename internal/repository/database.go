package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Global error declarations.
var (
	ErrIntervalNotSupported = errors.New("timeframe not supported")
	ErrAssetNotFound        = errors.New("not found in datasource")
	ErrNoBars               = errors.New("no bars found in datasource")
)

type assetRow struct {
	ID         int32
	Ticker     string
	Name       string
	Type       string
	CreatedAt  *time.Time
	ModifiedAt *time.Time
}

type barRow struct {
	AssetID   int32
	Timestamp *time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

type getBarsParams struct {
	AssetID   int32
	Interval  string
	StartTime *time.Time
	EndTime   *time.Time
}

type assetsQuerier interface {
	GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error)
}

type barsQuerier interface {
	GetBars(ctx context.Context, arg getBarsParams) ([]barRow, error)
}

// Database holds the connection pool and the query layer.
type Database struct {
	assets assetsQuerier
	bars   barsQuerier
	conn   *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(dbURL string) (Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return Database{}, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return Database{}, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(context.Background()); err != nil {
		return Database{}, err
	}

	q := &queries{pool: conn}
	return Database{
		assets: q,
		bars:   q,
		conn:   conn,
	}, nil
}

func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}

type queries struct {
	pool *pgxpool.Pool
}

const getAssetByTickerSQL = `
SELECT id, ticker, name, type, created_at, modified_at
FROM assets
WHERE ticker = $1`

func (q *queries) GetAssetByTicker(ctx context.Context, ticker string) (assetRow, error) {
	var row assetRow
	err := q.pool.QueryRow(ctx, getAssetByTickerSQL, ticker).Scan(
		&row.ID, &row.Ticker, &row.Name, &row.Type, &row.CreatedAt, &row.ModifiedAt,
	)
	return row, err
}

const getBarsSQL = `
SELECT asset_id, timestamp, open, high, low, close, volume
FROM candles
WHERE asset_id = $1
  AND interval = $2
  AND timestamp >= $3
  AND timestamp <= $4
ORDER BY timestamp`

func (q *queries) GetBars(ctx context.Context, arg getBarsParams) ([]barRow, error) {
	rows, err := q.pool.Query(ctx, getBarsSQL, arg.AssetID, arg.Interval, arg.StartTime, arg.EndTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []barRow
	for rows.Next() {
		var row barRow
		if err := rows.Scan(&row.AssetID, &row.Timestamp, &row.Open, &row.High, &row.Low, &row.Close, &row.Volume); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
