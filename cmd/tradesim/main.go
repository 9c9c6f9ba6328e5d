package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tradesim/internal/align"
	"tradesim/internal/allocation"
	"tradesim/internal/engine"
	"tradesim/internal/feed"
	"tradesim/internal/repository"
	"tradesim/internal/risk"
	"tradesim/internal/strategy"
	"tradesim/types"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("run", zap.Error(err))
	}
}

func run(cfg Config, logger *zap.Logger) error {
	analyzer, err := engine.NewAnalyzer(engine.AnalyticsConfig{
		RiskFreeRate:  cfg.RiskFreeRate,
		Annualization: cfg.Annualization,
	})
	if err != nil {
		return err
	}

	weights := allocation.EqualWeights(cfg.Tickers)
	totalCapital := decimal.NewFromFloat(cfg.InitialCapital)

	var store *repository.Database
	if cfg.DatabaseURL != "" {
		db, err := repository.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		store = &db
	}

	bar := initProgressBar(len(cfg.Tickers) * len(cfg.Strategies))
	var results []engine.RunResult

	for _, ticker := range cfg.Tickers {
		bars, err := loadBars(cfg, store, ticker)
		if err != nil {
			// A failed ticker must not terminate sibling runs.
			logger.Error("loading bars failed",
				zap.String("ticker", ticker),
				zap.Error(err))
			bar.Add(len(cfg.Strategies))
			continue
		}

		var sizes []decimal.Decimal
		if cfg.PositionSizing {
			sizer, err := risk.NewSizer(cfg.VolatilityWindow, cfg.MaxPositionSize)
			if err != nil {
				return err
			}
			sizes = sizer.Sizes(bars)
		}

		simCfg := engine.SimulationConfig{
			InitialCapital:   totalCapital.Mul(weights[ticker]),
			FixedTradeCost:   decimal.NewFromFloat(cfg.FixedTradeCost),
			Mode:             engine.Mode(cfg.ExecutionMode),
			ProportionalCost: cfg.ProportionalCost,
		}

		for _, stratCfg := range cfg.Strategies {
			result, err := runOne(simCfg, analyzer, logger, bars, sizes, stratCfg, cfg.ReportDir)
			if err != nil {
				logger.Error("run failed",
					zap.String("ticker", ticker),
					zap.String("strategy", stratCfg.Name),
					zap.Error(err))
				bar.Add(1)
				continue
			}
			results = append(results, *result)
			bar.Add(1)
		}
	}

	fmt.Println()
	return engine.WriteComparison(os.Stdout, results)
}

func runOne(
	simCfg engine.SimulationConfig,
	analyzer *engine.Analyzer,
	logger *zap.Logger,
	bars []types.Bar,
	sizes []decimal.Decimal,
	stratCfg StrategyConfig,
	reportDir string,
) (*engine.RunResult, error) {
	strat, err := strategy.New(stratCfg.Name, stratCfg.Params)
	if err != nil {
		return nil, err
	}
	signals, err := strat.Signals(bars)
	if err != nil {
		return nil, err
	}
	series, err := align.FromBars(bars, signals, sizes)
	if err != nil {
		return nil, err
	}

	simulator, err := engine.NewSimulator(simCfg, logger)
	if err != nil {
		return nil, err
	}
	ledger, err := simulator.Run(series)
	if err != nil {
		return nil, err
	}

	metrics := analyzer.Analyze(ledger)
	ticker := bars[0].Ticker

	fmt.Println()
	if err := engine.WriteReport(os.Stdout, fmt.Sprintf("%s / %s", ticker, strat.Name()), metrics); err != nil {
		return nil, err
	}
	if err := exportLedger(ledger, ticker, strat.Name(), reportDir); err != nil {
		return nil, err
	}

	return &engine.RunResult{
		Ticker:   ticker,
		Strategy: strat.Name(),
		Metrics:  metrics,
	}, nil
}

func exportLedger(ledger *engine.Ledger, ticker, strategyName, dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("%s_%s_ledger.csv", ticker, sanitize(strategyName))
	return engine.WriteLedgerCSVFile(filepath.Join(dir, name), ledger)
}

func loadBars(cfg Config, store *repository.Database, ticker string) ([]types.Bar, error) {
	interval := types.Interval(cfg.Interval)

	if store != nil {
		ctx := context.Background()
		asset, err := store.GetAssetByTicker(ticker, ctx)
		if err != nil {
			return nil, err
		}
		start, end, err := cfg.dateRange()
		if err != nil {
			return nil, err
		}
		return store.GetBars(asset.Id, ticker, interval, start, end, ctx)
	}

	path := filepath.Join(cfg.DataDir, ticker+".csv")
	return feed.LoadCSV(path, ticker, interval)
}

func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backtesting in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
