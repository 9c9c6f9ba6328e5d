package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StrategyConfig names one strategy and its numeric parameters.
type StrategyConfig struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params"`
}

// Config is the full run configuration. Either database_url or data_dir
// supplies the bar data; every ticker is run against every strategy.
type Config struct {
	DatabaseURL string   `yaml:"database_url"`
	DataDir     string   `yaml:"data_dir"`
	Tickers     []string `yaml:"tickers"`
	Start       string   `yaml:"start"`
	End         string   `yaml:"end"`
	Interval    string   `yaml:"interval"`

	InitialCapital   float64 `yaml:"initial_capital"`
	FixedTradeCost   float64 `yaml:"fixed_trade_cost"`
	RiskFreeRate     float64 `yaml:"risk_free_rate"`
	Annualization    float64 `yaml:"annualization"`
	ExecutionMode    string  `yaml:"execution_mode"`
	ProportionalCost float64 `yaml:"proportional_cost"`

	PositionSizing   bool    `yaml:"position_sizing"`
	MaxPositionSize  float64 `yaml:"max_position_size"`
	VolatilityWindow int     `yaml:"volatility_window"`

	ReportDir string `yaml:"report_dir"`

	Strategies []StrategyConfig `yaml:"strategies"`
}

func defaultConfig() Config {
	return Config{
		Interval:         "D",
		InitialCapital:   10000,
		FixedTradeCost:   1.0,
		RiskFreeRate:     0.02,
		Annualization:    252,
		ExecutionMode:    "discrete",
		ProportionalCost: 0.001,
		MaxPositionSize:  1.0,
		VolatilityWindow: 20,
		Strategies: []StrategyConfig{
			{Name: "sma_crossover", Params: map[string]float64{"short": 50, "long": 200}},
		},
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	if len(cfg.Tickers) == 0 {
		return Config{}, errors.New("config lists no tickers")
	}
	if len(cfg.Strategies) == 0 {
		return Config{}, errors.New("config lists no strategies")
	}
	return cfg, nil
}

func (c Config) dateRange() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", c.Start)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(err, "parse start date %q", c.Start)
	}
	end, err := time.Parse("2006-01-02", c.End)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(err, "parse end date %q", c.End)
	}
	return start, end, nil
}
