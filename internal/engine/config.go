package engine

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCapital       = errors.New("initial capital must be positive")
	ErrNegativeTradeCost    = errors.New("fixed trade cost must not be negative")
	ErrNegativeProportional = errors.New("proportional cost must not be negative")
	ErrInvalidAnnualization = errors.New("annualization constant must be positive")
	ErrUnknownMode          = errors.New("unknown execution mode")
)

// Mode selects the execution semantics of the simulator. The discrete-share
// cash-ledger model is canonical; the continuous-allocation model multiplies
// scaled daily returns through the equity curve instead of holding shares.
type Mode string

const (
	ModeDiscrete   Mode = "discrete"
	ModeContinuous Mode = "continuous"
)

// SimulationConfig parameterizes one simulation run. Validation happens at
// simulator construction, before any data is walked.
type SimulationConfig struct {
	InitialCapital decimal.Decimal
	FixedTradeCost decimal.Decimal
	Mode           Mode
	// ProportionalCost is the commission rate charged on position changes in
	// continuous mode. Ignored in discrete mode.
	ProportionalCost float64
}

func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		InitialCapital:   decimal.NewFromInt(10000),
		FixedTradeCost:   decimal.NewFromInt(1),
		Mode:             ModeDiscrete,
		ProportionalCost: 0.001,
	}
}

func (c SimulationConfig) validate() error {
	if !c.InitialCapital.IsPositive() {
		return ErrInvalidCapital
	}
	if c.FixedTradeCost.IsNegative() {
		return ErrNegativeTradeCost
	}
	if c.ProportionalCost < 0 {
		return ErrNegativeProportional
	}
	switch c.Mode {
	case ModeDiscrete, ModeContinuous:
		return nil
	default:
		return ErrUnknownMode
	}
}

// AnalyticsConfig parameterizes the performance analytics engine.
type AnalyticsConfig struct {
	// RiskFreeRate is the annual risk-free rate used by Sharpe, Sortino and
	// alpha.
	RiskFreeRate float64
	// Annualization is the number of trading periods per year, 252 for daily
	// bars.
	Annualization float64
}

func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		RiskFreeRate:  0.02,
		Annualization: 252,
	}
}

func (c AnalyticsConfig) validate() error {
	if c.Annualization <= 0 {
		return ErrInvalidAnnualization
	}
	return nil
}
