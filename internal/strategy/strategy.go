// Package strategy contains the signal generators consumed by the
// simulation engine. Each strategy is a pure function of the bar series:
// no shared mutable state, one signal per bar, flat during indicator
// warm-up.
package strategy

import (
	"fmt"
	"strings"

	"tradesim/types"
)

type Strategy interface {
	Name() string
	Signals(bars []types.Bar) ([]types.Signal, error)
}

// Params carries the numeric strategy parameters from configuration.
type Params map[string]float64

func (p Params) get(key string, fallback float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return fallback
}

func (p Params) getInt(key string, fallback int) int {
	return int(p.get(key, float64(fallback)))
}

// New maps a configured strategy name to its implementation.
func New(name string, params Params) (Strategy, error) {
	switch strings.ToLower(name) {
	case "sma_crossover", "sma":
		return NewSMACross(params)
	case "rsi":
		return NewRSI(params)
	case "macd":
		return NewMACD(params)
	case "bollinger":
		return NewBollinger(params)
	case "momentum":
		return NewMomentum(params)
	default:
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
}

// closePrices converts the bar closes to float64 for indicator input.
func closePrices(bars []types.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close.InexactFloat64()
	}
	return closes
}

// offset is the number of leading bars an indicator output does not cover.
// Indicator libraries emit shortened series after their warm-up period; the
// signal series stays flat over that prefix.
func offset(inputLen, outputLen int) int {
	return inputLen - outputLen
}
