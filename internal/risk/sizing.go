// Package risk produces the optional position-size stream consumed by the
// simulation engine: a per-timestep scale in [0, max] applied to trade
// budgets. The engine itself never computes sizing.
package risk

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"tradesim/types"
)

var ErrInvalidMaxSize = errors.New("max position size must be positive")

// Sizer derives volatility-adjusted position sizes from a bar series.
type Sizer struct {
	window  int
	maxSize float64
}

func NewSizer(window int, maxSize float64) (*Sizer, error) {
	if maxSize <= 0 {
		return nil, ErrInvalidMaxSize
	}
	if window < 2 {
		window = 20
	}
	return &Sizer{window: window, maxSize: maxSize}, nil
}

// Sizes scales each timestep by the ratio of average to current rolling
// volatility, clamped to [0, maxSize]. Timesteps where volatility is not yet
// defined get full sizing.
func (s *Sizer) Sizes(bars []types.Bar) []decimal.Decimal {
	returns := pctChanges(bars)
	vols := rollingStd(returns, s.window)

	var defined []float64
	for _, v := range vols {
		if !math.IsNaN(v) && v > 0 {
			defined = append(defined, v)
		}
	}
	avgVol := 0.0
	if len(defined) > 0 {
		var sum float64
		for _, v := range defined {
			sum += v
		}
		avgVol = sum / float64(len(defined))
	}

	sizes := make([]decimal.Decimal, len(bars))
	for i := range bars {
		size := 1.0
		if i < len(vols) && !math.IsNaN(vols[i]) && vols[i] > 0 && avgVol > 0 {
			size = avgVol / vols[i]
		}
		if size > s.maxSize {
			size = s.maxSize
		}
		if size < 0 {
			size = 0
		}
		sizes[i] = decimal.NewFromFloat(size)
	}
	return sizes
}

// KellyFraction computes the Kelly criterion sizing fraction from realized
// trade statistics, clamped to [0, maxSize]. avgLoss is a magnitude. Returns
// 0 when the inputs cannot support the formula.
func KellyFraction(winRate, avgWin, avgLoss, maxSize float64) float64 {
	if avgWin <= 0 || avgLoss <= 0 {
		return 0
	}
	kelly := winRate/avgLoss - (1-winRate)/avgWin
	if kelly < 0 {
		return 0
	}
	if kelly > maxSize {
		return maxSize
	}
	return kelly
}

// pctChanges returns close-to-close returns, NaN at t=0.
func pctChanges(bars []types.Bar) []float64 {
	changes := make([]float64, len(bars))
	for i := range bars {
		if i == 0 {
			changes[i] = math.NaN()
			continue
		}
		prev := bars[i-1].Close.InexactFloat64()
		if prev <= 0 {
			changes[i] = math.NaN()
			continue
		}
		changes[i] = bars[i].Close.InexactFloat64()/prev - 1
	}
	return changes
}

// rollingStd computes the rolling sample standard deviation; NaN until the
// window is full.
func rollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		slice := values[i+1-window : i+1]
		var defined []float64
		for _, v := range slice {
			if !math.IsNaN(v) {
				defined = append(defined, v)
			}
		}
		if len(defined) < 2 {
			out[i] = math.NaN()
			continue
		}
		var sum float64
		for _, v := range defined {
			sum += v
		}
		m := sum / float64(len(defined))
		var sq float64
		for _, v := range defined {
			d := v - m
			sq += d * d
		}
		out[i] = math.Sqrt(sq / float64(len(defined)-1))
	}
	return out
}
