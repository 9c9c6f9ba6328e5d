package strategy

import (
	"fmt"
	"math"

	"tradesim/types"
)

// Bollinger is a mean-reversion strategy on Bollinger Bands: enter when the
// close drops below the lower band, exit when it rises above the upper band.
type Bollinger struct {
	period int
	stdDev float64
}

func NewBollinger(params Params) (*Bollinger, error) {
	b := &Bollinger{
		period: params.getInt("period", 20),
		stdDev: params.get("std_dev", 2),
	}
	if b.period < 2 {
		return nil, fmt.Errorf("bollinger period must be at least 2, got %d", b.period)
	}
	if b.stdDev <= 0 {
		return nil, fmt.Errorf("bollinger std_dev must be positive, got %f", b.stdDev)
	}
	return b, nil
}

func (b *Bollinger) Name() string {
	return fmt.Sprintf("bollinger(%d,%.1f)", b.period, b.stdDev)
}

func (b *Bollinger) Signals(bars []types.Bar) ([]types.Signal, error) {
	closes := closePrices(bars)
	signals := make([]types.Signal, len(bars))

	for i := b.period - 1; i < len(closes); i++ {
		window := closes[i-b.period+1 : i+1]
		middle, std := rollingMeanStd(window)
		upper := middle + b.stdDev*std
		lower := middle - b.stdDev*std
		switch {
		case closes[i] < lower:
			signals[i] = types.SignalEnter
		case closes[i] > upper:
			signals[i] = types.SignalExit
		}
	}
	return signals, nil
}

// rollingMeanStd returns the window mean and sample standard deviation.
func rollingMeanStd(window []float64) (float64, float64) {
	var sum float64
	for _, v := range window {
		sum += v
	}
	m := sum / float64(len(window))

	var sq float64
	for _, v := range window {
		d := v - m
		sq += d * d
	}
	return m, math.Sqrt(sq / float64(len(window)-1))
}
