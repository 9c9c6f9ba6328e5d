package strategy

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"tradesim/types"
)

// MACD goes long while the MACD line is above its signal line and exits
// while below. The MACD line is the fast EMA minus the slow EMA; the signal
// line is an EMA of the MACD line.
type MACD struct {
	fast   int
	slow   int
	signal int
}

func NewMACD(params Params) (*MACD, error) {
	m := &MACD{
		fast:   params.getInt("fast", 12),
		slow:   params.getInt("slow", 26),
		signal: params.getInt("signal", 9),
	}
	if m.fast <= 0 || m.slow <= 0 || m.signal <= 0 {
		return nil, fmt.Errorf("macd periods must be positive, got fast=%d slow=%d signal=%d", m.fast, m.slow, m.signal)
	}
	if m.fast >= m.slow {
		return nil, fmt.Errorf("fast period %d must be below slow period %d", m.fast, m.slow)
	}
	return m, nil
}

func (m *MACD) Name() string {
	return fmt.Sprintf("macd(%d,%d,%d)", m.fast, m.slow, m.signal)
}

func (m *MACD) Signals(bars []types.Bar) ([]types.Signal, error) {
	closes := closePrices(bars)
	signals := make([]types.Signal, len(bars))

	fastEMA := ema(closes, m.fast)
	slowEMA := ema(closes, m.slow)
	fastOff := offset(len(closes), len(fastEMA))
	slowOff := offset(len(closes), len(slowEMA))

	// MACD line is defined from the slow EMA's first value onward.
	macdLine := make([]float64, 0, len(slowEMA))
	for i := slowOff; i < len(closes); i++ {
		macdLine = append(macdLine, fastEMA[i-fastOff]-slowEMA[i-slowOff])
	}

	signalLine := ema(macdLine, m.signal)
	signalOff := slowOff + offset(len(macdLine), len(signalLine))

	for i := signalOff; i < len(bars); i++ {
		switch {
		case macdLine[i-slowOff] > signalLine[i-signalOff]:
			signals[i] = types.SignalEnter
		case macdLine[i-slowOff] < signalLine[i-signalOff]:
			signals[i] = types.SignalExit
		}
	}
	return signals, nil
}

func ema(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	return helper.ChanToSlice(trend.NewEmaWithPeriod[float64](period).Compute(helper.SliceToChan(values)))
}
