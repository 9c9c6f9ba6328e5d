package strategy

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"

	"tradesim/types"
)

// RSI is a mean-reversion strategy on the Relative Strength Index: enter
// when oversold, exit when overbought.
type RSI struct {
	period     int
	oversold   float64
	overbought float64
}

func NewRSI(params Params) (*RSI, error) {
	r := &RSI{
		period:     params.getInt("period", 14),
		oversold:   params.get("oversold", 30),
		overbought: params.get("overbought", 70),
	}
	if r.period <= 0 {
		return nil, fmt.Errorf("rsi period must be positive, got %d", r.period)
	}
	if r.oversold >= r.overbought {
		return nil, fmt.Errorf("oversold %f must be below overbought %f", r.oversold, r.overbought)
	}
	return r, nil
}

func (r *RSI) Name() string {
	return fmt.Sprintf("rsi(%d)", r.period)
}

func (r *RSI) Signals(bars []types.Bar) ([]types.Signal, error) {
	closes := closePrices(bars)
	signals := make([]types.Signal, len(bars))

	values := helper.ChanToSlice(momentum.NewRsiWithPeriod[float64](r.period).Compute(helper.SliceToChan(closes)))
	warm := offset(len(closes), len(values))

	for i := warm; i < len(bars); i++ {
		switch {
		case values[i-warm] < r.oversold:
			signals[i] = types.SignalEnter
		case values[i-warm] > r.overbought:
			signals[i] = types.SignalExit
		}
	}
	return signals, nil
}
