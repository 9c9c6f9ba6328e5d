package strategy

import (
	"fmt"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"tradesim/types"
)

// SMACross is the classic moving-average crossover: long while the short
// SMA is above the long SMA, exit while it is below.
type SMACross struct {
	short int
	long  int
}

func NewSMACross(params Params) (*SMACross, error) {
	s := &SMACross{
		short: params.getInt("short", 50),
		long:  params.getInt("long", 200),
	}
	if s.short <= 0 || s.long <= 0 {
		return nil, fmt.Errorf("sma windows must be positive, got short=%d long=%d", s.short, s.long)
	}
	if s.short >= s.long {
		return nil, fmt.Errorf("short window %d must be below long window %d", s.short, s.long)
	}
	return s, nil
}

func (s *SMACross) Name() string {
	return fmt.Sprintf("sma_crossover(%d,%d)", s.short, s.long)
}

func (s *SMACross) Signals(bars []types.Bar) ([]types.Signal, error) {
	closes := closePrices(bars)
	signals := make([]types.Signal, len(bars))

	shortSMA := helper.ChanToSlice(trend.NewSmaWithPeriod[float64](s.short).Compute(helper.SliceToChan(closes)))
	longSMA := helper.ChanToSlice(trend.NewSmaWithPeriod[float64](s.long).Compute(helper.SliceToChan(closes)))

	shortOff := offset(len(closes), len(shortSMA))
	longOff := offset(len(closes), len(longSMA))
	warm := shortOff
	if longOff > warm {
		warm = longOff
	}

	for i := warm; i < len(bars); i++ {
		switch {
		case shortSMA[i-shortOff] > longSMA[i-longOff]:
			signals[i] = types.SignalEnter
		case shortSMA[i-shortOff] < longSMA[i-longOff]:
			signals[i] = types.SignalExit
		}
	}
	return signals, nil
}
