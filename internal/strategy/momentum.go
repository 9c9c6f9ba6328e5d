package strategy

import (
	"fmt"

	"tradesim/types"
)

// Momentum enters on strong upward price momentum over a lookback window
// and exits on strong downward momentum.
type Momentum struct {
	lookback  int
	threshold float64
}

func NewMomentum(params Params) (*Momentum, error) {
	m := &Momentum{
		lookback:  params.getInt("lookback", 20),
		threshold: params.get("threshold", 0.02),
	}
	if m.lookback <= 0 {
		return nil, fmt.Errorf("momentum lookback must be positive, got %d", m.lookback)
	}
	if m.threshold <= 0 {
		return nil, fmt.Errorf("momentum threshold must be positive, got %f", m.threshold)
	}
	return m, nil
}

func (m *Momentum) Name() string {
	return fmt.Sprintf("momentum(%d,%.3f)", m.lookback, m.threshold)
}

func (m *Momentum) Signals(bars []types.Bar) ([]types.Signal, error) {
	closes := closePrices(bars)
	signals := make([]types.Signal, len(bars))

	for i := m.lookback; i < len(closes); i++ {
		base := closes[i-m.lookback]
		if base <= 0 {
			continue
		}
		change := closes[i]/base - 1
		switch {
		case change > m.threshold:
			signals[i] = types.SignalEnter
		case change < -m.threshold:
			signals[i] = types.SignalExit
		}
	}
	return signals, nil
}
