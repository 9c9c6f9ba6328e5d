package strategy

import (
	"errors"
	"strings"

	"tradesim/types"
)

var ErrNoMembers = errors.New("composite strategy needs at least one member")

// Composite averages the signals of its member strategies per timestep and
// discretizes the mean: above the agreement threshold enters, below its
// negation exits.
type Composite struct {
	members   []Strategy
	threshold float64
}

func NewComposite(threshold float64, members ...Strategy) (*Composite, error) {
	if len(members) == 0 {
		return nil, ErrNoMembers
	}
	if threshold <= 0 {
		threshold = 0.3
	}
	return &Composite{members: members, threshold: threshold}, nil
}

func (c *Composite) Name() string {
	names := make([]string, len(c.members))
	for i, m := range c.members {
		names[i] = m.Name()
	}
	return "composite(" + strings.Join(names, "+") + ")"
}

func (c *Composite) Signals(bars []types.Bar) ([]types.Signal, error) {
	sums := make([]float64, len(bars))
	for _, member := range c.members {
		memberSignals, err := member.Signals(bars)
		if err != nil {
			return nil, err
		}
		for i, sig := range memberSignals {
			sums[i] += float64(sig)
		}
	}

	signals := make([]types.Signal, len(bars))
	count := float64(len(c.members))
	for i, sum := range sums {
		avg := sum / count
		switch {
		case avg > c.threshold:
			signals[i] = types.SignalEnter
		case avg < -c.threshold:
			signals[i] = types.SignalExit
		}
	}
	return signals, nil
}
