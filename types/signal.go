package types

// Signal is a per-timestamp trading instruction emitted by a strategy.
// Any value other than SignalEnter is treated as an exit by the simulator
// when a position is held.
type Signal int8

const (
	SignalExit  Signal = -1
	SignalFlat  Signal = 0
	SignalEnter Signal = 1
)

func (s Signal) String() string {
	switch s {
	case SignalEnter:
		return "ENTER"
	case SignalExit:
		return "EXIT"
	default:
		return "FLAT"
	}
}
