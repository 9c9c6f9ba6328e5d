package engine

// Trade is reconstructed from the ledger after the fact: a maximal interval
// during which the account held a position, with the realized return taken
// from the cumulative-return curve at its boundaries.
type Trade struct {
	EntryIndex int
	ExitIndex  int
	Return     float64
}

// Duration is the trade length in timesteps.
func (t Trade) Duration() int {
	return t.ExitIndex - t.EntryIndex
}

// reconstructTrades detects change points of the holding flag and pairs each
// entry transition with the following exit transition. A position still open
// at the end of the series has only one transition point and contributes no
// trade.
func reconstructTrades(inPosition []bool, cumulative []float64) []Trade {
	var trades []Trade
	entry := -1
	prev := false
	for i, holding := range inPosition {
		switch {
		case holding && !prev:
			entry = i
		case !holding && prev && entry >= 0:
			trades = append(trades, Trade{
				EntryIndex: entry,
				ExitIndex:  i,
				Return:     tradeReturn(cumulative, entry, i),
			})
			entry = -1
		}
		prev = holding
	}
	return trades
}

func tradeReturn(cumulative []float64, entry, exit int) float64 {
	if entry >= len(cumulative) || exit >= len(cumulative) {
		return 0
	}
	if cumulative[entry] == 0 {
		return 0
	}
	return cumulative[exit]/cumulative[entry] - 1
}
