package strategy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"tradesim/types"
)

func barsFromCloses(closes ...float64) []types.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, len(closes))
	for i, c := range closes {
		bars[i] = types.Bar{
			Ticker:    "TEST",
			Close:     decimal.NewFromFloat(c),
			Timestamp: base.AddDate(0, 0, i),
		}
	}
	return bars
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
	}{
		{"sma_crossover", "sma_crossover(50,200)"},
		{"sma", "sma_crossover(50,200)"},
		{"rsi", "rsi(14)"},
		{"macd", "macd(12,26,9)"},
		{"bollinger", "bollinger(20,2.0)"},
		{"momentum", "momentum(20,0.020)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.name, nil)
			require.NoError(t, err)
			require.Equal(t, tt.wantName, s.Name())
		})
	}

	_, err := New("fibonacci", nil)
	require.Error(t, err)
}

func TestNew_ParamValidation(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"sma_crossover", Params{"short": 200, "long": 50}},
		{"sma_crossover", Params{"short": 0}},
		{"rsi", Params{"period": -1}},
		{"rsi", Params{"oversold": 80, "overbought": 20}},
		{"macd", Params{"fast": 26, "slow": 12}},
		{"bollinger", Params{"period": 1}},
		{"bollinger", Params{"std_dev": -2}},
		{"momentum", Params{"lookback": 0}},
		{"momentum", Params{"threshold": -0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.name, tt.params)
			require.Error(t, err)
		})
	}
}

func TestSMACross_Signals(t *testing.T) {
	s, err := NewSMACross(Params{"short": 2, "long": 3})
	require.NoError(t, err)

	bars := barsFromCloses(10, 10, 10, 4, 4, 4, 20, 20)
	signals, err := s.Signals(bars)
	require.NoError(t, err)
	require.Len(t, signals, len(bars))

	// Warm-up stays flat.
	require.Equal(t, types.SignalFlat, signals[0])
	require.Equal(t, types.SignalFlat, signals[1])
	// After the drop the 2-bar SMA sits below the 3-bar SMA.
	require.Equal(t, types.SignalExit, signals[3])
	require.Equal(t, types.SignalExit, signals[4])
	// After the rally it crosses back above.
	require.Equal(t, types.SignalEnter, signals[6])
	require.Equal(t, types.SignalEnter, signals[7])
}

func TestRSI_Signals(t *testing.T) {
	s, err := NewRSI(Params{"period": 3})
	require.NoError(t, err)

	// A monotone decline has zero average gain, so the RSI pins at the
	// bottom and only enter signals can appear.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 200 - float64(i)*5
	}
	signals, err := s.Signals(barsFromCloses(closes...))
	require.NoError(t, err)
	require.Len(t, signals, len(closes))

	var enters int
	for _, sig := range signals {
		require.NotEqual(t, types.SignalExit, sig)
		if sig == types.SignalEnter {
			enters++
		}
	}
	require.Greater(t, enters, 0)
}

func TestMACD_Signals(t *testing.T) {
	s, err := NewMACD(Params{"fast": 3, "slow": 6, "signal": 3})
	require.NoError(t, err)

	// Steady exponential growth keeps the MACD line rising above its own
	// EMA, so the tail of the series signals entry.
	closes := make([]float64, 60)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		closes[i] = closes[i-1] * 1.02
	}
	signals, err := s.Signals(barsFromCloses(closes...))
	require.NoError(t, err)
	require.Len(t, signals, len(closes))

	require.Equal(t, types.SignalFlat, signals[0])
	require.Equal(t, types.SignalEnter, signals[len(signals)-1])
}

func TestBollinger_Signals(t *testing.T) {
	s, err := NewBollinger(Params{"period": 3, "std_dev": 1})
	require.NoError(t, err)

	t.Run("enter below lower band", func(t *testing.T) {
		signals, err := s.Signals(barsFromCloses(100, 100, 102, 100, 102, 100, 80))
		require.NoError(t, err)
		require.Equal(t, types.SignalEnter, signals[6])
		require.Equal(t, types.SignalFlat, signals[0])
		require.Equal(t, types.SignalFlat, signals[1])
	})

	t.Run("exit above upper band", func(t *testing.T) {
		signals, err := s.Signals(barsFromCloses(100, 100, 102, 100, 102, 100, 120))
		require.NoError(t, err)
		require.Equal(t, types.SignalExit, signals[6])
	})
}

func TestMomentum_Signals(t *testing.T) {
	s, err := NewMomentum(Params{"lookback": 2, "threshold": 0.05})
	require.NoError(t, err)

	signals, err := s.Signals(barsFromCloses(100, 100, 110, 100, 90, 90))
	require.NoError(t, err)

	want := []types.Signal{
		types.SignalFlat, types.SignalFlat, types.SignalEnter,
		types.SignalFlat, types.SignalExit, types.SignalExit,
	}
	require.Equal(t, want, signals)
}

type stubStrategy struct {
	name    string
	signals []types.Signal
}

func (s stubStrategy) Name() string { return s.name }

func (s stubStrategy) Signals([]types.Bar) ([]types.Signal, error) {
	return s.signals, nil
}

func TestComposite_Signals(t *testing.T) {
	bars := barsFromCloses(1, 1, 1)
	a := stubStrategy{"a", []types.Signal{types.SignalEnter, types.SignalEnter, types.SignalExit}}
	b := stubStrategy{"b", []types.Signal{types.SignalEnter, types.SignalExit, types.SignalExit}}

	c, err := NewComposite(0.5, a, b)
	require.NoError(t, err)
	require.Equal(t, "composite(a+b)", c.Name())

	signals, err := c.Signals(bars)
	require.NoError(t, err)

	// Unanimous agreement crosses the threshold; a split vote stays flat.
	want := []types.Signal{types.SignalEnter, types.SignalFlat, types.SignalExit}
	require.Equal(t, want, signals)
}

func TestComposite_NoMembers(t *testing.T) {
	_, err := NewComposite(0.5)
	require.ErrorIs(t, err, ErrNoMembers)
}
