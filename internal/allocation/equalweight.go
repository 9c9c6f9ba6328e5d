// Package allocation splits capital across tickers. The only implemented
// scheme is equal weighting; a mean-variance optimizer would slot in behind
// the same signature.
package allocation

import (
	"github.com/shopspring/decimal"
)

// EqualWeights assigns every ticker the same fraction of capital.
func EqualWeights(tickers []string) map[string]decimal.Decimal {
	weights := make(map[string]decimal.Decimal, len(tickers))
	if len(tickers) == 0 {
		return weights
	}
	weight := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(tickers))))
	for _, ticker := range tickers {
		weights[ticker] = weight
	}
	return weights
}
