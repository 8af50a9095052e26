package record

import "github.com/shopspring/decimal"

// ComputeCost infers the day's wear from the balance snapshots:
// prevBalance + balanceAdjust - balance, or 0 unless both balances are positive.
// The result is rounded to cents.
func ComputeCost(prevBalance, balanceAdjust, balance float64) float64 {
	if prevBalance <= 0 || balance <= 0 {
		return 0
	}
	cost := decimal.NewFromFloat(prevBalance).
		Add(decimal.NewFromFloat(balanceAdjust)).
		Sub(decimal.NewFromFloat(balance))
	return cost.Round(2).InexactFloat64()
}

// ComputeNet returns revenue - cost rounded to cents.
func ComputeNet(revenue, cost float64) float64 {
	return decimal.NewFromFloat(revenue).Sub(decimal.NewFromFloat(cost)).Round(2).InexactFloat64()
}
