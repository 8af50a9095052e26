// Package currency formats dashboard amounts for display.
package currency

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Code is the currency every amount is displayed in.
const Code = money.USD

// Format renders amount with the currency symbol, e.g. "$1,234.50".
func Format(amount float64) string {
	cur := money.GetCurrency(Code)
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Signed is Format with an explicit "+" for positive amounts.
func Signed(amount float64) string {
	if amount > 0 {
		return "+" + Format(amount)
	}
	return Format(amount)
}

// Percent renders a percentage with two decimals.
func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}
