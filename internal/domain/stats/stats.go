// Package stats derives dashboard aggregates from a user's record set.
// Every function is pure: it reads the records it is given and nothing else.
// Missing optional fields count as zero; no record is dropped for lacking them.
package stats

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"alphadash/internal/domain/record"
)

// Domain errors
var (
	ErrInvalidDate  = errors.New("reference date must be YYYY-MM-DD")
	ErrInvalidMonth = errors.New("month must be YYYY-MM")
)

// Totals is a cost/revenue/net sum.
type Totals struct {
	Cost    float64 `json:"cost"`
	Revenue float64 `json:"revenue"`
	Net     float64 `json:"net"`
}

// accumulator sums money exactly and rounds once on output.
type accumulator struct {
	cost, revenue, net decimal.Decimal
}

func (a *accumulator) add(r record.DailyRecord) {
	a.cost = a.cost.Add(decimal.NewFromFloat(r.Cost))
	a.revenue = a.revenue.Add(decimal.NewFromFloat(r.RevenueValue()))
	a.net = a.net.Add(decimal.NewFromFloat(r.Net))
}

func (a accumulator) totals() Totals {
	return Totals{
		Cost:    round(a.cost),
		Revenue: round(a.revenue),
		Net:     round(a.net),
	}
}

func round(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func parseDay(s string) (time.Time, error) {
	t, err := time.Parse(record.DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
