package stats

import (
	"strings"

	"github.com/shopspring/decimal"

	"alphadash/internal/domain/record"
)

// MonthStats aggregates the month containing a reference date.
type MonthStats struct {
	Month string `json:"month"`
	Totals
	ROI     float64 `json:"roi"`
	Records int     `json:"records"`
}

// Month sums cost, revenue and net over records in the month of ref.
// ROI is net/cost*100, or 0 when the month has no positive cost.
func Month(records []record.DailyRecord, ref string) (MonthStats, error) {
	if _, err := parseDay(ref); err != nil {
		return MonthStats{}, err
	}
	prefix := ref[:7]

	var acc accumulator
	count := 0
	for _, r := range records {
		if strings.HasPrefix(r.Date, prefix) {
			acc.add(r)
			count++
		}
	}

	stats := MonthStats{Month: prefix, Totals: acc.totals(), Records: count}
	if acc.cost.IsPositive() {
		stats.ROI = round(acc.net.Div(acc.cost).Mul(decimal.NewFromInt(100)))
	}
	return stats, nil
}
