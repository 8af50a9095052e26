package stats

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"alphadash/internal/domain/record"
)

// CalendarDay is one cell of the month heatmap.
type CalendarDay struct {
	Date    string  `json:"date"`
	Day     int     `json:"day"`
	Net     float64 `json:"net"`
	Records int     `json:"records"`
}

// CalendarMonth is the heatmap of a month. Offset is the number of blank
// cells before day 1 in a Monday-first grid.
type CalendarMonth struct {
	Month  string        `json:"month"`
	Offset int           `json:"offset"`
	Days   []CalendarDay `json:"days"`
}

// Calendar sums net per day for month (YYYY-MM).
func Calendar(records []record.DailyRecord, month string) (CalendarMonth, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return CalendarMonth{}, ErrInvalidMonth
	}
	daysIn := first.AddDate(0, 1, -1).Day()

	nets := make([]decimal.Decimal, daysIn+1)
	counts := make([]int, daysIn+1)
	for _, r := range records {
		if !strings.HasPrefix(r.Date, month+"-") {
			continue
		}
		t, err := parseDay(r.Date)
		if err != nil {
			continue
		}
		nets[t.Day()] = nets[t.Day()].Add(decimal.NewFromFloat(r.Net))
		counts[t.Day()]++
	}

	out := CalendarMonth{
		Month:  month,
		Offset: (int(first.Weekday()) + 6) % 7,
		Days:   make([]CalendarDay, 0, daysIn),
	}
	for d := 1; d <= daysIn; d++ {
		out.Days = append(out.Days, CalendarDay{
			Date:    first.AddDate(0, 0, d-1).Format(record.DateLayout),
			Day:     d,
			Net:     round(nets[d]),
			Records: counts[d],
		})
	}
	return out, nil
}
