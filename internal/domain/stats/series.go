package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"alphadash/internal/domain/record"
)

// RecentDays is the length of the recent daily slice.
const RecentDays = 30

// DailyPoint is one calendar day summed across accounts.
type DailyPoint struct {
	Date string `json:"date"`
	Totals
}

// WeeklyPoint is the cumulative net at the end of a week.
type WeeklyPoint struct {
	Week   string  `json:"week"`  // Monday, YYYY-MM-DD
	Label  string  `json:"label"` // Monday, M.D
	AccNet float64 `json:"accNet"`
}

// SeriesStats holds chart-ready series.
type SeriesStats struct {
	Daily     []DailyPoint  `json:"daily"`
	Recent30  []DailyPoint  `json:"recent30"`
	Weekly    []WeeklyPoint `json:"weekly"`
	FirstDate string        `json:"firstDate"`
	LastDate  string        `json:"lastDate"`
}

// Series groups records by day and by ISO week (weeks start on Monday).
func Series(records []record.DailyRecord) SeriesStats {
	byDate := make(map[string]*accumulator)
	for _, r := range records {
		acc, ok := byDate[r.Date]
		if !ok {
			acc = &accumulator{}
			byDate[r.Date] = acc
		}
		acc.add(r)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := SeriesStats{
		Daily:    make([]DailyPoint, 0, len(dates)),
		Weekly:   []WeeklyPoint{},
		Recent30: []DailyPoint{},
	}
	running := decimal.Zero
	weekIdx := make(map[string]int)
	for _, d := range dates {
		acc := byDate[d]
		out.Daily = append(out.Daily, DailyPoint{Date: d, Totals: acc.totals()})

		running = running.Add(acc.net)
		monday, err := WeekStart(d)
		if err != nil {
			continue
		}
		point := WeeklyPoint{Week: monday.Format(record.DateLayout), Label: weekLabel(monday), AccNet: round(running)}
		if i, ok := weekIdx[point.Week]; ok {
			out.Weekly[i] = point
		} else {
			weekIdx[point.Week] = len(out.Weekly)
			out.Weekly = append(out.Weekly, point)
		}
	}

	if n := len(out.Daily); n > 0 {
		out.FirstDate = out.Daily[0].Date
		out.LastDate = out.Daily[n-1].Date
		out.Recent30 = out.Daily[max(0, n-RecentDays):]
	}
	return out
}

// WeekStart returns the Monday of the week containing date.
func WeekStart(date string) (time.Time, error) {
	t, err := parseDay(date)
	if err != nil {
		return time.Time{}, err
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset), nil
}

func weekLabel(monday time.Time) string {
	return fmt.Sprintf("%d.%d", int(monday.Month()), monday.Day())
}
