package stats

import "alphadash/internal/domain/record"

// DaySummary is the one-day total shown on the share poster and digest.
type DaySummary struct {
	Date string `json:"date"`
	Totals
	Score    float64 `json:"score"`
	Accounts int     `json:"accounts"`
}

// Today sums every account's record for date.
func Today(records []record.DailyRecord, date string) (DaySummary, error) {
	if _, err := parseDay(date); err != nil {
		return DaySummary{}, err
	}
	var acc accumulator
	out := DaySummary{Date: date}
	for _, r := range records {
		if r.Date != date {
			continue
		}
		acc.add(r)
		out.Score += r.Score
		out.Accounts++
	}
	out.Totals = acc.totals()
	return out, nil
}
