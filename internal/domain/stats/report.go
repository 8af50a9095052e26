package stats

import (
	"fmt"
	"sort"

	"alphadash/internal/domain/record"
)

// Period is a half-month reporting bucket.
type Period struct {
	Period string `json:"period"` // YYYY.MM.上 (days 1-15) or YYYY.MM.下
	Start  string `json:"start"`
	Totals
	Records int `json:"records"`
}

// HalfMonth buckets records into half-month periods, newest period first.
func HalfMonth(records []record.DailyRecord) []Period {
	type bucket struct {
		start string
		acc   accumulator
		count int
	}
	buckets := make(map[string]*bucket)
	for _, r := range records {
		t, err := parseDay(r.Date)
		if err != nil {
			continue
		}
		half, startDay := "上", 1
		if t.Day() > 15 {
			half, startDay = "下", 16
		}
		label := fmt.Sprintf("%04d.%02d.%s", t.Year(), int(t.Month()), half)
		b, ok := buckets[label]
		if !ok {
			b = &bucket{start: fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), startDay)}
			buckets[label] = b
		}
		b.acc.add(r)
		b.count++
	}

	out := make([]Period, 0, len(buckets))
	for label, b := range buckets {
		out = append(out, Period{Period: label, Start: b.start, Totals: b.acc.totals(), Records: b.count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start > out[j].Start })
	return out
}
