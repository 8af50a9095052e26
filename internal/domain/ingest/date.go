package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"alphadash/internal/domain/record"
)

var (
	yearFirst  = regexp.MustCompile(`^(\d{4})[/.\-](\d{1,2})[/.\-](\d{1,2})$`)
	monthFirst = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4})$`)
)

var isoLayouts = []string{
	record.DateLayout,
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate normalizes a pasted date to YYYY-MM-DD. ISO forms are tried
// first, then year-first numeric forms (2026/1/29, 2026.1.29), then
// month-first forms (1/29/2026).
func ParseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(record.DateLayout), true
		}
	}
	if m := yearFirst.FindStringSubmatch(s); m != nil {
		return civilDate(m[1], m[2], m[3])
	}
	if m := monthFirst.FindStringSubmatch(s); m != nil {
		return civilDate(m[3], m[1], m[2])
	}
	return "", false
}

func civilDate(year, month, day string) (string, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	formatted := fmt.Sprintf("%04d-%02d-%02d", y, m, d)
	if _, err := time.Parse(record.DateLayout, formatted); err != nil {
		return "", false
	}
	return formatted, true
}
