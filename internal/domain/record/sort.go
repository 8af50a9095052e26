package record

import (
	"sort"
	"strconv"
	"strings"
)

// SortByDateDesc orders records newest first, then by account label.
func SortByDateDesc(records []DailyRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return LessAccount(records[i].AccountID, records[j].AccountID)
	})
}

// Merge overlays incoming onto existing by composite key, incoming winning,
// and returns the merged set sorted by date descending.
func Merge(existing, incoming []DailyRecord) []DailyRecord {
	byKey := make(map[string]DailyRecord, len(existing)+len(incoming))
	for _, r := range existing {
		byKey[r.Key()] = r
	}
	for _, r := range incoming {
		byKey[r.Key()] = r
	}
	merged := make([]DailyRecord, 0, len(byKey))
	for _, r := range byKey {
		merged = append(merged, r)
	}
	SortByDateDesc(merged)
	return merged
}

// AccountNumber extracts N from a label like "N号". Returns 0 when absent.
func AccountNumber(label string) int {
	digits := strings.TrimSuffix(label, "号")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// LessAccount orders account labels by their number, falling back to text.
func LessAccount(a, b string) bool {
	na, nb := AccountNumber(a), AccountNumber(b)
	if na != nb && na > 0 && nb > 0 {
		return na < nb
	}
	return a < b
}
