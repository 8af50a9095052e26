package stats

import (
	"sort"

	"alphadash/internal/domain/record"
)

// AccountHistory is the lifetime summary of one account.
type AccountHistory struct {
	AccountID string `json:"accountId"`
	Totals
	Airdrops int `json:"airdrops"`
	Records  int `json:"records"`
}

// HistoryStats is the lifetime summary of a record set.
type HistoryStats struct {
	Totals
	Airdrops   int              `json:"airdrops"`
	PerAccount []AccountHistory `json:"perAccount"`
}

// History sums every record. Per-account rows are produced for each label in
// accounts, in label order, including accounts without records. A record with
// positive revenue counts as one airdrop.
func History(records []record.DailyRecord, accounts []string) HistoryStats {
	var total accumulator
	airdrops := 0
	per := make(map[string]*accumulator, len(accounts))
	perDrops := make(map[string]int, len(accounts))
	perCount := make(map[string]int, len(accounts))
	for _, acc := range accounts {
		per[acc] = &accumulator{}
	}

	for _, r := range records {
		total.add(r)
		drop := r.RevenueValue() > 0
		if drop {
			airdrops++
		}
		if acc, ok := per[r.AccountID]; ok {
			acc.add(r)
			perCount[r.AccountID]++
			if drop {
				perDrops[r.AccountID]++
			}
		}
	}

	labels := append([]string(nil), accounts...)
	sort.SliceStable(labels, func(i, j int) bool { return record.LessAccount(labels[i], labels[j]) })

	out := HistoryStats{Totals: total.totals(), Airdrops: airdrops, PerAccount: make([]AccountHistory, 0, len(labels))}
	for _, acc := range labels {
		out.PerAccount = append(out.PerAccount, AccountHistory{
			AccountID: acc,
			Totals:    per[acc].totals(),
			Airdrops:  perDrops[acc],
			Records:   perCount[acc],
		})
	}
	return out
}
