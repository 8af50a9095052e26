package record

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Demo holds a generated sample data set.
type Demo struct {
	Accounts []string
	Records  []DailyRecord
	Days     int
}

// GenerateDemo builds 60-90 days of sample records ending the day before today.
// maxAccounts bounds the generated account count: a limit of 1 yields one
// account, anything larger yields between 6 and 18 (capped at maxAccounts).
func GenerateDemo(rng *rand.Rand, today time.Time, maxAccounts int) Demo {
	minN, maxN := 1, 1
	if maxAccounts > 1 {
		minN, maxN = 6, min(18, maxAccounts)
		if minN > maxN {
			minN = maxN
		}
	}
	numAccounts := rng.Intn(maxN-minN+1) + minN
	numDays := rng.Intn(31) + 60

	accounts := make([]string, numAccounts)
	balances := make([]float64, numAccounts)
	for i := range accounts {
		accounts[i] = fmt.Sprintf("%d号", i+1)
		balances[i] = rng.Float64()*1500 + 500
	}

	start := today.AddDate(0, 0, -numDays)
	records := make([]DailyRecord, 0, numAccounts*numDays)
	for day := 0; day < numDays; day++ {
		date := start.AddDate(0, 0, day).Format(DateLayout)
		for i, acc := range accounts {
			prev := balances[i]
			score := float64(rng.Intn(20) + 5)
			cost := rng.Float64()*5 + 1
			revenue := 0.0
			if rng.Float64() > 0.7 {
				revenue = float64(rng.Intn(500) + 50)
			}
			balances[i] = max(0, prev+revenue-cost)

			records = append(records, DailyRecord{
				Date:        date,
				AccountID:   acc,
				Score:       score,
				Balance:     Float(round2(balances[i])),
				PrevBalance: Float(round2(prev)),
				Revenue:     Float(revenue),
				Cost:        round2(cost),
				Net:         round2(revenue - cost),
				ProjectID:   ProjectDemo,
			})
		}
	}
	SortByDateDesc(records)
	return Demo{Accounts: accounts, Records: records, Days: numDays}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
