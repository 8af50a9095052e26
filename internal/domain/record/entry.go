package record

// InitialBalances seeds the previous balance of the first eight accounts
// when neither today's nor yesterday's record carries one.
var InitialBalances = map[string]float64{
	"1号": 1972.25, "2号": 1649.62, "3号": 634.15, "4号": 1104.15,
	"5号": 573.54, "6号": 529.05, "7号": 635.33, "8号": 639.45,
}

// ResolvePrevBalance picks the effective previous balance for a day:
// today's saved prevBalance, else yesterday's balance, else staticDefault.
func ResolvePrevBalance(today, yesterday *DailyRecord, staticDefault float64) float64 {
	if today != nil && today.PrevBalance != nil {
		return *today.PrevBalance
	}
	if yesterday != nil && yesterday.Balance != nil {
		return *yesterday.Balance
	}
	return staticDefault
}

// BatchRow is one account's input in a batch entry. Nil fields were left blank.
type BatchRow struct {
	AccountID     string   `json:"accountId"`
	Score         *float64 `json:"score,omitempty"`
	Balance       *float64 `json:"balance,omitempty"`
	Revenue       *float64 `json:"revenue,omitempty"`
	BalanceAdjust *float64 `json:"balanceAdjust,omitempty"`
	PrevBalance   *float64 `json:"prevBalance,omitempty"`
}

// BuildBatch turns batch-entry rows for date into full replacement records.
// Blank fields fall back to the existing record for that day. A row produces a
// record only when a score, balance or revenue is present, or when its
// prevBalance differs from the resolved default.
func BuildBatch(date string, rows []BatchRow, existing []DailyRecord, defaults map[string]float64) ([]DailyRecord, error) {
	yesterdayDate, err := ShiftDate(date, -1)
	if err != nil {
		return nil, err
	}
	index := Index(existing)

	out := make([]DailyRecord, 0, len(rows))
	for _, row := range rows {
		if row.AccountID == "" {
			return nil, ErrMissingAccount
		}
		today := index[Key(date, row.AccountID)]
		yesterday := index[Key(yesterdayDate, row.AccountID)]
		resolved := ResolvePrevBalance(today, yesterday, defaults[row.AccountID])

		score, balance, revenue, adjust := row.Score, row.Balance, row.Revenue, row.BalanceAdjust
		if today != nil {
			if score == nil {
				score = Float(today.Score)
			}
			if balance == nil {
				balance = today.Balance
			}
			if revenue == nil {
				revenue = today.Revenue
			}
			if adjust == nil {
				adjust = today.BalanceAdjust
			}
		}

		prev := resolved
		if row.PrevBalance != nil {
			prev = *row.PrevBalance
		}
		prevChanged := prev != resolved
		if score == nil && balance == nil && revenue == nil && !prevChanged {
			continue
		}

		cost := ComputeCost(prev, Value(adjust), Value(balance))
		out = append(out, DailyRecord{
			Date:          date,
			AccountID:     row.AccountID,
			Score:         Value(score),
			Balance:       Float(Value(balance)),
			Revenue:       Float(Value(revenue)),
			Cost:          cost,
			Net:           ComputeNet(Value(revenue), cost),
			ProjectID:     ProjectManual,
			BalanceAdjust: Float(Value(adjust)),
			PrevBalance:   Float(prev),
		})
	}
	return out, nil
}

// ApplyScore returns the replacement record for a live score edit, keeping the
// other fields of current when it exists.
func ApplyScore(current *DailyRecord, date, accountID string, score float64) DailyRecord {
	if current == nil {
		return DailyRecord{
			Date:      date,
			AccountID: accountID,
			Score:     score,
			Balance:   Float(0),
			Revenue:   Float(0),
			ProjectID: ProjectManual,
		}
	}
	next := *current
	next.Score = score
	return next
}

// Index maps records by composite key. Later records win.
func Index(records []DailyRecord) map[string]*DailyRecord {
	idx := make(map[string]*DailyRecord, len(records))
	for i := range records {
		idx[records[i].Key()] = &records[i]
	}
	return idx
}
