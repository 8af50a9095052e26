package stats

import (
	"strconv"
	"strings"
	"time"

	"alphadash/internal/domain/record"
)

// ScoreWindow is the number of calendar days in a rolling score.
const ScoreWindow = 15

// AccountScore is the rolling score board entry for one account.
type AccountScore struct {
	AccountID      string   `json:"accountId"`
	YesterdayTotal float64  `json:"yesterdayTotal"`
	CurrentTotal   float64  `json:"currentTotal"`
	DailyScore     float64  `json:"dailyScore"`
	DropScore      float64  `json:"dropScore"`
	Predicted      float64  `json:"predicted"`
	Reasons        []string `json:"reasons"`
	Reason         string   `json:"reason"`
}

// RollingScore sums an account's score over the ScoreWindow days ending at
// end, inclusive. Each day is looked up on its own; missing days add 0.
func RollingScore(records []record.DailyRecord, accountID string, end time.Time) float64 {
	return rollingScore(record.Index(records), accountID, end)
}

func rollingScore(idx map[string]*record.DailyRecord, accountID string, end time.Time) float64 {
	sum := 0.0
	for i := 0; i < ScoreWindow; i++ {
		day := end.AddDate(0, 0, -i).Format(record.DateLayout)
		if r, ok := idx[record.Key(day, accountID)]; ok {
			sum += r.Score
		}
	}
	return sum
}

// Scores builds the score board for selected. The current total ends the day
// before selected; the prediction for tomorrow adds selected's score and
// subtracts the score leaving the window (yesterday - 14 days).
func Scores(records []record.DailyRecord, accounts []string, selected string) ([]AccountScore, error) {
	day, err := parseDay(selected)
	if err != nil {
		return nil, err
	}
	idx := record.Index(records)
	yesterday := day.AddDate(0, 0, -1)
	dropDay := yesterday.AddDate(0, 0, -(ScoreWindow - 1)).Format(record.DateLayout)

	out := make([]AccountScore, 0, len(accounts))
	for _, acc := range accounts {
		s := AccountScore{
			AccountID:      acc,
			CurrentTotal:   rollingScore(idx, acc, yesterday),
			YesterdayTotal: rollingScore(idx, acc, yesterday.AddDate(0, 0, -1)),
		}

		revenue := 0.0
		if today, ok := idx[record.Key(selected, acc)]; ok {
			s.DailyScore = today.Score
			revenue = today.RevenueValue()
		}
		if drop, ok := idx[record.Key(dropDay, acc)]; ok {
			s.DropScore = drop.Score
		}
		s.Predicted = s.CurrentTotal + s.DailyScore - s.DropScore

		s.Reasons = []string{}
		if s.DailyScore > 0 {
			s.Reasons = append(s.Reasons, "+"+formatScore(s.DailyScore))
		}
		if s.DropScore > 0 {
			s.Reasons = append(s.Reasons, "-"+formatScore(s.DropScore))
		}
		if revenue > 0 {
			s.Reasons = append(s.Reasons, "空投")
		}
		s.Reason = strings.Join(s.Reasons, " ")

		out = append(out, s)
	}
	return out, nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
