package record

import (
	"errors"
	"time"
)

// DateLayout is the calendar-day layout used for record dates and keys.
const DateLayout = "2006-01-02"

// Record origins stored in ProjectID.
const (
	ProjectManual = "Manual"
	ProjectSeed   = "Seed"
	ProjectImport = "Import"
	ProjectDemo   = "Demo"
)

// Domain errors
var (
	ErrInvalidDate    = errors.New("record date must be YYYY-MM-DD")
	ErrMissingAccount = errors.New("record account is required")
	ErrInvalidUser    = errors.New("valid user ID is required")
	ErrNoRecords      = errors.New("no records to commit")
)

// DailyRecord is the snapshot of one account on one calendar day.
// At most one record exists per (Date, AccountID); a later write replaces it.
type DailyRecord struct {
	Date          string   `json:"date" firestore:"date"`
	AccountID     string   `json:"accountId" firestore:"accountId"`
	Score         float64  `json:"score" firestore:"score"`
	Balance       *float64 `json:"balance,omitempty" firestore:"balance,omitempty"`
	Revenue       *float64 `json:"revenue,omitempty" firestore:"revenue,omitempty"`
	Cost          float64  `json:"cost" firestore:"cost"`
	Net           float64  `json:"net" firestore:"net"`
	ProjectID     string   `json:"projectId,omitempty" firestore:"projectId,omitempty"`
	BalanceAdjust *float64 `json:"balanceAdjust,omitempty" firestore:"balanceAdjust,omitempty"`
	PrevBalance   *float64 `json:"prevBalance,omitempty" firestore:"prevBalance,omitempty"`
}

// Key returns the composite (date, account) key shared by every backend.
func (r DailyRecord) Key() string {
	return Key(r.Date, r.AccountID)
}

// Key builds the composite key `date_accountId`.
func Key(date, accountID string) string {
	return date + "_" + accountID
}

// Validate checks the fields every record must carry.
// Optional numeric fields default to zero and are never an error.
func (r DailyRecord) Validate() error {
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return ErrInvalidDate
	}
	if r.AccountID == "" {
		return ErrMissingAccount
	}
	return nil
}

func (r DailyRecord) BalanceValue() float64       { return Value(r.Balance) }
func (r DailyRecord) RevenueValue() float64       { return Value(r.Revenue) }
func (r DailyRecord) BalanceAdjustValue() float64 { return Value(r.BalanceAdjust) }
func (r DailyRecord) PrevBalanceValue() float64   { return Value(r.PrevBalance) }

// Float returns a pointer to v, for filling optional fields.
func Float(v float64) *float64 {
	return &v
}

// Value dereferences an optional field, treating absence as zero.
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// ShiftDate returns the calendar day `days` away from date.
func ShiftDate(date string, days int) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}
