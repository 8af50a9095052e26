package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"alphadash/internal/domain/record"
	"alphadash/internal/domain/stats"
	"alphadash/internal/shared/currency"
	"alphadash/internal/shared/messages"
)

// RecordLister loads a user's records.
type RecordLister interface {
	List(ctx context.Context, uid string) ([]record.DailyRecord, error)
}

// DigestContent is the data a digest message template is rendered with.
type DigestContent struct {
	Date     string
	Net      string
	Revenue  string
	Cost     string
	Score    string
	Accounts int
}

// DigestService sends each user a push with the day's totals.
type DigestService struct {
	notifications *Service
	records       RecordLister
	messages      *messages.Messages
	now           func() time.Time
}

// NewDigestService creates a new digest service
func NewDigestService(notifications *Service, records RecordLister, msgs *messages.Messages) *DigestService {
	return &DigestService{
		notifications: notifications,
		records:       records,
		messages:      msgs,
		now:           time.Now,
	}
}

// Compose builds the digest title and body for summary.
func Compose(msgs *messages.Messages, summary stats.DaySummary) (title, body string, err error) {
	if summary.Accounts == 0 {
		return msgs.NoRecords.Render(DigestContent{Date: summary.Date})
	}
	return msgs.DailyDigest.Render(DigestContent{
		Date:     summary.Date,
		Net:      currency.Signed(summary.Net),
		Revenue:  currency.Format(summary.Revenue),
		Cost:     currency.Format(summary.Cost),
		Score:    strconv.FormatFloat(summary.Score, 'f', -1, 64),
		Accounts: summary.Accounts,
	})
}

// SendDaily computes today's totals for userID and pushes them.
func (d *DigestService) SendDaily(ctx context.Context, userID int64) (stats.DaySummary, error) {
	uid := strconv.FormatInt(userID, 10)
	records, err := d.records.List(ctx, uid)
	if err != nil {
		return stats.DaySummary{}, fmt.Errorf("failed to load records: %w", err)
	}

	today := d.now().Format(record.DateLayout)
	summary, err := stats.Today(records, today)
	if err != nil {
		return stats.DaySummary{}, err
	}

	title, body, err := Compose(d.messages, summary)
	if err != nil {
		return summary, err
	}
	data := map[string]string{"date": today}
	if err := d.notifications.SendToUser(ctx, userID, title, body, CategoryDigest, data); err != nil {
		return summary, fmt.Errorf("failed to send digest: %w", err)
	}
	return summary, nil
}

// Recipients returns the users a digest should be sent to.
func (d *DigestService) Recipients(ctx context.Context) ([]int64, error) {
	return d.notifications.UsersWithDevices(ctx)
}
