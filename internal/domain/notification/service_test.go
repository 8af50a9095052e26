package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"alphadash/internal/domain/record"
	"alphadash/internal/domain/stats"
	"alphadash/internal/shared/messages"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	UpsertDeviceTokenFunc         func(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error)
	GetActiveTokensByUserIDFunc   func(ctx context.Context, userID int64) ([]*DeviceToken, error)
	ListUsersWithActiveTokensFunc func(ctx context.Context) ([]int64, error)
	DeactivateTokenFunc           func(ctx context.Context, token string) error
	CreateNotificationFunc        func(ctx context.Context, params CreateNotificationParams) (*Notification, error)
	ListByUserIDFunc              func(ctx context.Context, userID int64, page, perPage int) ([]*Notification, int, error)
}

func (m *MockRepository) UpsertDeviceToken(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if m.UpsertDeviceTokenFunc != nil {
		return m.UpsertDeviceTokenFunc(ctx, params)
	}
	return &DeviceToken{UserID: params.UserID, Token: params.Token, DeviceType: params.DeviceType, IsActive: true}, nil
}

func (m *MockRepository) GetActiveTokensByUserID(ctx context.Context, userID int64) ([]*DeviceToken, error) {
	if m.GetActiveTokensByUserIDFunc != nil {
		return m.GetActiveTokensByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) ListUsersWithActiveTokens(ctx context.Context) ([]int64, error) {
	if m.ListUsersWithActiveTokensFunc != nil {
		return m.ListUsersWithActiveTokensFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) DeactivateToken(ctx context.Context, token string) error {
	if m.DeactivateTokenFunc != nil {
		return m.DeactivateTokenFunc(ctx, token)
	}
	return nil
}

func (m *MockRepository) CreateNotification(ctx context.Context, params CreateNotificationParams) (*Notification, error) {
	if m.CreateNotificationFunc != nil {
		return m.CreateNotificationFunc(ctx, params)
	}
	return &Notification{}, nil
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Notification, int, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, page, perPage)
	}
	return nil, 0, nil
}

// MockMessenger records multicast sends
type MockMessenger struct {
	SendMulticastFunc func(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

func (m *MockMessenger) Send(ctx context.Context, token string, title, body string, data map[string]string) error {
	return nil
}

func (m *MockMessenger) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	if m.SendMulticastFunc != nil {
		return m.SendMulticastFunc(ctx, tokens, title, body, data)
	}
	return nil
}

type recordListerFunc func(ctx context.Context, uid string) ([]record.DailyRecord, error)

func (f recordListerFunc) List(ctx context.Context, uid string) ([]record.DailyRecord, error) {
	return f(ctx, uid)
}

func TestCreateDeviceTokenParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  CreateDeviceTokenParams
		wantErr error
	}{
		{name: "valid", params: CreateDeviceTokenParams{UserID: 1, Token: "t", DeviceType: "web"}},
		{name: "no user", params: CreateDeviceTokenParams{Token: "t", DeviceType: "ios"}, wantErr: ErrInvalidUser},
		{name: "no token", params: CreateDeviceTokenParams{UserID: 1, DeviceType: "ios"}, wantErr: ErrInvalidToken},
		{name: "bad type", params: CreateDeviceTokenParams{UserID: 1, Token: "t", DeviceType: "fax"}, wantErr: ErrInvalidDeviceType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.params.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_SendToUser(t *testing.T) {
	var sentTokens []string
	var stored *CreateNotificationParams
	repo := &MockRepository{
		GetActiveTokensByUserIDFunc: func(ctx context.Context, userID int64) ([]*DeviceToken, error) {
			return []*DeviceToken{{Token: "a"}, {Token: "b"}}, nil
		},
		CreateNotificationFunc: func(ctx context.Context, params CreateNotificationParams) (*Notification, error) {
			stored = &params
			return &Notification{}, nil
		},
	}
	messenger := &MockMessenger{SendMulticastFunc: func(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
		sentTokens = tokens
		return errors.New("fcm unavailable")
	}}

	svc := NewService(repo, messenger, nil)
	if err := svc.SendToUser(context.Background(), 7, "t", "b", CategoryDigest, nil); err != nil {
		t.Fatalf("SendToUser() error = %v", err)
	}
	if len(sentTokens) != 2 {
		t.Errorf("sent to %v", sentTokens)
	}
	if stored == nil || stored.Data["route"] != CategoryDigest {
		t.Errorf("stored notification = %+v", stored)
	}

	if err := svc.SendToUser(context.Background(), 7, "t", "b", "budgets", nil); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("SendToUser() bad category error = %v", err)
	}
}

func TestService_SendToUser_NoTokens(t *testing.T) {
	called := false
	messenger := &MockMessenger{SendMulticastFunc: func(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
		called = true
		return nil
	}}
	if err := NewService(&MockRepository{}, messenger, nil).SendToUser(context.Background(), 7, "t", "b", CategoryGeneral, nil); err != nil {
		t.Fatalf("SendToUser() error = %v", err)
	}
	if called {
		t.Error("messenger should not be called without tokens")
	}
}

func TestCompose(t *testing.T) {
	msgs, err := messages.Load("")
	if err != nil {
		t.Fatal(err)
	}

	summary := stats.DaySummary{Date: "2026-01-02", Totals: stats.Totals{Cost: 5, Revenue: 50, Net: 45}, Score: 22, Accounts: 2}
	title, body, err := Compose(msgs, summary)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !strings.Contains(title, "2026-01-02") {
		t.Errorf("title = %q", title)
	}
	for _, want := range []string{"+$45.00", "$50.00", "$5.00", "22", "2 个账号"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}

	_, empty, err := Compose(msgs, stats.DaySummary{Date: "2026-01-03"})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !strings.Contains(empty, "2026-01-03") || strings.Contains(empty, "$") {
		t.Errorf("empty-day body = %q", empty)
	}
}

func TestDigestService_SendDaily(t *testing.T) {
	msgs, err := messages.Load("")
	if err != nil {
		t.Fatal(err)
	}
	var gotUID string
	lister := recordListerFunc(func(ctx context.Context, uid string) ([]record.DailyRecord, error) {
		gotUID = uid
		return []record.DailyRecord{
			{Date: "2026-04-10", AccountID: "1号", Score: 10, Revenue: record.Float(20), Cost: 2, Net: 18},
			{Date: "2026-04-09", AccountID: "1号", Score: 9, Cost: 1, Net: -1},
		}, nil
	})

	var sentBody string
	repo := &MockRepository{GetActiveTokensByUserIDFunc: func(ctx context.Context, userID int64) ([]*DeviceToken, error) {
		return []*DeviceToken{{Token: "a"}}, nil
	}}
	messenger := &MockMessenger{SendMulticastFunc: func(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
		sentBody = body
		return nil
	}}

	d := NewDigestService(NewService(repo, messenger, nil), lister, msgs)
	d.now = func() time.Time { return time.Date(2026, 4, 10, 21, 0, 0, 0, time.UTC) }

	summary, err := d.SendDaily(context.Background(), 42)
	if err != nil {
		t.Fatalf("SendDaily() error = %v", err)
	}
	if gotUID != "42" {
		t.Errorf("records loaded for uid %q", gotUID)
	}
	if summary.Net != 18 || summary.Accounts != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if !strings.Contains(sentBody, "+$18.00") {
		t.Errorf("sent body = %q", sentBody)
	}
}
