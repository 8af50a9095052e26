package http

import (
	"context"
	"net/http"
	"sync"

	"alphadash/internal/domain/notification"
	"alphadash/internal/domain/record"
	"alphadash/internal/domain/subscription"
	"alphadash/internal/shared/middleware"
)

// MockRecordRepo implements record.Repository for testing. Without a Func
// override it behaves as an in-memory store.
type MockRecordRepo struct {
	FetchFunc       func(ctx context.Context, uid string) ([]record.DailyRecord, error)
	CommitBatchFunc func(ctx context.Context, uid string, records []record.DailyRecord) error
	ClearAllFunc    func(ctx context.Context, uid string) (int, error)

	mu      sync.Mutex
	records map[string]map[string]record.DailyRecord
}

func (m *MockRecordRepo) Fetch(ctx context.Context, uid string) ([]record.DailyRecord, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, uid)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]record.DailyRecord, 0, len(m.records[uid]))
	for _, r := range m.records[uid] {
		out = append(out, r)
	}
	record.SortByDateDesc(out)
	return out, nil
}

func (m *MockRecordRepo) CommitBatch(ctx context.Context, uid string, records []record.DailyRecord) error {
	if m.CommitBatchFunc != nil {
		return m.CommitBatchFunc(ctx, uid, records)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = make(map[string]map[string]record.DailyRecord)
	}
	if m.records[uid] == nil {
		m.records[uid] = make(map[string]record.DailyRecord)
	}
	for _, r := range records {
		m.records[uid][r.Key()] = r
	}
	return nil
}

func (m *MockRecordRepo) ClearAll(ctx context.Context, uid string) (int, error) {
	if m.ClearAllFunc != nil {
		return m.ClearAllFunc(ctx, uid)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.records[uid])
	delete(m.records, uid)
	return n, nil
}

// MockAccountRepo implements account.Repository for testing
type MockAccountRepo struct {
	GetFunc  func(ctx context.Context, uid string) ([]string, error)
	SaveFunc func(ctx context.Context, uid string, labels []string) error

	labels map[string][]string
}

func (m *MockAccountRepo) Get(ctx context.Context, uid string) ([]string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, uid)
	}
	return m.labels[uid], nil
}

func (m *MockAccountRepo) Save(ctx context.Context, uid string, labels []string) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, uid, labels)
	}
	if m.labels == nil {
		m.labels = make(map[string][]string)
	}
	m.labels[uid] = append([]string(nil), labels...)
	return nil
}

// fixedLimit implements account.LimitSource
type fixedLimit int

func (f fixedLimit) AccountLimit(ctx context.Context, uid string) (int, error) {
	return int(f), nil
}

// MockSubscriptionRepo implements subscription.Repository for testing
type MockSubscriptionRepo struct {
	GetFunc  func(ctx context.Context, uid string) (subscription.Subscription, error)
	SaveFunc func(ctx context.Context, uid string, sub subscription.Subscription) error

	saved map[string]subscription.Subscription
}

func (m *MockSubscriptionRepo) Get(ctx context.Context, uid string) (subscription.Subscription, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, uid)
	}
	if sub, ok := m.saved[uid]; ok {
		return sub, nil
	}
	return subscription.Default(), nil
}

func (m *MockSubscriptionRepo) Save(ctx context.Context, uid string, sub subscription.Subscription) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, uid, sub)
	}
	if m.saved == nil {
		m.saved = make(map[string]subscription.Subscription)
	}
	m.saved[uid] = sub
	return nil
}

// MockVerifier implements subscription.Verifier for testing
type MockVerifier struct {
	VerifyFunc func(ctx context.Context, proof subscription.Proof) (subscription.Decision, error)
}

func (m *MockVerifier) Verify(ctx context.Context, proof subscription.Proof) (subscription.Decision, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, proof)
	}
	if err := proof.Validate(); err != nil {
		return subscription.Decision{}, err
	}
	return subscription.Decision{AttemptID: "attempt-1", Approved: true}, nil
}

// MockNotificationRepo implements notification.Repository for testing
type MockNotificationRepo struct {
	UpsertDeviceTokenFunc         func(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error)
	GetActiveTokensByUserIDFunc   func(ctx context.Context, userID int64) ([]*notification.DeviceToken, error)
	ListUsersWithActiveTokensFunc func(ctx context.Context) ([]int64, error)
	DeactivateTokenFunc           func(ctx context.Context, token string) error
	CreateNotificationFunc        func(ctx context.Context, params notification.CreateNotificationParams) (*notification.Notification, error)
	ListByUserIDFunc              func(ctx context.Context, userID int64, page, perPage int) ([]*notification.Notification, int, error)
}

func (m *MockNotificationRepo) UpsertDeviceToken(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error) {
	if m.UpsertDeviceTokenFunc != nil {
		return m.UpsertDeviceTokenFunc(ctx, params)
	}
	return &notification.DeviceToken{UserID: params.UserID, Token: params.Token, DeviceType: params.DeviceType, IsActive: true}, nil
}

func (m *MockNotificationRepo) GetActiveTokensByUserID(ctx context.Context, userID int64) ([]*notification.DeviceToken, error) {
	if m.GetActiveTokensByUserIDFunc != nil {
		return m.GetActiveTokensByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockNotificationRepo) ListUsersWithActiveTokens(ctx context.Context) ([]int64, error) {
	if m.ListUsersWithActiveTokensFunc != nil {
		return m.ListUsersWithActiveTokensFunc(ctx)
	}
	return nil, nil
}

func (m *MockNotificationRepo) DeactivateToken(ctx context.Context, token string) error {
	if m.DeactivateTokenFunc != nil {
		return m.DeactivateTokenFunc(ctx, token)
	}
	return nil
}

func (m *MockNotificationRepo) CreateNotification(ctx context.Context, params notification.CreateNotificationParams) (*notification.Notification, error) {
	if m.CreateNotificationFunc != nil {
		return m.CreateNotificationFunc(ctx, params)
	}
	return &notification.Notification{UserID: params.UserID, Title: params.Title, Message: params.Message, Category: params.Category}, nil
}

func (m *MockNotificationRepo) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*notification.Notification, int, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, page, perPage)
	}
	return nil, 0, nil
}

// withUser attaches an authenticated user to req as the auth middleware does.
func withUser(req *http.Request, userID int64) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}
