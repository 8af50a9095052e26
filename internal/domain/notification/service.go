package notification

import (
	"context"

	"go.uber.org/zap"
)

// Service contains the business logic for notification operations
type Service struct {
	repo      Repository
	messenger Messenger
	logger    *zap.Logger
}

// NewService creates a new notification service. messenger may be nil, in
// which case notifications are stored but not pushed.
func NewService(repo Repository, messenger Messenger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, messenger: messenger, logger: logger}
}

// RegisterDevice registers a device token for the authenticated user.
// If the token already belongs to another user, it is reassigned.
func (s *Service) RegisterDevice(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpsertDeviceToken(ctx, params)
}

// ListNotifications returns paginated notifications for a user
func (s *Service) ListNotifications(ctx context.Context, userID int64, page, perPage int) ([]*Notification, int, error) {
	if userID <= 0 {
		return nil, 0, ErrInvalidUser
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	return s.repo.ListByUserID(ctx, userID, page, perPage)
}

// UsersWithDevices returns the IDs of users with at least one active token.
func (s *Service) UsersWithDevices(ctx context.Context) ([]int64, error) {
	return s.repo.ListUsersWithActiveTokens(ctx)
}

// SendToUser pushes a notification to every active device of a user and
// stores it. Push failures are logged; the stored record is kept.
func (s *Service) SendToUser(ctx context.Context, userID int64, title, body, category string, data map[string]string) error {
	if !IsValidCategory(category) {
		return ErrInvalidCategory
	}

	tokens, err := s.repo.GetActiveTokensByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		s.logger.Debug("no active device tokens", zap.Int64("user_id", userID))
		return nil
	}

	if data == nil {
		data = make(map[string]string)
	}
	if _, ok := data["route"]; !ok {
		data["route"] = category
	}

	if s.messenger != nil {
		tokenStrings := make([]string, len(tokens))
		for i, t := range tokens {
			tokenStrings[i] = t.Token
		}
		if err := s.messenger.SendMulticast(ctx, tokenStrings, title, body, data); err != nil {
			s.logger.Error("failed to send notification", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	_, err = s.repo.CreateNotification(ctx, CreateNotificationParams{
		UserID:   userID,
		Title:    title,
		Message:  body,
		Category: category,
		Data:     data,
	})
	if err != nil {
		s.logger.Error("failed to store notification", zap.Int64("user_id", userID), zap.Error(err))
	}

	return nil
}
