package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"alphadash/internal/domain/notification"
)

func TestHandleRegisterDevice(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockRepo       func() *MockNotificationRepo
		expectedStatus int
	}{
		{
			name: "Success",
			body: `{"token":"fcm-token","device_type":"ios"}`,
			mockRepo: func() *MockNotificationRepo {
				return &MockNotificationRepo{
					UpsertDeviceTokenFunc: func(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error) {
						if params.UserID != 5 || params.Token != "fcm-token" {
							return nil, errors.New("wrong params")
						}
						return &notification.DeviceToken{ID: "dt-1", UserID: params.UserID, Token: params.Token, DeviceType: params.DeviceType, IsActive: true}, nil
					},
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing Token",
			body:           `{"device_type":"ios"}`,
			mockRepo:       func() *MockNotificationRepo { return &MockNotificationRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid Device Type",
			body:           `{"token":"t","device_type":"fridge"}`,
			mockRepo:       func() *MockNotificationRepo { return &MockNotificationRepo{} },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Repository Error",
			body: `{"token":"t","device_type":"android"}`,
			mockRepo: func() *MockNotificationRepo {
				return &MockNotificationRepo{
					UpsertDeviceTokenFunc: func(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error) {
						return nil, errors.New("db error")
					},
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := notification.NewService(tt.mockRepo(), nil, zap.NewNop())
			handler := NewNotificationHandler(service, zap.NewNop())

			req := withUser(httptest.NewRequest(http.MethodPost, "/api/notifications/register-device", strings.NewReader(tt.body)), 5)
			rr := httptest.NewRecorder()
			handler.HandleRegisterDevice(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v (%s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestHandleNotifications(t *testing.T) {
	repo := &MockNotificationRepo{
		ListByUserIDFunc: func(ctx context.Context, userID int64, page, perPage int) ([]*notification.Notification, int, error) {
			if page != 2 || perPage != 1 {
				return nil, 0, errors.New("unexpected pagination")
			}
			return []*notification.Notification{
				{ID: "n-2", UserID: userID, Title: "Daily summary", Message: "Net +$12.00", Category: notification.CategoryDigest, CreatedAt: time.Now()},
			}, 3, nil
		},
	}
	handler := NewNotificationHandler(notification.NewService(repo, nil, zap.NewNop()), zap.NewNop())

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/notifications?page=2&per_page=1", nil), 5)
	rr := httptest.NewRecorder()
	handler.HandleNotifications(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	var resp NotificationListResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if len(resp.Notifications) != 1 || resp.Pagination.Pages != 3 || resp.Pagination.Total != 3 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Notifications[0].Data == nil {
		t.Error("data should be an empty object, not null")
	}
}
