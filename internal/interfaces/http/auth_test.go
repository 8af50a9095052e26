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
	"golang.org/x/oauth2"

	"alphadash/internal/domain/user"
	"alphadash/internal/shared/auth"
	"alphadash/internal/shared/middleware"
)

const testSecret = "test-secret-key-for-handlers"

// MockOAuthProvider implements auth.OAuthProvider for testing
type MockOAuthProvider struct {
	ExchangeCodeFunc func(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfoFunc  func(ctx context.Context, token *oauth2.Token) (*auth.OAuthUserInfo, error)
}

func (m *MockOAuthProvider) GetAuthURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	return &oauth2.Token{AccessToken: "access-" + code}, nil
}

func (m *MockOAuthProvider) GetUserInfo(ctx context.Context, token *oauth2.Token) (*auth.OAuthUserInfo, error) {
	if m.GetUserInfoFunc != nil {
		return m.GetUserInfoFunc(ctx, token)
	}
	return &auth.OAuthUserInfo{ID: "g-1", Email: "farmer@example.com", Name: "Farmer"}, nil
}

func newAuthHandler(repo *MockUserRepo, provider auth.OAuthProvider) (*AuthHandler, *auth.JWT) {
	jwt := auth.NewJWT(testSecret, time.Hour)
	return NewAuthHandler(repo, provider, jwt, "/app", zap.NewNop()), jwt
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHandleRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		createErr      error
		expectedStatus int
	}{
		{"Success", `{"email":" Farmer@Example.com ","password":"secret1"}`, nil, http.StatusCreated},
		{"Short Password", `{"email":"farmer@example.com","password":"12345"}`, nil, http.StatusBadRequest},
		{"Invalid Email", `{"email":"farmer","password":"secret1"}`, nil, http.StatusBadRequest},
		{"Email Taken", `{"email":"farmer@example.com","password":"secret1"}`, user.ErrEmailTaken, http.StatusConflict},
		{"Database Error", `{"email":"farmer@example.com","password":"secret1"}`, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created user.CreateUserParams
			repo := &MockUserRepo{
				CreateFunc: func(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
					if tt.createErr != nil {
						return nil, tt.createErr
					}
					created = params
					return &user.User{ID: 9, Email: params.Email, Name: params.Name}, nil
				},
			}
			handler, jwt := newAuthHandler(repo, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.HandleRegister(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v (%s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if tt.expectedStatus != http.StatusCreated {
				return
			}

			if created.Email != "farmer@example.com" || created.Name != "farmer" {
				t.Errorf("created params = %+v", created)
			}
			if created.PasswordHash == nil || !auth.MatchPassword(created.PasswordHash, "secret1") {
				t.Error("password was not hashed with bcrypt")
			}

			cookie := findCookie(rr, middleware.AccessTokenCookie)
			if cookie == nil || !cookie.HttpOnly {
				t.Fatal("expected an HttpOnly access_token cookie")
			}
			claims, err := jwt.Validate(cookie.Value)
			if err != nil || claims.UserID != 9 {
				t.Errorf("cookie token invalid: %v %+v", err, claims)
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"Success", `{"email":"farmer@example.com","password":"secret1"}`, http.StatusOK},
		{"Wrong Password", `{"email":"farmer@example.com","password":"secret2"}`, http.StatusUnauthorized},
		{"Unknown Email", `{"email":"nobody@example.com","password":"secret1"}`, http.StatusUnauthorized},
		{"Malformed Email", `{"email":"nobody","password":"secret1"}`, http.StatusUnauthorized},
		{"Invalid Body", `{"email":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockUserRepo{
				GetByEmailFunc: func(ctx context.Context, email string) (*user.User, error) {
					if email != "farmer@example.com" {
						return nil, user.ErrUserNotFound
					}
					return &user.User{ID: 3, Email: email, PasswordHash: &hash}, nil
				},
			}
			handler, _ := newAuthHandler(repo, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.HandleLogin(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if tt.expectedStatus == http.StatusOK {
				var resp AuthResponse
				json.NewDecoder(rr.Body).Decode(&resp)
				if resp.Token == "" || resp.User == nil || resp.User.ID != 3 {
					t.Errorf("unexpected response %+v", resp)
				}
			}
		})
	}
}

func TestHandleLogout(t *testing.T) {
	handler, _ := newAuthHandler(&MockUserRepo{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rr := httptest.NewRecorder()
	handler.HandleLogout(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusNoContent)
	}
	cookie := findCookie(rr, middleware.AccessTokenCookie)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Errorf("expected the access_token cookie to be cleared, got %+v", cookie)
	}
}

func TestHandleAuthURL(t *testing.T) {
	t.Run("Not Configured", func(t *testing.T) {
		handler, _ := newAuthHandler(&MockUserRepo{}, nil)
		rr := httptest.NewRecorder()
		handler.HandleAuthURL(rr, httptest.NewRequest(http.MethodGet, "/api/auth/oauth/url", nil))
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusServiceUnavailable)
		}
	})

	t.Run("Sets State Cookie", func(t *testing.T) {
		handler, _ := newAuthHandler(&MockUserRepo{}, &MockOAuthProvider{})
		rr := httptest.NewRecorder()
		handler.HandleAuthURL(rr, httptest.NewRequest(http.MethodGet, "/api/auth/oauth/url", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
		state := findCookie(rr, oauthStateCookie)
		if state == nil || state.Value == "" {
			t.Fatal("expected an oauth_state cookie")
		}
		var resp AuthURLResponse
		json.NewDecoder(rr.Body).Decode(&resp)
		if !strings.HasSuffix(resp.URL, "state="+state.Value) {
			t.Errorf("URL %q does not carry the state cookie value", resp.URL)
		}
	})
}

func TestHandleCallback(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		stateCookie    string
		existing       bool
		expectedStatus int
		expectCreate   bool
	}{
		{"New User", "?code=abc&state=s1", "s1", false, http.StatusFound, true},
		{"Existing User", "?code=abc&state=s1", "s1", true, http.StatusFound, false},
		{"State Mismatch", "?code=abc&state=s2", "s1", false, http.StatusBadRequest, false},
		{"Missing State Cookie", "?code=abc&state=s1", "", false, http.StatusBadRequest, false},
		{"Missing Code", "?state=s1", "s1", false, http.StatusBadRequest, false},
		{"Provider Error", "?error=access_denied", "s1", false, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := false
			repo := &MockUserRepo{
				GetByOAuthFunc: func(ctx context.Context, provider, oauthID string) (*user.User, error) {
					if tt.existing {
						return &user.User{ID: 4, Email: "farmer@example.com"}, nil
					}
					return nil, user.ErrUserNotFound
				},
				CreateFunc: func(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
					created = true
					if params.OAuthProvider == nil || *params.OAuthProvider != "google" || params.OAuthID == nil || *params.OAuthID != "g-1" {
						return nil, errors.New("wrong oauth params")
					}
					return &user.User{ID: 5, Email: params.Email}, nil
				},
			}
			handler, _ := newAuthHandler(repo, &MockOAuthProvider{})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/oauth/callback"+tt.query, nil)
			if tt.stateCookie != "" {
				req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: tt.stateCookie})
			}
			rr := httptest.NewRecorder()
			handler.HandleCallback(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v (%s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if created != tt.expectCreate {
				t.Errorf("user created = %v, want %v", created, tt.expectCreate)
			}
			if tt.expectedStatus != http.StatusFound {
				return
			}
			if loc := rr.Header().Get("Location"); loc != "/app" {
				t.Errorf("redirect = %q, want /app", loc)
			}
			if findCookie(rr, middleware.AccessTokenCookie) == nil {
				t.Error("expected an access_token cookie")
			}
		})
	}
}
