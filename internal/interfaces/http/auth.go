package http

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"alphadash/internal/domain/user"
	"alphadash/internal/shared/auth"
	"alphadash/internal/shared/middleware"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
	providerGoogle   = "google"
)

type AuthHandler struct {
	userRepo      user.Repository
	oauthProvider auth.OAuthProvider
	jwt           *auth.JWT
	frontendURL   string
	logger        *zap.Logger
}

// NewAuthHandler creates the auth handler. oauthProvider may be nil when
// Google sign-in is not configured.
func NewAuthHandler(userRepo user.Repository, oauthProvider auth.OAuthProvider, jwt *auth.JWT, frontendURL string, logger *zap.Logger) *AuthHandler {
	if frontendURL == "" {
		frontendURL = "/"
	}
	return &AuthHandler{
		userRepo:      userRepo,
		oauthProvider: oauthProvider,
		jwt:           jwt,
		frontendURL:   frontendURL,
		logger:        logger,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthURLResponse struct {
	URL string `json:"url"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// HandleRegister creates an email/password account and signs it in.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := user.RegisterParams{Email: req.Email, Password: req.Password, Name: req.Name}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	u, err := h.userRepo.Create(r.Context(), user.CreateUserParams{
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: &hash,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email_taken", err.Error())
			return
		}
		h.logger.Error("failed to create user", zap.Error(err))
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	h.signIn(w, r, u, http.StatusCreated)
}

// HandleLogin signs in an email/password account.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	params := user.RegisterParams{Email: req.Email, Password: req.Password}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", user.ErrInvalidPassword.Error())
		return
	}

	u, err := h.userRepo.GetByEmail(r.Context(), params.Email)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			h.logger.Error("failed to load user", zap.Error(err))
			http.Error(w, "Failed to sign in", http.StatusInternalServerError)
			return
		}
		writeError(w, http.StatusUnauthorized, "invalid_credentials", user.ErrInvalidPassword.Error())
		return
	}
	if !auth.MatchPassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", user.ErrInvalidPassword.Error())
		return
	}

	h.signIn(w, r, u, http.StatusOK)
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, u *user.User, status int) {
	token, err := h.jwt.Generate(u.ID, u.Email)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Int64("user_id", u.ID), zap.Error(err))
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	setAuthCookie(w, r, token, h.jwt.TTL())
	writeJSON(w, status, AuthResponse{Token: token, User: u})
}

// HandleAuthURL generates the Google authorization URL and remembers its state.
func (h *AuthHandler) HandleAuthURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.oauthProvider == nil {
		http.Error(w, "Google OAuth not configured", http.StatusServiceUnavailable)
		return
	}

	state, err := generateState()
	if err != nil {
		h.logger.Error("failed to generate oauth state", zap.Error(err))
		http.Error(w, "Failed to generate state", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthStateTTL.Seconds()),
	})
	writeJSON(w, http.StatusOK, AuthURLResponse{URL: h.oauthProvider.GetAuthURL(state)})
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// HandleCallback processes the Google callback, issues a JWT cookie and
// redirects to the frontend.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.oauthProvider == nil {
		http.Error(w, "Google OAuth not configured", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()
	if oauthError := query.Get("error"); oauthError != "" {
		http.Error(w, "OAuth error: "+oauthError, http.StatusBadRequest)
		return
	}
	code := query.Get("code")
	if code == "" {
		http.Error(w, "Code is required", http.StatusBadRequest)
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || subtle.ConstantTimeCompare([]byte(stateCookie.Value), []byte(query.Get("state"))) != 1 {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	clearCookie(w, r, oauthStateCookie)

	ctx := r.Context()

	token, err := h.oauthProvider.ExchangeCode(ctx, code)
	if err != nil {
		h.logger.Warn("oauth code exchange failed", zap.Error(err))
		http.Error(w, "Failed to exchange code", http.StatusBadRequest)
		return
	}

	info, err := h.oauthProvider.GetUserInfo(ctx, token)
	if err != nil {
		h.logger.Warn("oauth user info failed", zap.Error(err))
		http.Error(w, "Failed to get user info", http.StatusBadRequest)
		return
	}

	u, err := h.userRepo.GetByOAuth(ctx, providerGoogle, info.ID)
	if errors.Is(err, user.ErrUserNotFound) {
		provider := providerGoogle
		params := user.CreateUserParams{
			Email:         info.Email,
			Name:          info.Name,
			OAuthProvider: &provider,
			OAuthID:       &info.ID,
		}
		if info.AvatarURL != "" {
			params.AvatarURL = &info.AvatarURL
		}
		u, err = h.userRepo.Create(ctx, params)
	}
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			http.Error(w, "Email already registered with a password", http.StatusConflict)
			return
		}
		h.logger.Error("failed to resolve oauth user", zap.Error(err))
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.jwt.Generate(u.ID, u.Email)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Int64("user_id", u.ID), zap.Error(err))
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	setAuthCookie(w, r, jwtToken, h.jwt.TTL())
	http.Redirect(w, r, h.frontendURL, http.StatusFound)
}

// HandleLogout clears the auth cookie
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clearCookie(w, r, middleware.AccessTokenCookie)
	w.WriteHeader(http.StatusNoContent)
}

// Only set the Secure flag when actually using HTTPS
func isSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

func setAuthCookie(w http.ResponseWriter, r *http.Request, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()), // matches JWT expiration
	})
}

func clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
