package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"alphadash/internal/domain/account"
	"alphadash/internal/domain/ingest"
	"alphadash/internal/domain/record"
	"alphadash/internal/domain/stats"
	"alphadash/internal/domain/subscription"
	"alphadash/internal/domain/user"
	"alphadash/internal/shared/middleware"
)

const maxBodySize = 1 << 20 // 1 MiB

// commitTimeout bounds writes that keep running after the client went away.
const commitTimeout = 30 * time.Second

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps domain and store errors to a status code.
// Anything unrecognized is a store failure and is reported with its full
// (possibly joined) message.
func writeDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var parseErr *ingest.ParseError
	switch {
	case errors.As(err, &parseErr):
		writeError(w, http.StatusUnprocessableEntity, string(parseErr.Reason), parseErr.Message)
	case errors.Is(err, account.ErrAccountLimit):
		writeError(w, http.StatusForbidden, "account_limit", err.Error())
	case errors.Is(err, subscription.ErrRejected):
		writeError(w, http.StatusForbidden, "verification_rejected", err.Error())
	case errors.Is(err, account.ErrAccountNotFound), errors.Is(err, user.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", err.Error())
	default:
		logger.Error("store operation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "store_error", err.Error())
	}
}

var validationErrors = []error{
	record.ErrInvalidDate,
	record.ErrMissingAccount,
	record.ErrInvalidUser,
	record.ErrNoRecords,
	stats.ErrInvalidDate,
	stats.ErrInvalidMonth,
	account.ErrLastAccount,
	account.ErrInvalidCount,
	account.ErrInvalidUser,
	subscription.ErrInvalidProof,
	subscription.ErrInvalidUser,
	user.ErrInvalidEmail,
	user.ErrWeakPassword,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// requireUser extracts the authenticated user and its storage uid.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, "", false
	}
	return userID, user.UIDFromID(userID), true
}

// detached returns a context that survives the request being cancelled, so a
// started commit is not abandoned halfway.
func detached(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), commitTimeout)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return false
	}
	return true
}

func today() string {
	return time.Now().Format(record.DateLayout)
}
