package http

import (
	"net/http"

	"go.uber.org/zap"

	"alphadash/internal/domain/account"
)

// AccountHandler serves the user's account label set.
type AccountHandler struct {
	accountService *account.Service
	logger         *zap.Logger
}

func NewAccountHandler(accountService *account.Service, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accountService: accountService, logger: logger}
}

type AccountsResponse struct {
	Accounts []string `json:"accounts"`
	Limit    int      `json:"limit"`
}

// UpdateAccountsRequest either regenerates 1号..count号 or stores labels as given.
type UpdateAccountsRequest struct {
	Count  *int     `json:"count,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

// HandleAccounts handles GET/POST/DELETE/PUT /api/accounts
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var (
		labels []string
		err    error
	)
	switch r.Method {
	case http.MethodGet:
		labels, err = h.accountService.List(r.Context(), uid)
	case http.MethodPost:
		labels, err = h.accountService.Add(r.Context(), uid)
	case http.MethodDelete:
		label := r.URL.Query().Get("label")
		if label == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "label is required")
			return
		}
		labels, err = h.accountService.Remove(r.Context(), uid, label)
	case http.MethodPut:
		var req UpdateAccountsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		switch {
		case req.Count != nil:
			labels, err = h.accountService.SetCount(r.Context(), uid, *req.Count)
		case len(req.Labels) > 0:
			labels, err = h.accountService.Replace(r.Context(), uid, req.Labels)
		default:
			writeError(w, http.StatusBadRequest, "invalid_request", "count or labels is required")
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	limit, err := h.accountService.Limit(r.Context(), uid)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, AccountsResponse{Accounts: labels, Limit: limit})
}
