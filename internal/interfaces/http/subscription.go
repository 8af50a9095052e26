package http

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"alphadash/internal/domain/subscription"
)

const (
	maxProofSize   = 10 << 20 // 10 MiB
	proofFormField = "image"
)

type SubscriptionHandler struct {
	subscriptionService *subscription.Service
	logger              *zap.Logger
}

func NewSubscriptionHandler(subscriptionService *subscription.Service, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, logger: logger}
}

type VerifyResponse struct {
	Subscription subscription.Subscription `json:"subscription"`
	Decision     subscription.Decision     `json:"decision"`
}

// HandleGet handles GET /api/subscription
func (h *SubscriptionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.Get(r.Context(), uid)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// HandleVerify handles POST /api/subscription/verify with a multipart
// screenshot in the "image" field. The verification follows the request
// context, so a client that disconnects abandons it.
func (h *SubscriptionHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxProofSize)
	if err := r.ParseMultipartForm(maxProofSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Expected a multipart image upload")
		return
	}
	file, header, err := r.FormFile(proofFormField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "image is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Failed to read image")
		return
	}

	proof := subscription.Proof{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	sub, decision, err := h.subscriptionService.Unlock(r.Context(), uid, proof)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyResponse{Subscription: sub, Decision: decision})
}

// HandleSync handles POST /api/subscription/sync
func (h *SubscriptionHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.Sync(r.Context(), uid)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
