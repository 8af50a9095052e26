package http

import (
	"net/http"

	"go.uber.org/zap"

	"alphadash/internal/domain/record"
)

type RecordHandler struct {
	recordService *record.Service
	logger        *zap.Logger
}

func NewRecordHandler(recordService *record.Service, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{recordService: recordService, logger: logger}
}

type RecordListResponse struct {
	Records []record.DailyRecord `json:"records"`
	Count   int                  `json:"count"`
}

type CommitRecordsRequest struct {
	Records []record.DailyRecord `json:"records"`
}

type CommitResponse struct {
	Saved int `json:"saved"`
}

type ClearResponse struct {
	Removed int `json:"removed"`
}

type BatchRequest struct {
	Date string            `json:"date"`
	Rows []record.BatchRow `json:"rows"`
}

type ScoreRequest struct {
	Date      string  `json:"date"`
	AccountID string  `json:"accountId"`
	Score     float64 `json:"score"`
}

// HandleRecords handles GET (list), POST (commit) and DELETE (clear) on /api/records
func (h *RecordHandler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, uid)
	case http.MethodPost:
		h.handleCommit(w, r, uid)
	case http.MethodDelete:
		h.handleClear(w, r, uid)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RecordHandler) handleList(w http.ResponseWriter, r *http.Request, uid string) {
	records, err := h.recordService.List(r.Context(), uid)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, RecordListResponse{Records: records, Count: len(records)})
}

func (h *RecordHandler) handleCommit(w http.ResponseWriter, r *http.Request, uid string) {
	var req CommitRecordsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := detached(r)
	defer cancel()

	if err := h.recordService.Commit(ctx, uid, req.Records); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, CommitResponse{Saved: len(req.Records)})
}

func (h *RecordHandler) handleClear(w http.ResponseWriter, r *http.Request, uid string) {
	ctx, cancel := detached(r)
	defer cancel()

	removed, err := h.recordService.Clear(ctx, uid)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	h.logger.Info("records cleared", zap.String("uid", uid), zap.Int("removed", removed))
	writeJSON(w, http.StatusOK, ClearResponse{Removed: removed})
}

// HandleBatch handles POST /api/records/batch
func (h *RecordHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req BatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Date == "" {
		req.Date = today()
	}

	ctx, cancel := detached(r)
	defer cancel()

	saved, err := h.recordService.SaveBatch(ctx, uid, req.Date, req.Rows)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, RecordListResponse{Records: saved, Count: len(saved)})
}

// HandleScore handles PUT /api/records/score
func (h *RecordHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req ScoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := detached(r)
	defer cancel()

	rec, err := h.recordService.EditScore(ctx, uid, req.Date, req.AccountID, req.Score)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
