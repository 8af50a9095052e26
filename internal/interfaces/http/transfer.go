package http

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"alphadash/internal/domain/ingest"
	"alphadash/internal/domain/record"
)

const maxImportSize = 5 << 20 // 5 MiB

// TransferHandler serves paste import and file export.
type TransferHandler struct {
	recordService *record.Service
	logger        *zap.Logger
	now           func() time.Time
}

func NewTransferHandler(recordService *record.Service, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{recordService: recordService, logger: logger, now: time.Now}
}

type ImportRequest struct {
	Text string `json:"text"`
}

type ImportPreviewResponse struct {
	Layout  ingest.Layout        `json:"layout"`
	Records []record.DailyRecord `json:"records"`
	Count   int                  `json:"count"`
}

type ImportCommitResponse struct {
	Layout ingest.Layout `json:"layout"`
	Saved  int           `json:"saved"`
}

// HandlePreview handles POST /api/import/preview. Nothing is written.
func (h *TransferHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, _, ok := requireUser(w, r); !ok {
		return
	}

	text, ok := h.readImportText(w, r)
	if !ok {
		return
	}

	result, err := ingest.Parse(text)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ImportPreviewResponse{
		Layout:  result.Layout,
		Records: result.Records,
		Count:   len(result.Records),
	})
}

// HandleCommit handles POST /api/import/commit
func (h *TransferHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	text, ok := h.readImportText(w, r)
	if !ok {
		return
	}

	result, err := ingest.Parse(text)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	ctx, cancel := detached(r)
	defer cancel()

	if err := h.recordService.Commit(ctx, uid, result.Records); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("records imported",
		zap.String("uid", uid),
		zap.String("layout", string(result.Layout.Kind)),
		zap.Int("records", len(result.Records)),
	)
	writeJSON(w, http.StatusOK, ImportCommitResponse{Layout: result.Layout, Saved: len(result.Records)})
}

// readImportText accepts either a JSON body {"text": ...} or the raw pasted text.
func (h *TransferHandler) readImportText(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", "Import is too large")
		return "", false
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return string(body), true
	}

	var req ImportRequest
	r.Body = io.NopCloser(bytes.NewReader(body))
	if !decodeJSON(w, r, &req) {
		return "", false
	}
	return req.Text, true
}

// HandleExport handles GET /api/export?format=csv|json|template
func (h *TransferHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}

	if format == "template" {
		var buf bytes.Buffer
		if err := ingest.WriteTemplate(&buf); err != nil {
			h.logger.Error("failed to write template", zap.Error(err))
			http.Error(w, "Failed to write template", http.StatusInternalServerError)
			return
		}
		sendAttachment(w, "text/csv; charset=utf-8", "AlphaDash_Template.csv", buf.Bytes())
		return
	}

	records, err := h.recordService.List(r.Context(), uid)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case "csv":
		err = ingest.WriteCSV(&buf, records)
		contentType = "text/csv; charset=utf-8"
	case "json":
		err = ingest.WriteJSON(&buf, records)
		contentType = "application/json"
	default:
		writeError(w, http.StatusBadRequest, "invalid_format", "format must be csv, json or template")
		return
	}
	if err != nil {
		h.logger.Error("failed to encode export", zap.String("format", format), zap.Error(err))
		http.Error(w, "Failed to encode export", http.StatusInternalServerError)
		return
	}

	sendAttachment(w, contentType, ingest.ExportFilename(h.now(), format), buf.Bytes())
}

func sendAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
