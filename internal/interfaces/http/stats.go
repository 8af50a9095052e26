package http

import (
	"bytes"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"alphadash/internal/domain/account"
	"alphadash/internal/domain/record"
	"alphadash/internal/domain/stats"
	"alphadash/internal/infrastructure/poster"
)

// ReportTitle heads the markdown report and the share poster.
const ReportTitle = "AlphaDash"

// reportRenderer escapes raw HTML in the report (WithUnsafe is not set).
var reportRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

type StatsHandler struct {
	recordService  *record.Service
	accountService *account.Service
	logger         *zap.Logger
}

func NewStatsHandler(recordService *record.Service, accountService *account.Service, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{recordService: recordService, accountService: accountService, logger: logger}
}

type ReportResponse struct {
	Periods []stats.Period     `json:"periods"`
	History stats.HistoryStats `json:"history"`
}

// load fetches the user's records for a GET stats request.
func (h *StatsHandler) load(w http.ResponseWriter, r *http.Request) (string, []record.DailyRecord, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return "", nil, false
	}
	_, uid, ok := requireUser(w, r)
	if !ok {
		return "", nil, false
	}
	records, err := h.recordService.List(r.Context(), uid)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return "", nil, false
	}
	return uid, records, true
}

func (h *StatsHandler) labels(w http.ResponseWriter, r *http.Request, uid string) ([]string, bool) {
	labels, err := h.accountService.List(r.Context(), uid)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return nil, false
	}
	return labels, true
}

func dateParam(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return today()
}

// HandleMonth handles GET /api/stats/month?date=
func (h *StatsHandler) HandleMonth(w http.ResponseWriter, r *http.Request) {
	_, records, ok := h.load(w, r)
	if !ok {
		return
	}
	month, err := stats.Month(records, dateParam(r))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, month)
}

// HandleSeries handles GET /api/stats/series
func (h *StatsHandler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	_, records, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.Series(records))
}

// HandleScores handles GET /api/stats/scores?date=
func (h *StatsHandler) HandleScores(w http.ResponseWriter, r *http.Request) {
	uid, records, ok := h.load(w, r)
	if !ok {
		return
	}
	labels, ok := h.labels(w, r, uid)
	if !ok {
		return
	}
	scores, err := stats.Scores(records, labels, dateParam(r))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scores": scores})
}

// HandleHistory handles GET /api/stats/history
func (h *StatsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	uid, records, ok := h.load(w, r)
	if !ok {
		return
	}
	labels, ok := h.labels(w, r, uid)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.History(records, labels))
}

// HandleCalendar handles GET /api/stats/calendar?month=YYYY-MM
func (h *StatsHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	_, records, ok := h.load(w, r)
	if !ok {
		return
	}
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	cal, err := stats.Calendar(records, month)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

// HandleReport handles GET /api/stats/report?format=json|markdown|html
func (h *StatsHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	uid, records, ok := h.load(w, r)
	if !ok {
		return
	}
	labels, ok := h.labels(w, r, uid)
	if !ok {
		return
	}

	periods := stats.HalfMonth(records)
	history := stats.History(records, labels)

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, ReportResponse{Periods: periods, History: history})
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(stats.Markdown(ReportTitle, periods, history)))
	case "html":
		var buf bytes.Buffer
		if err := reportRenderer.Convert([]byte(stats.Markdown(ReportTitle, periods, history)), &buf); err != nil {
			h.logger.Error("failed to render report", zap.Error(err))
			http.Error(w, "Failed to render report", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	default:
		writeError(w, http.StatusBadRequest, "invalid_format", "format must be json, markdown or html")
	}
}

// HandlePoster handles GET /api/poster?date= and returns a PNG.
func (h *StatsHandler) HandlePoster(w http.ResponseWriter, r *http.Request) {
	_, records, ok := h.load(w, r)
	if !ok {
		return
	}

	date := dateParam(r)
	day, err := stats.Today(records, date)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	month, err := stats.Month(records, date)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := poster.Render(&buf, poster.Data{Title: ReportTitle, Day: day, Month: month}); err != nil {
		h.logger.Error("failed to render poster", zap.String("date", date), zap.Error(err))
		http.Error(w, "Failed to render poster", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
