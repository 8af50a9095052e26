package http

import (
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"

	"alphadash/internal/domain/account"
	"alphadash/internal/domain/record"
)

// DemoHandler fills an account with generated sample data.
type DemoHandler struct {
	recordService  *record.Service
	accountService *account.Service
	logger         *zap.Logger
	now            func() time.Time
	newRand        func() *rand.Rand
}

func NewDemoHandler(recordService *record.Service, accountService *account.Service, logger *zap.Logger) *DemoHandler {
	return &DemoHandler{
		recordService:  recordService,
		accountService: accountService,
		logger:         logger,
		now:            time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

type DemoResponse struct {
	Accounts []string `json:"accounts"`
	Records  int      `json:"records"`
	Days     int      `json:"days"`
}

// HandleSeed handles POST /api/demo. The generated account count follows the
// user's tier limit and the account set is replaced to match the data.
func (h *DemoHandler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, uid, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := detached(r)
	defer cancel()

	limit, err := h.accountService.Limit(ctx, uid)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	demo, err := h.recordService.SeedDemo(ctx, uid, h.newRand(), h.now(), limit)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	if _, err := h.accountService.Replace(ctx, uid, demo.Accounts); err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("demo data seeded",
		zap.String("uid", uid),
		zap.Int("accounts", len(demo.Accounts)),
		zap.Int("records", len(demo.Records)),
	)
	writeJSON(w, http.StatusOK, DemoResponse{Accounts: demo.Accounts, Records: len(demo.Records), Days: demo.Days})
}
