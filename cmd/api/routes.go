package main

import (
	"net/http"

	"go.uber.org/zap"

	"alphadash/internal/shared/config"
	"alphadash/internal/shared/middleware"
	"alphadash/internal/shared/telemetry"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check and metrics
	mux.HandleFunc("/health", deps.HealthHandler.HandleHealth)
	if cfg.Telemetry.Enabled {
		mux.Handle("/metrics", telemetry.MetricsHandler())
	}

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Web OAuth
	mux.HandleFunc("/api/auth/oauth/url", deps.AuthHandler.HandleAuthURL)
	mux.HandleFunc("/api/auth/oauth/callback", deps.AuthHandler.HandleCallback)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authMiddleware(h))
	}

	protect("/api/users/me", deps.UserHandler.HandleMe)

	protect("/api/records", deps.RecordHandler.HandleRecords)
	protect("/api/records/batch", deps.RecordHandler.HandleBatch)
	protect("/api/records/score", deps.RecordHandler.HandleScore)

	protect("/api/import/preview", deps.TransferHandler.HandlePreview)
	protect("/api/import/commit", deps.TransferHandler.HandleCommit)
	protect("/api/export", deps.TransferHandler.HandleExport)

	protect("/api/stats/month", deps.StatsHandler.HandleMonth)
	protect("/api/stats/series", deps.StatsHandler.HandleSeries)
	protect("/api/stats/scores", deps.StatsHandler.HandleScores)
	protect("/api/stats/history", deps.StatsHandler.HandleHistory)
	protect("/api/stats/calendar", deps.StatsHandler.HandleCalendar)
	protect("/api/stats/report", deps.StatsHandler.HandleReport)
	protect("/api/poster", deps.StatsHandler.HandlePoster)

	protect("/api/accounts", deps.AccountHandler.HandleAccounts)

	protect("/api/subscription", deps.SubscriptionHandler.HandleGet)
	protect("/api/subscription/verify", deps.SubscriptionHandler.HandleVerify)
	protect("/api/subscription/sync", deps.SubscriptionHandler.HandleSync)

	protect("/api/demo", deps.DemoHandler.HandleSeed)

	protect("/api/notifications", deps.NotificationHandler.HandleNotifications)
	protect("/api/notifications/register-device", deps.NotificationHandler.HandleRegisterDevice)

	// Apply global middleware, outermost last
	var handler http.Handler = mux
	handler = middleware.CORS(cfg.Server.AllowedHosts)(handler)
	handler = middleware.SecurityHeaders(handler)
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(cfg.Telemetry.ServiceName, handler)
	}
	handler = middleware.Tracing(handler)
	handler = middleware.Logging(logger.Named("access"))(handler)
	handler = middleware.Recover(logger)(handler)

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		logger.Info("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
