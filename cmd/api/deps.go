package main

import (
	"context"

	"go.uber.org/zap"

	"alphadash/internal/domain/account"
	"alphadash/internal/domain/notification"
	"alphadash/internal/domain/record"
	"alphadash/internal/domain/subscription"
	"alphadash/internal/infrastructure/backend"
	"alphadash/internal/infrastructure/firebase"
	"alphadash/internal/infrastructure/postgres"
	httphandlers "alphadash/internal/interfaces/http"
	"alphadash/internal/interfaces/scheduler"
	"alphadash/internal/shared/auth"
	"alphadash/internal/shared/config"
	"alphadash/internal/shared/messages"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB      *postgres.DB
	Backend *backend.Backend

	// Handlers
	AuthHandler         *httphandlers.AuthHandler
	UserHandler         *httphandlers.UserHandler
	RecordHandler       *httphandlers.RecordHandler
	TransferHandler     *httphandlers.TransferHandler
	StatsHandler        *httphandlers.StatsHandler
	AccountHandler      *httphandlers.AccountHandler
	SubscriptionHandler *httphandlers.SubscriptionHandler
	DemoHandler         *httphandlers.DemoHandler
	NotificationHandler *httphandlers.NotificationHandler
	HealthHandler       *httphandlers.HealthHandler

	// Auth
	JWT *auth.JWT

	// Digest push, used by the scheduler
	DigestService *notification.DigestService
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(ctx, cfg.Database.ConnectionString(), postgres.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database", zap.String("host", cfg.Database.Host))

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	// Open the record store
	store, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Initialize domain services
	subscriptionService := subscription.NewService(
		store.Subscriptions,
		store.Profiles,
		subscription.NewStaticVerifier(cfg.Subscription.VerifyDelay),
		logger.Named("subscription"),
	)
	accountService := account.NewService(store.Accounts, subscriptionService)
	recordService := record.NewService(store.Records, nil)

	// Push delivery is only available with a Firebase app
	var messenger notification.Messenger
	if store.App != nil {
		fcm, err := firebase.NewClient(ctx, store.App, notificationRepo.DeactivateToken, logger.Named("fcm"))
		if err != nil {
			logger.Warn("push notifications disabled", zap.Error(err))
		} else {
			messenger = fcm
		}
	}
	notificationService := notification.NewService(notificationRepo, messenger, logger.Named("notification"))

	msgs, err := messages.Load(cfg.Messages.Path)
	if err != nil {
		store.Close()
		db.Close()
		return nil, err
	}
	digestService := notification.NewDigestService(notificationService, recordService, msgs)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	var oauthProvider auth.OAuthProvider
	googleOAuth := auth.NewGoogleOAuthProvider(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.CallbackURL,
	)
	if googleOAuth.Configured() {
		oauthProvider = googleOAuth
	} else {
		logger.Info("google oauth not configured")
	}

	// Initialize handlers
	handlerLogger := logger.Named("http")
	return &Dependencies{
		DB:                  db,
		Backend:             store,
		AuthHandler:         httphandlers.NewAuthHandler(userRepo, oauthProvider, jwt, cfg.OAuth.Google.FrontendURL, handlerLogger),
		UserHandler:         httphandlers.NewUserHandler(userRepo, handlerLogger),
		RecordHandler:       httphandlers.NewRecordHandler(recordService, handlerLogger),
		TransferHandler:     httphandlers.NewTransferHandler(recordService, handlerLogger),
		StatsHandler:        httphandlers.NewStatsHandler(recordService, accountService, handlerLogger),
		AccountHandler:      httphandlers.NewAccountHandler(accountService, handlerLogger),
		SubscriptionHandler: httphandlers.NewSubscriptionHandler(subscriptionService, handlerLogger),
		DemoHandler:         httphandlers.NewDemoHandler(recordService, accountService, handlerLogger),
		NotificationHandler: httphandlers.NewNotificationHandler(notificationService, handlerLogger),
		HealthHandler:       httphandlers.NewHealthHandler(db, store.Name),
		JWT:                 jwt,
		DigestService:       digestService,
	}, nil
}

// NewScheduler creates the digest scheduler, or returns nil when disabled.
func NewScheduler(cfg *config.Config, deps *Dependencies, logger *zap.Logger) (*scheduler.Scheduler, error) {
	if !cfg.Scheduler.Enabled {
		logger.Info("scheduler is disabled")
		return nil, nil
	}
	return scheduler.New(scheduler.Config{
		Spec:         cfg.Scheduler.DigestCron,
		WorkerCount:  cfg.Scheduler.WorkerCount,
		JobDelay:     cfg.Scheduler.JobDelay,
		QueueSize:    cfg.Scheduler.QueueSize,
		RunOnStartup: cfg.Scheduler.RunOnStartup,
		JobProvider:  scheduler.DigestJobs(deps.DigestService),
	}, logger.Named("scheduler"))
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Backend != nil {
		d.Backend.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
