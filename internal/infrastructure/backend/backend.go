// Package backend opens the record store selected by configuration and the
// repositories that live next to it.
package backend

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebasesdk "firebase.google.com/go/v4"
	"go.uber.org/zap"

	"alphadash/internal/domain/account"
	"alphadash/internal/domain/record"
	"alphadash/internal/domain/subscription"
	"alphadash/internal/infrastructure/firebase"
	"alphadash/internal/infrastructure/localstore"
	"alphadash/internal/shared/config"
)

var ErrFirebaseNotConfigured = errors.New("firestore backend requires firebase.project_id or firebase.credentials_file")

// Backend groups the repositories of one store backend. The subscription is
// always kept in the local store; Profiles is nil unless Firestore is used.
type Backend struct {
	Name          string
	Records       record.Repository
	Accounts      account.Repository
	Subscriptions subscription.Repository
	Profiles      subscription.ProfileStore

	// App is the Firebase app, also used for FCM. Nil when Firebase is not configured.
	App *firebasesdk.App

	Local     *localstore.Store
	firestore *firestore.Client
}

// Open initializes the configured backend. The Firebase app is created
// whenever Firebase is configured, even with the local backend, so pushes work.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	local, err := localstore.Open(cfg.Store.LocalPath)
	if err != nil {
		return nil, err
	}

	b := &Backend{
		Name:          cfg.Store.Backend,
		Local:         local,
		Subscriptions: localstore.NewSubscriptionRepository(local),
	}

	if cfg.Firebase.Enabled() {
		b.App, err = firebase.NewApp(ctx, firebase.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsFile: cfg.Firebase.CredentialsFile,
		})
		if err != nil {
			return nil, err
		}
	}

	switch cfg.Store.Backend {
	case config.BackendFirestore:
		if b.App == nil {
			return nil, ErrFirebaseNotConfigured
		}
		b.firestore, err = firebase.NewFirestore(ctx, b.App)
		if err != nil {
			return nil, err
		}
		profiles := firebase.NewProfileRepository(b.firestore)
		b.Records = firebase.NewRecordRepository(b.firestore, logger)
		b.Accounts = profiles
		b.Profiles = profiles
	case config.BackendLocal:
		b.Records = localstore.NewRecordRepository(local)
		b.Accounts = localstore.NewAccountRepository(local)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	logger.Info("record store opened",
		zap.String("backend", b.Name),
		zap.String("local_path", local.Path()),
		zap.Bool("firebase", b.App != nil))
	return b, nil
}

// Close releases the Firestore client, if any.
func (b *Backend) Close() error {
	if b.firestore != nil {
		return b.firestore.Close()
	}
	return nil
}
