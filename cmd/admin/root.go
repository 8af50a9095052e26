package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alphadash/internal/domain/account"
	"alphadash/internal/domain/record"
	"alphadash/internal/domain/subscription"
	"alphadash/internal/infrastructure/backend"
	"alphadash/internal/shared/config"
	"alphadash/internal/shared/logger"
)

var errNoUser = errors.New("--user is required")

// globalOptions are the flags shared by every command.
type globalOptions struct {
	ConfigPath string
	User       string
	Verbose    bool
}

// app is the set of services a command works with, opened per invocation.
type app struct {
	cfg           *config.Config
	logger        *zap.Logger
	backend       *backend.Backend
	records       *record.Service
	accounts      *account.Service
	subscriptions *subscription.Service
	uid           string
}

func newRootCommand() *cobra.Command {
	o := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operate on a user's AlphaDash records from the command line.",
		Long: `Admin works against the same record store as the API server.
Pick the store with --config (or ALPHADASH_CONFIG) and the user with --user.

Examples:
  admin --user 1 import sheet.tsv --dry-run
  admin --user 1 stats month --date 2026-01-15
  admin --user 1 export --format json > records.json`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVarP(&o.User, "user", "u", "", "user id whose records to operate on")
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false, "log at debug level")

	addImport(cmd, o)
	addExport(cmd, o)
	addTemplate(cmd)
	addClear(cmd, o)
	addStats(cmd, o)
	addSeedDemo(cmd, o)
	addDigest(cmd, o)
	addAccounts(cmd, o)
	return cmd
}

// open loads configuration and the record store for o.User.
func (o *globalOptions) open(ctx context.Context) (*app, error) {
	if o.User == "" {
		return nil, errNoUser
	}

	cfg, err := config.LoadOffline(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	} else if cfg.Log.Level == "info" {
		cfg.Log.Level = "warn"
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	store, err := backend.Open(ctx, cfg, zl)
	if err != nil {
		return nil, err
	}

	subscriptions := subscription.NewService(
		store.Subscriptions,
		store.Profiles,
		subscription.NewStaticVerifier(cfg.Subscription.VerifyDelay),
		zl.Named("subscription"),
	)
	return &app{
		cfg:           cfg,
		logger:        zl,
		backend:       store,
		records:       record.NewService(store.Records, nil),
		accounts:      account.NewService(store.Accounts, subscriptions),
		subscriptions: subscriptions,
		uid:           o.User,
	}, nil
}

func (a *app) Close() {
	a.backend.Close()
	a.logger.Sync()
}
