package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alphadash/internal/domain/notification"
	"alphadash/internal/domain/record"
	"alphadash/internal/domain/stats"
	"alphadash/internal/infrastructure/firebase"
	"alphadash/internal/infrastructure/postgres"
	"alphadash/internal/shared/currency"
	"alphadash/internal/shared/messages"
)

func addDigest(topLevel *cobra.Command, o *globalOptions) {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send today's digest push to the user's devices",
		Long: `Digest computes today's totals for --user and pushes them to every
active device token. With --dry-run the message is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := strconv.ParseInt(o.User, 10, 64)
			if err != nil || userID <= 0 {
				return fmt.Errorf("--user must be a numeric user id for digest, got %q", o.User)
			}

			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			msgs, err := messages.Load(a.cfg.Messages.Path)
			if err != nil {
				return err
			}

			if dryRun {
				records, err := a.records.List(cmd.Context(), a.uid)
				if err != nil {
					return err
				}
				summary, err := todaySummary(records)
				if err != nil {
					return err
				}
				title, body, err := notification.Compose(msgs, summary)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", bold(title), body)
				return err
			}

			db, err := postgres.New(cmd.Context(), a.cfg.Database.ConnectionString(), postgres.PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1})
			if err != nil {
				return err
			}
			defer db.Close()
			repo := postgres.NewNotificationRepository(db)

			var messenger notification.Messenger
			if a.backend.App != nil {
				fcm, err := firebase.NewClient(cmd.Context(), a.backend.App, repo.DeactivateToken, a.logger.Named("fcm"))
				if err != nil {
					return err
				}
				messenger = fcm
			} else {
				a.logger.Warn("firebase not configured, digest is stored but not pushed")
			}

			digest := notification.NewDigestService(notification.NewService(repo, messenger, a.logger), a.records, msgs)
			summary, err := digest.SendDaily(cmd.Context(), userID)
			if err != nil {
				return err
			}
			a.logger.Debug("digest sent", zap.Int64("user_id", userID), zap.Float64("net", summary.Net))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s digest for %s: net %s over %d accounts\n",
				green("sent"), summary.Date, currency.Signed(summary.Net), summary.Accounts)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the message without sending it")
	topLevel.AddCommand(cmd)
}

func todaySummary(records []record.DailyRecord) (stats.DaySummary, error) {
	return stats.Today(records, time.Now().Format(record.DateLayout))
}
