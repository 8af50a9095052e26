package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"alphadash/internal/domain/record"
	"alphadash/internal/domain/stats"
)

const reportTitle = "AlphaDash"

func addStats(topLevel *cobra.Command, o *globalOptions) {
	var date string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print derived dashboard statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVarP(&date, "date", "d", "", "reference date YYYY-MM-DD (default today)")

	// load returns the user's records and the reference date.
	load := func(cmd *cobra.Command) (*app, []record.DailyRecord, string, error) {
		ref := date
		if ref == "" {
			ref = time.Now().Format(record.DateLayout)
		}
		a, err := o.open(cmd.Context())
		if err != nil {
			return nil, nil, "", err
		}
		records, err := a.records.List(cmd.Context(), a.uid)
		if err != nil {
			a.Close()
			return nil, nil, "", err
		}
		return a, records, ref, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "month",
		Short: "Cost, revenue, net and ROI of the month containing --date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, records, ref, err := load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			m, err := stats.Month(records, ref)
			if err != nil {
				return err
			}
			printMonth(cmd.OutOrStdout(), m)
			return nil
		},
	})

	var selected string
	scores := &cobra.Command{
		Use:   "scores",
		Short: "Rolling 15-day score board per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, records, ref, err := load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			labels, err := a.accounts.List(cmd.Context(), a.uid)
			if err != nil {
				return err
			}
			board, err := stats.Scores(records, labels, ref)
			if err != nil {
				return err
			}
			if selected != "" {
				board = filterScores(board, selected)
			}
			printScores(cmd.OutOrStdout(), ref, board)
			return nil
		},
	}
	scores.Flags().StringVar(&selected, "account", "", "only show this account")
	cmd.AddCommand(scores)

	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "Lifetime totals and airdrops per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, records, _, err := load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			labels, err := a.accounts.List(cmd.Context(), a.uid)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), stats.History(records, labels))
			return nil
		},
	})

	var raw bool
	report := &cobra.Command{
		Use:   "report",
		Short: "Half-month report rendered as markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, records, _, err := load(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			labels, err := a.accounts.List(cmd.Context(), a.uid)
			if err != nil {
				return err
			}
			md := stats.Markdown(reportTitle, stats.HalfMonth(records), stats.History(records, labels))
			if raw {
				_, err = fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				return err
			}
			out, err := renderer.Render(md)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	report.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal styling")
	cmd.AddCommand(report)

	topLevel.AddCommand(cmd)
}

func filterScores(board []stats.AccountScore, accountID string) []stats.AccountScore {
	for _, s := range board {
		if s.AccountID == accountID {
			return []stats.AccountScore{s}
		}
	}
	return nil
}
