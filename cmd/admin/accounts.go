package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addAccounts(topLevel *cobra.Command, o *globalOptions) {
	var (
		add    bool
		remove string
		count  int
	)

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Show or change the user's account labels",
		Long: `Accounts prints the account set. With a flag it changes it first.

Examples:
  admin --user 1 accounts
  admin --user 1 accounts --add
  admin --user 1 accounts --remove 3号
  admin --user 1 accounts --count 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			var labels []string
			switch {
			case add:
				labels, err = a.accounts.Add(ctx, a.uid)
			case remove != "":
				labels, err = a.accounts.Remove(ctx, a.uid, remove)
			case cmd.Flags().Changed("count"):
				labels, err = a.accounts.SetCount(ctx, a.uid, count)
			default:
				labels, err = a.accounts.List(ctx, a.uid)
			}
			if err != nil {
				return err
			}

			limit, err := a.accounts.Limit(ctx, a.uid)
			if err != nil {
				return fmt.Errorf("failed to read account limit: %w", err)
			}
			printAccounts(cmd.OutOrStdout(), labels, limit)
			return nil
		},
	}

	cmd.Flags().BoolVar(&add, "add", false, "append the next account label")
	cmd.Flags().StringVar(&remove, "remove", "", "remove this account label")
	cmd.Flags().IntVar(&count, "count", 0, "resize the set to this many labels")
	cmd.MarkFlagsMutuallyExclusive("add", "remove", "count")
	topLevel.AddCommand(cmd)
}
