package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
)

func addSeedDemo(topLevel *cobra.Command, o *globalOptions) {
	var seed int64

	cmd := &cobra.Command{
		Use:   "seed-demo",
		Short: "Fill the store with 60-90 days of generated sample records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			limit, err := a.accounts.Limit(cmd.Context(), a.uid)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			demo, err := a.records.SeedDemo(cmd.Context(), a.uid, rand.New(rand.NewSource(seed)), time.Now(), limit)
			if err != nil {
				return err
			}
			labels, err := a.accounts.Replace(cmd.Context(), a.uid, demo.Accounts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %d records over %d days for %d accounts (seed %d)\n",
				green("seeded"), len(demo.Records), demo.Days, len(labels), seed)
			return err
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	topLevel.AddCommand(cmd)
}
