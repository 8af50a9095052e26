package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"alphadash/internal/domain/ingest"
)

func addImport(topLevel *cobra.Command, o *globalOptions) {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Parse a pasted sheet or an export and commit its records",
		Long: `Import reads tab- or comma-separated text, detects its layout and
commits every parsed record. Use "-" to read from stdin.

Examples:
  admin --user 1 import sheet.tsv --dry-run
  pbpaste | admin --user 1 import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			result, err := ingest.Parse(text)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printLayout(out, result.Layout)
			printRecords(out, result.Records)
			if dryRun {
				_, _ = color.New(color.Faint).Fprintf(out, "dry run: %d records not saved\n", len(result.Records))
				return nil
			}

			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.records.Commit(cmd.Context(), a.uid, result.Records); err != nil {
				return err
			}
			_, _ = color.New(color.FgGreen).Fprintf(out, "saved %d records\n", len(result.Records))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and preview without saving")
	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command, o *globalOptions) {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record as CSV or JSON to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}

			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.records.List(cmd.Context(), a.uid)
			if err != nil {
				return err
			}
			if format == "json" {
				return ingest.WriteJSON(cmd.OutOrStdout(), records)
			}
			return ingest.WriteCSV(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or json")
	topLevel.AddCommand(cmd)
}

func addTemplate(topLevel *cobra.Command) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "template",
		Short: "Write the blank import template to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ingest.WriteTemplate(cmd.OutOrStdout())
		},
	})
}

func addClear(topLevel *cobra.Command, o *globalOptions) {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record of the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear records of user %q without --yes", o.User)
			}

			a, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.records.Clear(cmd.Context(), a.uid)
			if err != nil {
				return err
			}
			_, _ = color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "removed %d records\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	topLevel.AddCommand(cmd)
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(b), nil
}
