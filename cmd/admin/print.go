package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"alphadash/internal/domain/ingest"
	"alphadash/internal/domain/record"
	"alphadash/internal/domain/stats"
	"alphadash/internal/shared/currency"
)

// previewRows caps how many records a preview table prints.
const previewRows = 20

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

func title(w io.Writer, s string) {
	_, _ = color.New(color.Bold, color.Underline).Fprintln(w, s)
}

// signed colours an amount by its sign.
func signed(v float64) string {
	s := currency.Signed(v)
	switch {
	case v > 0:
		return green(s)
	case v < 0:
		return red(s)
	}
	return s
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optional(p *float64) string {
	if p == nil {
		return faint("-")
	}
	return number(*p)
}

func printLayout(w io.Writer, l ingest.Layout) {
	switch l.Kind {
	case ingest.KindExported:
		_, _ = fmt.Fprintf(w, "%s exported file\n", bold("Layout:"))
	case ingest.KindSpreadsheet:
		_, _ = fmt.Fprintf(w, "%s spreadsheet, header row %d, %d accounts, confidence %d\n",
			bold("Layout:"), l.HeaderRow+1, len(l.Accounts), l.Confidence)
	}
}

func printRecords(w io.Writer, records []record.DailyRecord) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("Date"), bold("Account"), bold("Score"), bold("Balance"), bold("Revenue"), bold("Cost"), bold("Net"))
	for i, r := range records {
		if i == previewRows {
			break
		}
		tbl.AddRow(r.Date, r.AccountID, number(r.Score), optional(r.Balance), optional(r.Revenue), number(r.Cost), signed(r.Net))
	}
	_, _ = fmt.Fprintln(w, tbl)
	if len(records) > previewRows {
		_, _ = fmt.Fprintln(w, faint(fmt.Sprintf("... %d more", len(records)-previewRows)))
	}
}

func printMonth(w io.Writer, m stats.MonthStats) {
	title(w, "Month "+m.Month)
	tbl := uitable.New()
	tbl.AddRow("Records", m.Records)
	tbl.AddRow("Revenue", currency.Format(m.Revenue))
	tbl.AddRow("Cost", currency.Format(m.Cost))
	tbl.AddRow("Net", signed(m.Net))
	tbl.AddRow("ROI", currency.Percent(m.ROI))
	_, _ = fmt.Fprintln(w, tbl)
}

func printScores(w io.Writer, date string, scores []stats.AccountScore) {
	title(w, "Scores on "+date)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("Account"), bold("Yesterday"), bold("Current"), bold("Daily"), bold("Drop"), bold("Predicted"), bold("Reason"))
	for _, s := range scores {
		tbl.AddRow(s.AccountID, number(s.YesterdayTotal), number(s.CurrentTotal), number(s.DailyScore),
			number(s.DropScore), number(s.Predicted), s.Reason)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printHistory(w io.Writer, h stats.HistoryStats) {
	title(w, "History")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("Account"), bold("Records"), bold("Airdrops"), bold("Revenue"), bold("Cost"), bold("Net"))
	for _, a := range h.PerAccount {
		tbl.AddRow(a.AccountID, a.Records, a.Airdrops, currency.Format(a.Revenue), currency.Format(a.Cost), signed(a.Net))
	}
	tbl.AddRow(bold("Total"), "", h.Airdrops, currency.Format(h.Revenue), currency.Format(h.Cost), signed(h.Net))
	_, _ = fmt.Fprintln(w, tbl)
}

func printAccounts(w io.Writer, labels []string, limit int) {
	_, _ = fmt.Fprintf(w, "%s %d of %d\n", bold("Accounts:"), len(labels), limit)
	tbl := uitable.New()
	tbl.MaxColWidth = 80
	tbl.Wrap = true
	row := make([]interface{}, 0, len(labels))
	for _, l := range labels {
		row = append(row, l)
	}
	if len(row) > 0 {
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(w, tbl)
}
