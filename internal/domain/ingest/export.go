package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"alphadash/internal/domain/record"
)

// utf8BOM lets spreadsheet applications detect the encoding.
const utf8BOM = "\uFEFF"

var (
	exportHeader   = []string{"日期", "账号", "积分", "余额", "收益", "磨损", "净利润", "余额调整", "昨日余额"}
	templateHeader = []string{"日期", "账号", "积分", "余额", "收益", "磨损", "余额调整", "昨日余额"}
	templateRows   = [][]string{
		{"2026-01-01", "1号", "15", "1200.50", "0", "3.25", "0", "1203.75"},
		{"2026-01-01", "2号", "12", "800.00", "0", "2.50", "0", "802.50"},
		{"2026-01-02", "1号", "18", "1197.25", "0", "3.25", "0", "1200.50"},
		{"2026-01-02", "2号", "14", "797.50", "0", "2.50", "0", "800.00"},
	}
)

// WriteCSV writes records in export column order, preceded by a BOM.
// Absent optional fields are written as empty cells.
func WriteCSV(w io.Writer, records []record.DailyRecord) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date,
			r.AccountID,
			formatNumber(r.Score),
			formatOptional(r.Balance),
			formatOptional(r.Revenue),
			formatNumber(r.Cost),
			formatNumber(r.Net),
			formatOptional(r.BalanceAdjust),
			formatOptional(r.PrevBalance),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %s: %w", r.Key(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []record.DailyRecord) error {
	if records == nil {
		records = []record.DailyRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteTemplate writes a blank import template with example rows.
func WriteTemplate(w io.Writer) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(templateHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(templateRows); err != nil {
		return err
	}
	return cw.Error()
}

// ExportFilename names an export file after the given day.
func ExportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("AlphaDash_Export_%s.%s", now.Format(record.DateLayout), ext)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(p *float64) string {
	if p == nil {
		return ""
	}
	return formatNumber(*p)
}
