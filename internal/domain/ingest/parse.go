package ingest

import "alphadash/internal/domain/record"

// DefaultAccount is used for exported rows with a blank account cell.
const DefaultAccount = "1号"

// Result is a parsed staging set. Nothing is persisted until it is committed.
type Result struct {
	Layout  Layout               `json:"layout"`
	Records []record.DailyRecord `json:"records"`
}

// Parse converts pasted text into candidate records. Recognized failures are
// returned as *ParseError.
func Parse(text string) (Result, error) {
	rows := SplitRows(text)
	layout := Classify(rows)
	if layout.Err != nil {
		return Result{Layout: layout}, layout.Err
	}

	var (
		records []record.DailyRecord
		empty   *ParseError
	)
	switch layout.Kind {
	case KindExported:
		records, empty = parseExported(rows, *layout.Exported), ErrNoExportedRows
	default:
		records, empty = parseSpreadsheet(rows, layout), ErrNoRecords
	}
	if len(records) == 0 {
		return Result{Layout: layout}, empty
	}
	return Result{Layout: layout, Records: records}, nil
}

func parseExported(rows [][]string, cols ExportedColumns) []record.DailyRecord {
	var out []record.DailyRecord
	for _, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}
		date, ok := ParseDate(cell(row, cols.Date))
		if !ok {
			continue
		}

		account := cell(row, cols.Account)
		if account == "" {
			account = DefaultAccount
		}
		score, _ := parseNumber(cell(row, cols.Score))
		cost, _ := parseNumber(cell(row, cols.Cost))
		revenue := optionalNumber(cell(row, cols.Revenue))

		net, ok := parseNumber(cell(row, cols.Net))
		if !ok || net == 0 {
			net = record.ComputeNet(record.Value(revenue), cost)
		}

		out = append(out, record.DailyRecord{
			Date:          date,
			AccountID:     account,
			Score:         score,
			Balance:       optionalNumber(cell(row, cols.Balance)),
			Revenue:       revenue,
			Cost:          cost,
			Net:           net,
			ProjectID:     record.ProjectSeed,
			BalanceAdjust: optionalNumber(cell(row, cols.Adjust)),
			PrevBalance:   optionalNumber(cell(row, cols.PrevBalance)),
		})
	}
	return out
}

func parseSpreadsheet(rows [][]string, layout Layout) []record.DailyRecord {
	var out []record.DailyRecord
	for _, row := range rows[layout.DataStart:] {
		date, ok := ParseDate(cell(row, layout.DateCol))
		if !ok {
			continue
		}

		dailyCost, _ := parseNumber(cell(row, layout.CostCol))
		costPerAccount := dailyCost / float64(len(layout.Accounts))

		for _, acc := range layout.Accounts {
			score, ok := parseNumber(cell(row, acc.ScoreCol))
			if !ok {
				continue
			}
			revenue := 0.0
			if acc.RevenueCol >= 0 {
				revenue, _ = parseNumber(cell(row, acc.RevenueCol))
			}
			out = append(out, record.DailyRecord{
				Date:      date,
				AccountID: acc.Label,
				Score:     score,
				Balance:   record.Float(0),
				Revenue:   record.Float(revenue),
				Cost:      costPerAccount,
				Net:       revenue - costPerAccount,
				ProjectID: record.ProjectImport,
			})
		}
	}
	return out
}

// optionalNumber returns nil for a blank or non-numeric cell.
func optionalNumber(s string) *float64 {
	v, ok := parseNumber(s)
	if !ok {
		return nil
	}
	return record.Float(v)
}
