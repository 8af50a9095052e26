package ingest

import (
	"regexp"
	"strings"
)

// Kind is the detected layout of pasted text.
type Kind string

const (
	KindUnknown     Kind = ""
	KindExported    Kind = "exported"
	KindSpreadsheet Kind = "spreadsheet"
)

// CostColumn is the fixed spreadsheet column holding the shared daily cost.
const CostColumn = 19

const (
	accountCellWeight = 10
	revenueCellWeight = 5
	headerProbeRows   = 10
	dateProbeRows     = 4
	dataProbeRows     = 9
)

// AccountColumn locates one account in a spreadsheet paste.
// RevenueCol is -1 when the account has no revenue column.
type AccountColumn struct {
	Label      string `json:"label"`
	ScoreCol   int    `json:"scoreCol"`
	RevenueCol int    `json:"revenueCol"`
}

// ExportedColumns locates each field of an exported-format row; -1 when absent.
type ExportedColumns struct {
	Date        int `json:"date"`
	Account     int `json:"account"`
	Score       int `json:"score"`
	Balance     int `json:"balance"`
	Revenue     int `json:"revenue"`
	Cost        int `json:"cost"`
	Net         int `json:"net"`
	Adjust      int `json:"adjust"`
	PrevBalance int `json:"prevBalance"`
}

// Layout is the structured result of classifying a pasted grid.
type Layout struct {
	Kind       Kind             `json:"kind"`
	HeaderRow  int              `json:"headerRow"`
	DateCol    int              `json:"dateCol"`
	Accounts   []AccountColumn  `json:"accounts,omitempty"`
	Exported   *ExportedColumns `json:"exported,omitempty"`
	CostCol    int              `json:"costCol"`
	DataStart  int              `json:"dataStart"`
	Confidence int              `json:"confidence"`
	Err        *ParseError      `json:"-"`
}

// OK reports whether the grid was recognized.
func (l Layout) OK() bool {
	return l.Err == nil && l.Kind != KindUnknown
}

var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+)号`),
	regexp.MustCompile(`(\d+)号空投`),
	regexp.MustCompile(`(\d+)号积分`),
}

// Classify inspects a grid and reports which column holds which field.
// It never reads past the grid and has no side effects.
func Classify(rows [][]string) Layout {
	if len(rows) < 2 {
		return Layout{Err: ErrInsufficientData}
	}
	if isExportedHeader(rows[0]) {
		cols := exportedColumns(rows[0])
		return Layout{
			Kind:       KindExported,
			HeaderRow:  0,
			DateCol:    cols.Date,
			Exported:   &cols,
			CostCol:    cols.Cost,
			DataStart:  1,
			Confidence: 100,
		}
	}
	return classifySpreadsheet(rows)
}

func isExportedHeader(row []string) bool {
	return len(row) >= 3 &&
		strings.Contains(row[0], "日期") &&
		strings.Contains(row[1], "账号") &&
		strings.Contains(row[2], "积分")
}

// exportedColumns maps export labels to columns. A label missing from the
// header keeps its export position only when that header cell is blank, so a
// template without the net column still lines up.
func exportedColumns(header []string) ExportedColumns {
	locate := func(label string, fallback int) int {
		for i, c := range header {
			if compact(c) == label {
				return i
			}
		}
		if compact(cell(header, fallback)) == "" {
			return fallback
		}
		return -1
	}
	return ExportedColumns{
		Date:        0,
		Account:     1,
		Score:       2,
		Balance:     locate(exportHeader[3], 3),
		Revenue:     locate(exportHeader[4], 4),
		Cost:        locate(exportHeader[5], 5),
		Net:         locate(exportHeader[6], 6),
		Adjust:      locate(exportHeader[7], 7),
		PrevBalance: locate(exportHeader[8], 8),
	}
}

func classifySpreadsheet(rows [][]string) Layout {
	layout := Layout{Kind: KindSpreadsheet, HeaderRow: -1, DateCol: -1, CostCol: CostColumn}

	best := 0
	for i, row := range rows[:min(headerProbeRows, len(rows))] {
		if score := headerScore(row); score > best {
			best, layout.HeaderRow = score, i
		}
	}
	layout.Confidence = best
	if layout.HeaderRow < 0 {
		layout.Err = ErrNoHeader
		return layout
	}

	header := rows[layout.HeaderRow]
	layout.DateCol = findDateColumn(rows, layout.HeaderRow)
	layout.Accounts = findAccountColumns(header)

	if len(layout.Accounts) == 0 {
		layout.Err = ErrNoAccountColumn
		return layout
	}
	if layout.DateCol < 0 {
		layout.Err = ErrNoDateColumn
		return layout
	}

	layout.DataStart = layout.HeaderRow + 1
	for i := layout.HeaderRow + 1; i < min(layout.HeaderRow+1+dataProbeRows, len(rows)); i++ {
		if _, ok := ParseDate(cell(rows[i], layout.DateCol)); ok {
			layout.DataStart = i
			break
		}
	}
	return layout
}

func headerScore(row []string) int {
	score := 0
	for _, c := range row {
		if c == "" {
			continue
		}
		if strings.Contains(c, "号") && c != "账号" {
			score += accountCellWeight
		}
		if isRevenueLabel(c) {
			score += revenueCellWeight
		}
	}
	return score
}

func isRevenueLabel(c string) bool {
	return strings.Contains(c, "空投") || strings.Contains(c, "收益")
}

func findDateColumn(rows [][]string, headerRow int) int {
	col := -1
	for i, c := range rows[headerRow] {
		c = compact(c)
		if strings.Contains(c, "日期") || strings.Contains(strings.ToLower(c), "date") {
			col = i
		}
	}
	if col >= 0 {
		return col
	}
	for i := headerRow + 1; i < min(headerRow+1+dateProbeRows, len(rows)); i++ {
		if _, ok := ParseDate(cell(rows[i], 0)); ok {
			return 0
		}
	}
	return -1
}

func findAccountColumns(header []string) []AccountColumn {
	var accounts []AccountColumn
	find := func(label string) int {
		for i := range accounts {
			if accounts[i].Label == label {
				return i
			}
		}
		return -1
	}

	for i, raw := range header {
		c := compact(raw)
		if c == "" {
			continue
		}
		if label, ok := matchAccount(c); ok {
			if idx := find(label); idx >= 0 {
				if isRevenueLabel(c) && accounts[idx].RevenueCol == -1 {
					accounts[idx].RevenueCol = i
				}
				continue
			}
			if isRevenueLabel(c) {
				accounts = append(accounts, AccountColumn{Label: label, ScoreCol: i, RevenueCol: i})
			} else {
				accounts = append(accounts, AccountColumn{Label: label, ScoreCol: i, RevenueCol: -1})
			}
			continue
		}
		if isRevenueLabel(c) && len(accounts) > 0 {
			last := &accounts[len(accounts)-1]
			if last.RevenueCol == -1 {
				last.RevenueCol = i
			}
		}
	}
	return accounts
}

func matchAccount(c string) (string, bool) {
	for _, re := range accountPatterns {
		if m := re.FindStringSubmatch(c); m != nil {
			return m[1] + "号", true
		}
	}
	return "", false
}

// compact removes all whitespace from a header cell.
func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
