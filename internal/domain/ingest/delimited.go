package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

// SplitRows turns pasted clipboard text into a grid of trimmed cells.
// A leading BOM and blank lines are dropped. The delimiter is a tab when the first line
// contains one, else a comma. Quotes toggle an in-quotes state so delimiters
// inside quotes are kept; the quotes themselves are dropped and a doubled
// quote inside a quoted cell becomes a single one.
func SplitRows(text string) [][]string {
	text = strings.TrimPrefix(text, utf8BOM)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	delim := ','
	if strings.ContainsRune(lines[0], '\t') {
		delim = '\t'
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, splitLine(line, delim))
	}
	return rows
}

func splitLine(line string, delim rune) []string {
	var (
		row     []string
		current strings.Builder
		inQuote bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"' && inQuote && i+1 < len(runes) && runes[i+1] == '"':
			current.WriteRune('"')
			i++
		case ch == '"':
			inQuote = !inQuote
		case ch == delim && !inQuote:
			row = append(row, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(row, strings.TrimSpace(current.String()))
}

var leadingNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

// parseNumber reads the leading numeric value of a cell. Thousands
// separators and a currency sign are ignored.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$¥")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	return v, err == nil
}

// cell returns row[i] or "" when the row is too short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
