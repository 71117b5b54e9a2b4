package domain

import (
	"math"
	"strconv"
	"strings"
)

// RawTable is a headerless grid of cell values as read from the source.
// Rows may be ragged; missing trailing cells read as empty.
type RawTable [][]string

// LabeledTable is a RawTable split at its header row.
type LabeledTable struct {
	HeaderRow int        `json:"header_row"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"-"`
}

// Cell returns the value at (row, col), or "" when the row is shorter than col.
func (t LabeledTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// ColumnIndex returns the position of the first column named name, or -1.
func (t LabeledTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// headerNames converts a header row into column names. Cells are trimmed and
// blank cells are given a positional name so they can still be selected.
func headerNames(row []string) []string {
	names := make([]string, len(row))
	for i, cell := range row {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		names[i] = name
	}
	return names
}

// isNumericCell reports whether a cell coerces to a finite number.
// Thousands separators are tolerated ("1,234.5").
func isNumericCell(s string) bool {
	_, ok := parseNumber(s)
	return ok
}

// parseNumber trims s and parses it as a finite float64.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	// ParseFloat accepts "NaN" and "Inf", which are not data.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
