package domain

import (
	"fmt"
	"strings"
)

// FailurePolicy selects what HeaderDetector does when no data row is found.
type FailurePolicy string

const (
	// FailOnMissingHeader reports ErrHeaderNotFound to the caller.
	FailOnMissingHeader FailurePolicy = "fail"
	// DefaultToFirstRow treats row 0 as the header.
	DefaultToFirstRow FailurePolicy = "default_to_zero"
)

const (
	DefaultScanWindow       = 10
	DefaultNumericThreshold = 2
)

// ParseFailurePolicy validates a policy name from configuration.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case FailOnMissingHeader, DefaultToFirstRow:
		return p, nil
	default:
		return "", fmt.Errorf("unknown header failure policy %q (want %q or %q)", s, FailOnMissingHeader, DefaultToFirstRow)
	}
}

// HeaderDetector locates the header row of a RawTable.
type HeaderDetector struct {
	ScanWindow       int
	NumericThreshold int
	OnFailure        FailurePolicy
}

// NewHeaderDetector returns a detector with the strict defaults.
func NewHeaderDetector() HeaderDetector {
	return HeaderDetector{
		ScanWindow:       DefaultScanWindow,
		NumericThreshold: DefaultNumericThreshold,
		OnFailure:        FailOnMissingHeader,
	}
}

// HeaderResult describes the detection outcome.
type HeaderResult struct {
	Row       int  `json:"row"`
	DataRow   int  `json:"data_row"` // first qualifying data row, -1 on fallback
	Fallback  bool `json:"fallback"`
	Scanned   int  `json:"scanned"`
	Threshold int  `json:"threshold"`
}

// Detect returns the index of the most likely header row. The first row in
// the scan window with at least NumericThreshold numeric cells marks the start
// of data; the header is the row above it, clamped to 0.
func (d HeaderDetector) Detect(table RawTable) (HeaderResult, error) {
	window := d.ScanWindow
	if window <= 0 {
		window = DefaultScanWindow
	}
	threshold := d.NumericThreshold
	if threshold <= 0 {
		threshold = DefaultNumericThreshold
	}
	scanned := min(window, len(table))

	for i := 0; i < scanned; i++ {
		if countNumeric(table[i]) >= threshold {
			return HeaderResult{
				Row:       max(i-1, 0),
				DataRow:   i,
				Scanned:   i + 1,
				Threshold: threshold,
			}, nil
		}
	}

	if d.OnFailure == DefaultToFirstRow {
		return HeaderResult{Row: 0, DataRow: -1, Fallback: true, Scanned: scanned, Threshold: threshold}, nil
	}
	return HeaderResult{}, fmt.Errorf("scanned %d rows with threshold %d: %w", scanned, threshold, ErrHeaderNotFound)
}

// Label splits table at the detected header row. Rows above the header are
// discarded; header cells become trimmed column names.
func Label(table RawTable, h HeaderResult) (LabeledTable, error) {
	if h.Row < 0 || h.Row >= len(table) {
		return LabeledTable{}, fmt.Errorf("header row %d of %d: %w", h.Row, len(table), ErrNoColumns)
	}
	columns := headerNames(table[h.Row])
	if len(columns) == 0 {
		return LabeledTable{}, fmt.Errorf("header row %d: %w", h.Row, ErrNoColumns)
	}
	rows := table[h.Row+1:]
	return LabeledTable{HeaderRow: h.Row, Columns: columns, Rows: rows}, nil
}

func countNumeric(row []string) int {
	n := 0
	for _, cell := range row {
		if isNumericCell(cell) {
			n++
		}
	}
	return n
}
