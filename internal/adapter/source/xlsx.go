package source

import (
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/quake-data-etl-service/internal/domain"
	"github.com/tealeg/xlsx/v2"
)

// readXLSX returns every non-blank row of one sheet as cell strings.
func readXLSX(path string, sheetIndex int) (domain.RawTable, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open file: %w", err)
	}
	if sheetIndex < 0 || sheetIndex >= len(f.Sheets) {
		return nil, fmt.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", sheetIndex, len(f.Sheets))
	}

	sheet := f.Sheets[sheetIndex]
	table := make(domain.RawTable, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		table = appendRow(table, rowToStrings(row, f.Date1904))
	}
	return table, nil
}

// cellTimeLayout is how date-formatted cells are rendered. It is one of the
// layouts domain.ParseTime accepts.
const cellTimeLayout = "2006-01-02 15:04:05"

// rowToStrings converts a row to cell strings. Workbooks pad every row to the
// sheet dimension, so trailing blank cells are dropped.
func rowToStrings(row *xlsx.Row, date1904 bool) []string {
	cells := make([]string, len(row.Cells))
	last := -1
	for j, cell := range row.Cells {
		if cell == nil {
			continue
		}
		cells[j] = cellString(cell, date1904)
		if strings.TrimSpace(cells[j]) != "" {
			last = j
		}
	}
	return cells[:last+1]
}

// cellString returns a cell's text. Date cells carry a serial number whose
// display text depends on the workbook's number format ("9/12/16 20:32"), so
// they are rendered from the underlying time instead.
func cellString(cell *xlsx.Cell, date1904 bool) string {
	if cell.IsTime() {
		if t, err := cell.GetTime(date1904); err == nil {
			return t.Round(time.Second).Format(cellTimeLayout)
		}
	}
	return cell.String()
}
