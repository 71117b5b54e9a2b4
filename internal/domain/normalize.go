package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v2"
)

// timeLayouts are tried in order. Agency exports mix ISO dates, slash and dot
// separated dates, and date-only values.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"2006.01.02",
	"2006. 1. 2. 15:04:05",
	"2006. 1. 2.",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"20060102150405",
	"20060102",
	"2006",
}

// Excel serial day numbers covering 1900-01-01 through 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// Normalize derives typed fields for every row of table. It is total: the
// result has exactly one record per row, with nil fields where a cell could
// not be coerced.
func Normalize(table LabeledTable, mapping RoleMapping) ([]NormalizedRecord, CoercionStats) {
	idx := func(r Role) int {
		col, ok := mapping.Column(r)
		if !ok {
			return -1
		}
		return table.ColumnIndex(col)
	}
	timeCol, magCol, regionCol := idx(RoleTime), idx(RoleMagnitude), idx(RoleRegion)
	latCol, lonCol := idx(RoleLatitude), idx(RoleLongitude)

	stats := CoercionStats{Rows: len(table.Rows)}
	out := make([]NormalizedRecord, len(table.Rows))
	for i, row := range table.Rows {
		rec := NormalizedRecord{
			ID:     recordID(i, row),
			Index:  i,
			Cells:  row,
			Region: strings.TrimSpace(table.Cell(i, regionCol)),
		}

		if timeCol >= 0 {
			if t, ok := ParseTime(table.Cell(i, timeCol)); ok {
				year := t.Year()
				rec.Time, rec.Year = &t, &year
			} else {
				stats.TimeFailures++
			}
		}

		if magCol >= 0 {
			if m, ok := parseNumber(table.Cell(i, magCol)); ok {
				rec.Magnitude = &m
				rec.Bucket = BucketFor(m)
			} else {
				stats.MagnitudeFailures++
			}
		}

		if latCol >= 0 && lonCol >= 0 {
			lat, okLat := parseNumber(table.Cell(i, latCol))
			lon, okLon := parseNumber(table.Cell(i, lonCol))
			if okLat && okLon {
				rec.Lat, rec.Lon = &lat, &lon
			} else {
				stats.CoordFailures++
			}
		}

		out[i] = rec
	}
	return out, stats
}

// ParseTime parses a time cell. It tries the known text layouts first, then
// falls back to interpreting a bare number as an Excel serial date.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && v >= minExcelSerial && v <= maxExcelSerial {
		return xlsx.TimeFromExcelTime(v, false), true
	}
	return time.Time{}, false
}

// BucketFor assigns a magnitude to its bucket. Intervals are closed above,
// with 0 included in the lowest bucket. Values outside [0, 10] get none.
func BucketFor(m float64) Bucket {
	switch {
	case m < 0 || m > 10:
		return BucketNone
	case m <= 2:
		return Bucket0To2
	case m <= 3:
		return Bucket2To3
	case m <= 4:
		return Bucket3To4
	case m <= 5:
		return Bucket4To5
	case m <= 6:
		return Bucket5To6
	default:
		return Bucket6AndUp
	}
}

// recordID produces a deterministic ID from the row position and contents so
// re-exporting the same table yields the same keys downstream.
func recordID(index int, cells []string) string {
	input := fmt.Sprintf("%d|%s", index, strings.Join(cells, "\x1f"))
	hash := sha256.Sum256([]byte(input))
	return "eq-" + hex.EncodeToString(hash[:8])
}
