// Package source loads raw, headerless tables from spreadsheet files.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/quake-data-etl-service/internal/domain"
)

// Options configures how a source file is read.
type Options struct {
	SheetIndex int    // workbook sheet, default 0
	Encoding   string // CSV text encoding: "utf-8" (default) or "euc-kr"
}

// Loader reads a RawTable from a file. It implements pipeline.TableLoader.
type Loader struct {
	path string
	opts Options
}

// NewLoader returns a Loader for path. The format is chosen by extension.
func NewLoader(path string, opts Options) *Loader {
	return &Loader{path: path, opts: opts}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.path }

// Load reads the whole file. A missing file yields domain.ErrMissingSource.
func (l *Loader) Load(ctx context.Context) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(l.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", l.path, domain.ErrMissingSource)
		}
		return nil, fmt.Errorf("stat source: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(l.path)); ext {
	case ".xlsx":
		return readXLSX(l.path, l.opts.SheetIndex)
	case ".csv", ".txt":
		return readCSV(l.path, l.opts.Encoding)
	default:
		return nil, fmt.Errorf("unsupported source format %q", ext)
	}
}

// appendRow adds row to table unless every cell is blank.
func appendRow(table domain.RawTable, row []string) domain.RawTable {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return append(table, row)
		}
	}
	return table
}
