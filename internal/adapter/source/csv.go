package source

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/couchcryptid/quake-data-etl-service/internal/domain"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

const utf8BOM = "\ufeff"

// readCSV reads a delimited text file. Records may have differing field
// counts; EUC-KR input is transcoded to UTF-8 first.
func readCSV(path, encoding string) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open file: %w", err)
	}
	defer f.Close()

	r, err := decoder(f, encoding)
	if err != nil {
		return nil, err
	}
	return parseCSV(r)
}

func decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "euc-kr", "cp949":
		return transform.NewReader(r, korean.EUCKR.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("csv: unsupported encoding %q", encoding)
	}
}

func parseCSV(r io.Reader) (domain.RawTable, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var table domain.RawTable
	for first := true; ; first = false {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read: %w", err)
		}
		if first && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], utf8BOM)
		}
		table = appendRow(table, row)
	}
	return table, nil
}
