// Command genmock writes a mock agency-style earthquake workbook for local
// runs and tests. The sheet starts with title rows above the real header, the
// way the published agency exports do, so the header detector has work to do.
// After writing, the file is read back through the real loader and pipeline
// and the counts are printed for updating test assertions.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/earthquakes.xlsx -rows 200
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/quake-data-etl-service/internal/adapter/source"
	"github.com/couchcryptid/quake-data-etl-service/internal/domain"
	"github.com/couchcryptid/quake-data-etl-service/internal/observability"
	"github.com/couchcryptid/quake-data-etl-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/tealeg/xlsx/v2"
)

var header = []string{"번호", "발생시각", "규모", "깊이(km)", "위도", "경도", "위치", "비고"}

// site is a rough epicentre cluster used to scatter mock events.
type site struct {
	region string
	lat    float64
	lon    float64
}

var sites = []site{
	{"경북 포항시 북구", 36.10, 129.36},
	{"경북 경주시", 35.77, 129.19},
	{"경북 포항시 남구", 35.98, 129.40},
	{"대구 달성군", 35.70, 128.45},
	{"충북 괴산군", 36.80, 127.80},
	{"전북 부안군", 35.70, 126.71},
	{"제주 서귀포시 서남서쪽 해역", 33.10, 126.10},
	{"경남 창녕군", 35.54, 128.49},
	{"강원 동해시 북동쪽 해역", 37.85, 129.40},
	{"인천 옹진군 연평도 남서쪽 해역", 37.50, 125.40},
}

var (
	firstYear = 2016
	lastYear  = 2024
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/mock/earthquakes.xlsx", "output path for the mock workbook")
	rows := flag.Int("rows", 200, "number of data rows")
	seed := flag.Uint64("seed", 20240426, "random seed")
	flag.Parse()

	if *rows <= 0 {
		return fmt.Errorf("-rows must be positive, got %d", *rows)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	if err := writeWorkbook(*out, generateRows(rng, *rows)); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	log.Printf("wrote %d rows to %s", *rows, *out)

	analysis, err := analyze(*out)
	if err != nil {
		return fmt.Errorf("analyzing workbook: %w", err)
	}
	printStats(analysis)
	return nil
}

// generateRows returns typed cell values the way agency exports store them:
// time.Time for the occurrence time, float64/int for measurements.
func generateRows(rng *rand.Rand, n int) [][]any {
	start := time.Date(firstYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(lastYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	span := end.Sub(start)

	out := make([][]any, 0, n)
	for i := range n {
		s := sites[rng.IntN(len(sites))]
		at := start.Add(time.Duration(rng.Int64N(int64(span)))).Truncate(time.Second)
		// Magnitudes skew small like real catalogues.
		mag := 2.0 + rng.ExpFloat64()*0.7
		row := []any{
			i + 1,
			at,
			round(mag, 1),
			5 + rng.IntN(20),
			round(s.lat+rng.NormFloat64()*0.05, 2),
			round(s.lon+rng.NormFloat64()*0.05, 2),
			s.region,
			"",
		}
		// A few rows carry values the normalizer cannot coerce.
		switch rng.IntN(40) {
		case 0:
			row[1] = "미상"
		case 1:
			row[2] = "-"
		}
		out = append(out, row)
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func writeWorkbook(path string, rows [][]any) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("국내지진목록")
	if err != nil {
		return err
	}

	addRow(sheet, []any{"국내 지진 발생 목록"})
	addRow(sheet, []any{"조회기간", fmt.Sprintf("%d-01-01 ~ %d-12-31", firstYear, lastYear)})
	names := make([]any, len(header))
	for i, h := range header {
		names[i] = h
	}
	addRow(sheet, names)
	for _, r := range rows {
		addRow(sheet, r)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.Save(path)
}

func addRow(sheet *xlsx.Sheet, values []any) {
	row := sheet.AddRow()
	for _, v := range values {
		cell := row.AddCell()
		switch v := v.(type) {
		case time.Time:
			cell.SetDateTime(v)
		case float64:
			cell.SetFloat(v)
		case int:
			cell.SetInt(v)
		case string:
			cell.SetString(v)
		default:
			cell.SetString(fmt.Sprint(v))
		}
	}
}

func analyze(path string) (*pipeline.Analysis, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	analyzer := pipeline.NewAnalyzer(
		domain.NewHeaderDetector(),
		domain.NewClassifier(nil),
		domain.RegionSelect,
		logger,
		metrics,
		// Fixed clock keeps AnalyzedAt reproducible.
		pipeline.WithClock(clockwork.NewFakeClockAt(time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC))),
	)
	svc := pipeline.New(source.NewLoader(path, source.Options{}), analyzer, nil, logger, metrics)

	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	return svc.Analyze(ctx, pipeline.Selection{})
}

func printStats(a *pipeline.Analysis) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Header row: %d (fallback=%t)\n", a.Header.Row, a.Header.Fallback)
	fmt.Printf("Columns: %v\n", a.Columns)
	for _, r := range domain.Roles {
		col, _ := a.Mapping.Column(r)
		fmt.Printf("  %-9s -> %s\n", r, col)
	}
	fmt.Printf("Total: %d\n", a.Summary.Total)
	fmt.Printf("Coercion failures: time=%d magnitude=%d coords=%d\n",
		a.Coercion.TimeFailures, a.Coercion.MagnitudeFailures, a.Coercion.CoordFailures)

	fmt.Println("By bucket:")
	for _, c := range a.Summary.ByBucket {
		fmt.Printf("  %s=%d\n", c.Key, c.Count)
	}
	fmt.Println("By year:")
	for _, c := range a.Summary.ByYear {
		fmt.Printf("  %s=%d\n", c.Key, c.Count)
	}
	fmt.Printf("Regions (%d):\n", len(a.Summary.ByRegion))
	for _, c := range a.Summary.ByRegion {
		fmt.Printf("  %s=%d\n", c.Key, c.Count)
	}
	fmt.Printf("Points: %d\n", len(a.Points))
}
