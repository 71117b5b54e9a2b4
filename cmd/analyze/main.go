// Command analyze runs the detection, normalization, and filtering pipeline
// once over a spreadsheet and prints the analysis as JSON.
//
// Usage:
//
//	go run ./cmd/analyze -source data/earthquakes.xlsx \
//	  -magnitude 규모 -latitude none \
//	  -region-mode substring -region 포항 \
//	  -year-min 2016 -year-max 2020
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/couchcryptid/quake-data-etl-service/internal/adapter/source"
	"github.com/couchcryptid/quake-data-etl-service/internal/config"
	"github.com/couchcryptid/quake-data-etl-service/internal/domain"
	"github.com/couchcryptid/quake-data-etl-service/internal/observability"
	"github.com/couchcryptid/quake-data-etl-service/internal/pipeline"
)

type options struct {
	source     string
	sheet      int
	encoding   string
	keywords   string
	window     int
	threshold  int
	onFailure  string
	regionMode string
	region     string
	roles      map[domain.Role]*string
	magMin     string
	magMax     string
	yearMin    string
	yearMax    string
	skipMag    bool
	skipYear   bool
	columns    bool
	preview    int
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	keywords := domain.DefaultKeywords()
	if opts.keywords != "" {
		if keywords, err = config.LoadKeywords(opts.keywords); err != nil {
			return err
		}
	}
	onFailure, err := domain.ParseFailurePolicy(opts.onFailure)
	if err != nil {
		return err
	}
	regionMode, err := domain.ParseRegionMode(opts.regionMode)
	if err != nil {
		return err
	}
	sel, err := opts.selection()
	if err != nil {
		return err
	}

	// stdout carries the JSON result; diagnostics go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetricsForTesting()
	analyzer := pipeline.NewAnalyzer(
		domain.HeaderDetector{ScanWindow: opts.window, NumericThreshold: opts.threshold, OnFailure: onFailure},
		domain.NewClassifier(keywords),
		regionMode,
		logger,
		metrics,
	)
	loader := source.NewLoader(opts.source, source.Options{SheetIndex: opts.sheet, Encoding: opts.encoding})
	svc := pipeline.New(loader, analyzer, nil, logger, metrics)

	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		return userError(err)
	}

	var out *pipeline.Analysis
	if opts.columns {
		out, err = svc.Columns(ctx)
	} else {
		out, err = svc.Analyze(ctx, sel)
	}
	if err != nil {
		return userError(err)
	}
	if opts.preview >= 0 && len(out.Records) > opts.preview {
		out.Records = out.Records[:opts.preview]
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	opts := &options{roles: make(map[domain.Role]*string, len(domain.Roles))}

	fs.StringVar(&opts.source, "source", "earthquakes.xlsx", "path to the .xlsx or .csv source")
	fs.IntVar(&opts.sheet, "sheet", 0, "workbook sheet index")
	fs.StringVar(&opts.encoding, "encoding", "utf-8", "CSV encoding: utf-8 or euc-kr")
	fs.StringVar(&opts.keywords, "keywords", "", "optional YAML file of role keywords")
	fs.IntVar(&opts.window, "scan-window", domain.DefaultScanWindow, "rows scanned for the header")
	fs.IntVar(&opts.threshold, "numeric-threshold", domain.DefaultNumericThreshold, "numeric cells that mark a data row")
	fs.StringVar(&opts.onFailure, "on-failure", string(domain.FailOnMissingHeader), "header detection failure: fail or default_to_zero")
	fs.StringVar(&opts.regionMode, "region-mode", string(domain.RegionSelect), "region filter: select or substring")
	fs.StringVar(&opts.region, "region", "", "region value (select) or text (substring)")
	for _, r := range domain.Roles {
		opts.roles[r] = fs.String(string(r), "", fmt.Sprintf("column for %s (overrides detection)", r))
	}
	fs.StringVar(&opts.magMin, "mag-min", "", "minimum magnitude")
	fs.StringVar(&opts.magMax, "mag-max", "", "maximum magnitude")
	fs.StringVar(&opts.yearMin, "year-min", "", "first year")
	fs.StringVar(&opts.yearMax, "year-max", "", "last year")
	fs.BoolVar(&opts.skipMag, "skip-mag", false, "disable the magnitude range")
	fs.BoolVar(&opts.skipYear, "skip-year", false, "disable the year range")
	fs.BoolVar(&opts.columns, "columns", false, "only print the detected header and column suggestions")
	fs.IntVar(&opts.preview, "preview", 20, "records to print (-1 for all)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *options) selection() (pipeline.Selection, error) {
	sel := pipeline.Selection{Columns: domain.RoleMapping{}}
	for r, v := range o.roles {
		if *v != "" {
			sel.Columns[r] = *v
		}
	}
	sel.Filter.Region = o.region
	sel.Filter.SkipMag = o.skipMag
	sel.Filter.SkipYear = o.skipYear

	var err error
	if sel.Filter.MagMin, err = floatFlag("mag-min", o.magMin); err != nil {
		return sel, err
	}
	if sel.Filter.MagMax, err = floatFlag("mag-max", o.magMax); err != nil {
		return sel, err
	}
	if sel.Filter.YearMin, err = intFlag("year-min", o.yearMin); err != nil {
		return sel, err
	}
	if sel.Filter.YearMax, err = intFlag("year-max", o.yearMax); err != nil {
		return sel, err
	}
	return sel, nil
}

func floatFlag(name, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("-%s: %q is not a number", name, s)
	}
	return &v, nil
}

func intFlag(name, s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("-%s: %q is not an integer", name, s)
	}
	return &v, nil
}

// userError replaces a pipeline error with the explanation shown to users,
// keeping the underlying cause on a second line.
func userError(err error) error {
	return fmt.Errorf("%s\n(%w)", domain.UserMessage(err), err)
}
