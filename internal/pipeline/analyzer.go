package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-data-etl-service/internal/domain"
	"github.com/couchcryptid/quake-data-etl-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Selection carries the user's current choices: role overrides and filter input.
type Selection struct {
	Columns domain.RoleMapping
	Filter  domain.FilterRequest
}

// Analysis is the result of one pipeline rerun.
type Analysis struct {
	AnalyzedAt time.Time                 `json:"analyzed_at"`
	Header     domain.HeaderResult       `json:"header"`
	Columns    []string                  `json:"columns"`
	Suggested  domain.RoleMapping        `json:"suggested"`
	Mapping    domain.RoleMapping        `json:"mapping"`
	Choices    map[domain.Role][]string  `json:"choices"`
	Regions    []string                  `json:"regions"`
	Bounds     domain.Bounds             `json:"bounds"`
	Filter     domain.FilterSpec         `json:"filter"`
	Coercion   domain.CoercionStats      `json:"coercion"`
	Summary    domain.Summary            `json:"summary"`
	Points     []domain.Point            `json:"points,omitempty"`
	Notices    []domain.Notice           `json:"notices,omitempty"`
	Records    []domain.NormalizedRecord `json:"records"`
}

// Analyzer runs detection, classification, resolution, normalization, and
// filtering over a table. It holds configuration only; every call starts
// from scratch.
type Analyzer struct {
	detector   domain.HeaderDetector
	classifier domain.Classifier
	regionMode domain.RegionMode
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      clockwork.Clock
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithClock sets the time source used for AnalyzedAt and durations.
func WithClock(c clockwork.Clock) Option {
	return func(a *Analyzer) { a.clock = c }
}

// NewAnalyzer creates an Analyzer. regionMode fixes which region predicate
// the session's filter control drives.
func NewAnalyzer(detector domain.HeaderDetector, classifier domain.Classifier, regionMode domain.RegionMode, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Analyzer {
	a := &Analyzer{
		detector:   detector,
		classifier: classifier,
		regionMode: regionMode,
		logger:     logger,
		metrics:    metrics,
		clock:      clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Columns runs only the detection half of the pipeline: header row, column
// names, suggestions, and selector choices.
func (a *Analyzer) Columns(table domain.RawTable) (*Analysis, error) {
	header, labeled, err := a.label(table)
	if err != nil {
		return nil, err
	}
	suggested := a.classifier.Classify(labeled.Columns)
	return &Analysis{
		AnalyzedAt: a.clock.Now(),
		Header:     header,
		Columns:    labeled.Columns,
		Suggested:  suggested,
		Choices:    choices(labeled.Columns),
		Notices:    headerNotices(header),
	}, nil
}

// Analyze performs one full rerun for the given selection. Per-cell parse
// failures never fail the run; only header, column, and selection problems do.
func (a *Analyzer) Analyze(ctx context.Context, table domain.RawTable, sel Selection) (*Analysis, error) {
	start := a.clock.Now()
	a.metrics.Analyses.Inc()

	out, err := a.analyze(ctx, table, sel)
	if err != nil {
		a.metrics.AnalysisErrors.WithLabelValues(errorReason(err)).Inc()
		a.logger.Warn("analysis failed", "error", err)
		return nil, err
	}

	out.AnalyzedAt = start
	a.metrics.AnalysisDuration.Observe(a.clock.Since(start).Seconds())
	a.logger.Debug("analysis complete",
		"header_row", out.Header.Row,
		"rows", out.Coercion.Rows,
		"filtered", out.Summary.Total,
	)
	return out, nil
}

func (a *Analyzer) analyze(ctx context.Context, table domain.RawTable, sel Selection) (*Analysis, error) {
	header, labeled, err := a.label(table)
	if err != nil {
		return nil, err
	}

	suggested := a.classifier.Classify(labeled.Columns)
	mapping, err := domain.Resolve(labeled.Columns, suggested, sel.Columns)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, stats := domain.Normalize(labeled, mapping)
	a.recordCoercion(stats)

	bounds := domain.ObserveBounds(records)
	req := sel.Filter
	req.RegionMode = a.regionMode
	spec := domain.NewFilterSpec(bounds, req)
	filtered := domain.Apply(records, spec)
	a.metrics.RecordsFiltered.Observe(float64(len(filtered)))

	out := &Analysis{
		Header:    header,
		Columns:   labeled.Columns,
		Suggested: suggested,
		Mapping:   mapping,
		Choices:   choices(labeled.Columns),
		Regions:   domain.Regions(records),
		Bounds:    bounds,
		Filter:    spec,
		Coercion:  stats,
		Summary:   domain.Summarize(filtered),
		Notices:   headerNotices(header),
		Records:   filtered,
	}

	points, notice := domain.Points(filtered, mapping)
	out.Points = points
	if notice != nil {
		out.Notices = append(out.Notices, *notice)
	}
	return out, nil
}

func (a *Analyzer) label(table domain.RawTable) (domain.HeaderResult, domain.LabeledTable, error) {
	header, err := a.detector.Detect(table)
	if err != nil {
		return domain.HeaderResult{}, domain.LabeledTable{}, err
	}
	if header.Fallback {
		a.metrics.HeaderFallbacks.Inc()
		a.logger.Info("header detection fell back to row 0", "scanned", header.Scanned, "threshold", header.Threshold)
	}
	labeled, err := domain.Label(table, header)
	if err != nil {
		return domain.HeaderResult{}, domain.LabeledTable{}, err
	}
	return header, labeled, nil
}

func (a *Analyzer) recordCoercion(stats domain.CoercionStats) {
	a.metrics.RecordsNormalized.Add(float64(stats.Rows))
	if stats.TimeFailures > 0 {
		a.metrics.CoercionFailures.WithLabelValues("time").Add(float64(stats.TimeFailures))
	}
	if stats.MagnitudeFailures > 0 {
		a.metrics.CoercionFailures.WithLabelValues("magnitude").Add(float64(stats.MagnitudeFailures))
	}
	if stats.CoordFailures > 0 {
		a.metrics.CoercionFailures.WithLabelValues("coordinates").Add(float64(stats.CoordFailures))
	}
}

func choices(columns []string) map[domain.Role][]string {
	out := make(map[domain.Role][]string, len(domain.Roles))
	for _, r := range domain.Roles {
		out[r] = domain.Choices(columns, r)
	}
	return out
}

func headerNotices(h domain.HeaderResult) []domain.Notice {
	if !h.Fallback {
		return nil
	}
	return []domain.Notice{{
		Code:    domain.NoticeHeaderFallback,
		Message: "No data rows were found near the top of the file; the first row is used as the header.",
	}}
}

// errorReason maps a fatal error to a low-cardinality metrics label.
func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingSource):
		return "missing_source"
	case errors.Is(err, domain.ErrHeaderNotFound):
		return "header"
	case errors.Is(err, domain.ErrNoColumns):
		return "columns"
	case errors.Is(err, domain.ErrUnknownColumn), errors.Is(err, domain.ErrRoleRequired):
		return "selection"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
