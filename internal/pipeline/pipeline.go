package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-data-etl-service/internal/domain"
	"github.com/couchcryptid/quake-data-etl-service/internal/observability"
)

// TableLoader reads the raw source table.
type TableLoader interface {
	Load(ctx context.Context) (domain.RawTable, error)
}

// BatchExporter writes normalized records to a downstream sink.
type BatchExporter interface {
	ExportBatch(ctx context.Context, records []domain.NormalizedRecord, analyzedAt time.Time) error
}

// ErrExportDisabled is returned by Export when no sink is configured.
var ErrExportDisabled = errors.New("export sink is not configured")

// ErrNotLoaded is returned when the source table has not been loaded yet.
var ErrNotLoaded = errors.New("source table not loaded")

const maxExportAttempts = 3

// Service owns the loaded source table and reruns the Analyzer over it for
// each request. The table is read once; every request sees the same
// immutable grid.
type Service struct {
	loader   TableLoader
	analyzer *Analyzer
	exporter BatchExporter
	logger   *slog.Logger
	metrics  *observability.Metrics
	table    atomic.Pointer[domain.RawTable]
}

// New creates a Service. exporter may be nil to disable exports.
func New(loader TableLoader, analyzer *Analyzer, exporter BatchExporter, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		loader:   loader,
		analyzer: analyzer,
		exporter: exporter,
		logger:   logger,
		metrics:  metrics,
	}
}

// Load reads the source table. A missing source is fatal for the caller.
func (s *Service) Load(ctx context.Context) error {
	table, err := s.loader.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrMissingSource) {
			s.metrics.AnalysisErrors.WithLabelValues("missing_source").Inc()
		}
		return fmt.Errorf("load source: %w", err)
	}
	s.table.Store(&table)
	s.metrics.SourceRows.Set(float64(len(table)))
	s.logger.Info("source table loaded", "rows", len(table))
	return nil
}

// CheckReadiness returns nil once the source table is loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.table.Load() == nil {
		return ErrNotLoaded
	}
	return nil
}

// Columns reports the detected header and per-role suggestions.
func (s *Service) Columns(_ context.Context) (*Analysis, error) {
	table := s.table.Load()
	if table == nil {
		return nil, ErrNotLoaded
	}
	return s.analyzer.Columns(*table)
}

// Analyze reruns the full pipeline for sel.
func (s *Service) Analyze(ctx context.Context, sel Selection) (*Analysis, error) {
	table := s.table.Load()
	if table == nil {
		return nil, ErrNotLoaded
	}
	return s.analyzer.Analyze(ctx, *table, sel)
}

// Export reruns the pipeline for sel and publishes the filtered records.
// Transient sink failures are retried with exponential backoff.
func (s *Service) Export(ctx context.Context, sel Selection) (int, error) {
	if s.exporter == nil {
		return 0, ErrExportDisabled
	}
	analysis, err := s.Analyze(ctx, sel)
	if err != nil {
		return 0, err
	}
	if len(analysis.Records) == 0 {
		return 0, nil
	}

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for attempt := 1; ; attempt++ {
		err = s.exporter.ExportBatch(ctx, analysis.Records, analysis.AnalyzedAt)
		if err == nil {
			s.metrics.RecordsExported.Add(float64(len(analysis.Records)))
			s.logger.Info("records exported", "count", len(analysis.Records))
			return len(analysis.Records), nil
		}
		s.metrics.ExportErrors.Inc()
		s.logger.Error("export batch failed", "error", err, "attempt", attempt, "batch_size", len(analysis.Records))
		if attempt == maxExportAttempts || !sleepWithContext(ctx, backoff) {
			return 0, fmt.Errorf("export records: %w", err)
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
