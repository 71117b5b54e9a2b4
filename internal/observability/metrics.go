package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the analysis pipeline.
type Metrics struct {
	Analyses          prometheus.Counter
	AnalysisErrors    *prometheus.CounterVec // labels: reason={missing_source,header,columns,selection,other}
	HeaderFallbacks   prometheus.Counter
	RecordsNormalized prometheus.Counter
	RecordsFiltered   prometheus.Histogram
	CoercionFailures  *prometheus.CounterVec // labels: field={time,magnitude,coordinates}
	AnalysisDuration  prometheus.Histogram
	SourceRows        prometheus.Gauge

	// Export metrics.
	RecordsExported prometheus.Counter
	ExportErrors    prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewMetricsForTesting()
	prometheus.MustRegister(
		m.Analyses,
		m.AnalysisErrors,
		m.HeaderFallbacks,
		m.RecordsNormalized,
		m.RecordsFiltered,
		m.CoercionFailures,
		m.AnalysisDuration,
		m.SourceRows,
		m.RecordsExported,
		m.ExportErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Analyses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "analyses_total",
			Help:      "Total pipeline reruns.",
		}),
		AnalysisErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "analysis_errors_total",
			Help:      "Pipeline reruns that ended in a fatal error, by reason.",
		}, []string{"reason"}),
		HeaderFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "header_fallbacks_total",
			Help:      "Header detections that fell back to row 0.",
		}),
		RecordsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "records_normalized_total",
			Help:      "Total records produced by normalization.",
		}),
		RecordsFiltered: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_etl",
			Name:      "records_filtered",
			Help:      "Number of records left after filtering, per rerun.",
			Buckets:   []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		CoercionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "coercion_failures_total",
			Help:      "Cells that could not be parsed, by field.",
		}, []string{"field"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_etl",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of one full pipeline rerun.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		SourceRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_etl",
			Name:      "source_rows",
			Help:      "Rows in the loaded source table.",
		}),
		RecordsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "records_exported_total",
			Help:      "Records published to the sink topic.",
		}),
		ExportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_etl",
			Name:      "export_errors_total",
			Help:      "Failed export attempts.",
		}),
	}
}
