package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ceilometer ingest pipeline.
type Metrics struct {
	FilesDecoded    *prometheus.CounterVec // labels: model={cl51,cl31,ct25k}
	DecodeFailures  prometheus.Counter
	ProfileWarnings prometheus.Counter
	ProductsLoaded  prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Batch processing metrics.
	BatchSize     prometheus.Histogram
	BatchDuration prometheus.Histogram

	// Decoded file shape, useful for spotting misconfigured instruments.
	ProfilesPerFile prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FilesDecoded,
		m.DecodeFailures,
		m.ProfileWarnings,
		m.ProductsLoaded,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchDuration,
		m.ProfilesPerFile,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering the collectors,
// avoiding "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ceilo_ingest",
			Name:      "files_decoded_total",
			Help:      "Raw ceilometer files decoded successfully, by model.",
		}, []string{"model"}),
		DecodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ceilo_ingest",
			Name:      "decode_failures_total",
			Help:      "Files rejected by a fatal decode or screening error.",
		}),
		ProfileWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ceilo_ingest",
			Name:      "profile_warnings_total",
			Help:      "Single profiles zero-filled due to hex decode failures.",
		}),
		ProductsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ceilo_ingest",
			Name:      "products_loaded_total",
			Help:      "Screened products written to the sink topic.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ceilo_ingest",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ceilo_ingest",
			Name:      "batch_size",
			Help:      "Number of spool files picked up per scan.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ceilo_ingest",
			Name:      "batch_duration_seconds",
			Help:      "Duration of a complete extract-decode-screen-load cycle.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ProfilesPerFile: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ceilo_ingest",
			Name:      "profiles_per_file",
			Help:      "Profiles decoded per raw file.",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2000},
		}),
	}
}
