// Package metrics provides Prometheus metrics for the consultation report engine.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for a report run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	scoreBuckets     []float64
	customLabels     map[string]string
	registry         *prometheus.Registry

	// Engine metrics
	recordsScored         prometheus.Counter
	completionScore       prometheus.Histogram
	durationParseFailures *prometheus.CounterVec
	bandRecords           *prometheus.GaugeVec

	// Report lifecycle
	reportsGenerated   prometheus.Counter
	reportsEmpty       prometheus.Counter
	reportFailures     prometheus.Counter
	reportBuildLatency prometheus.Histogram

	// Filter metrics
	filterFailOpen *prometheus.CounterVec
	filterDropped  *prometheus.CounterVec

	// Dataset metrics
	datasetRows       prometheus.Gauge
	datasetLoadErrors prometheus.Counter

	// Export metrics
	exportBytes   *prometheus.GaugeVec
	exportErrors  *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram

	errorRateByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "consultation",
		subsystem:        "report",
		histogramBuckets: prometheus.DefBuckets,
		scoreBuckets:     prometheus.LinearBuckets(10, 10, 10),
		customLabels:     make(map[string]string),
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.recordsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_scored_total",
		Help:        "Total number of consultation records scored",
		ConstLabels: labels,
	})

	m.completionScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "completion_score_percent",
		Help:        "Distribution of per-record completion scores",
		Buckets:     m.scoreBuckets,
		ConstLabels: labels,
	})

	m.durationParseFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "duration_parse_failures_total",
			Help:        "Consultation durations that could not be parsed, by failure kind",
			ConstLabels: labels,
		},
		[]string{"kind"},
	)

	m.bandRecords = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "band_records",
			Help:        "Records per completion band in the last report",
			ConstLabels: labels,
		},
		[]string{"band"},
	)

	m.reportsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reports_generated_total",
		Help:        "Total number of reports generated",
		ConstLabels: labels,
	})

	m.reportsEmpty = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reports_empty_total",
		Help:        "Report runs that had nothing to report after filtering",
		ConstLabels: labels,
	})

	m.reportFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "report_failures_total",
		Help:        "Report runs aborted by a batch-level error",
		ConstLabels: labels,
	})

	m.reportBuildLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "build_latency_milliseconds",
		Help:        "Time spent building report rows in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.filterFailOpen = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "filter_fail_open_total",
			Help:        "Filter invocations that failed and returned the input unfiltered",
			ConstLabels: labels,
		},
		[]string{"filter"},
	)

	m.filterDropped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "filter_dropped_records_total",
			Help:        "Records removed by each filter",
			ConstLabels: labels,
		},
		[]string{"filter"},
	)

	m.datasetRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_rows",
		Help:        "Rows loaded from the last input dataset",
		ConstLabels: labels,
	})

	m.datasetLoadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_load_errors_total",
		Help:        "Input datasets that could not be read",
		ConstLabels: labels,
	})

	m.exportBytes = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "export_bytes",
			Help:        "Size of the last export per format",
			ConstLabels: labels,
		},
		[]string{"format"},
	)

	m.exportErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "export_errors_total",
			Help:        "Export failures per format",
			ConstLabels: labels,
		},
		[]string{"format"},
	)

	m.exportLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "export_latency_milliseconds",
			Help:        "Export encoding time per format in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"format"},
	)

	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "worker_active_count",
		Help:        "Number of scoring workers in the pool",
		ConstLabels: labels,
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "worker_processing_latency_milliseconds",
		Help:        "Per-record processing latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_component_total",
			Help:        "Errors by component and type",
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)
}

// Registry returns the registry the manager's metrics live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps the manager's registry in the text exposition format,
// suitable for the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}

// Engine Metrics Functions.

// RecordRecordScored counts a scored record and observes its score.
func RecordRecordScored(score float64) {
	globalManager.recordsScored.Inc()
	globalManager.completionScore.Observe(score)
}

// RecordDurationParseFailure counts a duration that failed to parse.
func RecordDurationParseFailure(kind string) {
	globalManager.durationParseFailures.WithLabelValues(kind).Inc()
}

// UpdateBandCount sets the number of records in a completion band.
func UpdateBandCount(band string, count int) {
	globalManager.bandRecords.WithLabelValues(band).Set(float64(count))
}

// Report Lifecycle Functions.

// RecordReportGenerated increments the generated reports counter.
func RecordReportGenerated() {
	globalManager.reportsGenerated.Inc()
}

// RecordReportEmpty increments the empty reports counter.
func RecordReportEmpty() {
	globalManager.reportsEmpty.Inc()
}

// RecordReportFailure increments the batch failure counter.
func RecordReportFailure() {
	globalManager.reportFailures.Inc()
}

// RecordReportBuildLatency records report build latency.
func RecordReportBuildLatency(latencyMs float64) {
	globalManager.reportBuildLatency.Observe(latencyMs)
}

// Filter Metrics Functions.

// RecordFilterFailOpen counts a filter that returned its input unfiltered.
func RecordFilterFailOpen(filter string) {
	globalManager.filterFailOpen.WithLabelValues(filter).Inc()
}

// RecordFilterDropped adds the number of records removed by a filter.
func RecordFilterDropped(filter string, count int) {
	if count <= 0 {
		return
	}
	globalManager.filterDropped.WithLabelValues(filter).Add(float64(count))
}

// Dataset Metrics Functions.

// UpdateDatasetRows sets the number of rows loaded from the input.
func UpdateDatasetRows(count int) {
	globalManager.datasetRows.Set(float64(count))
}

// RecordDatasetLoadError increments the dataset load error counter.
func RecordDatasetLoadError() {
	globalManager.datasetLoadErrors.Inc()
}

// Export Metrics Functions.

// RecordExport records the size and encoding latency of an export.
func RecordExport(format string, bytes int, latencyMs float64) {
	globalManager.exportBytes.WithLabelValues(format).Set(float64(bytes))
	globalManager.exportLatency.WithLabelValues(format).Observe(latencyMs)
}

// RecordExportError increments the export error counter for a format.
func RecordExportError(format string) {
	globalManager.exportErrors.WithLabelValues(format).Inc()
}

// Worker Metrics Functions.

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// WriteTextfile dumps the global registry to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}
