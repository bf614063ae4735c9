// Package metrics provides report rendering metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ReportMetrics contains Prometheus metrics for PDF report generation
type ReportMetrics struct {
	registry *prometheus.Registry

	// Render operation metrics
	renderOperationsTotal *prometheus.CounterVec
	renderDuration        *prometheus.HistogramVec
	renderErrorsTotal     *prometheus.CounterVec

	// Output size metrics
	reportSizeBytes prometheus.Histogram

	// collectors is a slice of all collectors for easier iteration
	collectors []prometheus.Collector
}

// NewReportMetrics creates and registers new report metrics
func NewReportMetrics(registry *prometheus.Registry) (*ReportMetrics, error) {
	m := &ReportMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *ReportMetrics) initMetrics() error {
	m.renderOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_render_operations_total",
			Help: "Total number of report render operations",
		},
		[]string{"stage", "status"}, // stage: chart_render, report_render; status: success, error
	)

	m.renderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_render_duration_seconds",
			Help:    "Time taken for report render stages",
			Buckets: prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount10), // 10ms to ~10s
		},
		[]string{"stage"},
	)

	m.renderErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_render_errors_total",
			Help: "Total number of report render errors",
		},
		[]string{"stage", "error_type"},
	)

	m.reportSizeBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_size_bytes",
			Help:    "Size of generated PDF reports in bytes",
			Buckets: prometheus.ExponentialBuckets(BucketStart1KB, BucketFactor4, BucketCount8), // 1KB to ~16MB
		},
	)

	m.collectors = []prometheus.Collector{
		m.renderOperationsTotal,
		m.renderDuration,
		m.renderErrorsTotal,
		m.reportSizeBytes,
	}

	return nil
}

// Describe implements the Collector interface
func (m *ReportMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *ReportMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordOperation implements the Recorder interface.
// Supported operations: "chart_render", "report_render".
func (m *ReportMetrics) RecordOperation(operation, status string) {
	m.renderOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordDuration implements the Recorder interface.
func (m *ReportMetrics) RecordDuration(operation string, seconds float64) {
	m.renderDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordError implements the Recorder interface.
func (m *ReportMetrics) RecordError(operation, errorType string) {
	m.renderErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordReportSize records the size of a generated PDF report
func (m *ReportMetrics) RecordReportSize(sizeBytes int) {
	m.reportSizeBytes.Observe(float64(sizeBytes))
}
