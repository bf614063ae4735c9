// Package metrics provides CSV ingest metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// IngestMetrics contains Prometheus metrics for emission record ingest operations
type IngestMetrics struct {
	registry *prometheus.Registry

	// Upload operation metrics
	uploadOperationsTotal *prometheus.CounterVec
	uploadDuration        *prometheus.HistogramVec
	uploadSizeBytes       prometheus.Histogram

	// Row-level parse metrics
	rowsParsedTotal   prometheus.Counter
	rowsRejectedTotal *prometheus.CounterVec

	// Single record ingest metrics
	recordIngestTotal    *prometheus.CounterVec
	recordIngestDuration prometheus.Histogram

	// collectors is a slice of all collectors for easier iteration
	collectors []prometheus.Collector
}

// NewIngestMetrics creates and registers new ingest metrics
func NewIngestMetrics(registry *prometheus.Registry) (*IngestMetrics, error) {
	m := &IngestMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *IngestMetrics) initMetrics() error {
	m.uploadOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_upload_operations_total",
			Help: "Total number of bulk CSV upload operations",
		},
		[]string{"status"}, // status: success, error
	)

	m.uploadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_upload_duration_seconds",
			Help:    "Time taken for bulk CSV uploads including parse and replace",
			Buckets: prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount12), // 10ms to ~40s
		},
		[]string{"stage"}, // stage: parse, replace, total
	)

	m.uploadSizeBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_upload_size_bytes",
			Help:    "Size of uploaded CSV payloads in bytes",
			Buckets: prometheus.ExponentialBuckets(BucketStart1KB, BucketFactor4, BucketCount10), // 1KB to ~256MB
		},
	)

	m.rowsParsedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_rows_parsed_total",
			Help: "Total number of CSV rows successfully parsed",
		},
	)

	m.rowsRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_rows_rejected_total",
			Help: "Total number of CSV rows rejected during parsing",
		},
		[]string{"reason"}, // reason: missing_column, bad_number, row_shape, empty_file
	)

	m.recordIngestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_record_operations_total",
			Help: "Total number of single emission record ingests",
		},
		[]string{"status"},
	)

	m.recordIngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_record_duration_seconds",
			Help:    "Time taken to validate and store a single emission record",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount12), // 1ms to ~4s
		},
	)

	m.collectors = []prometheus.Collector{
		m.uploadOperationsTotal,
		m.uploadDuration,
		m.uploadSizeBytes,
		m.rowsParsedTotal,
		m.rowsRejectedTotal,
		m.recordIngestTotal,
		m.recordIngestDuration,
	}

	return nil
}

// Describe implements the Collector interface
func (m *IngestMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *IngestMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordUpload records a bulk upload operation with its status
func (m *IngestMetrics) RecordUpload(status string) {
	m.uploadOperationsTotal.WithLabelValues(status).Inc()
}

// RecordUploadDuration records the duration of an upload stage
func (m *IngestMetrics) RecordUploadDuration(stage string, duration float64) {
	m.uploadDuration.WithLabelValues(stage).Observe(duration)
}

// RecordUploadSize records the size of an uploaded CSV payload
func (m *IngestMetrics) RecordUploadSize(sizeBytes int64) {
	m.uploadSizeBytes.Observe(float64(sizeBytes))
}

// RecordRowsParsed adds to the count of successfully parsed rows
func (m *IngestMetrics) RecordRowsParsed(count int) {
	m.rowsParsedTotal.Add(float64(count))
}

// RecordRowRejected records a rejected CSV row with the rejection reason
func (m *IngestMetrics) RecordRowRejected(reason string) {
	m.rowsRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordSingleIngest records a single record ingest operation
func (m *IngestMetrics) RecordSingleIngest(status string, duration float64) {
	m.recordIngestTotal.WithLabelValues(status).Inc()
	m.recordIngestDuration.Observe(duration)
}
