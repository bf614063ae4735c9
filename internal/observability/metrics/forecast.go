// Package metrics provides forecast engine metrics for observability
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ForecastMetrics contains Prometheus metrics for forecast model operations
type ForecastMetrics struct {
	registry *prometheus.Registry

	// Model fit and predict metrics
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec

	// Input and output shape metrics
	observationsHist prometheus.Histogram
	horizonGauge     prometheus.Gauge

	// collectors is a slice of all collectors for easier iteration
	collectors []prometheus.Collector
}

// NewForecastMetrics creates and registers new forecast metrics
func NewForecastMetrics(registry *prometheus.Registry) (*ForecastMetrics, error) {
	m := &ForecastMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *ForecastMetrics) initMetrics() error {
	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_operations_total",
			Help: "Total number of forecast operations",
		},
		[]string{"operation", "model", "status"}, // operation: fit, predict
	)

	m.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecast_operation_duration_seconds",
			Help:    "Time taken for forecast operations",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount12), // 1ms to ~4s
		},
		[]string{"operation", "model"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_errors_total",
			Help: "Total number of forecast errors",
		},
		[]string{"operation", "error_type"}, // error_type: insufficient_data, bad_date, model
	)

	m.observationsHist = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forecast_observations",
			Help:    "Number of historical observations fed into the model",
			Buckets: prometheus.ExponentialBuckets(BucketStart1Row, BucketFactor4, BucketCount8), // 1 to ~16k points
		},
	)

	m.horizonGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "forecast_horizon_periods",
		Help: "Number of future periods produced by the last forecast",
	})

	m.collectors = []prometheus.Collector{
		m.operationsTotal,
		m.operationDuration,
		m.errorsTotal,
		m.observationsHist,
		m.horizonGauge,
	}

	return nil
}

// Describe implements the Collector interface
func (m *ForecastMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *ForecastMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordModelOperation records a forecast operation for a named model
func (m *ForecastMetrics) RecordModelOperation(operation, model, status string) {
	m.operationsTotal.WithLabelValues(operation, model, status).Inc()
}

// RecordModelDuration records the duration of a forecast operation for a named model
func (m *ForecastMetrics) RecordModelDuration(operation, model string, seconds float64) {
	m.operationDuration.WithLabelValues(operation, model).Observe(seconds)
}

// RecordObservations records how many historical points were used for a fit
func (m *ForecastMetrics) RecordObservations(count int) {
	m.observationsHist.Observe(float64(count))
}

// UpdateHorizon records the number of periods in the last produced forecast
func (m *ForecastMetrics) UpdateHorizon(periods int) {
	m.horizonGauge.Set(float64(periods))
}

// RecordOperation implements the Recorder interface.
// The model label is unknown at this level, callers wanting per-model
// labels should use RecordModelOperation directly.
func (m *ForecastMetrics) RecordOperation(operation, status string) {
	m.operationsTotal.WithLabelValues(operation, "unknown", status).Inc()
}

// RecordDuration implements the Recorder interface.
func (m *ForecastMetrics) RecordDuration(operation string, seconds float64) {
	m.operationDuration.WithLabelValues(operation, "unknown").Observe(seconds)
}

// RecordError implements the Recorder interface.
func (m *ForecastMetrics) RecordError(operation, errorType string) {
	m.errorsTotal.WithLabelValues(operation, errorType).Inc()
}
