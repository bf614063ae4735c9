// Package datastore provides type aliases and integration with the observability metrics package
package datastore

import (
	"sync"

	"github.com/greenpulse/greenpulse-go/internal/observability/metrics"
)

// Metrics is a type alias for the metrics.DatastoreMetrics
// This allows us to use the metrics throughout the datastore package
type Metrics = metrics.DatastoreMetrics

// Global metrics instance (set by observability package)
var (
	globalMetrics *Metrics
	metricsMutex  sync.RWMutex
	metricsOnce   sync.Once
)

// SetMetrics sets the global metrics instance for the datastore package.
// This function is thread-safe and ensures metrics are only set once per
// process lifetime. Subsequent calls are ignored.
func SetMetrics(m *Metrics) {
	metricsOnce.Do(func() {
		metricsMutex.Lock()
		defer metricsMutex.Unlock()
		globalMetrics = m
	})
}

// getMetrics returns the current metrics instance in a thread-safe manner
func getMetrics() *Metrics {
	metricsMutex.RLock()
	defer metricsMutex.RUnlock()
	return globalMetrics
}
