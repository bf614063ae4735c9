// Package metrics provides custom Prometheus metrics for the GreenPulse application.
package metrics

import "sync"

// recorderKey identifies one operation and label combination.
type recorderKey struct {
	operation string
	label     string
}

// TestRecorder captures Recorder calls in memory so tests can assert on
// exactly what a component recorded without a Prometheus registry.
type TestRecorder struct {
	mu         sync.RWMutex
	operations map[recorderKey]int
	errors     map[recorderKey]int
	durations  map[string][]float64
}

// NewTestRecorder creates an empty test recorder.
func NewTestRecorder() *TestRecorder {
	return &TestRecorder{
		operations: make(map[recorderKey]int),
		errors:     make(map[recorderKey]int),
		durations:  make(map[string][]float64),
	}
}

// RecordOperation implements Recorder.
func (r *TestRecorder) RecordOperation(operation, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[recorderKey{operation, status}]++
}

// RecordDuration implements Recorder.
func (r *TestRecorder) RecordDuration(operation string, seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations[operation] = append(r.durations[operation], seconds)
}

// RecordError implements Recorder.
func (r *TestRecorder) RecordError(operation, errorType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors[recorderKey{operation, errorType}]++
}

// GetOperationCount returns how often an operation finished with the given status.
func (r *TestRecorder) GetOperationCount(operation, status string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.operations[recorderKey{operation, status}]
}

// GetDurations returns the recorded durations for an operation in call order.
func (r *TestRecorder) GetDurations(operation string) []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recorded := r.durations[operation]
	if recorded == nil {
		return nil
	}
	out := make([]float64, len(recorded))
	copy(out, recorded)
	return out
}

// GetErrorCount returns how often an operation failed with the given error type.
func (r *TestRecorder) GetErrorCount(operation, errorType string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.errors[recorderKey{operation, errorType}]
}

// NoOpRecorder discards every Recorder call. It stands in for real
// metrics in tests that only need the interface satisfied.
type NoOpRecorder struct{}

// NewNoOpRecorder creates a recorder that ignores all calls.
func NewNoOpRecorder() *NoOpRecorder {
	return &NoOpRecorder{}
}

func (*NoOpRecorder) RecordOperation(operation, status string)         {}
func (*NoOpRecorder) RecordDuration(operation string, seconds float64) {}
func (*NoOpRecorder) RecordError(operation, errorType string)          {}
