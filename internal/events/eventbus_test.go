package events

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenpulse/greenpulse-go/internal/logging"
)

// mockErrorEvent implements ErrorEvent for testing
type mockErrorEvent struct {
	component string
	category  string
	priority  string
	message   string
	context   map[string]any
	timestamp time.Time
	reported  atomic.Bool
}

func (m *mockErrorEvent) GetComponent() string       { return m.component }
func (m *mockErrorEvent) GetCategory() string        { return m.category }
func (m *mockErrorEvent) GetPriority() string        { return m.priority }
func (m *mockErrorEvent) GetContext() map[string]any { return m.context }
func (m *mockErrorEvent) GetTimestamp() time.Time    { return m.timestamp }
func (m *mockErrorEvent) GetError() error            { return nil }
func (m *mockErrorEvent) GetMessage() string         { return m.message }
func (m *mockErrorEvent) IsReported() bool           { return m.reported.Load() }
func (m *mockErrorEvent) MarkReported()              { m.reported.Store(true) }

// mockConsumer implements EventConsumer for testing
type mockConsumer struct {
	name           string
	processedCount atomic.Int32
	errorOnProcess bool
	mu             sync.Mutex
	events         []ErrorEvent
}

func (m *mockConsumer) Name() string { return m.name }

func (m *mockConsumer) ProcessEvent(event ErrorEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	m.processedCount.Add(1)

	if m.errorOnProcess {
		return fmt.Errorf("mock error")
	}
	return nil
}

func newTestBus(t *testing.T, config *Config) *EventBus {
	t.Helper()
	logging.Init()
	ResetForTesting()
	t.Cleanup(ResetForTesting)

	eb, err := Initialize(config)
	require.NoError(t, err)
	require.NotNil(t, eb)
	return eb
}

func waitForProcessed(t *testing.T, counter *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if counter.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d processed events, got %d", want, counter.Load())
}

func TestEventBusDeliversToConsumer(t *testing.T) {
	eb := newTestBus(t, DefaultConfig())

	consumer := &mockConsumer{name: "test-consumer"}
	require.NoError(t, eb.RegisterConsumer(consumer))

	event := &mockErrorEvent{
		component: "datastore",
		category:  "database",
		message:   "record save failed",
		timestamp: time.Now(),
	}

	accepted := eb.TryPublish(event)
	assert.True(t, accepted, "event should be accepted with a registered consumer")

	waitForProcessed(t, &consumer.processedCount, 1)

	stats := eb.GetStats()
	assert.Equal(t, uint64(1), stats.EventsReceived)
}

func TestEventBusNoConsumers(t *testing.T) {
	eb := newTestBus(t, DefaultConfig())

	event := &mockErrorEvent{component: "api", category: "http-request"}
	assert.False(t, eb.TryPublish(event), "publish should be rejected without consumers")
}

func TestEventBusRejectsNonErrorEvent(t *testing.T) {
	eb := newTestBus(t, DefaultConfig())

	consumer := &mockConsumer{name: "test-consumer"}
	require.NoError(t, eb.RegisterConsumer(consumer))

	assert.False(t, eb.TryPublish("not an event"))
}

func TestEventBusDuplicateConsumer(t *testing.T) {
	eb := newTestBus(t, DefaultConfig())

	require.NoError(t, eb.RegisterConsumer(&mockConsumer{name: "dup"}))
	err := eb.RegisterConsumer(&mockConsumer{name: "dup"})
	assert.Error(t, err)
}

func TestEventBusConsumerErrorCounted(t *testing.T) {
	eb := newTestBus(t, DefaultConfig())

	consumer := &mockConsumer{name: "failing", errorOnProcess: true}
	require.NoError(t, eb.RegisterConsumer(consumer))

	eb.TryPublish(&mockErrorEvent{component: "forecast", category: "forecast-model"})
	waitForProcessed(t, &consumer.processedCount, 1)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if eb.GetStats().ConsumerErrors >= 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.GreaterOrEqual(t, eb.GetStats().ConsumerErrors, uint64(1))
}

func TestEventBusShutdown(t *testing.T) {
	eb := newTestBus(t, DefaultConfig())

	consumer := &mockConsumer{name: "test-consumer"}
	require.NoError(t, eb.RegisterConsumer(consumer))

	err := eb.Shutdown(2 * time.Second)
	assert.NoError(t, err)

	// Publishing after shutdown is rejected
	assert.False(t, eb.TryPublish(&mockErrorEvent{component: "api"}))
}

func TestEventBusDisabled(t *testing.T) {
	logging.Init()
	ResetForTesting()
	t.Cleanup(ResetForTesting)

	eb, err := Initialize(&Config{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, eb)
	assert.False(t, IsInitialized())
}

func TestLogConsumerMarksReported(t *testing.T) {
	logging.Init()
	lc := NewLogConsumer(logging.ForService("test"))

	event := &mockErrorEvent{
		component: "report",
		category:  "report-render",
		message:   "render failed",
		timestamp: time.Now(),
		context:   map[string]any{"business_id": "biz-1"},
	}

	require.NoError(t, lc.ProcessEvent(event))
	assert.True(t, event.IsReported())

	// Second delivery is a no-op
	require.NoError(t, lc.ProcessEvent(event))
}
