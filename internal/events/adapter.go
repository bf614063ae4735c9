package events

import (
	"log/slog"
	"time"

	"github.com/greenpulse/greenpulse-go/internal/errors"
	"github.com/greenpulse/greenpulse-go/internal/logging"
)

// LogConsumer writes error events to a structured log.
// High priority events are logged at Error level, the rest at Warn.
type LogConsumer struct {
	logger *slog.Logger
}

// NewLogConsumer creates a consumer backed by the given logger.
// A nil logger falls back to the events service logger.
func NewLogConsumer(logger *slog.Logger) *LogConsumer {
	if logger == nil {
		logger = logging.ForService("events")
	}
	return &LogConsumer{logger: logger}
}

// Name implements EventConsumer
func (lc *LogConsumer) Name() string {
	return "log-sink"
}

// ProcessEvent implements EventConsumer
func (lc *LogConsumer) ProcessEvent(event ErrorEvent) error {
	if event.IsReported() {
		return nil
	}

	if lc.logger != nil {
		attrs := []any{
			"component", event.GetComponent(),
			"category", event.GetCategory(),
			"error", event.GetMessage(),
			"occurred_at", event.GetTimestamp().Format(time.RFC3339),
		}
		for key, value := range event.GetContext() {
			attrs = append(attrs, key, value)
		}

		switch event.GetPriority() {
		case errors.PriorityHigh, errors.PriorityCritical:
			lc.logger.Error("error event", attrs...)
		default:
			lc.logger.Warn("error event", attrs...)
		}
	}

	event.MarkReported()
	return nil
}

// InitializeErrorReporting wires the event bus into the errors package so
// enhanced errors flow to the registered consumers without blocking their
// construction. Returns the bus so callers can manage shutdown.
func InitializeErrorReporting(config *Config) (*EventBus, error) {
	eb, err := Initialize(config)
	if err != nil || eb == nil {
		return nil, err
	}

	if err := eb.RegisterConsumer(NewLogConsumer(nil)); err != nil {
		return nil, err
	}

	errors.SetEventPublisher(eb)
	return eb, nil
}
