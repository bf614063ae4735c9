// Package errors - event bus integration
package errors

import (
	"sync/atomic"
)

// EventPublisher is an interface for publishing error events.
// It allows the errors package to push events without importing the
// events package, avoiding circular dependencies.
type EventPublisher interface {
	TryPublish(event any) bool
}

// Global event publisher (set by the events package)
var (
	globalEventPublisher atomic.Pointer[EventPublisher]
	hasActiveReporting   atomic.Bool
)

// SetEventPublisher sets the global event publisher.
// Called by the events package once its bus is running; passing nil
// disables reporting and restores the fast path in Build.
func SetEventPublisher(publisher EventPublisher) {
	if publisher == nil {
		globalEventPublisher.Store(nil)
		hasActiveReporting.Store(false)
		return
	}
	globalEventPublisher.Store(&publisher)
	hasActiveReporting.Store(true)
}

// publishError pushes an error to the event bus if one is attached
func publishError(ee *EnhancedError) {
	publisherPtr := globalEventPublisher.Load()
	if publisherPtr == nil {
		return
	}

	publisher := *publisherPtr
	if publisher == nil {
		return
	}

	publisher.TryPublish(ee)
}
