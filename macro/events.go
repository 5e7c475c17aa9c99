package macro

import "time"

// EventType represents the type of compilation event.
type EventType string

const (
	// Compilation lifecycle events
	EventCompileStarted   EventType = "compile_started"
	EventCompileCompleted EventType = "compile_completed"
	EventCompileFailed    EventType = "compile_failed"

	// Include events
	EventIncludeStarted  EventType = "include_started"
	EventIncludeResolved EventType = "include_resolved"
	EventIncludeFailed   EventType = "include_failed"

	// File cache events
	EventCacheHit  EventType = "cache_hit"
	EventCacheMiss EventType = "cache_miss"
)

// Event represents an observable compilation event with typed data.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// EventEmitter manages event listeners and dispatches events.
// A compilation runs on a single goroutine, so no locking is done.
type EventEmitter struct {
	listeners []func(Event)
}

// NewEventEmitter creates a new EventEmitter.
func NewEventEmitter() *EventEmitter {
	return &EventEmitter{}
}

// On registers a listener function to receive events.
// Listeners are called synchronously in registration order.
func (e *EventEmitter) On(listener func(Event)) {
	e.listeners = append(e.listeners, listener)
}

// Emit dispatches an event to all registered listeners.
func (e *EventEmitter) Emit(event Event) {
	for _, listener := range e.listeners {
		listener(event)
	}
}

// ListenerCount returns the number of registered listeners.
func (e *EventEmitter) ListenerCount() int {
	return len(e.listeners)
}

// CompileStartedEvent creates a compile_started event.
func CompileStartedEvent(id, file string) Event {
	return Event{
		Type:      EventCompileStarted,
		Timestamp: time.Now(),
		Data: map[string]any{
			"id":   id,
			"file": file,
		},
	}
}

// CompileCompletedEvent creates a compile_completed event.
func CompileCompletedEvent(id string, duration time.Duration, reads, diagnostics int) Event {
	return Event{
		Type:      EventCompileCompleted,
		Timestamp: time.Now(),
		Data: map[string]any{
			"id":          id,
			"duration_ms": duration.Milliseconds(),
			"reads":       reads,
			"diagnostics": diagnostics,
		},
	}
}

// CompileFailedEvent creates a compile_failed event.
func CompileFailedEvent(id, err string, duration time.Duration) Event {
	return Event{
		Type:      EventCompileFailed,
		Timestamp: time.Now(),
		Data: map[string]any{
			"id":          id,
			"error":       err,
			"duration_ms": duration.Milliseconds(),
		},
	}
}

// IncludeStartedEvent creates an include_started event.
func IncludeStartedEvent(link, path string, depth int) Event {
	return Event{
		Type:      EventIncludeStarted,
		Timestamp: time.Now(),
		Data: map[string]any{
			"link":  link,
			"path":  path,
			"depth": depth,
		},
	}
}

// IncludeResolvedEvent creates an include_resolved event.
func IncludeResolvedEvent(link, path string, nodes int) Event {
	return Event{
		Type:      EventIncludeResolved,
		Timestamp: time.Now(),
		Data: map[string]any{
			"link":  link,
			"path":  path,
			"nodes": nodes,
		},
	}
}

// IncludeFailedEvent creates an include_failed event.
func IncludeFailedEvent(link, reason string) Event {
	return Event{
		Type:      EventIncludeFailed,
		Timestamp: time.Now(),
		Data: map[string]any{
			"link":   link,
			"reason": reason,
		},
	}
}

// CacheEvent creates a cache_hit or cache_miss event.
func CacheEvent(path string, hit bool) Event {
	typ := EventCacheMiss
	if hit {
		typ = EventCacheHit
	}
	return Event{
		Type:      typ,
		Timestamp: time.Now(),
		Data: map[string]any{
			"path": path,
		},
	}
}
