package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEmitter is an Emitter that stores registered handlers in memory
// and dispatches events to them in registration order.
type InMemoryEmitter struct {
	handlers []Handler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// Ensure InMemoryEmitter implements Emitter
var _ Emitter = (*InMemoryEmitter)(nil)

// NewInMemoryEmitter creates a new InMemoryEmitter.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	return &InMemoryEmitter{
		handlers: make([]Handler, 0),
		logger:   logger.With(slog.String("component", "event_emitter")),
	}
}

// RegisterHandler adds a new handler to receive events.
func (e *InMemoryEmitter) RegisterHandler(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered event handler", "handler_count", len(e.handlers))
}

// Emit publishes the given event to all registered handlers. When a handler
// fails the event is still delivered to the remaining handlers and the first
// error encountered is returned.
func (e *InMemoryEmitter) Emit(ctx context.Context, event *AuditEvent) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	if len(handlers) == 0 {
		e.logger.Warn("no handlers registered for event",
			"event_id", event.ID,
			"event_type", event.Type)
		return nil
	}

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// NopEmitter discards every event. Used where auditing is not wired up,
// for example in tests.
type NopEmitter struct{}

var _ Emitter = (*NopEmitter)(nil)

// NewNopEmitter creates an Emitter that drops all events.
func NewNopEmitter() *NopEmitter {
	return &NopEmitter{}
}

// Emit implements Emitter by doing nothing.
func (e *NopEmitter) Emit(ctx context.Context, event *AuditEvent) error {
	return nil
}
