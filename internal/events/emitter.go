package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// InMemoryEmitter is a simple implementation of the Emitter interface that
// stores registered handlers in memory and dispatches events to them on the
// publishing goroutine.
type InMemoryEmitter struct {
	handlers map[EventType][]EventHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryEmitter creates a new instance of InMemoryEmitter.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	if logger == nil {
		logger = slog.Default()
	}

	return &InMemoryEmitter{
		handlers: make(map[EventType][]EventHandler),
		logger:   logger.With(slog.String("component", "in_memory_emitter")),
	}
}

// Verify interface compliance at compile time
var _ Emitter = (*InMemoryEmitter)(nil)

// Subscribe registers a handler for all future events of the given type.
func (e *InMemoryEmitter) Subscribe(eventType EventType, handler EventHandler) {
	if handler == nil {
		panic("handler cannot be nil")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[eventType] = append(e.handlers[eventType], handler)
	e.logger.Debug("registered event handler",
		"event_type", string(eventType),
		"handler_count", len(e.handlers[eventType]))
}

// Publish delivers the event to every handler subscribed to its type and
// blocks until all of them have run. If a handler returns an error or
// panics, the remaining handlers still run; the first error encountered is
// returned after dispatch completes.
func (e *InMemoryEmitter) Publish(ctx context.Context, event Event) error {
	if event == nil {
		return nil
	}

	e.mu.RLock()
	handlers := make([]EventHandler, len(e.handlers[event.Type()]))
	copy(handlers, e.handlers[event.Type()])
	e.mu.RUnlock()

	e.logger.Debug("publishing event",
		"event_type", string(event.Type()),
		"handler_count", len(handlers))

	if len(handlers) == 0 {
		return nil
	}

	var firstErr error
	for i, handler := range handlers {
		if err := e.dispatch(ctx, handler, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_type", string(event.Type()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// dispatch runs a single handler, converting a panic into an error so one
// listener cannot take down the publisher or the remaining listeners.
func (e *InMemoryEmitter) dispatch(
	ctx context.Context,
	handler EventHandler,
	event Event,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panicked: %v", r)
		}
	}()

	return handler.HandleEvent(ctx, event)
}
