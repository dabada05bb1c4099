// Package hooks provides an event-driven hook system around cordkit message operations.
package hooks

import (
	"context"
	"fmt"
	"sync"

	"github.com/soyeahso/cordkit/internal/logging"
)

// Event names for the hook system.
const (
	EventMessageSending = "message_sending"
	EventMessageSent    = "message_sent"
	EventMessageDeleted = "message_deleted"
	EventSendFailed     = "send_failed"
)

// AllEvents lists all known hook event names.
var AllEvents = []string{
	EventMessageSending,
	EventMessageSent,
	EventMessageDeleted,
	EventSendFailed,
}

// Payload carries event data to hook handlers.
type Payload struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
}

// Handler is a function that handles a hook event.
// Under Emit an error is logged and the next handler still runs; under Run it
// stops the chain.
type Handler func(ctx context.Context, p Payload) error

// Manager manages hook registrations and dispatches events.
type Manager struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
	log      *logging.Logger
}

type namedHandler struct {
	name    string
	handler Handler
}

// NewManager creates a hook manager.
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		handlers: make(map[string][]namedHandler),
		log:      log.Sub("hooks"),
	}
}

// On registers a handler for the given event.
// The name identifies the handler for logging and debugging.
func (m *Manager) On(event, name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], namedHandler{name: name, handler: handler})
	m.log.Debug().Str("event", event).Str("handler", name).Msg("hook registered")
}

// Emit dispatches an event to all registered handlers synchronously.
// Handlers are called in registration order. Errors are logged but do not
// prevent subsequent handlers from running.
func (m *Manager) Emit(ctx context.Context, event string, data map[string]any) {
	m.mu.RLock()
	handlers := make([]namedHandler, len(m.handlers[event]))
	copy(handlers, m.handlers[event])
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	payload := Payload{Event: event, Data: data}

	for _, h := range handlers {
		if err := h.handler(ctx, payload); err != nil {
			m.log.Warn().
				Err(err).
				Str("event", event).
				Str("handler", h.name).
				Msg("hook handler error")
		}
	}
}

// Run dispatches an event synchronously and stops at the first handler
// error, which is returned wrapped with the handler name. It is used for
// events that may veto the operation that fired them.
func (m *Manager) Run(ctx context.Context, event string, data map[string]any) error {
	m.mu.RLock()
	handlers := make([]namedHandler, len(m.handlers[event]))
	copy(handlers, m.handlers[event])
	m.mu.RUnlock()

	payload := Payload{Event: event, Data: data}

	for _, h := range handlers {
		if err := h.handler(ctx, payload); err != nil {
			m.log.Info().
				Err(err).
				Str("event", event).
				Str("handler", h.name).
				Msg("hook rejected event")
			return &RejectedError{Event: event, Handler: h.name, Err: err}
		}
	}
	return nil
}

// EmitAsync dispatches an event to all registered handlers concurrently and
// returns at once. The returned wait blocks until every handler has finished;
// handler errors are logged.
func (m *Manager) EmitAsync(ctx context.Context, event string, data map[string]any) (wait func()) {
	m.mu.RLock()
	handlers := make([]namedHandler, len(m.handlers[event]))
	copy(handlers, m.handlers[event])
	m.mu.RUnlock()

	var wg sync.WaitGroup
	payload := Payload{Event: event, Data: data}

	for _, h := range handlers {
		wg.Add(1)
		go func(h namedHandler) {
			defer wg.Done()
			if err := h.handler(ctx, payload); err != nil {
				m.log.Warn().
					Err(err).
					Str("event", event).
					Str("handler", h.name).
					Msg("async hook handler error")
			}
		}(h)
	}
	return wg.Wait
}

// Count returns the number of handlers registered for an event.
func (m *Manager) Count(event string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[event])
}

// Events returns the list of events that have at least one handler registered.
func (m *Manager) Events() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]string, 0, len(m.handlers))
	for event, handlers := range m.handlers {
		if len(handlers) > 0 {
			events = append(events, event)
		}
	}
	return events
}

// RejectedError reports a handler that refused an event in Run.
type RejectedError struct {
	Event   string
	Handler string
	Err     error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("hook %s rejected %s: %v", e.Handler, e.Event, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }
