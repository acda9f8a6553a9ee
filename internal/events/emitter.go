package events

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
)

// InMemoryEventEmitter delivers card events synchronously to every
// registered handler, in registration order.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

// NewInMemoryEventEmitter returns an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{
		logger: logger.With(slog.String("component", "card_events")),
	}
}

// RegisterHandler subscribes handler to all later events.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	n := len(e.handlers)
	e.mu.Unlock()

	e.logger.Debug("registered card event handler", slog.Int("handler_count", n))
}

// EmitEvent hands event to each handler. A failing handler does not stop
// delivery; the handler errors are joined.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *CardEvent) error {
	e.mu.RLock()
	handlers := slices.Clone(e.handlers)
	e.mu.RUnlock()

	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.Type)),
		slog.Int("card_index", event.Index),
	}

	var errs []error
	for i, h := range handlers {
		err := h.HandleEvent(ctx, event)
		if err == nil {
			continue
		}
		e.logger.Error("card event handler failed",
			append(attrs, slog.Int("handler_index", i), slog.String("error", err.Error()))...)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
