package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names what happened to a course card.
type EventType string

// Card event types.
const (
	CardAdded         EventType = "card_added"
	CardRemoved       EventType = "card_removed"
	CardsCleared      EventType = "cards_cleared"
	CardUpdated       EventType = "card_updated"
	CardsReplaced     EventType = "cards_replaced"
	SortChanged       EventType = "sort_changed"
	FetchStarted      EventType = "fetch_started"
	SectionsCommitted EventType = "sections_committed"
	FetchDiscarded    EventType = "fetch_discarded"
	FetchFailed       EventType = "fetch_failed"
)

// CardEvent describes one state transition of a course card store.
type CardEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type EventType `json:"type"`

	// Index is the card slot the event concerns, or -1 for array-wide events.
	Index int `json:"index"`

	// Generation is the slot generation the event was produced under.
	Generation uint64 `json:"generation,omitempty"`

	// Duration is set on fetch outcome events.
	Duration time.Duration `json:"duration,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewCardEvent creates a CardEvent stamped with a fresh ID and time.
func NewCardEvent(eventType EventType, index int) *CardEvent {
	return &CardEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Index:     index,
		CreatedAt: time.Now(),
	}
}

// IsFetchOutcome reports whether the event closes a fetch started earlier.
func (e *CardEvent) IsFetchOutcome() bool {
	switch e.Type {
	case SectionsCommitted, FetchDiscarded, FetchFailed:
		return true
	}
	return false
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *CardEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *CardEvent) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *CardEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *CardEvent) error
}

// NopEmitter drops every event.
type NopEmitter struct{}

// EmitEvent does nothing.
func (NopEmitter) EmitEvent(context.Context, *CardEvent) error { return nil }
