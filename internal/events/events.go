package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of a domain event. Listeners subscribe to
// exactly the types they care about.
type EventType string

// Event types carried by the channel
const (
	// EventTypeProgressChanged signals that a card's known/unknown status
	// changed or that a deck's entire progress was cleared.
	EventTypeProgressChanged EventType = "progress_changed"

	// EventTypeDeckModified signals a deck-level structural change.
	EventTypeDeckModified EventType = "deck_modified"
)

// Event is the interface implemented by all domain events.
type Event interface {
	// Type returns the event's type, used for listener dispatch.
	Type() EventType
}

// ProgressChangeType distinguishes the two causes of a progress change.
type ProgressChangeType string

// Possible progress change types
const (
	ProgressChangeCardStatus ProgressChangeType = "card_status_changed"
	ProgressChangeDeckReset  ProgressChangeType = "deck_reset"
)

// ProgressChangedEvent is published whenever a card's known status changes
// or a deck's progress is reset. Caches keyed by deck use it to evict.
type ProgressChangedEvent struct {
	DeckID     uuid.UUID          `json:"deck_id"`
	Change     ProgressChangeType `json:"change"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// NewProgressChangedEvent creates a progress change event for the deck.
func NewProgressChangedEvent(deckID uuid.UUID, change ProgressChangeType) ProgressChangedEvent {
	return ProgressChangedEvent{
		DeckID:     deckID,
		Change:     change,
		OccurredAt: time.Now().UTC(),
	}
}

// Type implements Event.
func (ProgressChangedEvent) Type() EventType { return EventTypeProgressChanged }

// DeckChangeType distinguishes deck-level structural changes.
type DeckChangeType string

// Possible deck change types
const (
	DeckChangeCreated DeckChangeType = "created"
	DeckChangeUpdated DeckChangeType = "updated"
	DeckChangeDeleted DeckChangeType = "deleted"
)

// DeckModifiedEvent is published on deck create, update and delete.
type DeckModifiedEvent struct {
	UserID     uuid.UUID      `json:"user_id"`
	DeckID     uuid.UUID      `json:"deck_id"`
	Change     DeckChangeType `json:"change"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewDeckModifiedEvent creates a deck modification event.
func NewDeckModifiedEvent(userID, deckID uuid.UUID, change DeckChangeType) DeckModifiedEvent {
	return DeckModifiedEvent{
		UserID:     userID,
		DeckID:     deckID,
		Change:     change,
		OccurredAt: time.Now().UTC(),
	}
}

// Type implements Event.
func (DeckModifiedEvent) Type() EventType { return EventTypeDeckModified }

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event Event) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Emitter defines the publish/subscribe surface of the event channel.
// Services publish events without direct knowledge of the listeners.
type Emitter interface {
	// Publish delivers the event synchronously to every handler subscribed
	// to the event's type. It returns the first handler error encountered
	// after all handlers have run; publishers that must not fail on
	// listener errors should log the returned error instead of
	// propagating it.
	Publish(ctx context.Context, event Event) error

	// Subscribe registers a handler for all future events of the given type.
	Subscribe(eventType EventType, handler EventHandler)
}
