// Package practice_session orchestrates practice runs: it resolves per-user
// session defaults, builds the review queue from a deck's not-yet-known
// cards, performs the persistent writes behind the state machine's outcomes
// and publishes the domain events that keep the caches consistent.
package practice_session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/domain/practice"
)

// StartSessionParams carries the caller's overrides for a new session.
// Zero values fall back to the user's stored practice settings.
type StartSessionParams struct {
	// Count is the requested queue length. Zero means the user's default;
	// the actual queue is clamped to the number of eligible cards.
	Count int

	// Random overrides the queue ordering when non-nil.
	Random *bool

	// Direction overrides the practice direction when non-empty.
	Direction domain.Direction
}

// PracticeSessionService drives the persistence side of practice runs.
// Pure state transitions (start question, reveal, progress reads) go
// through the practice.Manager directly; everything that touches a store
// or publishes an event goes through this service.
type PracticeSessionService interface {
	// StartSession builds a new session over the deck's not-yet-known
	// cards using the user's defaults merged with params. A deck with no
	// eligible cards yields a session that is immediately complete.
	// Returns ErrDeckNotFound if the deck does not exist and
	// ErrInvalidCount if a negative count is requested.
	StartSession(
		ctx context.Context,
		userID uuid.UUID,
		deckID uuid.UUID,
		params StartSessionParams,
	) (*practice.Session, error)

	// MarkKnow records the current card as known: the known-card record is
	// persisted, a progress change event is published, and the session
	// advances to the next card's question. On a persistence failure the
	// session is left untouched and the error propagates.
	// Returns practice.ErrSessionComplete if the session has no pending card.
	MarkKnow(ctx context.Context, s *practice.Session) (practice.Progress, error)

	// MarkHard records the current card as difficult and advances the
	// session. The card's known status does not change and no event is
	// published.
	// Returns practice.ErrSessionComplete if the session has no pending card.
	MarkHard(ctx context.Context, s *practice.Session) (practice.Progress, error)

	// FinishSession folds the run's totals into the deck's per-day
	// statistics accumulator. The session should be discarded afterwards.
	FinishSession(ctx context.Context, s *practice.Session) error

	// ResetDeckProgress clears every known-card record of the deck and
	// publishes a deck-reset progress event, so the known-card and count
	// caches recompute on the next read.
	ResetDeckProgress(ctx context.Context, deckID uuid.UUID) error

	// CountCards returns the number of the deck's cards matching the
	// search text and filter, served through the pagination count cache.
	CountCards(
		ctx context.Context,
		deckID uuid.UUID,
		searchText string,
		filter domain.CardFilter,
	) (int, error)

	// NotKnownCards lists the deck's cards that are not yet known, in
	// source order.
	NotKnownCards(ctx context.Context, deckID uuid.UUID) ([]*domain.Flashcard, error)

	// KnownCardIDs returns the IDs of the deck's known cards, served
	// through the known-cards cache.
	KnownCardIDs(ctx context.Context, deckID uuid.UUID) ([]uuid.UUID, error)

	// IsCardKnown reports whether the card is marked known within the
	// deck, served through the known-cards cache.
	IsCardKnown(ctx context.Context, deckID, cardID uuid.UUID) (bool, error)
}

// Common error types for PracticeSessionService
var (
	// ErrDeckNotFound indicates that the deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrInvalidCount indicates a negative requested card count.
	ErrInvalidCount = errors.New("requested count cannot be negative")

	// ErrInvalidDirection indicates an unsupported practice direction.
	ErrInvalidDirection = errors.New("invalid practice direction")
)

// ServiceError wraps errors from the practice session service with the
// failing operation, so consumers can differentiate error sources with
// errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start_session")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewStartSessionError returns a new ServiceError for the start_session operation.
func NewStartSessionError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "start_session", Message: message, Err: err}
}

// NewMarkKnowError returns a new ServiceError for the mark_know operation.
func NewMarkKnowError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "mark_know", Message: message, Err: err}
}

// NewFinishSessionError returns a new ServiceError for the finish_session operation.
func NewFinishSessionError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "finish_session", Message: message, Err: err}
}
