package store

import (
	"context"

	"github.com/google/uuid"
)

// KnownCardStore persists which cards of a deck the learner has mastered.
// It is the source of truth behind the known-cards cache.
type KnownCardStore interface {
	// MarkKnown records the card as known within its deck. Marking an
	// already-known card again is a no-op, not an error.
	MarkKnown(ctx context.Context, deckID, cardID uuid.UUID) error

	// ClearDeck removes every known-card record of the deck, resetting the
	// deck's progress.
	ClearDeck(ctx context.Context, deckID uuid.UUID) error

	// ListKnownIDs returns the set of card IDs known within the deck.
	ListKnownIDs(ctx context.Context, deckID uuid.UUID) (map[uuid.UUID]struct{}, error)
}
