package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lexikon/lexikon-api/internal/domain"
)

// CardStore defines the read interface over a deck's flashcards consumed by
// the practice core. Card authoring is out of scope here; the practice
// engine only ever reads cards.
type CardStore interface {
	// GetByID retrieves a flashcard by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// FindNotKnown returns the deck's cards that have no known-card record,
	// in stable source order. An empty slice means every card of the deck
	// is already known (or the deck is empty).
	FindNotKnown(ctx context.Context, deckID uuid.UUID) ([]*domain.Flashcard, error)

	// CountWithFilter counts the deck's cards matching the trimmed search
	// text (matched against front and back) and the known-status filter.
	// An empty search text matches every card. This is the query wrapped
	// by the pagination count cache.
	CountWithFilter(
		ctx context.Context,
		deckID uuid.UUID,
		searchText string,
		filter domain.CardFilter,
	) (int, error)
}
