package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lexikon/lexikon-api/internal/domain"
)

// DeckStore defines the persistence interface for decks.
type DeckStore interface {
	// Create saves a new deck. Returns ErrDuplicate if a deck with the
	// same ID already exists.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// Update modifies an existing deck's name and description.
	// Returns ErrDeckNotFound if the deck does not exist.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck and, via cascading constraints, its cards,
	// known-card records and statistics.
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
