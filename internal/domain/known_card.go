package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// KnownCardRecord validation errors
var (
	// ErrKnownCardDeckIDEmpty is returned when the deck ID is empty or nil.
	ErrKnownCardDeckIDEmpty = errors.New("known card deck ID cannot be empty")

	// ErrKnownCardCardIDEmpty is returned when the card ID is empty or nil.
	ErrKnownCardCardIDEmpty = errors.New("known card card ID cannot be empty")
)

// KnownCardRecord marks a single card of a deck as mastered by the learner.
// Known cards are excluded from future practice session queues. The unit of
// truth consumed by the caching layer is the set of card IDs known per deck.
type KnownCardRecord struct {
	DeckID   uuid.UUID `json:"deck_id"`
	CardID   uuid.UUID `json:"card_id"`
	MarkedAt time.Time `json:"marked_at"`
}

// NewKnownCardRecord creates a record marking the given card as known.
// Returns an error if validation fails.
func NewKnownCardRecord(deckID, cardID uuid.UUID) (*KnownCardRecord, error) {
	record := &KnownCardRecord{
		DeckID:   deckID,
		CardID:   cardID,
		MarkedAt: time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the KnownCardRecord has valid data.
func (r *KnownCardRecord) Validate() error {
	if r.DeckID == uuid.Nil {
		return ErrKnownCardDeckIDEmpty
	}

	if r.CardID == uuid.Nil {
		return ErrKnownCardCardIDEmpty
	}

	return nil
}
