// Package service holds application services that sit between the HTTP
// layer and the stores. The practice session orchestration lives in the
// service/practice_session subpackage.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/events"
	"github.com/lexikon/lexikon-api/internal/platform/logger"
	"github.com/lexikon/lexikon-api/internal/store"
)

// Common deck service errors
var (
	// ErrDeckNotFound indicates that the deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrDeckNotOwned indicates that the user does not own the deck.
	ErrDeckNotOwned = errors.New("unauthorized access: deck not owned by user")
)

// DeckService performs deck-level structural changes and publishes the
// corresponding DeckModifiedEvent, so deck-keyed caches evict before the
// call returns.
type DeckService struct {
	deckStore store.DeckStore
	emitter   events.Emitter
	logger    *slog.Logger
}

// NewDeckService creates a new DeckService.
func NewDeckService(deckStore store.DeckStore, emitter events.Emitter, log *slog.Logger) *DeckService {
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &DeckService{
		deckStore: deckStore,
		emitter:   emitter,
		logger:    log.With(slog.String("component", "deck_service")),
	}
}

// CreateDeck creates a deck for the user and publishes a created event.
func (s *DeckService) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(userID, name, description)
	if err != nil {
		return nil, err
	}

	if err := s.deckStore.Create(ctx, deck); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewDeckModifiedEvent(userID, deck.ID, events.DeckChangeCreated))

	log.Info("created deck",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", userID.String()))
	return deck, nil
}

// UpdateDeck renames a deck owned by the user and publishes an updated event.
func (s *DeckService) UpdateDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	deck, err := s.ownedDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	if err := deck.Rename(name, description); err != nil {
		return nil, err
	}

	if err := s.deckStore.Update(ctx, deck); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewDeckModifiedEvent(userID, deckID, events.DeckChangeUpdated))
	return deck, nil
}

// DeleteDeck removes a deck owned by the user and publishes a deleted event.
func (s *DeckService) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	if _, err := s.ownedDeck(ctx, userID, deckID); err != nil {
		return err
	}

	if err := s.deckStore.Delete(ctx, deckID); err != nil {
		return err
	}

	s.publish(ctx, events.NewDeckModifiedEvent(userID, deckID, events.DeckChangeDeleted))
	return nil
}

// GetDeck returns a deck owned by the user.
func (s *DeckService) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	return s.ownedDeck(ctx, userID, deckID)
}

// ownedDeck loads a deck and verifies ownership.
func (s *DeckService) ownedDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}

	if deck.UserID != userID {
		return nil, ErrDeckNotOwned
	}

	return deck, nil
}

// publish delivers a deck event; listener failures are logged, never
// propagated, because the structural change already committed.
func (s *DeckService) publish(ctx context.Context, event events.Event) {
	if err := s.emitter.Publish(ctx, event); err != nil {
		s.logger.Warn("event listener failed during publish",
			slog.String("error", err.Error()),
			slog.String("event_type", string(event.Type())))
	}
}
