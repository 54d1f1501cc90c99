package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface using a
// PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger is used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore
var _ store.CardStore = (*PostgresCardStore)(nil)

// GetByID implements store.CardStore.GetByID.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	query := `
		SELECT id, deck_id, front, back, example, image_url, created_at, updated_at
		FROM flashcards
		WHERE id = $1`

	var card domain.Flashcard
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&card.Example,
		&card.ImageURL,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			return nil, store.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", mapped)
	}

	return &card, nil
}

// FindNotKnown implements store.CardStore.FindNotKnown. Cards are returned
// in stable source order (creation order, ID as tiebreaker).
func (s *PostgresCardStore) FindNotKnown(
	ctx context.Context,
	deckID uuid.UUID,
) ([]*domain.Flashcard, error) {
	query := `
		SELECT c.id, c.deck_id, c.front, c.back, c.example, c.image_url, c.created_at, c.updated_at
		FROM flashcards c
		WHERE c.deck_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM known_cards k
			WHERE k.deck_id = c.deck_id AND k.card_id = c.id
		  )
		ORDER BY c.created_at, c.id`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to query not-known cards: %w", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var cards []*domain.Flashcard
	for rows.Next() {
		var card domain.Flashcard
		if err := rows.Scan(
			&card.ID,
			&card.DeckID,
			&card.Front,
			&card.Back,
			&card.Example,
			&card.ImageURL,
			&card.CreatedAt,
			&card.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", MapError(err))
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", MapError(err))
	}

	return cards, nil
}

// CountWithFilter implements store.CardStore.CountWithFilter. The search
// text matches the card front or back case-insensitively; the filter
// restricts to known or unknown cards via the known_cards table.
func (s *PostgresCardStore) CountWithFilter(
	ctx context.Context,
	deckID uuid.UUID,
	searchText string,
	filter domain.CardFilter,
) (int, error) {
	if !filter.IsValid() {
		return 0, domain.ErrInvalidFilter
	}

	var sb strings.Builder
	sb.WriteString(`SELECT COUNT(*) FROM flashcards c WHERE c.deck_id = $1`)

	args := []any{deckID}

	if search := strings.TrimSpace(searchText); search != "" {
		args = append(args, "%"+search+"%")
		fmt.Fprintf(&sb, ` AND (c.front ILIKE $%d OR c.back ILIKE $%d)`, len(args), len(args))
	}

	switch filter {
	case domain.CardFilterKnownOnly:
		sb.WriteString(` AND EXISTS (
			SELECT 1 FROM known_cards k WHERE k.deck_id = c.deck_id AND k.card_id = c.id)`)
	case domain.CardFilterUnknownOnly:
		sb.WriteString(` AND NOT EXISTS (
			SELECT 1 FROM known_cards k WHERE k.deck_id = c.deck_id AND k.card_id = c.id)`)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, sb.String(), args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", MapError(err))
	}

	return count, nil
}
