package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/store"
)

// PostgresKnownCardStore implements the store.KnownCardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresKnownCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresKnownCardStore creates a new PostgreSQL implementation of the
// KnownCardStore interface.
func NewPostgresKnownCardStore(db store.DBTX, logger *slog.Logger) *PostgresKnownCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresKnownCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "known_card_store")),
	}
}

// Ensure PostgresKnownCardStore implements store.KnownCardStore
var _ store.KnownCardStore = (*PostgresKnownCardStore)(nil)

// MarkKnown implements store.KnownCardStore.MarkKnown. Re-marking an
// already-known card is a no-op.
func (s *PostgresKnownCardStore) MarkKnown(ctx context.Context, deckID, cardID uuid.UUID) error {
	record, err := domain.NewKnownCardRecord(deckID, cardID)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO known_cards (deck_id, card_id, marked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (deck_id, card_id) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, record.DeckID, record.CardID, record.MarkedAt); err != nil {
		return fmt.Errorf("failed to mark card known: %w", MapError(err))
	}

	return nil
}

// ClearDeck implements store.KnownCardStore.ClearDeck.
func (s *PostgresKnownCardStore) ClearDeck(ctx context.Context, deckID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM known_cards WHERE deck_id = $1`, deckID)
	if err != nil {
		return fmt.Errorf("failed to clear deck progress: %w", MapError(err))
	}

	if cleared, err := result.RowsAffected(); err == nil {
		s.logger.Debug("cleared known cards",
			slog.String("deck_id", deckID.String()),
			slog.Int64("cleared", cleared))
	}

	return nil
}

// ListKnownIDs implements store.KnownCardStore.ListKnownIDs.
func (s *PostgresKnownCardStore) ListKnownIDs(
	ctx context.Context,
	deckID uuid.UUID,
) (map[uuid.UUID]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT card_id FROM known_cards WHERE deck_id = $1`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to query known cards: %w", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	ids := make(map[uuid.UUID]struct{})
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan known card ID: %w", MapError(err))
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate known cards: %w", MapError(err))
	}

	return ids, nil
}
