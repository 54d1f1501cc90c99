package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/store"
)

// PostgresDailyStatsStore implements the store.DailyStatsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDailyStatsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDailyStatsStore creates a new PostgreSQL implementation of the
// DailyStatsStore interface.
func NewPostgresDailyStatsStore(db store.DBTX, logger *slog.Logger) *PostgresDailyStatsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDailyStatsStore{
		db:     db,
		logger: logger.With(slog.String("component", "daily_stats_store")),
	}
}

// Ensure PostgresDailyStatsStore implements store.DailyStatsStore
var _ store.DailyStatsStore = (*PostgresDailyStatsStore)(nil)

// Upsert implements store.DailyStatsStore.Upsert. The delta is added to
// the existing day's totals; a missing row is created first.
func (s *PostgresDailyStatsStore) Upsert(
	ctx context.Context,
	deckID uuid.UUID,
	day time.Time,
	delta domain.DailyStatsDelta,
) error {
	if err := delta.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO practice_daily_stats
			(deck_id, day, sessions, viewed, correct, hard, duration_ms, answer_delay_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (deck_id, day) DO UPDATE SET
			sessions        = practice_daily_stats.sessions + EXCLUDED.sessions,
			viewed          = practice_daily_stats.viewed + EXCLUDED.viewed,
			correct         = practice_daily_stats.correct + EXCLUDED.correct,
			hard            = practice_daily_stats.hard + EXCLUDED.hard,
			duration_ms     = practice_daily_stats.duration_ms + EXCLUDED.duration_ms,
			answer_delay_ms = practice_daily_stats.answer_delay_ms + EXCLUDED.answer_delay_ms`

	_, err := s.db.ExecContext(ctx, query,
		deckID,
		domain.StatsDay(day),
		delta.Sessions,
		delta.Viewed,
		delta.Correct,
		delta.Hard,
		delta.DurationMs,
		delta.AnswerDelayMs,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", MapError(err))
	}

	return nil
}

// Get implements store.DailyStatsStore.Get.
func (s *PostgresDailyStatsStore) Get(
	ctx context.Context,
	deckID uuid.UUID,
	day time.Time,
) (*domain.DailyStats, error) {
	query := `
		SELECT deck_id, day, sessions, viewed, correct, hard, duration_ms, answer_delay_ms
		FROM practice_daily_stats
		WHERE deck_id = $1 AND day = $2`

	var stats domain.DailyStats
	err := s.db.QueryRowContext(ctx, query, deckID, domain.StatsDay(day)).Scan(
		&stats.DeckID,
		&stats.Day,
		&stats.Sessions,
		&stats.Viewed,
		&stats.Correct,
		&stats.Hard,
		&stats.DurationMs,
		&stats.AnswerDelayMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", MapError(err))
	}

	return &stats, nil
}
