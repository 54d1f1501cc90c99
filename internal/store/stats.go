package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lexikon/lexikon-api/internal/domain"
)

// DailyStatsStore persists the per-deck, per-day practice accumulators.
type DailyStatsStore interface {
	// Upsert adds the delta to the deck's accumulator for the given day,
	// creating the row if the day has no entry yet. The day is truncated
	// to a UTC calendar date (see domain.StatsDay).
	Upsert(ctx context.Context, deckID uuid.UUID, day time.Time, delta domain.DailyStatsDelta) error

	// Get retrieves the accumulated stats for a deck on a single day.
	// Returns ErrNotFound if no practice happened that day.
	Get(ctx context.Context, deckID uuid.UUID, day time.Time) (*domain.DailyStats, error)
}
