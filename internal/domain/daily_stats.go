package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Daily stats validation errors
var (
	// ErrStatsDeckIDEmpty is returned when the deck ID is empty or nil.
	ErrStatsDeckIDEmpty = errors.New("daily stats deck ID cannot be empty")

	// ErrStatsNegativeDelta is returned when a stats delta contains a
	// negative counter.
	ErrStatsNegativeDelta = errors.New("daily stats delta cannot be negative")
)

// DailyStatsDelta is the per-session increment that gets folded into a
// deck's accumulator for a single calendar day. All fields are additive.
type DailyStatsDelta struct {
	Sessions      int   `json:"sessions"`
	Viewed        int   `json:"viewed"`
	Correct       int   `json:"correct"`
	Hard          int   `json:"hard"`
	DurationMs    int64 `json:"duration_ms"`
	AnswerDelayMs int64 `json:"answer_delay_ms"`
}

// Validate checks that no counter in the delta is negative.
func (d DailyStatsDelta) Validate() error {
	if d.Sessions < 0 || d.Viewed < 0 || d.Correct < 0 || d.Hard < 0 ||
		d.DurationMs < 0 || d.AnswerDelayMs < 0 {
		return ErrStatsNegativeDelta
	}
	return nil
}

// DailyStats is the accumulated practice activity for one deck on one
// calendar day. Upserts add a DailyStatsDelta to the existing totals,
// creating the row if the day has no entry yet.
type DailyStats struct {
	DeckID        uuid.UUID `json:"deck_id"`
	Day           time.Time `json:"day"` // truncated to a date, UTC
	Sessions      int       `json:"sessions"`
	Viewed        int       `json:"viewed"`
	Correct       int       `json:"correct"`
	Hard          int       `json:"hard"`
	DurationMs    int64     `json:"duration_ms"`
	AnswerDelayMs int64     `json:"answer_delay_ms"`
}

// Validate checks if the DailyStats has valid data.
func (s *DailyStats) Validate() error {
	if s.DeckID == uuid.Nil {
		return ErrStatsDeckIDEmpty
	}

	if s.Day.IsZero() {
		return errors.New("daily stats day cannot be zero")
	}

	return nil
}

// StatsDay truncates a timestamp to the UTC calendar day used as the
// daily stats accumulator key.
func StatsDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
