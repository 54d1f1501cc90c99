package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lexikon/lexikon-api/internal/domain"
)

// SettingsStore supplies per-user practice defaults.
type SettingsStore interface {
	// Get retrieves the user's stored practice settings.
	// Returns ErrSettingsNotFound if the user never saved any; callers
	// should fall back to domain.DefaultPracticeSettings.
	Get(ctx context.Context, userID uuid.UUID) (*domain.PracticeSettings, error)

	// Put creates or replaces the user's practice settings.
	Put(ctx context.Context, settings *domain.PracticeSettings) error
}
