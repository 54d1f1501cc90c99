package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/store"
)

// PostgresSettingsStore implements the store.SettingsStore interface using
// a PostgreSQL database as the storage backend.
type PostgresSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSettingsStore creates a new PostgreSQL implementation of the
// SettingsStore interface.
func NewPostgresSettingsStore(db store.DBTX, logger *slog.Logger) *PostgresSettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

// Ensure PostgresSettingsStore implements store.SettingsStore
var _ store.SettingsStore = (*PostgresSettingsStore)(nil)

// Get implements store.SettingsStore.Get.
func (s *PostgresSettingsStore) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.PracticeSettings, error) {
	query := `
		SELECT user_id, session_count, random_order, direction
		FROM user_settings
		WHERE user_id = $1`

	var settings domain.PracticeSettings
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.UserID,
		&settings.Count,
		&settings.RandomOrder,
		&settings.Direction,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			return nil, store.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", mapped)
	}

	return &settings, nil
}

// Put implements store.SettingsStore.Put.
func (s *PostgresSettingsStore) Put(
	ctx context.Context,
	settings *domain.PracticeSettings,
) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO user_settings (user_id, session_count, random_order, direction)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			session_count = EXCLUDED.session_count,
			random_order  = EXCLUDED.random_order,
			direction     = EXCLUDED.direction`

	_, err := s.db.ExecContext(ctx, query,
		settings.UserID, settings.Count, settings.RandomOrder, settings.Direction)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", MapError(err))
	}

	return nil
}
