package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lexikon/lexikon-api/internal/cache"
	"github.com/lexikon/lexikon-api/internal/config"
	"github.com/lexikon/lexikon-api/internal/domain/practice"
	"github.com/lexikon/lexikon-api/internal/events"
	"github.com/lexikon/lexikon-api/internal/platform/postgres"
	"github.com/lexikon/lexikon-api/internal/service"
	"github.com/lexikon/lexikon-api/internal/service/practice_session"
	"github.com/lexikon/lexikon-api/internal/store"
)

// application holds the wired components of the server. Everything hangs
// off a single database handle and a single in-process event emitter; the
// caches subscribe to the emitter before any service can publish, so no
// invalidation event is ever missed.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	emitter events.Emitter

	deckStore     store.DeckStore
	cardStore     store.CardStore
	knownStore    store.KnownCardStore
	statsStore    store.DailyStatsStore
	settingsStore store.SettingsStore

	knownCache *cache.KnownCardsCache
	countCache *cache.CountCache

	manager         practice.Manager
	practiceService practice_session.PracticeSessionService
	deckService     *service.DeckService
	registry        *practice_session.SessionRegistry
}

// newApplication wires stores, caches, services and the event emitter.
func newApplication(cfg *config.Config, appLogger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Migrate {
		if err := runMigrations(db, appLogger); err != nil {
			closeDatabase(db, appLogger)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	app := &application{
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	app.emitter = events.NewInMemoryEmitter(appLogger)

	app.deckStore = postgres.NewPostgresDeckStore(db, appLogger)
	app.cardStore = postgres.NewPostgresCardStore(db, appLogger)
	app.knownStore = postgres.NewPostgresKnownCardStore(db, appLogger)
	app.statsStore = postgres.NewPostgresDailyStatsStore(db, appLogger)
	app.settingsStore = postgres.NewPostgresSettingsStore(db, appLogger)

	app.knownCache = cache.NewKnownCardsCache(app.knownStore, appLogger)
	app.countCache = cache.NewCountCache(appLogger)

	// Subscriptions happen before any service exists, so the caches see
	// every invalidation event the services publish.
	app.emitter.Subscribe(events.EventTypeProgressChanged, app.knownCache)
	app.emitter.Subscribe(events.EventTypeProgressChanged, app.countCache)
	app.emitter.Subscribe(events.EventTypeDeckModified, app.countCache)

	app.manager = practice.NewManager()
	app.practiceService = practice_session.NewPracticeSessionService(
		app.deckStore,
		app.cardStore,
		app.knownStore,
		app.statsStore,
		app.settingsStore,
		app.countCache,
		app.knownCache,
		app.manager,
		app.emitter,
		appLogger,
	)
	app.deckService = service.NewDeckService(app.deckStore, app.emitter, appLogger)
	app.registry = practice_session.NewSessionRegistry()

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	closeDatabase(app.db, app.logger)
}

func closeDatabase(db *sql.DB, appLogger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		appLogger.Error("failed to close database connection", "error", err)
	}
}
