package practice_session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/lexikon/lexikon-api/internal/cache"
	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/domain/practice"
	"github.com/lexikon/lexikon-api/internal/events"
	"github.com/lexikon/lexikon-api/internal/platform/logger"
	"github.com/lexikon/lexikon-api/internal/store"
)

// Verify interface compliance at compile time
var _ PracticeSessionService = (*practiceSessionServiceImpl)(nil)

// practiceSessionServiceImpl implements the PracticeSessionService interface.
type practiceSessionServiceImpl struct {
	deckStore     store.DeckStore
	cardStore     store.CardStore
	knownStore    store.KnownCardStore
	statsStore    store.DailyStatsStore
	settingsStore store.SettingsStore
	counts        *cache.CountCache
	known         *cache.KnownCardsCache
	manager       practice.Manager
	emitter       events.Emitter
	logger        *slog.Logger

	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewPracticeSessionService creates a new PracticeSessionService implementation.
func NewPracticeSessionService(
	deckStore store.DeckStore,
	cardStore store.CardStore,
	knownStore store.KnownCardStore,
	statsStore store.DailyStatsStore,
	settingsStore store.SettingsStore,
	counts *cache.CountCache,
	known *cache.KnownCardsCache,
	manager practice.Manager,
	emitter events.Emitter,
	log *slog.Logger,
) PracticeSessionService {
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if knownStore == nil {
		panic("knownStore cannot be nil")
	}
	if statsStore == nil {
		panic("statsStore cannot be nil")
	}
	if settingsStore == nil {
		panic("settingsStore cannot be nil")
	}
	if counts == nil {
		panic("counts cannot be nil")
	}
	if known == nil {
		panic("known cannot be nil")
	}
	if manager == nil {
		panic("manager cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &practiceSessionServiceImpl{
		deckStore:     deckStore,
		cardStore:     cardStore,
		knownStore:    knownStore,
		statsStore:    statsStore,
		settingsStore: settingsStore,
		counts:        counts,
		known:         known,
		manager:       manager,
		emitter:       emitter,
		logger:        log.With(slog.String("component", "practice_session_service")),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// StartSession implements PracticeSessionService.StartSession.
func (s *practiceSessionServiceImpl) StartSession(
	ctx context.Context,
	userID uuid.UUID,
	deckID uuid.UUID,
	params StartSessionParams,
) (*practice.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return nil, NewStartSessionError("user ID cannot be empty", domain.ErrInvalidID)
	}
	if deckID == uuid.Nil {
		return nil, NewStartSessionError("deck ID cannot be empty", domain.ErrInvalidID)
	}
	if params.Count < 0 {
		return nil, ErrInvalidCount
	}
	if params.Direction != "" && !params.Direction.IsValid() {
		return nil, ErrInvalidDirection
	}

	if _, err := s.deckStore.GetByID(ctx, deckID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrDeckNotFound
		}
		return nil, NewStartSessionError("failed to load deck", err)
	}

	settings, err := s.resolveSettings(ctx, userID)
	if err != nil {
		return nil, NewStartSessionError("failed to resolve practice settings", err)
	}

	count := settings.Count
	if params.Count > 0 {
		count = params.Count
	}

	random := settings.RandomOrder
	if params.Random != nil {
		random = *params.Random
	}

	direction := settings.Direction
	if params.Direction != "" {
		direction = params.Direction
	}

	cards, err := s.cardStore.FindNotKnown(ctx, deckID)
	if err != nil {
		return nil, NewStartSessionError("failed to load eligible cards", err)
	}

	queue := buildQueue(cards, count, random)

	order := practice.OrderSequential
	if random {
		order = practice.OrderRandom
	}

	session, err := practice.NewSession(deckID, queue, direction, order, s.now())
	if err != nil {
		return nil, NewStartSessionError("failed to create session", err)
	}

	if err := s.manager.StartQuestion(session, s.now()); err != nil {
		return nil, NewStartSessionError("failed to start first question", err)
	}

	log.Debug("started practice session",
		slog.String("session_id", session.ID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("queue_length", len(queue)),
		slog.Bool("random", random))

	return session, nil
}

// buildQueue selects up to count card IDs from the eligible cards. The
// requested count silently clamps to the number available. Random order
// shuffles a copy; sequential keeps the store's source order.
func buildQueue(cards []*domain.Flashcard, count int, random bool) []uuid.UUID {
	ids := make([]uuid.UUID, len(cards))
	for i, card := range cards {
		ids[i] = card.ID
	}

	if random {
		rand.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
	}

	if count < len(ids) {
		ids = ids[:count]
	}
	return ids
}

// resolveSettings loads the user's stored defaults, falling back to the
// domain defaults when none were ever saved.
func (s *practiceSessionServiceImpl) resolveSettings(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.PracticeSettings, error) {
	settings, err := s.settingsStore.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrSettingsNotFound) {
			return domain.DefaultPracticeSettings(userID), nil
		}
		return nil, err
	}
	return settings, nil
}

// MarkKnow implements PracticeSessionService.MarkKnow.
//
// The known-card record is written before the in-memory session advances:
// if the store fails, the session keeps its pre-failure shape and the
// caller may retry. The progress event publishes after the write, so by
// the time this method returns the caches have already been evicted.
func (s *practiceSessionServiceImpl) MarkKnow(
	ctx context.Context,
	session *practice.Session,
) (practice.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, ok := s.manager.CurrentCard(session)
	if !ok {
		return s.manager.Progress(session), practice.ErrSessionComplete
	}

	if err := s.knownStore.MarkKnown(ctx, session.DeckID, card); err != nil {
		log.Error("failed to persist known card",
			slog.String("error", err.Error()),
			slog.String("deck_id", session.DeckID.String()),
			slog.String("card_id", card.String()))
		return s.manager.Progress(session), NewMarkKnowError("failed to persist known card", err)
	}

	if _, err := s.manager.MarkKnow(session); err != nil {
		// CurrentCard succeeded above; this only fires on a logic bug.
		return s.manager.Progress(session), NewMarkKnowError("failed to advance session", err)
	}

	s.publish(ctx, events.NewProgressChangedEvent(session.DeckID, events.ProgressChangeCardStatus))

	if !s.manager.IsComplete(session) {
		if err := s.manager.StartQuestion(session, s.now()); err != nil {
			return s.manager.Progress(session), NewMarkKnowError("failed to start next question", err)
		}
	}

	return s.manager.Progress(session), nil
}

// MarkHard implements PracticeSessionService.MarkHard. The card stays
// unknown, so nothing is persisted and no event is published.
func (s *practiceSessionServiceImpl) MarkHard(
	ctx context.Context,
	session *practice.Session,
) (practice.Progress, error) {
	if _, err := s.manager.MarkHard(session); err != nil {
		return s.manager.Progress(session), err
	}

	if !s.manager.IsComplete(session) {
		if err := s.manager.StartQuestion(session, s.now()); err != nil {
			return s.manager.Progress(session), err
		}
	}

	return s.manager.Progress(session), nil
}

// FinishSession implements PracticeSessionService.FinishSession.
func (s *practiceSessionServiceImpl) FinishSession(
	ctx context.Context,
	session *practice.Session,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if session == nil {
		return practice.ErrNilSession
	}

	now := s.now()
	delta := s.manager.Summary(session, now)

	if err := s.statsStore.Upsert(ctx, session.DeckID, domain.StatsDay(now), delta); err != nil {
		return NewFinishSessionError("failed to record session statistics", err)
	}

	log.Debug("recorded practice session",
		slog.String("session_id", session.ID.String()),
		slog.String("deck_id", session.DeckID.String()),
		slog.Int("viewed", delta.Viewed),
		slog.Int("correct", delta.Correct),
		slog.Int("hard", delta.Hard))

	return nil
}

// ResetDeckProgress implements PracticeSessionService.ResetDeckProgress.
func (s *practiceSessionServiceImpl) ResetDeckProgress(
	ctx context.Context,
	deckID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if deckID == uuid.Nil {
		return fmt.Errorf("%w: deck ID cannot be empty", domain.ErrInvalidID)
	}

	if err := s.knownStore.ClearDeck(ctx, deckID); err != nil {
		return fmt.Errorf("failed to clear deck progress: %w", err)
	}

	s.publish(ctx, events.NewProgressChangedEvent(deckID, events.ProgressChangeDeckReset))

	log.Info("reset deck progress", slog.String("deck_id", deckID.String()))
	return nil
}

// CountCards implements PracticeSessionService.CountCards.
func (s *practiceSessionServiceImpl) CountCards(
	ctx context.Context,
	deckID uuid.UUID,
	searchText string,
	filter domain.CardFilter,
) (int, error) {
	if deckID == uuid.Nil {
		return 0, fmt.Errorf("%w: deck ID cannot be empty", domain.ErrInvalidID)
	}

	return s.counts.GetCount(ctx, deckID, searchText, filter,
		func(ctx context.Context) (int, error) {
			return s.cardStore.CountWithFilter(ctx, deckID, searchText, filter)
		})
}

// NotKnownCards implements PracticeSessionService.NotKnownCards.
func (s *practiceSessionServiceImpl) NotKnownCards(
	ctx context.Context,
	deckID uuid.UUID,
) ([]*domain.Flashcard, error) {
	if deckID == uuid.Nil {
		return nil, fmt.Errorf("%w: deck ID cannot be empty", domain.ErrInvalidID)
	}

	return s.cardStore.FindNotKnown(ctx, deckID)
}

// KnownCardIDs implements PracticeSessionService.KnownCardIDs.
func (s *practiceSessionServiceImpl) KnownCardIDs(
	ctx context.Context,
	deckID uuid.UUID,
) ([]uuid.UUID, error) {
	if deckID == uuid.Nil {
		return nil, fmt.Errorf("%w: deck ID cannot be empty", domain.ErrInvalidID)
	}

	set, err := s.known.KnownCardIDs(ctx, deckID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids, nil
}

// IsCardKnown implements PracticeSessionService.IsCardKnown.
func (s *practiceSessionServiceImpl) IsCardKnown(
	ctx context.Context,
	deckID, cardID uuid.UUID,
) (bool, error) {
	if deckID == uuid.Nil || cardID == uuid.Nil {
		return false, fmt.Errorf("%w: deck and card IDs cannot be empty", domain.ErrInvalidID)
	}

	return s.known.IsKnown(ctx, deckID, cardID)
}

// publish delivers a domain event. A listener failure is logged but never
// surfaces to the caller: the triggering write already succeeded and must
// be reported as such.
func (s *practiceSessionServiceImpl) publish(ctx context.Context, event events.Event) {
	if err := s.emitter.Publish(ctx, event); err != nil {
		s.logger.Warn("event listener failed during publish",
			slog.String("error", err.Error()),
			slog.String("event_type", string(event.Type())))
	}
}
