package practice_session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexikon/lexikon-api/internal/cache"
	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/domain/practice"
	"github.com/lexikon/lexikon-api/internal/events"
)

// testEnv wires the service against in-memory fakes, a real count cache and
// a real emitter with both caches subscribed, mirroring the production
// wiring in cmd/server.
type testEnv struct {
	service    PracticeSessionService
	manager    practice.Manager
	deckStore  *fakeDeckStore
	cardStore  *fakeCardStore
	knownStore *fakeKnownCardStore
	statsStore *fakeStatsStore
	settings   *fakeSettingsStore
	emitter    *events.InMemoryEmitter
	knownCache *cache.KnownCardsCache
	countCache *cache.CountCache

	userID uuid.UUID
	deck   *domain.Deck
	cards  []*domain.Flashcard
}

// newTestEnv builds the environment with a deck of cardCount cards.
func newTestEnv(t *testing.T, cardCount int) *testEnv {
	t.Helper()

	knownStore := newFakeKnownCardStore()
	env := &testEnv{
		manager:    practice.NewManager(),
		deckStore:  newFakeDeckStore(),
		cardStore:  newFakeCardStore(knownStore),
		knownStore: knownStore,
		statsStore: newFakeStatsStore(),
		settings:   newFakeSettingsStore(),
		emitter:    events.NewInMemoryEmitter(nil),
		userID:     uuid.New(),
	}

	env.knownCache = cache.NewKnownCardsCache(knownStore, nil)
	env.countCache = cache.NewCountCache(nil)
	env.emitter.Subscribe(events.EventTypeProgressChanged, env.knownCache)
	env.emitter.Subscribe(events.EventTypeProgressChanged, env.countCache)
	env.emitter.Subscribe(events.EventTypeDeckModified, env.countCache)

	env.service = NewPracticeSessionService(
		env.deckStore,
		env.cardStore,
		env.knownStore,
		env.statsStore,
		env.settings,
		env.countCache,
		env.knownCache,
		env.manager,
		env.emitter,
		nil,
	)

	deck, err := domain.NewDeck(env.userID, "Birds", "common garden birds")
	require.NoError(t, err)
	require.NoError(t, env.deckStore.Create(context.Background(), deck))
	env.deck = deck

	for i := 0; i < cardCount; i++ {
		card, err := domain.NewFlashcard(deck.ID, "front "+string(rune('A'+i)), "back "+string(rune('A'+i)))
		require.NoError(t, err)
		env.cardStore.add(card)
		env.cards = append(env.cards, card)
	}

	return env
}

func boolPtr(b bool) *bool { return &b }

func TestStartSessionSequentialTakesFirstN(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 3)
	ctx := context.Background()

	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{
		Count:  2,
		Random: boolPtr(false),
	})
	require.NoError(t, err)

	require.Len(t, session.Queue, 2)
	assert.Equal(t, env.cards[0].ID, session.Queue[0])
	assert.Equal(t, env.cards[1].ID, session.Queue[1])
	assert.Equal(t, practice.OrderSequential, session.Order)
	assert.False(t, session.Revealed)
}

func TestStartSessionCountClampsToEligible(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 3)
	ctx := context.Background()

	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{
		Count:  50,
		Random: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Len(t, session.Queue, 3)
}

func TestStartSessionSkipsKnownCards(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 3)
	ctx := context.Background()
	require.NoError(t, env.knownStore.MarkKnown(ctx, env.deck.ID, env.cards[0].ID))

	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{
		Random: boolPtr(false),
	})
	require.NoError(t, err)

	require.Len(t, session.Queue, 2)
	assert.Equal(t, env.cards[1].ID, session.Queue[0])
	assert.Equal(t, env.cards[2].ID, session.Queue[1])
}

func TestStartSessionAllKnownYieldsCompleteSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 2)
	ctx := context.Background()
	for _, card := range env.cards {
		require.NoError(t, env.knownStore.MarkKnown(ctx, env.deck.ID, card.ID))
	}

	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{})
	require.NoError(t, err)

	assert.Empty(t, session.Queue)
	assert.True(t, env.manager.IsComplete(session))
}

func TestStartSessionUsesStoredDefaults(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 10)
	ctx := context.Background()
	require.NoError(t, env.settings.Put(ctx, &domain.PracticeSettings{
		UserID:      env.userID,
		Count:       4,
		RandomOrder: false,
		Direction:   domain.DirectionBackToFront,
	}))

	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{})
	require.NoError(t, err)

	assert.Len(t, session.Queue, 4)
	assert.Equal(t, practice.OrderSequential, session.Order)
	assert.Equal(t, domain.DirectionBackToFront, session.Direction)
}

func TestStartSessionParamsOverrideDefaults(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 10)
	ctx := context.Background()
	require.NoError(t, env.settings.Put(ctx, &domain.PracticeSettings{
		UserID:      env.userID,
		Count:       4,
		RandomOrder: false,
		Direction:   domain.DirectionBackToFront,
	}))

	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{
		Count:     6,
		Direction: domain.DirectionFrontToBack,
	})
	require.NoError(t, err)

	assert.Len(t, session.Queue, 6)
	assert.Equal(t, domain.DirectionFrontToBack, session.Direction)
}

func TestStartSessionRandomPermutesEligibleCards(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 8)
	ctx := context.Background()

	random := true
	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{
		Count:  8,
		Random: &random,
	})
	require.NoError(t, err)

	require.Len(t, session.Queue, 8)
	assert.Equal(t, practice.OrderRandom, session.Order)

	want := make(map[uuid.UUID]struct{}, len(env.cards))
	for _, card := range env.cards {
		want[card.ID] = struct{}{}
	}
	for _, id := range session.Queue {
		_, ok := want[id]
		assert.True(t, ok, "shuffled queue contains only eligible cards")
		delete(want, id)
	}
	assert.Empty(t, want, "shuffled queue is a permutation, not a sample with repeats")
}

func TestStartSessionErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  uuid.UUID
		deckID  uuid.UUID
		params  StartSessionParams
		wantErr error
	}{
		{
			name:    "unknown deck",
			userID:  env.userID,
			deckID:  uuid.New(),
			wantErr: ErrDeckNotFound,
		},
		{
			name:    "negative count",
			userID:  env.userID,
			deckID:  env.deck.ID,
			params:  StartSessionParams{Count: -1},
			wantErr: ErrInvalidCount,
		},
		{
			name:    "invalid direction",
			userID:  env.userID,
			deckID:  env.deck.ID,
			params:  StartSessionParams{Direction: domain.Direction("sideways")},
			wantErr: ErrInvalidDirection,
		},
		{
			name:    "nil user",
			userID:  uuid.Nil,
			deckID:  env.deck.ID,
			wantErr: domain.ErrInvalidID,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := env.service.StartSession(ctx, tc.userID, tc.deckID, tc.params)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestMarkKnowPersistsAndAdvances(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 2)
	ctx := context.Background()

	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{
		Count:  2,
		Random: boolPtr(false),
	})
	require.NoError(t, err)

	require.NoError(t, env.manager.Reveal(session, time.Now()))
	progress, err := env.service.MarkKnow(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, practice.Progress{Viewed: 1, Total: 2, Correct: 1, Hard: 0}, progress)

	// The known-card record hit the store before the session advanced.
	knownIDs, err := env.knownStore.ListKnownIDs(ctx, env.deck.ID)
	require.NoError(t, err)
	assert.Contains(t, knownIDs, env.cards[0].ID)

	// Second card, marked hard: no record is written.
	require.NoError(t, env.manager.Reveal(session, time.Now()))
	progress, err = env.service.MarkHard(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, practice.Progress{Viewed: 2, Total: 2, Correct: 1, Hard: 1}, progress)
	assert.True(t, env.manager.IsComplete(session))

	knownIDs, err = env.knownStore.ListKnownIDs(ctx, env.deck.ID)
	require.NoError(t, err)
	assert.NotContains(t, knownIDs, env.cards[1].ID)
}

func TestMarkKnowStoreFailureLeavesSessionUntouched(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 2)
	ctx := context.Background()

	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{
		Count:  2,
		Random: boolPtr(false),
	})
	require.NoError(t, err)

	env.knownStore.mu.Lock()
	env.knownStore.markErr = errors.New("write timeout")
	env.knownStore.mu.Unlock()

	_, err = env.service.MarkKnow(ctx, session)
	require.Error(t, err)

	// The cursor did not move; the caller may retry the same card.
	current, ok := env.manager.CurrentCard(session)
	require.True(t, ok)
	assert.Equal(t, env.cards[0].ID, current)
	assert.Equal(t, 0, session.Viewed)

	env.knownStore.mu.Lock()
	env.knownStore.markErr = nil
	env.knownStore.mu.Unlock()

	_, err = env.service.MarkKnow(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 1, session.Viewed)
}

func TestMarkOutcomeOnCompleteSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	ctx := context.Background()

	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{
		Random: boolPtr(false),
	})
	require.NoError(t, err)

	_, err = env.service.MarkKnow(ctx, session)
	require.NoError(t, err)

	_, err = env.service.MarkKnow(ctx, session)
	require.ErrorIs(t, err, practice.ErrSessionComplete)

	_, err = env.service.MarkHard(ctx, session)
	require.ErrorIs(t, err, practice.ErrSessionComplete)
}

func TestCountAfterMarkKnowSeesNewState(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 3)
	ctx := context.Background()

	count, err := env.service.CountCards(ctx, env.deck.ID, "", domain.CardFilterUnknownOnly)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{
		Count:  1,
		Random: boolPtr(false),
	})
	require.NoError(t, err)
	_, err = env.service.MarkKnow(ctx, session)
	require.NoError(t, err)

	// The progress event evicted the count entry; the next read recomputes
	// rather than serving the stale 3 for up to the TTL.
	count, err = env.service.CountCards(ctx, env.deck.ID, "", domain.CardFilterUnknownOnly)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = env.service.CountCards(ctx, env.deck.ID, "", domain.CardFilterKnownOnly)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCountCardsServedFromCache(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 3)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := env.service.CountCards(ctx, env.deck.ID, "bird", domain.CardFilterAll)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, env.cardStore.counts(), "repeated identical counts hit the store once")
}

func TestResetDeckProgressMakesAllCardsEligibleAgain(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 3)
	ctx := context.Background()
	for _, card := range env.cards {
		require.NoError(t, env.knownStore.MarkKnown(ctx, env.deck.ID, card.ID))
	}

	count, err := env.service.CountCards(ctx, env.deck.ID, "", domain.CardFilterUnknownOnly)
	require.NoError(t, err)
	require.Equal(t, 0, count)

	require.NoError(t, env.service.ResetDeckProgress(ctx, env.deck.ID))

	count, err = env.service.CountCards(ctx, env.deck.ID, "", domain.CardFilterUnknownOnly)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{
		Random: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Len(t, session.Queue, 3)
}

func TestFinishSessionAccumulatesDailyStats(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 2)
	ctx := context.Background()

	fixed := time.Date(2026, 8, 25, 15, 30, 0, 0, time.UTC)
	env.service.(*practiceSessionServiceImpl).now = func() time.Time { return fixed }

	run := func() {
		session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{
			Count:  1,
			Random: boolPtr(false),
		})
		require.NoError(t, err)
		_, err = env.service.MarkHard(ctx, session)
		require.NoError(t, err)
		require.NoError(t, env.service.FinishSession(ctx, session))
		require.NoError(t, env.service.ResetDeckProgress(ctx, env.deck.ID))
	}

	run()
	run()

	stats, err := env.statsStore.Get(ctx, env.deck.ID, fixed)
	require.NoError(t, err)

	// Two runs on the same calendar day fold into one row.
	assert.Equal(t, 2, stats.Sessions)
	assert.Equal(t, 2, stats.Viewed)
	assert.Equal(t, 0, stats.Correct)
	assert.Equal(t, 2, stats.Hard)
	assert.Equal(t, domain.StatsDay(fixed), stats.Day)
}

func TestFinishSessionNil(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	require.ErrorIs(t, env.service.FinishSession(context.Background(), nil), practice.ErrNilSession)
}

func TestNotKnownCardsSourceOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 3)
	ctx := context.Background()
	require.NoError(t, env.knownStore.MarkKnown(ctx, env.deck.ID, env.cards[1].ID))

	cards, err := env.service.NotKnownCards(ctx, env.deck.ID)
	require.NoError(t, err)

	require.Len(t, cards, 2)
	assert.Equal(t, env.cards[0].ID, cards[0].ID)
	assert.Equal(t, env.cards[2].ID, cards[1].ID)
}

func TestKnownCardIDsTracksOutcomes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 3)
	ctx := context.Background()

	ids, err := env.service.KnownCardIDs(ctx, env.deck.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	session, err := env.service.StartSession(ctx, env.userID, env.deck.ID, StartSessionParams{
		Count:  1,
		Random: boolPtr(false),
	})
	require.NoError(t, err)
	_, err = env.service.MarkKnow(ctx, session)
	require.NoError(t, err)

	// The progress event evicted the cached set, so the read after the
	// write sees the new record.
	ids, err = env.service.KnownCardIDs(ctx, env.deck.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{env.cards[0].ID}, ids)

	known, err := env.service.IsCardKnown(ctx, env.deck.ID, env.cards[0].ID)
	require.NoError(t, err)
	assert.True(t, known)

	known, err = env.service.IsCardKnown(ctx, env.deck.ID, env.cards[1].ID)
	require.NoError(t, err)
	assert.False(t, known)

	require.NoError(t, env.service.ResetDeckProgress(ctx, env.deck.ID))

	ids, err = env.service.KnownCardIDs(ctx, env.deck.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestKnownCardIDsRejectsNilDeck(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 1)
	_, err := env.service.KnownCardIDs(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, domain.ErrInvalidID)
}
