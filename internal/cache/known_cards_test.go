package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexikon/lexikon-api/internal/events"
)

// fakeKnownCardStore is an in-memory KnownCardStore that counts list calls.
type fakeKnownCardStore struct {
	mu        sync.Mutex
	known     map[uuid.UUID]map[uuid.UUID]struct{}
	listCalls int
	listErr   error
}

func newFakeKnownCardStore() *fakeKnownCardStore {
	return &fakeKnownCardStore{known: make(map[uuid.UUID]map[uuid.UUID]struct{})}
}

func (f *fakeKnownCardStore) MarkKnown(_ context.Context, deckID, cardID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.known[deckID] == nil {
		f.known[deckID] = make(map[uuid.UUID]struct{})
	}
	f.known[deckID][cardID] = struct{}{}
	return nil
}

func (f *fakeKnownCardStore) ClearDeck(_ context.Context, deckID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.known, deckID)
	return nil
}

func (f *fakeKnownCardStore) ListKnownIDs(
	_ context.Context,
	deckID uuid.UUID,
) (map[uuid.UUID]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	out := make(map[uuid.UUID]struct{}, len(f.known[deckID]))
	for id := range f.known[deckID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (f *fakeKnownCardStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func TestKnownCardIDsLoadsLazily(t *testing.T) {
	t.Parallel()

	fake := newFakeKnownCardStore()
	cache := NewKnownCardsCache(fake, nil)
	ctx := context.Background()
	deckID := uuid.New()
	cardID := uuid.New()
	require.NoError(t, fake.MarkKnown(ctx, deckID, cardID))

	for i := 0; i < 3; i++ {
		ids, err := cache.KnownCardIDs(ctx, deckID)
		require.NoError(t, err)
		assert.Contains(t, ids, cardID)
	}

	assert.Equal(t, 1, fake.calls(), "warm entries never hit the store")
}

func TestKnownCardIDsReturnsCopy(t *testing.T) {
	t.Parallel()

	fake := newFakeKnownCardStore()
	cache := NewKnownCardsCache(fake, nil)
	ctx := context.Background()
	deckID := uuid.New()
	cardID := uuid.New()
	require.NoError(t, fake.MarkKnown(ctx, deckID, cardID))

	first, err := cache.KnownCardIDs(ctx, deckID)
	require.NoError(t, err)
	delete(first, cardID)

	second, err := cache.KnownCardIDs(ctx, deckID)
	require.NoError(t, err)
	assert.Contains(t, second, cardID, "callers must not mutate the cached set")
}

func TestIsKnown(t *testing.T) {
	t.Parallel()

	fake := newFakeKnownCardStore()
	cache := NewKnownCardsCache(fake, nil)
	ctx := context.Background()
	deckID := uuid.New()
	knownCard := uuid.New()
	require.NoError(t, fake.MarkKnown(ctx, deckID, knownCard))

	known, err := cache.IsKnown(ctx, deckID, knownCard)
	require.NoError(t, err)
	assert.True(t, known)

	known, err = cache.IsKnown(ctx, deckID, uuid.New())
	require.NoError(t, err)
	assert.False(t, known)
}

func TestLookupDoesNotCacheStoreErrors(t *testing.T) {
	t.Parallel()

	fake := newFakeKnownCardStore()
	cache := NewKnownCardsCache(fake, nil)
	ctx := context.Background()
	deckID := uuid.New()

	fake.listErr = errors.New("connection reset")
	_, err := cache.KnownCardIDs(ctx, deckID)
	require.Error(t, err)

	fake.mu.Lock()
	fake.listErr = nil
	fake.mu.Unlock()

	_, err = cache.KnownCardIDs(ctx, deckID)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls())
}

func TestHandleEventEvictsDeckSet(t *testing.T) {
	t.Parallel()

	fake := newFakeKnownCardStore()
	cache := NewKnownCardsCache(fake, nil)
	ctx := context.Background()
	deckID := uuid.New()
	cardID := uuid.New()

	known, err := cache.IsKnown(ctx, deckID, cardID)
	require.NoError(t, err)
	require.False(t, known)

	// The write bypasses the cache; without eviction the stale set would
	// keep answering false.
	require.NoError(t, fake.MarkKnown(ctx, deckID, cardID))
	require.NoError(t, cache.HandleEvent(ctx,
		events.NewProgressChangedEvent(deckID, events.ProgressChangeCardStatus)))

	known, err = cache.IsKnown(ctx, deckID, cardID)
	require.NoError(t, err)
	assert.True(t, known, "read after write sees the new status")
}

func TestHandleEventHandlesResetChange(t *testing.T) {
	t.Parallel()

	fake := newFakeKnownCardStore()
	cache := NewKnownCardsCache(fake, nil)
	ctx := context.Background()
	deckID := uuid.New()
	cardID := uuid.New()
	require.NoError(t, fake.MarkKnown(ctx, deckID, cardID))

	known, err := cache.IsKnown(ctx, deckID, cardID)
	require.NoError(t, err)
	require.True(t, known)

	require.NoError(t, fake.ClearDeck(ctx, deckID))
	require.NoError(t, cache.HandleEvent(ctx,
		events.NewProgressChangedEvent(deckID, events.ProgressChangeDeckReset)))

	known, err = cache.IsKnown(ctx, deckID, cardID)
	require.NoError(t, err)
	assert.False(t, known)
}

func TestHandleEventIgnoresOtherEventTypes(t *testing.T) {
	t.Parallel()

	fake := newFakeKnownCardStore()
	cache := NewKnownCardsCache(fake, nil)
	ctx := context.Background()
	deckID := uuid.New()

	_, err := cache.KnownCardIDs(ctx, deckID)
	require.NoError(t, err)

	require.NoError(t, cache.HandleEvent(ctx,
		events.NewDeckModifiedEvent(uuid.New(), deckID, events.DeckChangeUpdated)))

	_, err = cache.KnownCardIDs(ctx, deckID)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls(), "deck modifications do not touch the known set")
}
