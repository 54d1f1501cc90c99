package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/viccon/sturdyc"

	"github.com/lexikon/lexikon-api/internal/events"
	"github.com/lexikon/lexikon-api/internal/store"
)

// Sizing and lifetime of the known-card-id sets. Event-driven eviction
// handles correctness; the TTL only bounds memory for decks nobody
// practices anymore.
const (
	knownCacheCapacity = 4096
	knownCacheShards   = 64
	knownCacheTTL      = 15 * time.Minute
	knownCacheEviction = 10
)

// KnownCardsCache is the process-wide cache of per-deck known-card-id sets.
// Reads populate it lazily from the known-card store; any progress change
// event for a deck evicts that deck's set, so a read issued after a write
// returns recomputes from the source of truth.
type KnownCardsCache struct {
	client *sturdyc.Client[map[uuid.UUID]struct{}]
	store  store.KnownCardStore
	logger *slog.Logger
}

// NewKnownCardsCache creates a known-cards cache over the given store.
func NewKnownCardsCache(knownStore store.KnownCardStore, logger *slog.Logger) *KnownCardsCache {
	if knownStore == nil {
		panic("knownStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &KnownCardsCache{
		client: sturdyc.New[map[uuid.UUID]struct{}](
			knownCacheCapacity,
			knownCacheShards,
			knownCacheTTL,
			knownCacheEviction,
		),
		store:  knownStore,
		logger: logger.With(slog.String("component", "known_cards_cache")),
	}
}

// Verify interface compliance at compile time
var _ events.EventHandler = (*KnownCardsCache)(nil)

// KnownCardIDs returns the set of card IDs known within the deck, loading
// it from the store on a cache miss. The returned map is a copy the caller
// may keep or modify.
func (c *KnownCardsCache) KnownCardIDs(
	ctx context.Context,
	deckID uuid.UUID,
) (map[uuid.UUID]struct{}, error) {
	ids, err := c.lookup(ctx, deckID)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]struct{}, len(ids))
	for id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// IsKnown reports whether the card is marked known within the deck.
func (c *KnownCardsCache) IsKnown(ctx context.Context, deckID, cardID uuid.UUID) (bool, error) {
	ids, err := c.lookup(ctx, deckID)
	if err != nil {
		return false, err
	}

	_, known := ids[cardID]
	return known, nil
}

// lookup fetches the deck's set through the cache. Store failures are never
// cached; the key stays cold and the next read retries the store.
func (c *KnownCardsCache) lookup(
	ctx context.Context,
	deckID uuid.UUID,
) (map[uuid.UUID]struct{}, error) {
	ids, err := c.client.GetOrFetch(ctx, knownKey(deckID),
		func(ctx context.Context) (map[uuid.UUID]struct{}, error) {
			c.logger.Debug("loading known card set",
				slog.String("deck_id", deckID.String()))
			return c.store.ListKnownIDs(ctx, deckID)
		})
	if err != nil {
		return nil, fmt.Errorf("failed to load known cards for deck %s: %w", deckID, err)
	}

	return ids, nil
}

// HandleEvent implements events.EventHandler. Any progress change for a
// deck, whether a single card status change or a full reset, invalidates
// the deck's cached set.
func (c *KnownCardsCache) HandleEvent(ctx context.Context, event events.Event) error {
	progress, ok := event.(events.ProgressChangedEvent)
	if !ok {
		return nil
	}

	c.client.Delete(knownKey(progress.DeckID))
	c.logger.Debug("evicted known card set",
		slog.String("deck_id", progress.DeckID.String()),
		slog.String("change", string(progress.Change)))
	return nil
}
