package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viccon/sturdyc"

	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/events"
)

// CountCacheTTL bounds the staleness of count entries on decks with no
// recent status change. The TTL is deliberately fixed rather than
// per-call: event-driven eviction already covers the "just changed" case.
const CountCacheTTL = 30 * time.Second

const (
	countCacheCapacity = 16384
	countCacheShards   = 64
	countCacheEviction = 10
)

// CountSupplier produces the actual count from the source of truth when the
// cache has no valid entry for a key.
type CountSupplier func(ctx context.Context) (int, error)

// CountCache caches pagination count-query results keyed by
// (deck, search text, filter). It listens for both progress change and deck
// modification events and evicts every entry of the affected deck: a card
// status change shifts the known/unknown counts unpredictably across all
// search variants, so the invalidation is deliberately coarse.
type CountCache struct {
	client *sturdyc.Client[int]
	logger *slog.Logger
}

// NewCountCache creates a pagination count cache.
func NewCountCache(logger *slog.Logger) *CountCache {
	if logger == nil {
		logger = slog.Default()
	}

	return &CountCache{
		client: sturdyc.New[int](
			countCacheCapacity,
			countCacheShards,
			CountCacheTTL,
			countCacheEviction,
		),
		logger: logger.With(slog.String("component", "count_cache")),
	}
}

// Verify interface compliance at compile time
var _ events.EventHandler = (*CountCache)(nil)

// GetCount returns the cached count for the normalized key, invoking the
// supplier only when no unexpired entry exists. Concurrent misses on the
// same key share a single supplier call. A supplier failure propagates to
// the caller and leaves the key unpopulated; errors are never cached.
func (c *CountCache) GetCount(
	ctx context.Context,
	deckID uuid.UUID,
	searchText string,
	filter domain.CardFilter,
	supplier CountSupplier,
) (int, error) {
	if !filter.IsValid() {
		return 0, domain.ErrInvalidFilter
	}

	return c.client.GetOrFetch(ctx, countKey(deckID, searchText, filter),
		sturdyc.FetchFn[int](supplier))
}

// HandleEvent implements events.EventHandler. Both event kinds trigger a
// deck-wide eviction keyed by the event's deck ID.
func (c *CountCache) HandleEvent(ctx context.Context, event events.Event) error {
	var deckID uuid.UUID

	switch ev := event.(type) {
	case events.ProgressChangedEvent:
		deckID = ev.DeckID
	case events.DeckModifiedEvent:
		deckID = ev.DeckID
	default:
		return nil
	}

	evicted := c.evictDeck(deckID)
	c.logger.Debug("evicted count entries",
		slog.String("deck_id", deckID.String()),
		slog.String("event_type", string(event.Type())),
		slog.Int("entries", evicted))
	return nil
}

// evictDeck removes every count entry whose key belongs to the deck,
// regardless of search text or filter. Returns the number of entries
// removed.
func (c *CountCache) evictDeck(deckID uuid.UUID) int {
	prefix := countKeyPrefix(deckID)

	evicted := 0
	for _, key := range c.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			c.client.Delete(key)
			evicted++
		}
	}
	return evicted
}
