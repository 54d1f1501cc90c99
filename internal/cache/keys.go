package cache

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lexikon/lexikon-api/internal/domain"
)

// keySeparator delimits cache key segments. Keys are prefixed with the
// cache name and the deck ID so deck-wide eviction reduces to a prefix scan.
const keySeparator = "::"

// countKey builds the normalized pagination count key: the search text is
// trimmed so " bird " and "bird" share an entry.
func countKey(deckID uuid.UUID, searchText string, filter domain.CardFilter) string {
	return strings.Join(
		[]string{"count", deckID.String(), string(filter), strings.TrimSpace(searchText)},
		keySeparator,
	)
}

// countKeyPrefix returns the prefix shared by every count entry of a deck,
// regardless of search text or filter.
func countKeyPrefix(deckID uuid.UUID) string {
	return "count" + keySeparator + deckID.String() + keySeparator
}

// knownKey builds the key for a deck's known-card-id set.
func knownKey(deckID uuid.UUID) string {
	return "known" + keySeparator + deckID.String()
}
