// Package cache holds the process-wide caches kept consistent with practice
// writes through the domain event channel: the per-deck known-card-id sets
// and the TTL-bounded pagination count cache.
//
// Both caches are backed by sturdyc, which provides sharded concurrent
// storage and in-flight de-duplication of identical fetches, so a cold key
// hit by several readers at once invokes the underlying query only once.
// Entries disappear either by TTL expiry or by event-triggered eviction,
// whichever comes first. The caches are listeners, not callers: writers
// publish events and never reference a cache directly.
package cache
