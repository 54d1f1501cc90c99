// Package store defines the persistence interfaces consumed by the practice
// core: the card source, the known-card store, the daily statistics store,
// the deck store and the settings source. Implementations live under
// internal/platform (PostgreSQL) and in test fakes.
package store
