// Package domain defines the core business entities of the flashcard
// application: decks, flashcards, known-card records, per-day practice
// statistics and per-user practice settings.
//
// Entities in this package are plain data with validation; they carry no
// persistence or transport concerns. The practice session state machine
// lives in the domain/practice subpackage.
package domain
