// Package api provides the HTTP handlers exposing the practice engine: the
// practice presenter (session lifecycle, counts, deck reset) and the deck
// handler. Handlers translate between JSON payloads and the service layer
// and never touch stores directly.
package api
