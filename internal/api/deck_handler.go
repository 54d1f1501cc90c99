package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lexikon/lexikon-api/internal/api/shared"
	"github.com/lexikon/lexikon-api/internal/service"
)

// DeckHandler exposes deck CRUD over HTTP. Mutations publish deck-modified
// events through the service, which in turn keep the count cache honest.
type DeckHandler struct {
	decks    *service.DeckService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewDeckHandler creates a new deck handler.
func NewDeckHandler(decks *service.DeckService, log *slog.Logger) *DeckHandler {
	if decks == nil {
		panic("deck service cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &DeckHandler{
		decks:    decks,
		validate: validator.New(),
		logger:   log.With(slog.String("component", "deck_handler")),
	}
}

// CreateDeck handles POST /decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req DeckRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	deck, err := h.decks.CreateDeck(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(deck))
}

// GetDeck handles GET /decks/{deckID}.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deckID, ok := parseUUIDParam(chi.URLParam(r, "deckID"))
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID format")
		return
	}

	deck, err := h.decks.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck))
}

// UpdateDeck handles PUT /decks/{deckID}.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deckID, ok := parseUUIDParam(chi.URLParam(r, "deckID"))
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID format")
		return
	}

	var req DeckRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	deck, err := h.decks.UpdateDeck(r.Context(), userID, deckID, req.Name, req.Description)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck))
}

// DeleteDeck handles DELETE /decks/{deckID}.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deckID, ok := parseUUIDParam(chi.URLParam(r, "deckID"))
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID format")
		return
	}

	if err := h.decks.DeleteDeck(r.Context(), userID, deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
