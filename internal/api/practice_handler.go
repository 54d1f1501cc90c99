package api

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lexikon/lexikon-api/internal/api/shared"
	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/domain/practice"
	"github.com/lexikon/lexikon-api/internal/service"
	"github.com/lexikon/lexikon-api/internal/service/practice_session"
	"github.com/lexikon/lexikon-api/internal/store"
)

// PracticeHandler is the HTTP presenter for practice runs. It holds the
// active sessions in an in-process registry (sessions are never persisted),
// drives pure state transitions through the practice manager and delegates
// every persistent effect to the practice session service.
type PracticeHandler struct {
	service   practice_session.PracticeSessionService
	decks     *service.DeckService
	manager   practice.Manager
	registry  *practice_session.SessionRegistry
	cardStore store.CardStore
	validate  *validator.Validate
	logger    *slog.Logger
	now       func() time.Time
}

// NewPracticeHandler creates a new practice handler with its dependencies.
func NewPracticeHandler(
	svc practice_session.PracticeSessionService,
	decks *service.DeckService,
	manager practice.Manager,
	registry *practice_session.SessionRegistry,
	cardStore store.CardStore,
	log *slog.Logger,
) *PracticeHandler {
	if svc == nil {
		panic("practice session service cannot be nil")
	}
	if decks == nil {
		panic("deck service cannot be nil")
	}
	if manager == nil {
		panic("practice manager cannot be nil")
	}
	if registry == nil {
		panic("session registry cannot be nil")
	}
	if cardStore == nil {
		panic("card store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PracticeHandler{
		service:   svc,
		decks:     decks,
		manager:   manager,
		registry:  registry,
		cardStore: cardStore,
		validate:  validator.New(),
		logger:    log.With(slog.String("component", "practice_handler")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// StartSession handles POST /decks/{deckID}/practice. It builds a session
// over the deck's not-yet-known cards and registers it as active for the
// requesting user.
func (h *PracticeHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deckID, ok := parseUUIDParam(chi.URLParam(r, "deckID"))
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID format")
		return
	}

	var req StartSessionRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	if _, err := h.decks.GetDeck(r.Context(), userID, deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	session, err := h.service.StartSession(r.Context(), userID, deckID, practice_session.StartSessionParams{
		Count:     req.Count,
		Random:    req.Random,
		Direction: domain.Direction(req.Direction),
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.registry.Add(userID, session)

	h.respondWithSession(w, r, http.StatusCreated, session)
}

// GetSession handles GET /practice/{sessionID}. It returns the session's
// current state including the pending card's question side.
func (h *PracticeHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	h.respondWithSession(w, r, http.StatusOK, session)
}

// RevealAnswer handles POST /practice/{sessionID}/reveal. The first reveal
// of a question accumulates the think time into the session's answer delay;
// repeated reveals are no-ops.
func (h *PracticeHandler) RevealAnswer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	if err := h.manager.Reveal(session, h.now()); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.respondWithSession(w, r, http.StatusOK, session)
}

// SubmitAnswer handles POST /practice/{sessionID}/answer. A "know" outcome
// persists the known-card record before the session advances; a "hard"
// outcome only advances and leaves the card's known status untouched.
func (h *PracticeHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	var err error
	switch req.Outcome {
	case "know":
		_, err = h.service.MarkKnow(r.Context(), session)
	case "hard":
		_, err = h.service.MarkHard(r.Context(), session)
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.respondWithSession(w, r, http.StatusOK, session)
}

// FinishSession handles POST /practice/{sessionID}/finish. It folds the
// run's totals into the deck's daily statistics and discards the session.
func (h *PracticeHandler) FinishSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	if err := h.service.FinishSession(r.Context(), session); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.registry.Remove(session.ID)

	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(h.manager.Progress(session)))
}

// CountCards handles GET /decks/{deckID}/cards/count. Counts are served
// through the pagination count cache; search matches front or back text and
// filter narrows by known status.
func (h *PracticeHandler) CountCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deckID, ok := parseUUIDParam(chi.URLParam(r, "deckID"))
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID format")
		return
	}

	if _, err := h.decks.GetDeck(r.Context(), userID, deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	searchText := strings.TrimSpace(r.URL.Query().Get("search"))

	filter := domain.CardFilterAll
	if raw := r.URL.Query().Get("filter"); raw != "" {
		filter = domain.CardFilter(raw)
	}

	count, err := h.service.CountCards(r.Context(), deckID, searchText, filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CountResponse{
		DeckID:     deckID.String(),
		SearchText: searchText,
		Filter:     string(filter),
		Count:      count,
	})
}

// KnownCards handles GET /decks/{deckID}/known-cards. The ID set is served
// through the known-cards cache, so deck views can badge known cards without
// a query per card.
func (h *PracticeHandler) KnownCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deckID, ok := parseUUIDParam(chi.URLParam(r, "deckID"))
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID format")
		return
	}

	if _, err := h.decks.GetDeck(r.Context(), userID, deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	ids, err := h.service.KnownCardIDs(r.Context(), deckID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	resp := KnownCardsResponse{
		DeckID:  deckID.String(),
		CardIDs: make([]string, 0, len(ids)),
	}
	for _, id := range ids {
		resp.CardIDs = append(resp.CardIDs, id.String())
	}
	sort.Strings(resp.CardIDs)

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// ResetDeckProgress handles POST /decks/{deckID}/practice/reset. It clears
// the deck's known-card records so every card becomes eligible again.
func (h *PracticeHandler) ResetDeckProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deckID, ok := parseUUIDParam(chi.URLParam(r, "deckID"))
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID format")
		return
	}

	if _, err := h.decks.GetDeck(r.Context(), userID, deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.service.ResetDeckProgress(r.Context(), deckID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedSession resolves the session ID path parameter against the registry
// and verifies the requesting user started it. Sessions of other users are
// reported as not found rather than forbidden, so session IDs do not leak.
func (h *PracticeHandler) ownedSession(w http.ResponseWriter, r *http.Request) (*practice.Session, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return nil, false
	}

	sessionID, ok := parseUUIDParam(chi.URLParam(r, "sessionID"))
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID format")
		return nil, false
	}

	active, found := h.registry.Get(sessionID)
	if !found || active.UserID != userID {
		shared.RespondWithError(w, r, http.StatusNotFound, "Practice session not found")
		return nil, false
	}

	return active.Session, true
}

// respondWithSession writes the session's current state. When a card is
// pending its content is loaded and oriented along the session's direction.
func (h *PracticeHandler) respondWithSession(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	session *practice.Session,
) {
	resp := SessionResponse{
		SessionID: session.ID.String(),
		DeckID:    session.DeckID.String(),
		Direction: string(session.Direction),
		Order:     string(session.Order),
		Complete:  h.manager.IsComplete(session),
		Revealed:  session.Revealed,
		Progress:  progressToResponse(h.manager.Progress(session)),
	}

	if cardID, pending := h.manager.CurrentCard(session); pending {
		card, err := h.cardStore.GetByID(r.Context(), cardID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Failed to load current card", err)
			return
		}
		resp.CurrentCard = cardToResponse(card, session.Direction, session.Revealed)
	}

	shared.RespondWithJSON(w, r, status, resp)
}
