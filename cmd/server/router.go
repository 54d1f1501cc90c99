package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lexikon/lexikon-api/internal/api"
	apiMiddleware "github.com/lexikon/lexikon-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger).Handler)

	practiceHandler := api.NewPracticeHandler(
		app.practiceService,
		app.deckService,
		app.manager,
		app.registry,
		app.cardStore,
		app.logger,
	)
	deckHandler := api.NewDeckHandler(app.deckService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiMiddleware.RequireUserID)

		// Deck endpoints
		r.Post("/decks", deckHandler.CreateDeck)
		r.Get("/decks/{deckID}", deckHandler.GetDeck)
		r.Put("/decks/{deckID}", deckHandler.UpdateDeck)
		r.Delete("/decks/{deckID}", deckHandler.DeleteDeck)

		// Deck-scoped practice endpoints
		r.Get("/decks/{deckID}/cards/count", practiceHandler.CountCards)
		r.Get("/decks/{deckID}/known-cards", practiceHandler.KnownCards)
		r.Post("/decks/{deckID}/practice", practiceHandler.StartSession)
		r.Post("/decks/{deckID}/practice/reset", practiceHandler.ResetDeckProgress)

		// Session endpoints
		r.Get("/practice/{sessionID}", practiceHandler.GetSession)
		r.Post("/practice/{sessionID}/reveal", practiceHandler.RevealAnswer)
		r.Post("/practice/{sessionID}/answer", practiceHandler.SubmitAnswer)
		r.Post("/practice/{sessionID}/finish", practiceHandler.FinishSession)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
