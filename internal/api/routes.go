package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.handleCreateUser)
			r.Get("/", s.handleListUsers)
			r.Get("/{id}", s.handleGetUser)
			r.Delete("/{id}", s.handleDeleteUser)
		})

		r.Route("/decks", func(r chi.Router) {
			r.Post("/", s.handleCreateDeck)
			r.Get("/", s.handleListDecks)
			r.Post("/import", s.handleImportDeck)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDeck)
				r.Patch("/", s.handleRenameDeck)
				r.Delete("/", s.handleDeleteDeck)
				r.Get("/export", s.handleExportDeck)
				r.Get("/stats", s.handleDeckStats)
				r.Post("/reset", s.handleResetDeck)
				r.Post("/cards", s.handleAddCard)
			})
			r.Put("/{id}/cards/{cardID}", s.handleEditCard)
			r.Delete("/{id}/cards/{cardID}", s.handleDeleteCard)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleOpenSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleSessionView)
				r.Delete("/", s.handleCloseSession)
				r.Post("/reveal", s.handleReveal)
				r.Post("/rate", s.handleRate)
				r.Post("/next", s.handleNext)
				r.Post("/prev", s.handlePrev)
				r.Post("/goto", s.handleGoto)
				r.Post("/shuffle", s.handleToggleShuffle)
				r.Post("/filter", s.handleSelectFilter)
				r.Post("/restart/confirm", s.handleConfirmRestart)
				r.Post("/restart/decline", s.handleDeclineRestart)
				r.Post("/reset", s.handleResetProgress)
				r.Post("/break/dismiss", s.handleDismissBreak)
				r.Put("/cards/{cardID}", s.handleSessionEditCard)
			})
		})
	})

	return r
}
