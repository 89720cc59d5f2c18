package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkruk/flashdeck/internal/errors"
	"github.com/pkruk/flashdeck/internal/models"
	"github.com/pkruk/flashdeck/internal/study"
)

type openSessionRequest struct {
	DeckID string `json:"deck_id"`
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	sess, err := s.Study.OpenSession(r.Context(), req.DeckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sess.View())
}

// session resolves the session in the URL, answering 404 itself when
// the session is unknown or already closed.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *study.Session {
	sess, err := s.Study.Session(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return nil
	}
	return sess
}

func (s *Server) handleSessionView(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	respondJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	s.Study.CloseSession(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.Reveal()
	respondJSON(w, http.StatusOK, sess.View())
}

type rateRequest struct {
	Level string `json:"level"`
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	var req rateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	level, err := models.ParseLevel(req.Level)
	if err != nil {
		handleError(w, r, errors.NewValidationError("level", "unknown level "+req.Level))
		return
	}
	if err := sess.Rate(level); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.Next()
	respondJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.Prev()
	respondJSON(w, http.StatusOK, sess.View())
}

type gotoRequest struct {
	Position int `json:"position"`
}

func (s *Server) handleGoto(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	var req gotoRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if !sess.Goto(req.Position) {
		handleError(w, r, errors.NewBadRequestError("position out of range"))
		return
	}
	respondJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleToggleShuffle(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.ToggleShuffle()
	respondJSON(w, http.StatusOK, sess.View())
}

type filterRequest struct {
	Level *string `json:"level"`
}

func (s *Server) handleSelectFilter(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	var req filterRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	var filter *models.CardLevel
	if req.Level != nil {
		level, err := models.ParseLevel(*req.Level)
		if err != nil {
			handleError(w, r, errors.NewValidationError("level", "unknown level "+*req.Level))
			return
		}
		filter = &level
	}
	if err := sess.SelectFilter(filter); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleConfirmRestart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.ConfirmRestart()
	respondJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleDeclineRestart(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.DeclineRestart()
	respondJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.ResetProgress()
	respondJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleDismissBreak(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	sess.DismissBreak()
	respondJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleSessionEditCard(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Question == "" {
		handleError(w, r, errors.NewValidationError("question", "must not be empty"))
		return
	}
	if err := sess.Edit(chi.URLParam(r, "cardID"), req.Question, req.Answer); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.View())
}
