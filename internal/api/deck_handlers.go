package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pkruk/flashdeck/internal/errors"
	"github.com/pkruk/flashdeck/internal/importer"
	"github.com/pkruk/flashdeck/internal/logger"
	"github.com/pkruk/flashdeck/internal/models"
	"github.com/pkruk/flashdeck/internal/services"
)

const importBodyLimit = 16 << 20 // 16 MiB

type createDeckRequest struct {
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Cards   []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"cards"`
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req createDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	input := services.CreateDeckInput{OwnerID: req.OwnerID, Name: req.Name}
	for _, c := range req.Cards {
		input.Cards = append(input.Cards, importer.ParsedCard{Question: c.Question, Answer: c.Answer})
	}

	deck, err := s.Decks.CreateDeck(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, deck)
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.DeckFilter{
		OwnerID:  q.Get("owner_id"),
		NameLike: q.Get("q"),
		OrderBy:  q.Get("order_by"),
		OrderDir: q.Get("order"),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	decks, err := s.Decks.ListDecks(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, decks)
}

type importDeckRequest struct {
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Text    string `json:"text"`
}

// handleImportDeck accepts either a JSON body with pipe-delimited text
// or a multipart upload with a .txt or .xlsx file.
func (s *Server) handleImportDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		s.handleImportUpload(w, r)
		return
	}

	var req importDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.Decks.ImportText(r.Context(), req.OwnerID, req.Name, req.Text)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("deck imported from text: id=%s cards=%d", deck.ID, len(deck.Cards))
	respondJSON(w, http.StatusCreated, deck)
}

func (s *Server) handleImportUpload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(importBodyLimit); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid multipart body"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("missing file field"))
		return
	}
	defer file.Close()

	ownerID := r.FormValue("owner_id")
	name := r.FormValue("name")
	if name == "" {
		name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	var deck *models.Deck
	if strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		deck, err = s.Decks.ImportXLSX(r.Context(), ownerID, name, file)
	} else {
		var content []byte
		content, err = io.ReadAll(io.LimitReader(file, importBodyLimit))
		if err == nil {
			deck, err = s.Decks.ImportText(r.Context(), ownerID, name, string(content))
		}
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("deck imported from upload: id=%s file=%s cards=%d", deck.ID, header.Filename, len(deck.Cards))
	respondJSON(w, http.StatusCreated, deck)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.Decks.GetDeck(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deck)
}

type renameDeckRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRenameDeck(w http.ResponseWriter, r *http.Request) {
	var req renameDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Decks.RenameDeck(r.Context(), chi.URLParam(r, "id"), req.Name); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.Decks.DeleteDeck(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportDeck streams the deck as pipe-delimited text, one card
// per line, the same shape the text importer accepts.
func (s *Server) handleExportDeck(w http.ResponseWriter, r *http.Request) {
	content, err := s.Decks.ExportDeck(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=deck.txt")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, content)
}

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Decks.DeckStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleResetDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.Decks.ResetProgress(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type cardRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.Decks.AddCard(r.Context(), chi.URLParam(r, "id"), services.CardInput{
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, card)
}

func (s *Server) handleEditCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	err := s.Decks.EditCard(r.Context(), chi.URLParam(r, "cardID"), services.CardInput{
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.Decks.DeleteCard(r.Context(), chi.URLParam(r, "cardID")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
