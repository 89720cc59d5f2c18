package study

import (
	"github.com/pkruk/flashdeck/internal/deck"
	"github.com/pkruk/flashdeck/internal/models"
)

// View is the snapshot handed to the presentation layer after every
// state change.
type View struct {
	SessionID string            `json:"session_id"`
	DeckID    string            `json:"deck_id"`
	DeckName  string            `json:"deck_name"`
	Card      *models.Flashcard `json:"card"`
	Revealed  bool              `json:"revealed"`
	Position  int               `json:"position"` // 1-based pointer, 0 when the order is empty
	Total     int               `json:"total"`
	Filter    *models.CardLevel `json:"filter"`
	Shuffle   bool              `json:"shuffle"`

	ElapsedSeconds int64 `json:"elapsed_seconds"`
	BreakPending   bool  `json:"break_pending"`

	RestartPrompt bool `json:"restart_prompt"`
	EmptyFilter   bool `json:"empty_filter"`

	Stats        models.DeckStats `json:"stats"`
	PersistError string           `json:"persist_error,omitempty"`
}

// View renders the current session state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.store.Deck()
	v := View{
		SessionID:      s.ID,
		DeckID:         d.ID,
		DeckName:       d.Name,
		Card:           s.currentCard(),
		Revealed:       s.revealed,
		Total:          len(s.order),
		Filter:         s.filter,
		Shuffle:        s.shuffle,
		ElapsedSeconds: s.elapsed,
		BreakPending:   s.breakPending,
		RestartPrompt:  s.restartPrompt,
		EmptyFilter:    s.filter != nil && len(s.order) == 0,
		Stats:          deck.ComputeStats(d),
		PersistError:   s.persistErr,
	}
	if len(s.order) > 0 {
		v.Position = s.pos + 1
	}
	return v
}
