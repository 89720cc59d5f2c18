package deck

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkruk/flashdeck/internal/errors"
	"github.com/pkruk/flashdeck/internal/models"
)

// Store wraps a single deck and applies progress and content mutations
// to the in-memory view. It performs no I/O; persisting the same
// mutations is the caller's concern.
type Store struct {
	deck *models.Deck
	now  func() time.Time
}

// NewStore wraps a deck. The deck is owned by the store for the
// lifetime of a study session.
func NewStore(d *models.Deck) *Store {
	return &Store{deck: d, now: time.Now}
}

// Deck returns the wrapped deck.
func (s *Store) Deck() *models.Deck {
	return s.deck
}

// Rate sets one card's level. The deck's UpdatedAt advances only when
// the card was found.
func (s *Store) Rate(cardID string, level models.CardLevel) error {
	if !level.Valid() {
		return errors.NewValidationError("level", "unknown card level")
	}
	i := s.deck.FindCard(cardID)
	if i < 0 {
		return errors.NewNotFoundError("card", cardID)
	}
	now := s.now()
	s.deck.Cards[i].Level = level
	s.deck.Cards[i].UpdatedAt = now
	s.deck.Touch(now)
	return nil
}

// Edit replaces a card's question and answer. The level is untouched.
func (s *Store) Edit(cardID, question, answer string) error {
	i := s.deck.FindCard(cardID)
	if i < 0 {
		return errors.NewNotFoundError("card", cardID)
	}
	now := s.now()
	s.deck.Cards[i].Question = question
	s.deck.Cards[i].Answer = answer
	s.deck.Cards[i].UpdatedAt = now
	s.deck.Touch(now)
	return nil
}

// AddCard appends a new card starting at the lowest tier.
func (s *Store) AddCard(question, answer string) models.Flashcard {
	now := s.now()
	card := models.Flashcard{
		ID:        uuid.NewString(),
		DeckID:    s.deck.ID,
		Question:  question,
		Answer:    answer,
		Level:     models.LevelNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.deck.Cards = append(s.deck.Cards, card)
	s.deck.Touch(now)
	return card
}

// RemoveCard deletes a card from the deck.
func (s *Store) RemoveCard(cardID string) error {
	i := s.deck.FindCard(cardID)
	if i < 0 {
		return errors.NewNotFoundError("card", cardID)
	}
	s.deck.Cards = append(s.deck.Cards[:i], s.deck.Cards[i+1:]...)
	s.deck.Touch(s.now())
	return nil
}

// ResetProgress sets every card back to the lowest tier. Bulk,
// all-or-nothing: there is no partial-reset failure mode.
func (s *Store) ResetProgress() {
	now := s.now()
	for i := range s.deck.Cards {
		s.deck.Cards[i].Level = models.LevelNew
		s.deck.Cards[i].UpdatedAt = now
	}
	s.deck.Touch(now)
}

// Levels returns each card's level in storage order, for order building.
func (s *Store) Levels() []models.CardLevel {
	levels := make([]models.CardLevel, len(s.deck.Cards))
	for i := range s.deck.Cards {
		levels[i] = s.deck.Cards[i].Level
	}
	return levels
}

// ComputeStats tallies cards per level over the whole deck. Stats are
// never filtered by the active study order so the learner can discover
// cards outside the current filter.
func ComputeStats(d *models.Deck) models.DeckStats {
	stats := models.DeckStats{
		Total:  len(d.Cards),
		Counts: make(map[models.CardLevel]int, len(models.Levels())),
	}
	for _, l := range models.Levels() {
		stats.Counts[l] = 0
	}
	for i := range d.Cards {
		stats.Counts[d.Cards[i].Level]++
	}
	return stats
}
