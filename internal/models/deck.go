package models

import "time"

// Flashcard is a single question/answer pair owned by a deck.
// Question and answer text may embed inline image references or math
// markup; the core treats both as opaque text.
type Flashcard struct {
	ID        string    `json:"id"`
	DeckID    string    `json:"deck_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Level     CardLevel `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Deck is a named, ordered collection of flashcards owned by one user.
// Card order is storage order, not study order.
type Deck struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"owner_id"`
	Name      string      `json:"name"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Touch advances UpdatedAt. Every mutation to the deck or any contained
// card must go through this.
func (d *Deck) Touch(now time.Time) {
	if now.After(d.UpdatedAt) {
		d.UpdatedAt = now
	} else {
		// Guarantee strict advance even with coarse clocks.
		d.UpdatedAt = d.UpdatedAt.Add(time.Nanosecond)
	}
}

// FindCard returns the index of the card with the given ID, or -1.
func (d *Deck) FindCard(cardID string) int {
	for i := range d.Cards {
		if d.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}

// User is a local profile. Authentication is out of scope; a user is
// just a namespace for decks.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DeckStats is a per-level tally over all cards in a deck, always
// computed over the whole deck regardless of any active study filter.
type DeckStats struct {
	Total  int               `json:"total"`
	Counts map[CardLevel]int `json:"counts"`
}
