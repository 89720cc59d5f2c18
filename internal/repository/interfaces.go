package repository

import (
	"context"
	"time"

	"github.com/pkruk/flashdeck/internal/models"
)

// UserRepository handles user profile data access
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id string) error
}

// DeckRepository handles deck data access. Deleting a deck cascades to
// its cards.
type DeckRepository interface {
	Create(ctx context.Context, deck models.Deck) error
	Get(ctx context.Context, id string) (*models.Deck, error)
	List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Rename(ctx context.Context, id, name string, now time.Time) error
	Delete(ctx context.Context, id string) error
}

// CardRepository handles flashcard data access. Every mutation also
// advances the parent deck's updated_at.
type CardRepository interface {
	Insert(ctx context.Context, card models.Flashcard) error
	UpdateLevel(ctx context.Context, cardID string, level models.CardLevel, now time.Time) error
	UpdateContent(ctx context.Context, cardID, question, answer string, now time.Time) error
	Delete(ctx context.Context, cardID string) error
	ResetLevels(ctx context.Context, deckID string, now time.Time) error
	LevelCounts(ctx context.Context, deckID string) (map[models.CardLevel]int, error)
}
