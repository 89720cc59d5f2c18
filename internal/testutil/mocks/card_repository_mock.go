package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pkruk/flashdeck/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Insert(ctx context.Context, card models.Flashcard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateLevel(ctx context.Context, cardID string, level models.CardLevel, now time.Time) error {
	args := m.Called(ctx, cardID, level, now)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateContent(ctx context.Context, cardID, question, answer string, now time.Time) error {
	args := m.Called(ctx, cardID, question, answer, now)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, cardID string) error {
	args := m.Called(ctx, cardID)
	return args.Error(0)
}

func (m *MockCardRepository) ResetLevels(ctx context.Context, deckID string, now time.Time) error {
	args := m.Called(ctx, deckID, now)
	return args.Error(0)
}

func (m *MockCardRepository) LevelCounts(ctx context.Context, deckID string) (map[models.CardLevel]int, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.CardLevel]int), args.Error(1)
}
