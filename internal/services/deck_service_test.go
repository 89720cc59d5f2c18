package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pkruk/flashdeck/internal/errors"
	"github.com/pkruk/flashdeck/internal/importer"
	"github.com/pkruk/flashdeck/internal/models"
	"github.com/pkruk/flashdeck/internal/testutil/mocks"
)

func newServiceWithMocks() (*mocks.MockUserRepository, *mocks.MockDeckRepository, *mocks.MockCardRepository, DeckService) {
	users := new(mocks.MockUserRepository)
	decks := new(mocks.MockDeckRepository)
	cards := new(mocks.MockCardRepository)
	return users, decks, cards, NewDeckService(users, decks, cards, 5)
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok, "expected *errors.AppError, got %T", err)
	return appErr.Code
}

func TestCreateDeck(t *testing.T) {
	ctx := context.Background()
	owner := &models.User{ID: "user-1", Name: "Piotr", CreatedAt: time.Now()}

	t.Run("happy path", func(t *testing.T) {
		users, decks, _, svc := newServiceWithMocks()
		users.On("Get", mock.Anything, "user-1").Return(owner, nil)
		decks.On("CountByOwner", mock.Anything, "user-1").Return(2, nil)
		decks.On("Create", mock.Anything, mock.AnythingOfType("models.Deck")).Return(nil)

		deck, err := svc.CreateDeck(ctx, CreateDeckInput{
			OwnerID: "user-1",
			Name:    "Geografia",
			Cards:   []importer.ParsedCard{{Question: "q", Answer: "a"}},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, deck.ID)
		require.Len(t, deck.Cards, 1)
		assert.Equal(t, models.LevelNew, deck.Cards[0].Level)
		decks.AssertExpectations(t)
	})

	t.Run("deck cap reached", func(t *testing.T) {
		users, decks, _, svc := newServiceWithMocks()
		users.On("Get", mock.Anything, "user-1").Return(owner, nil)
		decks.On("CountByOwner", mock.Anything, "user-1").Return(5, nil)

		_, err := svc.CreateDeck(ctx, CreateDeckInput{OwnerID: "user-1", Name: "Szósta"})
		assert.Equal(t, errors.ErrCodeCapacityExceeded, appCode(t, err))
		decks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown owner", func(t *testing.T) {
		users, _, _, svc := newServiceWithMocks()
		users.On("Get", mock.Anything, "ghost").Return(nil, sql.ErrNoRows)

		_, err := svc.CreateDeck(ctx, CreateDeckInput{OwnerID: "ghost", Name: "X"})
		assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))
	})

	t.Run("name too long", func(t *testing.T) {
		_, _, _, svc := newServiceWithMocks()
		_, err := svc.CreateDeck(ctx, CreateDeckInput{
			OwnerID: "user-1",
			Name:    strings.Repeat("x", DeckNameMax+1),
		})
		assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
	})

	t.Run("empty name", func(t *testing.T) {
		_, _, _, svc := newServiceWithMocks()
		_, err := svc.CreateDeck(ctx, CreateDeckInput{OwnerID: "user-1"})
		assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
	})

	t.Run("too many cards", func(t *testing.T) {
		_, _, _, svc := newServiceWithMocks()
		cards := make([]importer.ParsedCard, CardsPerDeckMax+1)
		for i := range cards {
			cards[i] = importer.ParsedCard{Question: "q"}
		}
		_, err := svc.CreateDeck(ctx, CreateDeckInput{OwnerID: "user-1", Name: "Duża", Cards: cards})
		assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
	})

	t.Run("question too long", func(t *testing.T) {
		_, _, _, svc := newServiceWithMocks()
		_, err := svc.CreateDeck(ctx, CreateDeckInput{
			OwnerID: "user-1",
			Name:    "Geografia",
			Cards:   []importer.ParsedCard{{Question: strings.Repeat("x", QuestionMax+1)}},
		})
		assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
	})
}

func TestImportText(t *testing.T) {
	ctx := context.Background()
	owner := &models.User{ID: "user-1", Name: "Piotr"}

	t.Run("parses and creates", func(t *testing.T) {
		users, decks, _, svc := newServiceWithMocks()
		users.On("Get", mock.Anything, "user-1").Return(owner, nil)
		decks.On("CountByOwner", mock.Anything, "user-1").Return(0, nil)
		decks.On("Create", mock.Anything, mock.AnythingOfType("models.Deck")).Return(nil)

		deck, err := svc.ImportText(ctx, "user-1", "Geografia", "q1 | a1\nq2 | a2\n")
		require.NoError(t, err)
		require.Len(t, deck.Cards, 2)
		assert.Equal(t, "q1", deck.Cards[0].Question)
	})

	t.Run("nothing parsable", func(t *testing.T) {
		_, _, _, svc := newServiceWithMocks()
		_, err := svc.ImportText(ctx, "user-1", "Pusta", "\n\n  \n")
		assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
	})
}

func TestGetDeck(t *testing.T) {
	_, decks, _, svc := newServiceWithMocks()
	decks.On("Get", mock.Anything, "missing").Return(nil, sql.ErrNoRows)

	_, err := svc.GetDeck(context.Background(), "missing")
	assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))
}

func TestRenameDeck(t *testing.T) {
	ctx := context.Background()

	t.Run("validates the name", func(t *testing.T) {
		_, _, _, svc := newServiceWithMocks()
		err := svc.RenameDeck(ctx, "deck-1", "")
		assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
	})

	t.Run("missing deck", func(t *testing.T) {
		_, decks, _, svc := newServiceWithMocks()
		decks.On("Rename", mock.Anything, "missing", "New", mock.AnythingOfType("time.Time")).Return(sql.ErrNoRows)

		err := svc.RenameDeck(ctx, "missing", "New")
		assert.Equal(t, errors.ErrCodeNotFound, appCode(t, err))
	})
}

func TestAddCard(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		_, decks, cards, svc := newServiceWithMocks()
		decks.On("Get", mock.Anything, "deck-1").Return(&models.Deck{ID: "deck-1"}, nil)
		cards.On("Insert", mock.Anything, mock.AnythingOfType("models.Flashcard")).Return(nil)

		card, err := svc.AddCard(ctx, "deck-1", CardInput{Question: "q", Answer: "a"})
		require.NoError(t, err)
		assert.Equal(t, "deck-1", card.DeckID)
		assert.Equal(t, models.LevelNew, card.Level)
		cards.AssertExpectations(t)
	})

	t.Run("card cap reached", func(t *testing.T) {
		_, decks, _, svc := newServiceWithMocks()
		full := &models.Deck{ID: "deck-1", Cards: make([]models.Flashcard, CardsPerDeckMax)}
		decks.On("Get", mock.Anything, "deck-1").Return(full, nil)

		_, err := svc.AddCard(ctx, "deck-1", CardInput{Question: "q"})
		assert.Equal(t, errors.ErrCodeCapacityExceeded, appCode(t, err))
	})

	t.Run("empty question", func(t *testing.T) {
		_, _, _, svc := newServiceWithMocks()
		_, err := svc.AddCard(ctx, "deck-1", CardInput{Answer: "a"})
		assert.Equal(t, errors.ErrCodeValidation, appCode(t, err))
	})
}

func TestDeckStats(t *testing.T) {
	_, decks, cards, svc := newServiceWithMocks()
	decks.On("Get", mock.Anything, "deck-1").Return(&models.Deck{ID: "deck-1"}, nil)
	cards.On("LevelCounts", mock.Anything, "deck-1").Return(map[models.CardLevel]int{
		models.LevelNew:      3,
		models.LevelUnknown:  0,
		models.LevelFair:     0,
		models.LevelKnown:    1,
		models.LevelMastered: 0,
	}, nil)

	stats, err := svc.DeckStats(context.Background(), "deck-1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Counts[models.LevelNew])
	assert.Equal(t, 1, stats.Counts[models.LevelKnown])
}
