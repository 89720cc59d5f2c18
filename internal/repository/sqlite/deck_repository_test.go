package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pkruk/flashdeck/internal/models"
	"github.com/pkruk/flashdeck/internal/repository"
	"github.com/pkruk/flashdeck/internal/repository/sqlite"
	"github.com/pkruk/flashdeck/internal/testutil"
)

type DeckRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	repo  repository.DeckRepository
	users repository.UserRepository
}

func (s *DeckRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewDeckRepository(s.db)
	s.users = sqlite.NewUserRepository(s.db)
}

func (s *DeckRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DeckRepositorySuite) setupUser(id string) {
	err := s.users.Create(context.Background(), models.User{
		ID:        id,
		Name:      "Piotr",
		CreatedAt: time.Now().UTC(),
	})
	s.Require().NoError(err)
}

func (s *DeckRepositorySuite) newDeck(id, ownerID, name string, cards int) models.Deck {
	now := time.Now().UTC()
	d := models.Deck{ID: id, OwnerID: ownerID, Name: name, CreatedAt: now, UpdatedAt: now}
	for i := 0; i < cards; i++ {
		d.Cards = append(d.Cards, models.Flashcard{
			ID:        id + "-card-" + string(rune('a'+i)),
			DeckID:    id,
			Question:  "q",
			Answer:    "a",
			Level:     models.LevelNew,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
			UpdatedAt: now.Add(time.Duration(i) * time.Second),
		})
	}
	return d
}

func (s *DeckRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()
	s.setupUser("user-1")

	deck := s.newDeck("deck-1", "user-1", "Geografia", 3)
	s.Require().NoError(s.repo.Create(ctx, deck))

	got, err := s.repo.Get(ctx, "deck-1")
	s.Require().NoError(err)
	s.Equal("Geografia", got.Name)
	s.Equal("user-1", got.OwnerID)
	s.Require().Len(got.Cards, 3)
	// Cards come back in insertion order.
	s.Equal(deck.Cards[0].ID, got.Cards[0].ID)
	s.Equal(deck.Cards[2].ID, got.Cards[2].ID)
	s.Equal(models.LevelNew, got.Cards[0].Level)
}

func (s *DeckRepositorySuite) TestGetMissing() {
	_, err := s.repo.Get(context.Background(), "no-such-deck")
	s.Require().ErrorIs(err, sql.ErrNoRows)
}

func (s *DeckRepositorySuite) TestList() {
	ctx := context.Background()
	s.setupUser("user-1")
	s.setupUser2("user-2")

	s.Require().NoError(s.repo.Create(ctx, s.newDeck("deck-1", "user-1", "Geografia", 2)))
	s.Require().NoError(s.repo.Create(ctx, s.newDeck("deck-2", "user-1", "Historia", 0)))
	s.Require().NoError(s.repo.Create(ctx, s.newDeck("deck-3", "user-2", "Biologia", 1)))

	all, err := s.repo.List(ctx, models.DeckFilter{})
	s.Require().NoError(err)
	s.Len(all, 3)

	mine, err := s.repo.List(ctx, models.DeckFilter{OwnerID: "user-1"})
	s.Require().NoError(err)
	s.Len(mine, 2)

	named, err := s.repo.List(ctx, models.DeckFilter{NameLike: "Histo"})
	s.Require().NoError(err)
	s.Require().Len(named, 1)
	s.Equal("deck-2", named[0].ID)

	limited, err := s.repo.List(ctx, models.DeckFilter{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func (s *DeckRepositorySuite) setupUser2(id string) {
	err := s.users.Create(context.Background(), models.User{
		ID:        id,
		Name:      "Anna",
		CreatedAt: time.Now().UTC(),
	})
	s.Require().NoError(err)
}

func (s *DeckRepositorySuite) TestCountByOwner() {
	ctx := context.Background()
	s.setupUser("user-1")

	count, err := s.repo.CountByOwner(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(0, count)

	s.Require().NoError(s.repo.Create(ctx, s.newDeck("deck-1", "user-1", "A", 0)))
	s.Require().NoError(s.repo.Create(ctx, s.newDeck("deck-2", "user-1", "B", 0)))

	count, err = s.repo.CountByOwner(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *DeckRepositorySuite) TestRename() {
	ctx := context.Background()
	s.setupUser("user-1")
	s.Require().NoError(s.repo.Create(ctx, s.newDeck("deck-1", "user-1", "Old", 0)))

	now := time.Now().UTC().Add(time.Minute)
	s.Require().NoError(s.repo.Rename(ctx, "deck-1", "New", now))

	got, err := s.repo.Get(ctx, "deck-1")
	s.Require().NoError(err)
	s.Equal("New", got.Name)

	s.Require().ErrorIs(s.repo.Rename(ctx, "missing", "X", now), sql.ErrNoRows)
}

func (s *DeckRepositorySuite) TestDeleteCascadesToCards() {
	ctx := context.Background()
	s.setupUser("user-1")
	s.Require().NoError(s.repo.Create(ctx, s.newDeck("deck-1", "user-1", "Geografia", 2)))

	s.Require().NoError(s.repo.Delete(ctx, "deck-1"))

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE deck_id = ?`, "deck-1").Scan(&count)
	s.Require().NoError(err)
	s.Equal(0, count)

	s.Require().ErrorIs(s.repo.Delete(ctx, "deck-1"), sql.ErrNoRows)
}

func TestDeckRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeckRepositorySuite))
}
