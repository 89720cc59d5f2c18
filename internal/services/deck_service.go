package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pkruk/flashdeck/internal/deck"
	"github.com/pkruk/flashdeck/internal/errors"
	"github.com/pkruk/flashdeck/internal/importer"
	"github.com/pkruk/flashdeck/internal/logger"
	"github.com/pkruk/flashdeck/internal/models"
	"github.com/pkruk/flashdeck/internal/repository"
)

// Content limits, shared by text and xlsx imports.
const (
	DeckNameMax     = 100
	CardsPerDeckMax = 500
	QuestionMax     = 5000
	AnswerMax       = 10000
)

var validate = validator.New()

// CreateDeckInput is the validated payload for deck creation. Cards
// may come from the text parser, the xlsx parser, or a structured
// request body; all three funnel through here.
type CreateDeckInput struct {
	OwnerID string               `validate:"required"`
	Name    string               `validate:"required,max=100"`
	Cards   []importer.ParsedCard `validate:"max=500,dive"`
}

// CardInput is a validated question/answer payload.
type CardInput struct {
	Question string `validate:"required,max=5000"`
	Answer   string `validate:"max=10000"`
}

// DeckService handles deck and card CRUD outside of live study
// sessions.
type DeckService interface {
	CreateUser(ctx context.Context, name string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error

	CreateDeck(ctx context.Context, input CreateDeckInput) (*models.Deck, error)
	ImportText(ctx context.Context, ownerID, name, content string) (*models.Deck, error)
	ImportXLSX(ctx context.Context, ownerID, name string, r io.Reader) (*models.Deck, error)
	GetDeck(ctx context.Context, id string) (*models.Deck, error)
	ListDecks(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error)
	RenameDeck(ctx context.Context, id, name string) error
	DeleteDeck(ctx context.Context, id string) error
	ExportDeck(ctx context.Context, id string) (string, error)
	DeckStats(ctx context.Context, id string) (models.DeckStats, error)

	AddCard(ctx context.Context, deckID string, input CardInput) (*models.Flashcard, error)
	EditCard(ctx context.Context, cardID string, input CardInput) error
	DeleteCard(ctx context.Context, cardID string) error
	ResetProgress(ctx context.Context, deckID string) error
}

type deckService struct {
	users    repository.UserRepository
	decks    repository.DeckRepository
	cards    repository.CardRepository
	maxDecks int
	now      func() time.Time
}

// NewDeckService creates a new DeckService. maxDecks caps the number
// of decks per owner; creation beyond the cap is rejected outright.
func NewDeckService(users repository.UserRepository, decks repository.DeckRepository, cards repository.CardRepository, maxDecks int) DeckService {
	if maxDecks <= 0 {
		maxDecks = 5
	}
	return &deckService{users: users, decks: decks, cards: cards, maxDecks: maxDecks, now: time.Now}
}

func (s *deckService) CreateUser(ctx context.Context, name string) (*models.User, error) {
	log := logger.FromContext(ctx)
	if name == "" {
		return nil, errors.NewValidationError("name", "must not be empty")
	}

	user := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		log.Error("failed to create user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("user created: id=%s", user.ID)
	return &user, nil
}

func (s *deckService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

func (s *deckService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return users, nil
}

// DeleteUser removes a user together with all their decks.
func (s *deckService) DeleteUser(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	err := s.users.Delete(ctx, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError("user", id)
	}
	if err != nil {
		return errors.NewInternalError(err)
	}
	log.Info("user deleted: id=%s", id)
	return nil
}

func (s *deckService) CreateDeck(ctx context.Context, input CreateDeckInput) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	if err := validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	for _, c := range input.Cards {
		if len(c.Question) > QuestionMax {
			return nil, errors.NewValidationError("question", "too long")
		}
		if len(c.Answer) > AnswerMax {
			return nil, errors.NewValidationError("answer", "too long")
		}
	}

	if _, err := s.GetUser(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	count, err := s.decks.CountByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if count >= s.maxDecks {
		log.Warn("deck cap reached for owner %s", input.OwnerID)
		return nil, errors.NewCapacityExceededError(s.maxDecks)
	}

	now := s.now()
	d := models.Deck{
		ID:        uuid.NewString(),
		OwnerID:   input.OwnerID,
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.Cards = importer.NewCards(d.ID, input.Cards, now)

	if err := s.decks.Create(ctx, d); err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("deck created: id=%s cards=%d", d.ID, len(d.Cards))
	return &d, nil
}

func (s *deckService) ImportText(ctx context.Context, ownerID, name, content string) (*models.Deck, error) {
	cards := importer.ParseText(content)
	if len(cards) == 0 {
		return nil, errors.NewValidationError("content", "no parsable cards")
	}
	return s.CreateDeck(ctx, CreateDeckInput{OwnerID: ownerID, Name: name, Cards: cards})
}

func (s *deckService) ImportXLSX(ctx context.Context, ownerID, name string, r io.Reader) (*models.Deck, error) {
	cards, err := importer.ParseXLSX(r)
	if err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	if len(cards) == 0 {
		return nil, errors.NewValidationError("file", "no parsable cards")
	}
	return s.CreateDeck(ctx, CreateDeckInput{OwnerID: ownerID, Name: name, Cards: cards})
}

func (s *deckService) GetDeck(ctx context.Context, id string) (*models.Deck, error) {
	d, err := s.decks.Get(ctx, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("deck", id)
	}
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return d, nil
}

func (s *deckService) ListDecks(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	decks, err := s.decks.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) RenameDeck(ctx context.Context, id, name string) error {
	if name == "" || len(name) > DeckNameMax {
		return errors.NewValidationError("name", "must be 1-100 characters")
	}
	err := s.decks.Rename(ctx, id, name, s.now())
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError("deck", id)
	}
	if err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	err := s.decks.Delete(ctx, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError("deck", id)
	}
	if err != nil {
		return errors.NewInternalError(err)
	}
	log.Info("deck deleted: id=%s", id)
	return nil
}

func (s *deckService) ExportDeck(ctx context.Context, id string) (string, error) {
	d, err := s.GetDeck(ctx, id)
	if err != nil {
		return "", err
	}
	return importer.ExportText(d), nil
}

func (s *deckService) DeckStats(ctx context.Context, id string) (models.DeckStats, error) {
	if _, err := s.GetDeck(ctx, id); err != nil {
		return models.DeckStats{}, err
	}
	counts, err := s.cards.LevelCounts(ctx, id)
	if err != nil {
		return models.DeckStats{}, errors.NewInternalError(err)
	}
	stats := models.DeckStats{Counts: counts}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *deckService) AddCard(ctx context.Context, deckID string, input CardInput) (*models.Flashcard, error) {
	if err := validate.Struct(input); err != nil {
		return nil, validationError(err)
	}
	d, err := s.GetDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if len(d.Cards) >= CardsPerDeckMax {
		return nil, errors.NewCapacityExceededError(CardsPerDeckMax)
	}

	store := deck.NewStore(d)
	card := store.AddCard(input.Question, input.Answer)
	if err := s.cards.Insert(ctx, card); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &card, nil
}

func (s *deckService) EditCard(ctx context.Context, cardID string, input CardInput) error {
	if err := validate.Struct(input); err != nil {
		return validationError(err)
	}
	err := s.cards.UpdateContent(ctx, cardID, input.Question, input.Answer, s.now())
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError("card", cardID)
	}
	if err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *deckService) DeleteCard(ctx context.Context, cardID string) error {
	err := s.cards.Delete(ctx, cardID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError("card", cardID)
	}
	if err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *deckService) ResetProgress(ctx context.Context, deckID string) error {
	err := s.cards.ResetLevels(ctx, deckID, s.now())
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError("deck", deckID)
	}
	if err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return errors.NewValidationError(f.Field(), "failed on "+f.Tag())
	}
	return errors.NewBadRequestError(err.Error())
}
