package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/pkruk/flashdeck/internal/errors"
	"github.com/pkruk/flashdeck/internal/logger"
	"github.com/pkruk/flashdeck/internal/models"
	"github.com/pkruk/flashdeck/internal/repository"
	"github.com/pkruk/flashdeck/internal/speech"
	"github.com/pkruk/flashdeck/internal/study"
	"github.com/pkruk/flashdeck/internal/worker"
)

// StudyService opens and looks up live study sessions.
type StudyService interface {
	OpenSession(ctx context.Context, deckID string) (*study.Session, error)
	Session(id string) (*study.Session, error)
	CloseSession(id string)
}

type studyService struct {
	decks      repository.DeckRepository
	cards      repository.CardRepository
	registry   *study.Registry
	pool       *worker.Pool
	speaker    speech.Speaker
	breakEvery time.Duration
	maxRetries int
	clockCtx   context.Context
}

// NewStudyService creates a new StudyService. clockCtx bounds the
// lifetime of all session clocks.
func NewStudyService(clockCtx context.Context, decks repository.DeckRepository, cards repository.CardRepository, registry *study.Registry, pool *worker.Pool, speaker speech.Speaker, breakEvery time.Duration, maxRetries int) StudyService {
	return &studyService{
		decks:      decks,
		cards:      cards,
		registry:   registry,
		pool:       pool,
		speaker:    speaker,
		breakEvery: breakEvery,
		maxRetries: maxRetries,
		clockCtx:   clockCtx,
	}
}

func (s *studyService) OpenSession(ctx context.Context, deckID string) (*study.Session, error) {
	log := logger.FromContext(ctx)

	d, err := s.decks.Get(ctx, deckID)
	if stderrors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found for session: id=%s", deckID)
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if len(d.Cards) == 0 {
		return nil, errors.NewValidationError("deck", "has no cards to study")
	}

	p := &poolPersister{
		cards:      s.cards,
		pool:       s.pool,
		maxRetries: s.maxRetries,
	}
	sess := study.NewSession(d, study.Config{
		BreakInterval: s.breakEvery,
		Speaker:       s.speaker,
		Persister:     p,
	})
	// Failed background writes surface on the session view.
	p.report = sess.SetPersistError
	sess.StartClock(s.clockCtx)
	s.registry.Add(sess)

	log.Info("study session opened: session_id=%s deck_id=%s", sess.ID, deckID)
	return sess, nil
}

func (s *studyService) Session(id string) (*study.Session, error) {
	sess := s.registry.Get(id)
	if sess == nil || sess.Closed() {
		return nil, errors.NewNotFoundError("session", id)
	}
	return sess, nil
}

func (s *studyService) CloseSession(id string) {
	s.registry.Remove(id)
}

// poolPersister turns session mutations into background persistence
// jobs with bounded retry. Submissions do not block the session.
type poolPersister struct {
	cards      repository.CardRepository
	pool       *worker.Pool
	maxRetries int
	report     func(string)
}

func (p *poolPersister) onFailure(err error) {
	if err == nil {
		return
	}
	logger.Error("background write failed permanently: %v", err)
	if p.report != nil {
		p.report(err.Error())
	}
}

func (p *poolPersister) Rate(deckID, cardID string, level models.CardLevel) {
	p.pool.Submit(&worker.RateCardJob{
		Cards:      p.cards,
		CardID:     cardID,
		Level:      level,
		At:         time.Now(),
		MaxRetries: p.maxRetries,
		OnFailure:  p.onFailure,
	})
}

func (p *poolPersister) Edit(deckID, cardID, question, answer string) {
	p.pool.Submit(&worker.EditCardJob{
		Cards:      p.cards,
		CardID:     cardID,
		Question:   question,
		Answer:     answer,
		At:         time.Now(),
		MaxRetries: p.maxRetries,
		OnFailure:  p.onFailure,
	})
}

func (p *poolPersister) ResetProgress(deckID string) {
	p.pool.Submit(&worker.ResetProgressJob{
		Cards:      p.cards,
		DeckID:     deckID,
		At:         time.Now(),
		MaxRetries: p.maxRetries,
		OnFailure:  p.onFailure,
	})
}
