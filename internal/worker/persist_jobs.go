package worker

import (
	"context"
	"time"

	"github.com/pkruk/flashdeck/internal/logger"
	"github.com/pkruk/flashdeck/internal/models"
	"github.com/pkruk/flashdeck/internal/repository"
)

// Persistence jobs carry the session's optimistic mutations to the
// database. Each job retries a bounded number of times with backoff;
// a final failure is reported through OnFailure and the in-memory
// state is left as is.

func runWithRetry(ctx context.Context, name string, maxRetries int, onFailure func(error), fn func(context.Context) error) error {
	log := logger.FromContext(ctx)
	if maxRetries < 1 {
		maxRetries = 1
	}

	var err error
	backoff := 250 * time.Millisecond
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		log.Warn("%s attempt %d/%d failed: %v", name, attempt, maxRetries, err)
		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			attempt = maxRetries
		case <-time.After(backoff):
			backoff *= 2
		}
	}

	if onFailure != nil {
		onFailure(err)
	}
	return err
}

// RateCardJob persists a card level change.
type RateCardJob struct {
	Cards      repository.CardRepository
	CardID     string
	Level      models.CardLevel
	At         time.Time
	MaxRetries int
	OnFailure  func(error)
}

func (j *RateCardJob) Name() string { return "persist_rate" }

func (j *RateCardJob) Run(ctx context.Context) error {
	return runWithRetry(ctx, j.Name(), j.MaxRetries, j.OnFailure, func(ctx context.Context) error {
		return j.Cards.UpdateLevel(ctx, j.CardID, j.Level, j.At)
	})
}

// EditCardJob persists a card content change.
type EditCardJob struct {
	Cards      repository.CardRepository
	CardID     string
	Question   string
	Answer     string
	At         time.Time
	MaxRetries int
	OnFailure  func(error)
}

func (j *EditCardJob) Name() string { return "persist_edit" }

func (j *EditCardJob) Run(ctx context.Context) error {
	return runWithRetry(ctx, j.Name(), j.MaxRetries, j.OnFailure, func(ctx context.Context) error {
		return j.Cards.UpdateContent(ctx, j.CardID, j.Question, j.Answer, j.At)
	})
}

// ResetProgressJob persists a bulk progress reset.
type ResetProgressJob struct {
	Cards      repository.CardRepository
	DeckID     string
	At         time.Time
	MaxRetries int
	OnFailure  func(error)
}

func (j *ResetProgressJob) Name() string { return "persist_reset" }

func (j *ResetProgressJob) Run(ctx context.Context) error {
	return runWithRetry(ctx, j.Name(), j.MaxRetries, j.OnFailure, func(ctx context.Context) error {
		return j.Cards.ResetLevels(ctx, j.DeckID, j.At)
	})
}
