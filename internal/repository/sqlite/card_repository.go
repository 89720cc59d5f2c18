package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkruk/flashdeck/internal/logger"
	"github.com/pkruk/flashdeck/internal/models"
	"github.com/pkruk/flashdeck/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Insert(ctx context.Context, c models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: id=%s deck_id=%s", c.ID, c.DeckID)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		if _, err := t.ExecContext(ctx, `
INSERT INTO cards (id, deck_id, question, answer, level, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.DeckID, c.Question, c.Answer, c.Level.String(), c.CreatedAt, c.UpdatedAt); err != nil {
			log.Error("failed to insert card: %v", err)
			return err
		}
		_, err := t.ExecContext(ctx, `UPDATE decks SET updated_at = ? WHERE id = ?`, c.UpdatedAt, c.DeckID)
		return err
	})
}

func (r *cardRepository) UpdateLevel(ctx context.Context, cardID string, level models.CardLevel, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card level: id=%s level=%s", cardID, level)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx, `
UPDATE cards SET level = ?, updated_at = ? WHERE id = ?
`, level.String(), now, cardID)
		if err != nil {
			log.Error("failed to update card level: %v", err)
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return sql.ErrNoRows
		}
		_, err = t.ExecContext(ctx, `
UPDATE decks SET updated_at = ? WHERE id = (SELECT deck_id FROM cards WHERE id = ?)
`, now, cardID)
		return err
	})
}

func (r *cardRepository) UpdateContent(ctx context.Context, cardID, question, answer string, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card content: id=%s", cardID)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx, `
UPDATE cards SET question = ?, answer = ?, updated_at = ? WHERE id = ?
`, question, answer, now, cardID)
		if err != nil {
			log.Error("failed to update card content: %v", err)
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return sql.ErrNoRows
		}
		_, err = t.ExecContext(ctx, `
UPDATE decks SET updated_at = ? WHERE id = (SELECT deck_id FROM cards WHERE id = ?)
`, now, cardID)
		return err
	})
}

func (r *cardRepository) Delete(ctx context.Context, cardID string) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%s", cardID)

	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, cardID)
	if err != nil {
		log.Error("failed to delete card: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *cardRepository) ResetLevels(ctx context.Context, deckID string, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("resetting levels: deck_id=%s", deckID)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		if _, err := t.ExecContext(ctx, `
UPDATE cards SET level = ?, updated_at = ? WHERE deck_id = ?
`, models.LevelNew.String(), now, deckID); err != nil {
			log.Error("failed to reset levels: %v", err)
			return err
		}
		res, err := t.ExecContext(ctx, `UPDATE decks SET updated_at = ? WHERE id = ?`, now, deckID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

func (r *cardRepository) LevelCounts(ctx context.Context, deckID string) (map[models.CardLevel]int, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT level, COUNT(*)
FROM cards
WHERE deck_id = ?
GROUP BY level
`, deckID)
	if err != nil {
		log.Error("failed to count levels: %v", err)
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.CardLevel]int, len(models.Levels()))
	for _, l := range models.Levels() {
		counts[l] = 0
	}
	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			log.Error("failed to scan level count: %v", err)
			return nil, err
		}
		parsed, err := models.ParseLevel(level)
		if err != nil {
			continue
		}
		counts[parsed] = count
	}
	return counts, rows.Err()
}
