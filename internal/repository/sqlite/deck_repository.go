package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/pkruk/flashdeck/internal/logger"
	"github.com/pkruk/flashdeck/internal/models"
	"github.com/pkruk/flashdeck/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Create(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: id=%s name=%s cards=%d", d.ID, d.Name, len(d.Cards))

	return tx(ctx, r.db, func(t *sql.Tx) error {
		if _, err := t.ExecContext(ctx, `
INSERT INTO decks (id, owner_id, name, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`, d.ID, d.OwnerID, d.Name, d.CreatedAt, d.UpdatedAt); err != nil {
			log.Error("failed to insert deck: %v", err)
			return err
		}
		for i := range d.Cards {
			c := &d.Cards[i]
			if _, err := t.ExecContext(ctx, `
INSERT INTO cards (id, deck_id, question, answer, level, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, c.ID, d.ID, c.Question, c.Answer, c.Level.String(), c.CreatedAt, c.UpdatedAt); err != nil {
				log.Error("failed to insert card: %v", err)
				return err
			}
		}
		return nil
	})
}

func (r *deckRepository) Get(ctx context.Context, id string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%s", id)

	var d models.Deck
	err := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, name, created_at, updated_at
FROM decks
WHERE id = ?
`, id).Scan(&d.ID, &d.OwnerID, &d.Name, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%s", id)
		return nil, err
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, deck_id, question, answer, level, created_at, updated_at
FROM cards
WHERE deck_id = ?
ORDER BY created_at ASC, id ASC
`, id)
	if err != nil {
		log.Error("failed to load deck cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Flashcard
		var level string
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &level, &c.CreatedAt, &c.UpdatedAt); err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		// Unknown stored levels fall back to the lowest tier.
		c.Level, _ = models.ParseLevel(level)
		d.Cards = append(d.Cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("deck loaded: %d cards", len(d.Cards))
	return &d, nil
}

func (r *deckRepository) List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: owner_id=%s name_like=%s", filter.OwnerID, filter.NameLike)

	query := sqlBuilder.Select(
		"d.id", "d.owner_id", "d.name", "d.created_at", "d.updated_at",
		"COUNT(c.id) AS card_count",
	).From("decks d").
		LeftJoin("cards c ON c.deck_id = d.id").
		GroupBy("d.id")

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"d.owner_id": filter.OwnerID})
	}
	if filter.NameLike != "" {
		query = query.Where(squirrel.Like{"d.name": "%" + filter.NameLike + "%"})
	}

	orderBy := "d.created_at"
	if filter.OrderBy == "updated_at" {
		orderBy = "d.updated_at"
	}
	orderDir := "ASC"
	if filter.OrderDir == "DESC" {
		orderDir = "DESC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var d models.Deck
		var cardCount int
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.CreatedAt, &d.UpdatedAt, &cardCount); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		// Summaries only: cards stay unloaded, the count rides along.
		d.Cards = make([]models.Flashcard, 0, cardCount)
		decks = append(decks, d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks WHERE owner_id = ?`, ownerID).Scan(&count)
	if err != nil {
		log.Error("failed to count decks: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *deckRepository) Rename(ctx context.Context, id, name string, now time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("renaming deck: id=%s", id)

	res, err := r.db.ExecContext(ctx, `
UPDATE decks SET name = ?, updated_at = ? WHERE id = ?
`, name, now, id)
	if err != nil {
		log.Error("failed to rename deck: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *deckRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%s", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
