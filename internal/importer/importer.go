package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/pkruk/flashdeck/internal/models"
)

// ParsedCard is a question/answer pair before it becomes a Flashcard.
type ParsedCard struct {
	Question string
	Answer   string
}

// ParseText parses the plain-text deck format: one flashcard per line,
// "question | answer". The first segment is the question; all remaining
// segments are rejoined with "|" so literal pipes inside answers survive.
// Blank lines and lines with an empty question are dropped. A line with
// no delimiter yields an empty answer, not a dropped card.
func ParseText(content string) []ParsedCard {
	var cards []ParsedCard
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		parts := strings.Split(trimmed, "|")
		question := strings.TrimSpace(parts[0])
		if question == "" {
			continue
		}
		answer := ""
		if len(parts) > 1 {
			answer = strings.TrimSpace(strings.Join(parts[1:], "|"))
		}
		cards = append(cards, ParsedCard{Question: question, Answer: answer})
	}
	return cards
}

// ParseXLSX reads cards from the first sheet of an .xlsx workbook.
// Column A is the question, column B the answer. A header row is
// detected by the literal "question" in cell A1 and skipped.
func ParseXLSX(r io.Reader) ([]ParsedCard, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var cards []ParsedCard
	for i, row := range rows {
		var question, answer string
		if len(row) > 0 {
			question = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			answer = strings.TrimSpace(row[1])
		}
		if i == 0 && strings.EqualFold(question, "question") {
			continue
		}
		if question == "" {
			continue
		}
		cards = append(cards, ParsedCard{Question: question, Answer: answer})
	}
	return cards, nil
}

// NewCards turns parsed pairs into flashcards for a deck. Every card
// gets a freshly generated ID and starts at the lowest mastery tier;
// IDs are never derived from input content or reused across imports.
func NewCards(deckID string, parsed []ParsedCard, now time.Time) []models.Flashcard {
	cards := make([]models.Flashcard, 0, len(parsed))
	for _, p := range parsed {
		cards = append(cards, models.Flashcard{
			ID:        uuid.NewString(),
			DeckID:    deckID,
			Question:  p.Question,
			Answer:    p.Answer,
			Level:     models.LevelNew,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return cards
}

// ExportText renders a deck back into the plain-text import format.
// ExportText(ParseText(s)) round-trips modulo whitespace.
func ExportText(deck *models.Deck) string {
	var sb strings.Builder
	for _, c := range deck.Cards {
		sb.WriteString(c.Question)
		sb.WriteString(" | ")
		sb.WriteString(c.Answer)
		sb.WriteString("\n")
	}
	return sb.String()
}
