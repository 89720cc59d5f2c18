package study

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkruk/flashdeck/internal/errors"
	"github.com/pkruk/flashdeck/internal/models"
)

// recordingPersister captures every persistence call in order.
type recordingPersister struct {
	calls []string
}

func (p *recordingPersister) Rate(deckID, cardID string, level models.CardLevel) {
	p.calls = append(p.calls, fmt.Sprintf("rate %s %s", cardID, level))
}

func (p *recordingPersister) Edit(deckID, cardID, question, answer string) {
	p.calls = append(p.calls, fmt.Sprintf("edit %s", cardID))
}

func (p *recordingPersister) ResetProgress(deckID string) {
	p.calls = append(p.calls, fmt.Sprintf("reset %s", deckID))
}

// recordingSpeaker captures spoken text in order.
type recordingSpeaker struct {
	spoken []string
}

func (s *recordingSpeaker) Speak(text string) {
	s.spoken = append(s.spoken, text)
}

func testDeck(n int) *models.Deck {
	d := &models.Deck{ID: "deck-1", OwnerID: "user-1", Name: "Geografia"}
	for i := 1; i <= n; i++ {
		d.Cards = append(d.Cards, models.Flashcard{
			ID:       fmt.Sprintf("card-%d", i),
			DeckID:   d.ID,
			Question: fmt.Sprintf("q%d", i),
			Answer:   fmt.Sprintf("a%d", i),
			Level:    models.LevelNew,
		})
	}
	return d
}

func newTestSession(t *testing.T, n int, cfg Config) *Session {
	t.Helper()
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	return NewSession(testDeck(n), cfg)
}

func TestSessionOpens(t *testing.T) {
	s := newTestSession(t, 3, Config{})

	v := s.View()
	assert.NotEmpty(t, v.SessionID)
	assert.Equal(t, "deck-1", v.DeckID)
	assert.Equal(t, "Geografia", v.DeckName)
	assert.Equal(t, 1, v.Position)
	assert.Equal(t, 3, v.Total)
	assert.False(t, v.Revealed)
	assert.False(t, v.Shuffle)
	assert.Nil(t, v.Filter)
	require.NotNil(t, v.Card)
	assert.Equal(t, "q1", v.Card.Question)
}

func TestRevealThenRate(t *testing.T) {
	p := &recordingPersister{}
	s := newTestSession(t, 3, Config{Persister: p})

	s.Reveal()
	assert.True(t, s.View().Revealed)

	require.NoError(t, s.Rate(models.LevelKnown))

	v := s.View()
	assert.Equal(t, 2, v.Position)
	assert.False(t, v.Revealed, "advancing hides the next card")
	assert.Equal(t, "q2", v.Card.Question)
	assert.Equal(t, models.LevelKnown, s.Deck().Cards[0].Level)
	assert.Equal(t, []string{"rate card-1 known"}, p.calls)
}

func TestRateRequiresReveal(t *testing.T) {
	s := newTestSession(t, 3, Config{})

	err := s.Rate(models.LevelKnown)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)

	v := s.View()
	assert.Equal(t, 1, v.Position)
	assert.Equal(t, models.LevelNew, s.Deck().Cards[0].Level)
}

func TestExhaustionRaisesRestartPrompt(t *testing.T) {
	s := newTestSession(t, 2, Config{})

	s.Next()
	assert.Equal(t, 2, s.View().Position)
	assert.False(t, s.View().RestartPrompt)

	s.Next()
	v := s.View()
	assert.True(t, v.RestartPrompt)
	assert.Equal(t, 2, v.Position, "pointer stays on the last card")
}

func TestConfirmRestartRegenerates(t *testing.T) {
	s := newTestSession(t, 2, Config{})
	s.Reveal()
	s.Next()
	s.Next()
	require.True(t, s.View().RestartPrompt)

	s.ConfirmRestart()
	v := s.View()
	assert.False(t, v.RestartPrompt)
	assert.Equal(t, 1, v.Position)
	assert.False(t, v.Revealed)
}

func TestDeclineRestartStaysPut(t *testing.T) {
	s := newTestSession(t, 2, Config{})
	s.Next()
	s.Next()
	require.True(t, s.View().RestartPrompt)

	s.DeclineRestart()
	v := s.View()
	assert.False(t, v.RestartPrompt)
	assert.Equal(t, 2, v.Position)
}

func TestPrevStopsAtFirstCard(t *testing.T) {
	s := newTestSession(t, 3, Config{})

	s.Prev()
	assert.Equal(t, 1, s.View().Position)

	s.Next()
	s.Reveal()
	s.Prev()
	v := s.View()
	assert.Equal(t, 1, v.Position)
	assert.False(t, v.Revealed)
}

func TestGoto(t *testing.T) {
	s := newTestSession(t, 3, Config{})
	s.Reveal()

	assert.True(t, s.Goto(3))
	v := s.View()
	assert.Equal(t, 3, v.Position)
	assert.False(t, v.Revealed)

	assert.False(t, s.Goto(0))
	assert.False(t, s.Goto(4))
	assert.False(t, s.Goto(-1))
	assert.Equal(t, 3, s.View().Position, "invalid targets leave the pointer alone")
}

func TestToggleShuffleOffRestoresOriginalOrder(t *testing.T) {
	s := newTestSession(t, 5, Config{})

	s.ToggleShuffle()
	assert.True(t, s.View().Shuffle)
	assert.Equal(t, 1, s.View().Position, "toggling regenerates from the start")

	s.ToggleShuffle()
	v := s.View()
	assert.False(t, v.Shuffle)

	// Walking the order yields the original storage sequence.
	questions := []string{v.Card.Question}
	for i := 1; i < v.Total; i++ {
		s.Next()
		questions = append(questions, s.View().Card.Question)
	}
	assert.Equal(t, []string{"q1", "q2", "q3", "q4", "q5"}, questions)
}

func TestShuffleReshufflesOnRestart(t *testing.T) {
	s := newTestSession(t, 20, Config{Rand: rand.New(rand.NewSource(3))})
	s.ToggleShuffle()

	first := make([]string, 0, 20)
	first = append(first, s.View().Card.Question)
	for i := 1; i < 20; i++ {
		s.Next()
		first = append(first, s.View().Card.Question)
	}

	s.Next() // raises the restart prompt
	s.ConfirmRestart()

	second := make([]string, 0, 20)
	second = append(second, s.View().Card.Question)
	for i := 1; i < 20; i++ {
		s.Next()
		second = append(second, s.View().Card.Question)
	}

	assert.ElementsMatch(t, first, second)
	assert.NotEqual(t, first, second, "a fresh permutation after restart")
}

func TestSelectFilter(t *testing.T) {
	s := newTestSession(t, 4, Config{})

	// Rate the second card up, then filter on that level.
	s.Reveal()
	s.Next()
	s.Reveal()
	require.NoError(t, s.Rate(models.LevelKnown))

	known := models.LevelKnown
	require.NoError(t, s.SelectFilter(&known))

	v := s.View()
	assert.Equal(t, 1, v.Total)
	assert.Equal(t, 1, v.Position)
	assert.Equal(t, "q2", v.Card.Question)
	require.NotNil(t, v.Filter)
	assert.Equal(t, models.LevelKnown, *v.Filter)

	// Stats still cover the whole deck.
	assert.Equal(t, 4, v.Stats.Total)
	assert.Equal(t, 3, v.Stats.Counts[models.LevelNew])
	assert.Equal(t, 1, v.Stats.Counts[models.LevelKnown])

	// Clearing the filter restores the full order.
	require.NoError(t, s.SelectFilter(nil))
	assert.Equal(t, 4, s.View().Total)
}

func TestSelectFilterWithNoMatches(t *testing.T) {
	s := newTestSession(t, 3, Config{})

	mastered := models.LevelMastered
	err := s.SelectFilter(&mastered)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeEmptyFilter, appErr.Code)

	v := s.View()
	assert.True(t, v.EmptyFilter)
	assert.Equal(t, 0, v.Total)
	assert.Equal(t, 0, v.Position)
	assert.Nil(t, v.Card)

	// Clearing the filter is the way out.
	require.NoError(t, s.SelectFilter(nil))
	v = s.View()
	assert.False(t, v.EmptyFilter)
	assert.Equal(t, 3, v.Total)
}

func TestResetProgressKeepsOrderAndPointer(t *testing.T) {
	p := &recordingPersister{}
	s := newTestSession(t, 3, Config{Persister: p})

	s.Reveal()
	require.NoError(t, s.Rate(models.LevelMastered))
	s.Next()
	require.Equal(t, 3, s.View().Position)

	s.ResetProgress()

	v := s.View()
	assert.Equal(t, 3, v.Position, "pointer does not move")
	assert.Equal(t, 3, v.Total, "order is not regenerated")
	for _, c := range s.Deck().Cards {
		assert.Equal(t, models.LevelNew, c.Level)
	}
	assert.Contains(t, p.calls, "reset deck-1")
}

func TestResetProgressLeavesStaleFilterAlone(t *testing.T) {
	s := newTestSession(t, 3, Config{})

	s.Reveal()
	require.NoError(t, s.Rate(models.LevelKnown))
	known := models.LevelKnown
	require.NoError(t, s.SelectFilter(&known))
	require.Equal(t, 1, s.View().Total)

	s.ResetProgress()

	// The filtered order is now stale but stays visible as-is.
	v := s.View()
	assert.Equal(t, 1, v.Total)
	require.NotNil(t, v.Filter)
	assert.Equal(t, models.LevelKnown, *v.Filter)
	assert.Equal(t, models.LevelNew, v.Card.Level)
}

func TestEditKeepsLevelAndPosition(t *testing.T) {
	p := &recordingPersister{}
	s := newTestSession(t, 2, Config{Persister: p})

	s.Reveal()
	require.NoError(t, s.Rate(models.LevelFair))
	s.Prev()

	require.NoError(t, s.Edit("card-1", "new question", "new answer"))

	v := s.View()
	assert.Equal(t, 1, v.Position)
	assert.Equal(t, "new question", v.Card.Question)
	assert.Equal(t, "new answer", v.Card.Answer)
	assert.Equal(t, models.LevelFair, v.Card.Level)
	assert.Contains(t, p.calls, "edit card-1")

	err := s.Edit("no-such-card", "q", "a")
	require.Error(t, err)
}

func TestPersistErrorSurfacesOnView(t *testing.T) {
	s := newTestSession(t, 2, Config{})
	assert.Empty(t, s.View().PersistError)

	s.SetPersistError("database is locked")
	assert.Equal(t, "database is locked", s.View().PersistError)
}

func TestSpeakerFollowsTheFlow(t *testing.T) {
	sp := &recordingSpeaker{}
	s := newTestSession(t, 2, Config{Speaker: sp})

	s.Reveal()
	s.Next()

	assert.Equal(t, []string{"q1", "a1", "q2"}, sp.spoken)
}

func TestCloseMarksSession(t *testing.T) {
	s := newTestSession(t, 1, Config{})
	assert.False(t, s.Closed())
	s.Close()
	assert.True(t, s.Closed())
}

func TestSessionActivityTracking(t *testing.T) {
	s := newTestSession(t, 2, Config{})
	before := s.IdleSince()

	time.Sleep(2 * time.Millisecond)
	s.Next()
	assert.True(t, s.IdleSince().After(before))
}
