package study

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkruk/flashdeck/internal/deck"
	"github.com/pkruk/flashdeck/internal/errors"
	"github.com/pkruk/flashdeck/internal/logger"
	"github.com/pkruk/flashdeck/internal/models"
	"github.com/pkruk/flashdeck/internal/speech"
)

// Persister receives progress mutations for asynchronous persistence.
// Calls must not block: the session applies every mutation to its
// local view first and never rolls it back on a failed write.
type Persister interface {
	Rate(deckID, cardID string, level models.CardLevel)
	Edit(deckID, cardID, question, answer string)
	ResetProgress(deckID string)
}

// Config holds optional session settings.
type Config struct {
	BreakInterval time.Duration // 0 = default 30 minutes
	Rand          *rand.Rand    // nil = time-seeded
	Speaker       speech.Speaker
	Persister     Persister
}

// Session drives one study run over a deck: it owns the play order,
// the pointer, the reveal state and the session clock. All operations
// are serialized; each runs to completion before the next is applied.
type Session struct {
	ID string

	mu    sync.Mutex
	store *deck.Store
	log   *logger.Logger

	order    []int
	pos      int
	revealed bool
	shuffle  bool
	filter   *models.CardLevel

	restartPrompt bool

	elapsed       int64
	breakInterval int64
	lastBreakMark int64
	breakPending  bool

	lastActivity time.Time
	persistErr   string
	closed       bool

	rng       *rand.Rand
	speaker   speech.Speaker
	persister Persister
}

// NewSession opens a study session over the given deck.
func NewSession(d *models.Deck, cfg Config) *Session {
	interval := cfg.BreakInterval
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	speaker := cfg.Speaker
	if speaker == nil {
		speaker = speech.Silent()
	}

	s := &Session{
		ID:            uuid.NewString(),
		store:         deck.NewStore(d),
		log:           logger.Default().WithPrefix("session").WithField("deck_id", d.ID),
		breakInterval: int64(interval / time.Second),
		lastActivity:  time.Now(),
		rng:           rng,
		speaker:       speaker,
		persister:     cfg.Persister,
	}
	s.regenerate()
	s.log.Info("session opened: %d cards in order", len(s.order))
	return s
}

// regenerate rebuilds the play order and resets pointer and reveal
// state. Callers hold s.mu.
func (s *Session) regenerate() {
	s.order = BuildOrder(s.store.Levels(), s.filter, s.shuffle, s.rng)
	s.pos = 0
	s.revealed = false
	s.restartPrompt = false
	s.speakCurrentQuestion()
}

// currentCard returns a copy of the card under the pointer, or nil
// when the order is empty. Callers hold s.mu.
func (s *Session) currentCard() *models.Flashcard {
	if len(s.order) == 0 || s.pos >= len(s.order) {
		return nil
	}
	d := s.store.Deck()
	idx := s.order[s.pos]
	if idx >= len(d.Cards) {
		return nil
	}
	card := d.Cards[idx]
	return &card
}

func (s *Session) speakCurrentQuestion() {
	if card := s.currentCard(); card != nil {
		s.speaker.Speak(card.Question)
	}
}

func (s *Session) touchActivity() {
	s.lastActivity = time.Now()
}

// Reveal shows the answer. No precondition; revealing an already
// revealed card is a no-op apart from repeating the speech output.
func (s *Session) Reveal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchActivity()

	s.revealed = true
	if card := s.currentCard(); card != nil {
		s.speaker.Speak(card.Answer)
	}
}

// Rate assigns a mastery level to the current card and advances to the
// next one. Only valid in the revealed state; rating controls are not
// active while the answer is hidden.
func (s *Session) Rate(level models.CardLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchActivity()

	if !s.revealed {
		return errors.NewValidationError("state", "answer is not revealed")
	}
	card := s.currentCard()
	if card == nil {
		return errors.NewNotFoundError("card", "current")
	}
	if err := s.store.Rate(card.ID, level); err != nil {
		return err
	}
	if s.persister != nil {
		s.persister.Rate(card.DeckID, card.ID, level)
	}
	s.log.Debug("card rated: card_id=%s level=%s", card.ID, level)
	s.advance()
	return nil
}

// advance moves the pointer forward or raises the restart prompt on
// exhaustion. Callers hold s.mu.
func (s *Session) advance() {
	if s.pos < len(s.order)-1 {
		s.pos++
		s.revealed = false
		s.speakCurrentQuestion()
		return
	}
	// Exhaustion: stay on the last card until the learner decides.
	s.restartPrompt = len(s.order) > 0
}

// Next advances to the following card. At the last position it raises
// the restart prompt instead; confirm with ConfirmRestart or dismiss
// with DeclineRestart.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchActivity()
	s.advance()
}

// Prev steps back one card. A no-op at position zero.
func (s *Session) Prev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchActivity()

	if s.pos == 0 {
		return
	}
	s.pos--
	s.revealed = false
	s.speakCurrentQuestion()
}

// Goto jumps to the 1-based position n. Out-of-range targets are
// ignored and reported via the return value.
func (s *Session) Goto(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchActivity()

	if n < 1 || n > len(s.order) {
		s.log.Debug("goto target out of range: %d", n)
		return false
	}
	s.pos = n - 1
	s.revealed = false
	s.speakCurrentQuestion()
	return true
}

// ConfirmRestart regenerates the play order after exhaustion. With
// shuffle active this produces a fresh permutation.
func (s *Session) ConfirmRestart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchActivity()
	s.regenerate()
	s.log.Debug("order restarted: %d cards", len(s.order))
}

// DeclineRestart dismisses the restart prompt, staying on the last
// card with state unchanged.
func (s *Session) DeclineRestart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchActivity()
	s.restartPrompt = false
}

// ToggleShuffle flips the shuffle flag and regenerates the order.
// Turning shuffle off restores strict ascending original-index order.
func (s *Session) ToggleShuffle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchActivity()

	s.shuffle = !s.shuffle
	s.regenerate()
	s.log.Debug("shuffle toggled: enabled=%v", s.shuffle)
}

// SelectFilter sets the active level filter (nil clears it) and
// regenerates the order. When the filter matches zero cards the
// session enters the empty-filter state and the returned error carries
// the EMPTY_FILTER_RESULT code; clearing the filter or closing the
// session are the ways out.
func (s *Session) SelectFilter(filter *models.CardLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchActivity()

	s.filter = filter
	s.regenerate()
	if filter != nil && len(s.order) == 0 {
		s.log.Debug("filter matches no cards: %s", filter.String())
		return errors.NewEmptyFilterError(filter.String())
	}
	return nil
}

// ResetProgress sets every card back to the lowest tier. The play
// order and pointer are deliberately left alone: only levels change,
// positions do not. A now-stale filter does not trigger regeneration.
func (s *Session) ResetProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchActivity()

	s.store.ResetProgress()
	if s.persister != nil {
		s.persister.ResetProgress(s.store.Deck().ID)
	}
	s.log.Info("deck progress reset")
}

// Edit replaces the current text of a card without touching its level
// or the play order.
func (s *Session) Edit(cardID, question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchActivity()

	if err := s.store.Edit(cardID, question, answer); err != nil {
		return err
	}
	if s.persister != nil {
		s.persister.Edit(s.store.Deck().ID, cardID, question, answer)
	}
	return nil
}

// DismissBreak clears a pending break reminder.
func (s *Session) DismissBreak() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchActivity()
	s.breakPending = false
}

// SetPersistError records the latest failed background write so the
// presentation layer can surface it. The local state stays as is.
func (s *Session) SetPersistError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistErr = msg
}

// Close discards the session's ephemeral state. Pending persistence
// writes complete independently.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.log.Info("session closed")
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// IdleSince returns the time of the last user operation.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Deck exposes the session's in-memory deck view.
func (s *Session) Deck() *models.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Deck()
}
