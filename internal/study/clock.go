package study

import (
	"context"
	"time"
)

// StartClock runs the session clock until the context is cancelled or
// the session is closed. The clock is the session's only autonomous
// process: one elapsed-second increment per tick, no queuing.
func (s *Session) StartClock(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.Closed() {
					return
				}
				s.Tick()
			}
		}
	}()
}

// Tick advances the elapsed time by one second. Each time the total
// crosses a break-interval boundary the break reminder is raised
// exactly once, even if ticks arrive coarser than one second. The
// reminder is advisory: it never pauses or alters the state machine.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elapsed++
	if s.breakInterval <= 0 {
		return
	}
	mark := s.elapsed / s.breakInterval
	if mark > s.lastBreakMark {
		s.lastBreakMark = mark
		s.breakPending = true
		s.log.Debug("break reminder raised at %ds", s.elapsed)
	}
}
