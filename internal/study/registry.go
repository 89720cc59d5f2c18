package study

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/pkruk/flashdeck/internal/logger"
)

// Registry holds the live sessions by ID. Sessions are fully
// independent of each other; the registry only adds lookup and an
// idle sweep.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration

	scheduler *gocron.Scheduler
	log       *logger.Logger
}

// NewRegistry creates a session registry evicting sessions idle for
// longer than idleTTL.
func NewRegistry(idleTTL time.Duration) *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		idleTTL:   idleTTL,
		scheduler: gocron.NewScheduler(time.UTC),
		log:       logger.Default().WithPrefix("registry"),
	}
}

// Start begins the periodic idle sweep.
func (r *Registry) Start() {
	_, _ = r.scheduler.Every(1).Minute().Do(r.sweep)
	r.scheduler.StartAsync()
}

// Stop stops the sweep and closes every remaining session.
func (r *Registry) Stop() {
	r.scheduler.Stop()

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		s.Close()
		delete(r.sessions, id)
	}
}

// Add registers a session.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Get returns the session with the given ID, or nil.
func (r *Registry) Get(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Remove closes and drops a session. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.Close()
		delete(r.sessions, id)
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) sweep() {
	cutoff := time.Now().Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.Closed() || s.IdleSince().Before(cutoff) {
			s.Close()
			delete(r.sessions, id)
			r.log.Info("evicted idle session: id=%s", id)
		}
	}
}
