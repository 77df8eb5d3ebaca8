package server

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/manuscript-editor/internal/wizard"
)

// Session expiry defaults
const (
	DefaultSessionIdleTTL         = 2 * time.Hour
	DefaultSessionCleanupInterval = 5 * time.Minute
)

// sessionEntry is one live editing session. mu serializes every operation on
// the controller so a session never runs two transitions at once.
type sessionEntry struct {
	id         uuid.UUID
	mu         sync.Mutex
	ctrl       *wizard.Controller
	lastAccess atomic.Int64 // unix nanoseconds
}

// touch records that the session was just used.
func (e *sessionEntry) touch(now time.Time) {
	e.lastAccess.Store(now.UnixNano())
}

func (e *sessionEntry) idleSince(cutoff time.Time) bool {
	return e.lastAccess.Load() < cutoff.UnixNano()
}

// sessionStore keeps sessions in memory; nothing survives a restart. Sessions
// idle for longer than idleTTL are dropped by a background sweep.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
	idleTTL  time.Duration
	verbose  bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// newSessionStore creates an empty store and starts its expiry sweep.
// Non-positive durations select the defaults.
func newSessionStore(idleTTL, cleanupInterval time.Duration, verbose bool) *sessionStore {
	if idleTTL <= 0 {
		idleTTL = DefaultSessionIdleTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultSessionCleanupInterval
	}

	s := &sessionStore{
		sessions: make(map[uuid.UUID]*sessionEntry),
		idleTTL:  idleTTL,
		verbose:  verbose,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.cleanup(cleanupInterval)
	return s
}

// Create registers ctrl under a new random id.
func (s *sessionStore) Create(ctrl *wizard.Controller) *sessionEntry {
	entry := &sessionEntry{
		id:   uuid.New(),
		ctrl: ctrl,
	}
	entry.touch(time.Now())

	s.mu.Lock()
	s.sessions[entry.id] = entry
	s.mu.Unlock()
	return entry
}

// Get returns the session for the given id string.
func (s *sessionStore) Get(id string) (*sessionEntry, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, &ErrSessionNotFound{ID: id}
	}

	s.mu.RLock()
	entry, ok := s.sessions[parsed]
	s.mu.RUnlock()
	if !ok {
		return nil, &ErrSessionNotFound{ID: id}
	}
	return entry, nil
}

// Delete removes the session with the given id.
func (s *sessionStore) Delete(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return &ErrSessionNotFound{ID: id}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[parsed]; !ok {
		return &ErrSessionNotFound{ID: id}
	}
	delete(s.sessions, parsed)
	return nil
}

// Len returns the number of live sessions.
func (s *sessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// cleanup periodically expires idle sessions until Stop is called.
func (s *sessionStore) cleanup(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireIdle(time.Now().Add(-s.idleTTL))
		case <-s.stop:
			return
		}
	}
}

// expireIdle removes sessions not used since cutoff and returns how many.
// A session whose lock is held is in use and is skipped.
func (s *sessionStore) expireIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		if !entry.idleSince(cutoff) || !entry.mu.TryLock() {
			continue
		}
		delete(s.sessions, id)
		entry.mu.Unlock()
		removed++
	}
	if removed > 0 && s.verbose {
		log.Printf("[SERVER] expired %d idle sessions", removed)
	}
	return removed
}

// Stop stops the expiry sweep and waits for it to exit. It is safe to call
// more than once.
func (s *sessionStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}
