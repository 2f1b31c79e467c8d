package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type entry struct {
	mu       sync.Mutex
	state    State
	lastSeen time.Time
}

// Store keeps one State per session id. Updates for the same session are
// serialised by the entry's mutex; different sessions never block each other.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// NewStore creates a session store. Sessions idle for longer than ttl are removed by Sweep.
func NewStore(ttl time.Duration, log zerolog.Logger) *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
		log:     log.With().Str("component", "session_store").Logger(),
	}
}

// Resolve returns id when it names a live session, otherwise a freshly created one.
// The second result reports whether a new session was created.
func (s *Store) Resolve(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		e.lastSeen = s.now()
		return id, false
	}

	id = uuid.NewString()
	s.entries[id] = &entry{lastSeen: s.now()}
	s.log.Debug().Str("session", id).Msg("Session created")
	return id, true
}

func (s *Store) entry(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		e = &entry{}
		s.entries[id] = e
	}
	e.lastSeen = s.now()
	return e
}

// Get returns the current state of a session (empty for unknown ids)
func (s *Store) Get(id string) State {
	s.mu.Lock()
	e, ok := s.entries[id]
	s.mu.Unlock()
	if !ok {
		return State{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Update runs fn with the session's current state and stores what it returns.
// Calls for the same session run one at a time.
func (s *Store) Update(id string, fn func(State) State) State {
	e := s.entry(id)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = fn(e.state)
	return e.state
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes sessions idle for longer than the store's ttl and returns how many were removed.
// Sessions with a pass in flight are kept.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, e := range s.entries {
		if !e.lastSeen.Before(cutoff) {
			continue
		}
		if !e.mu.TryLock() {
			continue
		}
		delete(s.entries, id)
		e.mu.Unlock()
		removed++
	}
	return removed
}
