package cart

import (
	"sync"
	"time"
)

type entry struct {
	mu       sync.Mutex
	cart     *Cart
	lastSeen time.Time
}

// Store owns one Cart per session. Carts live only in process memory and
// are gone after a restart.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (s *Store) entry(sessionID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		e = &entry{cart: New()}
		s.entries[sessionID] = e
	}
	e.lastSeen = s.now()
	return e
}

// With runs fn with exclusive access to the session's cart.
func (s *Store) With(sessionID string, fn func(c *Cart) error) error {
	e := s.entry(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()

	return fn(e.cart)
}

// Sweep drops carts idle for longer than maxIdle and reports how many
// were removed.
func (s *Store) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
