package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the per-page state of one viewing session: its analyzed
// counter and the identities of units already processed.
type Session struct {
	ID        string
	StartedAt time.Time

	counter Counter

	mu        sync.Mutex
	processed map[string]struct{}
}

// NewSession starts a session with a fresh ID. A nil counter selects an
// in-memory one.
func NewSession(counter Counter) *Session {
	return NewSessionWithID(uuid.New().String(), counter)
}

func NewSessionWithID(id string, counter Counter) *Session {
	if counter == nil {
		counter = &MemoryCounter{}
	}
	return &Session{
		ID:        id,
		StartedAt: time.Now(),
		counter:   counter,
		processed: make(map[string]struct{}),
	}
}

// MarkProcessed records id and reports whether it was new. Empty IDs are
// always new since they carry no identity.
func (s *Session) MarkProcessed(id string) bool {
	if id == "" {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.processed[id]; seen {
		return false
	}
	s.processed[id] = struct{}{}
	return true
}

// Analyzed reads the session counter.
func (s *Session) Analyzed(ctx context.Context) (int64, error) {
	return s.counter.Value(ctx)
}

func (s *Session) incr(ctx context.Context) (int64, error) {
	return s.counter.Incr(ctx)
}
