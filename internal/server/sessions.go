package server

import (
	"sync"
	"time"

	"github.com/AnyUserName/tweetshot/internal/state"
	"github.com/google/uuid"
)

type session struct {
	store    *state.Store
	lastSeen time.Time
}

// Sessions maps browser sessions to their stores. Nothing outlives the
// process; idle sessions are dropped after ttl.
type Sessions struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]*session
}

// NewSessions creates an empty session table.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]*session),
	}
}

// Get returns the store for id, creating a fresh session with default
// fields when id is unknown or expired. The returned id is the one to hand
// back to the client.
func (s *Sessions) Get(id string) (*state.Store, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if sess, ok := s.m[id]; ok {
		sess.lastSeen = now
		return sess.store, id
	}
	id = uuid.NewString()
	sess := &session{store: state.New(), lastSeen: now}
	s.m[id] = sess
	return sess.store, id
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *Sessions) sweep(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.m {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.m, id)
		}
	}
}
