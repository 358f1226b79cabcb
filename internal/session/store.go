// Package session keeps the server-side sessions issued by the stack this
// service replaced. The resolver consults it only after token resolution
// fails, so clients that still carry the old cookie keep working through
// the migration window.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultTTL = 7 * 24 * time.Hour

type Principal struct {
	UserID    uuid.UUID
	IsAdmin   bool
	IsPremium bool
}

type entry struct {
	principal Principal
	expiresAt time.Time
}

type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]entry

	now func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

// Put registers a legacy session id. New sessions are never minted by the
// token path; entries arrive from migration seeding.
func (s *Store) Put(id string, p Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry{principal: p, expiresAt: s.now().Add(s.ttl)}
}

func (s *Store) Get(id string) (Principal, bool) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Principal{}, false
	}
	if s.now().After(e.expiresAt) {
		s.Delete(id)
		return Principal{}, false
	}
	return e.principal, true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
