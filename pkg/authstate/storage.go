// Package authstate keeps authentication state consistent across every
// open context of a client application: managers sharing one durable
// storage converge on the same identity without a server round trip, the
// way browser tabs converge through localStorage and storage events.
package authstate

import (
	"encoding/json"
	"sync"

	"github.com/vianajose7/faaxis-auth/pkg/authclient"
)

// StorageKey is the single key the identity lives under.
const StorageKey = "faaxis.auth"

// Identity is the cached principal: the user minus credential plus the
// raw token string.
type Identity struct {
	User  authclient.User `json:"user"`
	Token string          `json:"token"`
}

func (id *Identity) encode() []byte {
	data, _ := json.Marshal(id)
	return data
}

func decodeIdentity(data []byte) (*Identity, bool) {
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil || id.Token == "" {
		return nil, false
	}
	return &id, true
}

// Storage is the durable shared KV with change notification. present=false
// in a notification means the identity was cleared.
type Storage interface {
	Load() (data []byte, present bool)
	Store(data []byte)
	Clear()
	// Subscribe registers a change handler and returns its cancel func.
	// Notifications are delivered in write order.
	Subscribe(fn func(data []byte, present bool)) (cancel func())
}

// MemoryStorage is the in-process implementation shared by all managers.
type MemoryStorage struct {
	mu       sync.Mutex
	data     []byte
	present  bool
	nextID   int
	subs     map[int]func(data []byte, present bool)
	notifyMu sync.Mutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{subs: make(map[int]func(data []byte, present bool))}
}

func (s *MemoryStorage) Load() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return nil, false
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, true
}

func (s *MemoryStorage) Store(data []byte) {
	s.mu.Lock()
	s.data = make([]byte, len(data))
	copy(s.data, data)
	s.present = true
	subs := s.snapshot()
	// Take the notify lock before releasing the state lock so delivery
	// order always matches write order.
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range subs {
		fn(data, true)
	}
}

func (s *MemoryStorage) Clear() {
	s.mu.Lock()
	s.data = nil
	s.present = false
	subs := s.snapshot()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range subs {
		fn(nil, false)
	}
}

func (s *MemoryStorage) Subscribe(fn func(data []byte, present bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *MemoryStorage) snapshot() []func(data []byte, present bool) {
	out := make([]func(data []byte, present bool), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
