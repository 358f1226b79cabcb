package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vianajose7/faaxis-auth/internal/models"
)

// MemoryStore is the in-process secondary backend. One shared map, one
// mutex: the check-and-insert in Create happens under the write lock, so
// concurrent registrations with the same email cannot both succeed.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]models.User // keyed by lowercased email
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]models.User)}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[strings.ToLower(email)]; ok {
		return &u, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Create(_ context.Context, u *models.User) error {
	key := strings.ToLower(u.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[key]; ok {
		return ErrAlreadyExists
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.Email = key
	s.users[key] = *u
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id uuid.UUID, f Fields) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, u := range s.users {
		if u.ID != id {
			continue
		}
		if f.FirstName != nil {
			u.FirstName = *f.FirstName
		}
		if f.LastName != nil {
			u.LastName = *f.LastName
		}
		if f.PasswordHash != nil {
			u.PasswordHash = *f.PasswordHash
		}
		if f.IsAdmin != nil {
			u.IsAdmin = *f.IsAdmin
		}
		if f.IsPremium != nil {
			u.IsPremium = *f.IsPremium
		}
		if f.EmailVerified != nil {
			u.EmailVerified = *f.EmailVerified
		}
		s.users[key] = u
		out := u
		return &out, nil
	}
	return nil, ErrNotFound
}
