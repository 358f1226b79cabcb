package authstate

import (
	"context"
	"errors"
	"sync"

	"github.com/vianajose7/faaxis-auth/pkg/authclient"
)

// Manager is one context's (one tab's) view of the shared auth state. It
// subscribes to storage exactly once, applies change notifications in the
// order received (last write wins), and discards results of superseded
// login attempts via a generation counter.
type Manager struct {
	storage  Storage
	client   *authclient.Client
	onChange func(*Identity)

	mu       sync.Mutex
	gen      uint64
	identity *Identity
	cancel   func()
	closed   bool
}

type Option func(*Manager)

// WithClient enables server revalidation on Resume.
func WithClient(c *authclient.Client) Option {
	return func(m *Manager) { m.client = c }
}

// WithOnChange registers the UI callback, invoked with nil on logout.
// Callbacks fire in apply order, synchronously, outside the manager lock.
func WithOnChange(fn func(*Identity)) Option {
	return func(m *Manager) { m.onChange = fn }
}

func NewManager(storage Storage, opts ...Option) *Manager {
	m := &Manager{storage: storage}
	for _, opt := range opts {
		opt(m)
	}
	if data, present := storage.Load(); present {
		if id, ok := decodeIdentity(data); ok {
			m.identity = id
		}
	}
	m.cancel = storage.Subscribe(m.applyNotification)
	return m
}

// Current returns the identity this context believes in, or nil.
func (m *Manager) Current() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// StartLogin marks a new authentication attempt and returns its generation.
// A retry bumps the generation so the earlier attempt's eventual completion
// is ignored.
func (m *Manager) StartLogin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	return m.gen
}

// CompleteLogin applies a finished attempt. It reports false, changing
// nothing, when a newer attempt has started since gen was handed out.
func (m *Manager) CompleteLogin(gen uint64, id Identity) bool {
	m.mu.Lock()
	if m.closed || gen != m.gen {
		m.mu.Unlock()
		return false
	}
	changed := m.setIdentity(&id)
	m.mu.Unlock()

	m.fireChange(changed, &id)
	m.storage.Store(id.encode())
	return true
}

// Logout clears the shared state; every subscribed context converges to
// unauthenticated through the clear notification. Idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.gen++
	changed := m.setIdentity(nil)
	m.mu.Unlock()

	m.fireChange(changed, nil)
	m.storage.Clear()
}

// Resume re-reads storage, covering notifications missed while the context
// was hidden. With a client configured it also revalidates the token; a
// rejected token clears the shared state for every context.
func (m *Manager) Resume(ctx context.Context) error {
	data, present := m.storage.Load()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	var id *Identity
	if present {
		id, _ = decodeIdentity(data)
	}
	changed := m.setIdentity(id)
	m.mu.Unlock()
	m.fireChange(changed, id)

	if id == nil || m.client == nil {
		return nil
	}

	user, err := m.client.Me(ctx, id.Token)
	if err != nil {
		if errors.Is(err, authclient.ErrUnauthorized) {
			m.Logout()
			return nil
		}
		// Transient failure: keep the cached identity rather than
		// bouncing the user on a flaky network.
		return err
	}

	refreshed := Identity{User: *user, Token: id.Token}
	m.mu.Lock()
	changed = m.setIdentity(&refreshed)
	m.mu.Unlock()
	m.fireChange(changed, &refreshed)
	m.storage.Store(refreshed.encode())
	return nil
}

// Close detaches the manager from storage. Idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Manager) applyNotification(data []byte, present bool) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	var id *Identity
	if present {
		id, _ = decodeIdentity(data)
	}
	changed := m.setIdentity(id)
	m.mu.Unlock()

	m.fireChange(changed, id)
}

// setIdentity is idempotent: re-applying the identical identity leaves the
// state alone and reports no change. Callers hold m.mu.
func (m *Manager) setIdentity(id *Identity) bool {
	if sameIdentity(m.identity, id) {
		return false
	}
	m.identity = id
	return true
}

func (m *Manager) fireChange(changed bool, id *Identity) {
	if changed && m.onChange != nil {
		m.onChange(id)
	}
}

func sameIdentity(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Token == b.Token && a.User == b.User
}
