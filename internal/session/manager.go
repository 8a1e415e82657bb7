package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"muontra/internal/logger"
)

// Manager is the single source of truth for the current session. Commands receive it
// explicitly instead of reading the store on their own.
type Manager struct {
	store Store
	now   func() time.Time

	mu      sync.Mutex
	current *Session
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Login records a successful login.
func (m *Manager) Login(ctx context.Context, accountID int32, isOwner bool, token string) error {
	sess := Session{AccountID: accountID, IsOwner: isOwner, Token: token, SavedAt: m.now().UTC()}
	if err := m.store.Save(ctx, sess); err != nil {
		logger.Error("Failed to save session", "accountID", accountID, "error", err)
		return err
	}
	m.mu.Lock()
	m.current = &sess
	m.mu.Unlock()
	return nil
}

// Current returns the session, reading the store once. A read failure is logged and
// reported as logged out.
func (m *Manager) Current(ctx context.Context) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		return *m.current
	}

	sess, err := m.store.Get(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			logger.Warn("Failed to read session, treating as logged out", "error", err)
		}
		return Session{}
	}
	m.current = &sess
	return sess
}

// Token is a client.TokenSource.
func (m *Manager) Token(ctx context.Context) string {
	return m.Current(ctx).Token
}

// Logout clears the store and the cached copy. The cached copy is dropped even if the
// store fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		logger.Error("Failed to clear session", "error", err)
		return err
	}
	return nil
}
