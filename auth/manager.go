package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nutricare/nutrikit/storage"
)

// DefaultTokenTTL is the access-token lifetime assumed when a token arrives
// without an explicit expiry.
const DefaultTokenTTL = time.Hour

const (
	sessionMaxAge           = 24 * time.Hour
	sessionMaxAgeRemembered = 30 * 24 * time.Hour
	refreshMaxAge           = 7 * 24 * time.Hour
	refreshMaxAgeRemembered = 30 * 24 * time.Hour
)

// Manager orchestrates the session lifecycle over the volatile TokenStore
// and the durable record store. The access token only ever touches the
// TokenStore; the durable store receives the profile record and, when
// present, the refresh token in its own write-only entry.
type Manager struct {
	mu      sync.RWMutex
	tokens  *TokenStore
	store   storage.Store
	logger  *slog.Logger
	now     func() time.Time
	current *User
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the structured logger. If not set, a default JSON logger
// writing to stderr is used.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock overrides the time source for the manager and its TokenStore.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager over the given durable store.
func NewManager(store storage.Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	m.tokens = NewTokenStore(WithTokenClock(func() time.Time { return m.now() }))
	return m
}

// Tokens returns the manager's TokenStore for transport wiring.
func (m *Manager) Tokens() *TokenStore {
	return m.tokens
}

// SaveSession stores a freshly authenticated user: the access token goes to
// the in-memory TokenStore with the default lifetime, the profile record to
// the durable store with a max-age of 30 days when rememberMe is set and 1
// day otherwise, and the refresh token (if any) to its write-only durable
// entry.
func (m *Manager) SaveSession(user User, rememberMe bool) error {
	if user.Token != "" {
		m.tokens.Set(user.Token, DefaultTokenTTL)
	}

	record := user.Session
	record.LastLoginTime = m.now().UnixMilli()

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	maxAge := sessionMaxAge
	if rememberMe {
		maxAge = sessionMaxAgeRemembered
	}
	if err := m.store.SaveSession(data, maxAge); err != nil {
		return err
	}

	if user.RefreshToken != "" {
		refreshAge := refreshMaxAge
		if rememberMe {
			refreshAge = refreshMaxAgeRemembered
		}
		if err := m.store.SaveRefreshToken(user.RefreshToken, refreshAge); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.current = &User{Session: record, Token: user.Token}
	m.mu.Unlock()
	return nil
}

// LoadSession reads the durable record. It returns nil when no record
// exists; a record whose token is absent or expired is returned with an
// empty Token, signalling the caller to attempt a refresh. A record that
// fails to parse is treated as absent and cleared.
func (m *Manager) LoadSession() *User {
	data, err := m.store.LoadSession()
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Warn("loading session record", "error", err)
		}
		return nil
	}

	var record Session
	if err := json.Unmarshal(data, &record); err != nil {
		m.logger.Warn("corrupt session record, clearing", "error", err)
		if err := m.RemoveSession(); err != nil {
			m.logger.Warn("clearing corrupt session", "error", err)
		}
		return nil
	}

	user := &User{Session: record, Token: m.tokens.Get()}

	m.mu.Lock()
	m.current = user
	m.mu.Unlock()
	return user
}

// RemoveSession clears the token store, the durable record and the refresh
// token unconditionally. It is idempotent.
func (m *Manager) RemoveSession() error {
	m.tokens.Clear()
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return errors.Join(m.store.ClearSession(), m.store.ClearRefreshToken())
}

// IsAuthenticated recomputes the authentication predicate from the durable
// record and the token store on every call.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == Authenticated
}

// State derives the lifecycle state from the durable record and the token
// store.
func (m *Manager) State() State {
	switch {
	case !m.store.Exists():
		return Unauthenticated
	case m.tokens.IsValid():
		return Authenticated
	default:
		return PendingRefresh
	}
}

// CurrentUser returns the most recently saved or loaded user, or nil.
func (m *Manager) CurrentUser() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	u := *m.current
	return &u
}

// Refresher obtains a new access token, returning "" when no token could be
// obtained. Implementations never return errors; failure is the empty
// string.
type Refresher interface {
	Refresh(ctx context.Context) string
}

// Restore runs the boot-time load sequence: load the durable record and, if
// its token is absent or expired, attempt a refresh. When the refresh fails
// the session is cleared and nil is returned.
func (m *Manager) Restore(ctx context.Context, refresher Refresher) *User {
	user := m.LoadSession()
	if user == nil {
		return nil
	}
	if user.Token != "" {
		return user
	}
	if refresher != nil {
		if token := refresher.Refresh(ctx); token != "" {
			user.Token = token
			m.mu.Lock()
			m.current = user
			m.mu.Unlock()
			return user
		}
	}
	m.logger.Info("session not refreshable, clearing")
	if err := m.RemoveSession(); err != nil {
		m.logger.Warn("clearing stale session", "error", err)
	}
	return nil
}
