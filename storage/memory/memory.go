// Package memory provides a thread-safe in-memory implementation of storage.Store.
package memory

import (
	"sync"
	"time"

	"github.com/nutricare/nutrikit/storage"
)

// Store is a thread-safe in-memory implementation of storage.Store.
// Suitable for testing, demos, and single-process use cases; everything is
// lost on process exit.
type Store struct {
	mu      sync.RWMutex
	session *storage.Record
	refresh *storage.Record
	now     func() time.Time
}

var _ storage.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a new empty in-memory Store.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) SaveSession(data []byte, maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &storage.Record{
		Data:      append([]byte(nil), data...),
		ExpiresAt: s.now().Add(maxAge),
	}
	return nil
}

func (s *Store) LoadSession() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil || s.now().After(s.session.ExpiresAt) {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), s.session.Data...), nil
}

func (s *Store) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil && !s.now().After(s.session.ExpiresAt)
}

func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

func (s *Store) SaveRefreshToken(token string, maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = &storage.Record{
		Data:      []byte(token),
		ExpiresAt: s.now().Add(maxAge),
	}
	return nil
}

func (s *Store) RefreshToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.refresh == nil || s.now().After(s.refresh.ExpiresAt) {
		return "", storage.ErrNotFound
	}
	return string(s.refresh.Data), nil
}

func (s *Store) ClearRefreshToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = nil
	return nil
}

// RawSession returns the raw stored session payload without expiry
// filtering. It exists so tests can inspect exactly what reached the
// durable layer.
func (s *Store) RawSession() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	return append([]byte(nil), s.session.Data...)
}
