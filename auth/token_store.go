package auth

import (
	"sync"
	"time"

	"github.com/awnumar/memguard"
)

// TokenStore holds the current access token and its expiry in process memory
// only. The token value lives in a memguard Enclave (encrypted at rest in
// memory), is never written to durable storage, and vanishes on process exit.
type TokenStore struct {
	mu        sync.RWMutex
	token     *memguard.Enclave
	expiresAt time.Time
	now       func() time.Time
}

// TokenStoreOption configures a TokenStore.
type TokenStoreOption func(*TokenStore)

// WithTokenClock overrides the time source used for expiry checks.
func WithTokenClock(now func() time.Time) TokenStoreOption {
	return func(s *TokenStore) {
		s.now = now
	}
}

// NewTokenStore creates an empty TokenStore.
func NewTokenStore(opts ...TokenStoreOption) *TokenStore {
	s := &TokenStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set stores the token value and computes its absolute expiry from ttl.
// The value is opaque; no format validation is performed.
func (s *TokenStore) Set(value string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = memguard.NewEnclave([]byte(value))
	s.expiresAt = s.now().Add(ttl)
}

// Get returns the token value if it is present and unexpired, otherwise "".
// An expired token is not cleared here; the caller decides what teardown to
// run.
func (s *TokenStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil || !s.now().Before(s.expiresAt) {
		return ""
	}
	buf, err := s.token.Open()
	if err != nil {
		return ""
	}
	defer buf.Destroy()
	return string(buf.Bytes())
}

// IsValid reports whether a token is present and unexpired.
func (s *TokenStore) IsValid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil && s.now().Before(s.expiresAt)
}

// Remaining returns the time left until the token expires, or 0 when no
// valid token is held.
func (s *TokenStore) Remaining() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return 0
	}
	remaining := s.expiresAt.Sub(s.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingMinutes returns the whole minutes left until expiry, or 0.
func (s *TokenStore) RemainingMinutes() int {
	return int(s.Remaining() / time.Minute)
}

// Clear drops the token and its expiry.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	s.expiresAt = time.Time{}
}
