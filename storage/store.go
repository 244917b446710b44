// Package storage provides the durable session-record store that keeps a
// signed-in user's profile across process restarts.
package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists or the stored record has expired.
var ErrNotFound = errors.New("record not found")

// Record is the stored form of a session record: an opaque payload plus the
// absolute expiry computed from the max-age it was saved with. A record past
// its expiry behaves exactly like an absent one.
type Record struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists the non-sensitive session record and the opaque refresh
// token between process runs. Each entry carries a max-age; reads of an
// expired entry report absence.
//
// The refresh-token entry is write-only from the application's point of
// view: only the API transport reads it back, to attach it to the
// token-refresh call. It must never be surfaced to callers, and the access
// token must never be written here at all.
type Store interface {
	// SaveSession stores the serialized session record with the given
	// max-age, replacing any previous record.
	SaveSession(data []byte, maxAge time.Duration) error
	// LoadSession returns the stored record payload, or ErrNotFound if the
	// record is absent or expired.
	LoadSession() ([]byte, error)
	// Exists reports whether an unexpired session record is present,
	// independent of whether its payload parses.
	Exists() bool
	// ClearSession removes the session record. Clearing an absent record
	// is not an error.
	ClearSession() error

	// SaveRefreshToken stores the opaque refresh token with the given max-age.
	SaveRefreshToken(token string, maxAge time.Duration) error
	// ClearRefreshToken removes the refresh token.
	ClearRefreshToken() error

	RefreshTokenSource
}

// RefreshTokenSource is the read side of the refresh-token entry. It is
// consumed exclusively by the API transport when issuing the token-refresh
// call; application code holds a Store and never calls it.
type RefreshTokenSource interface {
	// RefreshToken returns the stored refresh token, or ErrNotFound if
	// absent or expired.
	RefreshToken() (string, error)
}
