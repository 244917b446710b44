// Package auth implements the client-side authentication session lifecycle:
// in-memory access-token storage, the durable profile record, session
// save/load/teardown, and coalesced token refresh with an optional
// degraded-mode fallback.
package auth

// Session is the durable, non-sensitive profile record for a signed-in user.
// It never carries the access token; the JSON layout below is exactly what
// is written to the durable store.
type Session struct {
	UserID    int    `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	// LastLoginTime is epoch milliseconds, set once when the session is
	// saved at login and never updated by token-refresh events.
	LastLoginTime int64 `json:"lastLoginTime"`
}

// User is a session together with its volatile credentials as returned from
// a login or activation call. Token and RefreshToken are deliberately
// excluded from JSON so they can never ride along into the durable record.
type User struct {
	Session
	Token        string `json:"-"`
	RefreshToken string `json:"-"`
}

// State is the authentication lifecycle state derived from the durable
// record and the in-memory token. It is recomputed from its inputs on every
// observation; nothing caches it.
type State int

const (
	// Unauthenticated: no durable record (or record without token and no
	// way to refresh). The process also starts here.
	Unauthenticated State = iota
	// PendingRefresh: a durable record exists but the in-memory token is
	// absent or expired; a refresh is needed before authenticated calls.
	PendingRefresh
	// Authenticated: durable record present and token valid.
	Authenticated
)

func (s State) String() string {
	switch s {
	case PendingRefresh:
		return "pending-refresh"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}
