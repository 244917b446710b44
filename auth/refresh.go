package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/singleflight"
)

// maxSyntheticAge is the session-age ceiling for the degraded-mode fallback:
// no synthetic token is issued for a session older than this.
const maxSyntheticAge = 24 * time.Hour

const syntheticIssuer = "nutricare-dev"

// Grant is the canonical token grant every accepted backend response shape
// is normalized into at the network boundary.
type Grant struct {
	Token        string
	RefreshToken string
	// ExpiresIn is the token lifetime in seconds; 0 means the backend did
	// not say and DefaultTokenTTL applies.
	ExpiresIn int
}

// RefreshFunc issues the token-refresh call against the backend. The refresh
// credential rides along in the transport's httpOnly-style store; the caller
// supplies nothing.
type RefreshFunc func(ctx context.Context) (Grant, error)

// RefreshCoordinator obtains a new access token on demand. The primary path
// calls the backend refresh endpoint; when that fails and degraded mode is
// explicitly enabled, a structurally token-shaped placeholder is synthesized
// for sessions younger than 24 hours. Concurrent callers are coalesced onto
// a single in-flight refresh and all observe its result.
//
// Refresh never fails with an error: the result is either a token or "",
// so callers have a single decision point.
type RefreshCoordinator struct {
	manager  *Manager
	refresh  RefreshFunc
	degraded bool
	logger   *slog.Logger
	now      func() time.Time
	group    singleflight.Group
}

var _ Refresher = (*RefreshCoordinator)(nil)

// RefreshOption configures a RefreshCoordinator.
type RefreshOption func(*RefreshCoordinator)

// WithDegradedFallback enables the synthetic-token fallback used when no
// refresh endpoint is deployed. The placeholder carries no verifiable
// signature and must never be trusted by a server; it only keeps the local
// client usable. Off by default.
func WithDegradedFallback() RefreshOption {
	return func(c *RefreshCoordinator) {
		c.degraded = true
	}
}

// WithRefreshLogger sets the structured logger.
func WithRefreshLogger(logger *slog.Logger) RefreshOption {
	return func(c *RefreshCoordinator) {
		c.logger = logger
	}
}

// WithRefreshClock overrides the time source.
func WithRefreshClock(now func() time.Time) RefreshOption {
	return func(c *RefreshCoordinator) {
		c.now = now
	}
}

// NewRefreshCoordinator creates a coordinator over the given manager.
// refresh may be nil, in which case only the fallback path (if enabled) can
// produce a token.
func NewRefreshCoordinator(manager *Manager, refresh RefreshFunc, opts ...RefreshOption) *RefreshCoordinator {
	c := &RefreshCoordinator{
		manager: manager,
		refresh: refresh,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return c
}

// Refresh returns a new access token, or "" when the session is not
// refreshable. The obtained token is already written to the TokenStore when
// Refresh returns. Concurrent calls share one in-flight refresh.
func (c *RefreshCoordinator) Refresh(ctx context.Context) string {
	token, _, _ := c.group.Do("refresh", func() (any, error) {
		return c.refreshOnce(ctx), nil
	})
	return token.(string)
}

func (c *RefreshCoordinator) refreshOnce(ctx context.Context) string {
	if c.refresh != nil {
		grant, err := c.refresh(ctx)
		if err == nil && grant.Token != "" {
			ttl := DefaultTokenTTL
			if grant.ExpiresIn > 0 {
				ttl = time.Duration(grant.ExpiresIn) * time.Second
			}
			c.manager.Tokens().Set(grant.Token, ttl)
			return grant.Token
		}
		c.logger.Info("refresh endpoint unavailable", "error", err)
	}
	if !c.degraded {
		return ""
	}
	return c.syntheticRefresh()
}

// syntheticRefresh issues a placeholder token for a recent session. The
// durable record supplies the session age; past the 24h ceiling nothing is
// issued.
func (c *RefreshCoordinator) syntheticRefresh() string {
	user := c.manager.LoadSession()
	if user == nil {
		c.logger.Info("no session record, fallback refused")
		return ""
	}
	age := c.now().Sub(time.UnixMilli(user.LastLoginTime))
	if age >= maxSyntheticAge {
		c.logger.Info("session past fallback ceiling", "age", age)
		return ""
	}

	token := syntheticToken(user.Email, c.now())
	c.manager.Tokens().Set(token, DefaultTokenTTL)
	c.logger.Warn("issued synthetic degraded-mode token", "subject", user.Email)
	return token
}

// syntheticToken builds a three-segment base64 token shaped like a JWT
// (header.payload.signature) with no cryptographic meaning. It only gates
// client-local behavior.
func syntheticToken(subject string, now time.Time) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	claims, _ := json.Marshal(map[string]any{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(DefaultTokenTTL).Unix(),
		"iss": syntheticIssuer,
	})
	payload := base64.RawURLEncoding.EncodeToString(claims)
	signature := base64.RawURLEncoding.EncodeToString([]byte("dev-signature"))
	return header + "." + payload + "." + signature
}
