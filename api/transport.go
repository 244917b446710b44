package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nutricare/nutrikit/auth"
	"github.com/nutricare/nutrikit/storage"
)

// RefreshCookieName is the httpOnly cookie the backend issues the refresh
// token under. The transport only ever sends it on the refresh endpoint.
const RefreshCookieName = "nutricare_refresh"

const (
	refreshPath = "/users/refresh/"
	// loginAreaPrefix is the route prefix of the login UI area; 401
	// redirects are suppressed when the navigator already sits under it.
	loginAreaPrefix = "/auth/"
	loginEntryPath  = "/auth/login"
)

// authTransport decorates every outgoing request with the current bearer
// token and inspects responses for 401. A 401 tears the session down and
// redirects to the login entry point; a network-class failure is logged and
// propagated but never touches the session.
type authTransport struct {
	base      http.RoundTripper
	tokens    *auth.TokenStore
	teardown  func() error
	nav       Navigator
	refreshes storage.RefreshTokenSource
	logger    *slog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if token := t.tokens.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// The refresh credential rides along only on the refresh call itself,
	// mirroring an httpOnly cookie scoped by the browser.
	if t.refreshes != nil && strings.HasSuffix(req.URL.Path, refreshPath) {
		switch token, err := t.refreshes.RefreshToken(); {
		case err == nil && token != "":
			req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: token})
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			t.logger.Warn("reading refresh token", "error", err)
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Warn("request failed", "url", req.URL.String(), "error", err)
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.logger.Info("unauthorized response, tearing down session", "path", req.URL.Path)
		if err := t.teardown(); err != nil {
			t.logger.Warn("session teardown", "error", err)
		}
		if t.nav != nil && !strings.HasPrefix(t.nav.Path(), loginAreaPrefix) {
			t.nav.Redirect(loginEntryPath)
		}
	}
	return resp, nil
}
