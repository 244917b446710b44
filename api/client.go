// Package api provides the REST client for the NutriCare backend: endpoint
// bindings, token-response normalization, and the authenticating transport
// that injects the bearer token and reacts to 401 responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nutricare/nutrikit/auth"
	"github.com/nutricare/nutrikit/storage"
)

const defaultTimeout = 30 * time.Second

// maxResponseBody bounds how much of a response body is decoded.
const maxResponseBody = 1 << 20

// Navigator abstracts the navigation surface the 401 handler redirects
// through. In a UI shell Path is the current route and Redirect performs a
// hard navigation to the login entry point; a CLI leaves it unset.
type Navigator interface {
	Path() string
	Redirect(path string)
}

// Client is the NutriCare REST client. All requests pass through the
// authenticating transport; authenticated endpoints get the bearer token
// automatically when one is valid.
type Client struct {
	baseURL string
	http    *http.Client
	session *auth.Manager
	logger  *slog.Logger

	timeout   time.Duration
	base      http.RoundTripper
	nav       Navigator
	refreshes storage.RefreshTokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger. If not set, a default JSON logger
// writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout overrides the 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithNavigator sets the navigation hook used after a 401 teardown.
func WithNavigator(nav Navigator) Option {
	return func(c *Client) {
		c.nav = nav
	}
}

// WithRefreshTokenSource lets the transport attach the stored refresh token
// to the token-refresh call, the way a browser sends an httpOnly cookie.
// The token is never attached to any other request and never surfaced.
func WithRefreshTokenSource(src storage.RefreshTokenSource) Option {
	return func(c *Client) {
		c.refreshes = src
	}
}

// WithBaseTransport overrides the underlying RoundTripper, mainly for tests.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.base = rt
	}
}

// New creates a Client for the given base URL (e.g. "http://host:8000/api")
// bound to the session manager.
func New(baseURL string, session *auth.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	if c.base == nil {
		c.base = http.DefaultTransport
	}
	c.http = &http.Client{
		Timeout: c.timeout,
		Transport: &authTransport{
			base:      c.base,
			tokens:    session.Tokens(),
			teardown:  session.RemoveSession,
			nav:       c.nav,
			refreshes: c.refreshes,
			logger:    c.logger,
		},
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s body: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do executes the request and decodes a 2xx body into out (when non-nil).
// Non-2xx responses become an *APIError carrying the backend's message.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxResponseBody)
	if resp.StatusCode >= 400 {
		var env tokenEnvelope
		_ = json.NewDecoder(limited).Decode(&env)
		return &APIError{Status: resp.StatusCode, Message: env.errorMessage()}
	}
	if out == nil {
		io.Copy(io.Discard, limited)
		return nil
	}
	if err := json.NewDecoder(limited).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}
