package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nutricare/nutrikit/auth"
)

// Login authenticates with email and password. A 400 or 401 maps to
// ErrInvalidCredentials; on success the returned user carries the normalized
// access token and refresh token, ready for Manager.SaveSession.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.User, error) {
	var env tokenEnvelope
	err := c.postJSON(ctx, "/users/login/", LoginRequest{Email: email, Password: password}, &env)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) &&
			(apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	user := env.user(email)
	return &user, nil
}

// Register creates a new account. The backend responds with a message and
// sends an activation code out of band.
func (c *Client) Register(ctx context.Context, req SignupRequest) (string, error) {
	var env tokenEnvelope
	if err := c.postJSON(ctx, "/users/register/", req, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// Activate confirms an account with the emailed activation code. Like login,
// a successful activation yields a signed-in user.
func (c *Client) Activate(ctx context.Context, email, code string) (*auth.User, error) {
	var env tokenEnvelope
	err := c.postJSON(ctx, "/users/activate/",
		ActivationRequest{Email: email, ActivationCode: code}, &env)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) &&
			(apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	user := env.user(email)
	return &user, nil
}

// ResendActivation asks for a fresh activation code.
func (c *Client) ResendActivation(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/users/sendactivate/", resendActivationRequest{Email: email}, nil)
}

// RefreshGrant calls the refresh endpoint. The refresh credential is
// attached by the transport; the body is empty. The result is the normalized
// grant, so this method satisfies auth.RefreshFunc.
func (c *Client) RefreshGrant(ctx context.Context) (auth.Grant, error) {
	var env tokenEnvelope
	if err := c.postJSON(ctx, "/users/refresh/", struct{}{}, &env); err != nil {
		return auth.Grant{}, err
	}
	grant, ok := env.normalize()
	if !ok {
		return auth.Grant{}, fmt.Errorf("refresh response carried no token")
	}
	return grant, nil
}

// Logout notifies the backend. It is best-effort: callers run local teardown
// regardless of the returned error.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/users/logout/", struct{}{}, nil)
}

// RequestPasswordReset starts the password-reset flow for the given email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/users/resetpassword/", passwordResetRequest{Email: email}, nil)
}

// VerifyPasswordReset confirms the emailed reset code.
func (c *Client) VerifyPasswordReset(ctx context.Context, email, resetCode string) error {
	return c.postJSON(ctx, "/users/resetpassword-verify/",
		passwordResetVerifyRequest{Email: email, ResetCode: resetCode}, nil)
}
