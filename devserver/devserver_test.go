package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestServer(t *testing.T) (*Server, *httptest.Server, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)}
	s := New(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(clock.Now),
	)
	require.NoError(t, s.SeedAccount("dietitian@example.com", "hunter2hunter2", "Amina El-Sayed", "dietitian"))
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts, clock
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func refreshCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == RefreshCookieName {
			return c
		}
	}
	return nil
}

func TestLoginIssuesTokenAndRefreshCookie(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/users/login/", LoginRequest{
		Email:    "Dietitian@Example.com",
		Password: "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := refreshCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/users/refresh/", cookie.Path)

	body := decodeBody[LoginResponse](t, resp)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, cookie.Value, body.RefreshToken)
	assert.Equal(t, "dietitian@example.com", body.User.Email)
	assert.Equal(t, "Amina", body.User.FirstName)
	assert.Equal(t, "El-Sayed", body.User.LastName)
	assert.Equal(t, "dietitian", body.User.Role)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/users/login/", LoginRequest{
		Email:    "dietitian@example.com",
		Password: "wrong",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[CredentialErrorResponse](t, resp)
	require.Len(t, body.NonFieldErrors, 1)
	assert.Nil(t, refreshCookie(resp))
}

func TestRegisterActivateFlow(t *testing.T) {
	s, ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/users/register/", RegisterRequest{
		FullName:        "Sam Reyes",
		Email:           "sam@example.com",
		Password:        "longenoughpw",
		ConfirmPassword: "longenoughpw",
		AgreeToTerms:    true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Login is rejected until the account is activated.
	resp = postJSON(t, ts.URL+"/users/login/", LoginRequest{
		Email: "sam@example.com", Password: "longenoughpw",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	s.mu.Lock()
	code := s.accounts["sam@example.com"].ActivationCode
	s.mu.Unlock()
	require.NotEmpty(t, code)

	resp = postJSON(t, ts.URL+"/users/activate/", ActivationRequest{
		Email: "sam@example.com", ActivationCode: code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[ActivationResponse](t, resp)
	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "sam", body.User.Username)
}

func TestRegisterValidation(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/users/register/", RegisterRequest{
		FullName:        "Sam Reyes",
		Email:           "sam@example.com",
		Password:        "longenoughpw",
		ConfirmPassword: "different",
		AgreeToTerms:    true,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/users/register/", RegisterRequest{
		FullName:        "Sam Reyes",
		Email:           "dietitian@example.com",
		Password:        "longenoughpw",
		ConfirmPassword: "longenoughpw",
		AgreeToTerms:    true,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestRefreshRotatesAccessToken(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/users/login/", LoginRequest{
		Email: "dietitian@example.com", Password: "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := refreshCookie(resp)
	require.NotNil(t, cookie)
	login := decodeBody[LoginResponse](t, resp)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/users/refresh/", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[RefreshResponse](t, resp)
	assert.NotEmpty(t, body.Access)
	assert.NotEqual(t, login.Token, body.Access)
	assert.Equal(t, 3600, body.ExpiresIn)
}

func TestRefreshWithoutCookie(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/users/refresh/", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshExpires(t *testing.T) {
	_, ts, clock := newTestServer(t)

	resp := postJSON(t, ts.URL+"/users/login/", LoginRequest{
		Email: "dietitian@example.com", Password: "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := refreshCookie(resp)
	resp.Body.Close()

	clock.Advance(8 * 24 * time.Hour)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/users/refresh/", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCalculationsRequireAuth(t *testing.T) {
	_, ts, clock := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nutritions/calculations/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	loginResp := postJSON(t, ts.URL+"/users/login/", LoginRequest{
		Email: "dietitian@example.com", Password: "hunter2hunter2",
	})
	login := decodeBody[LoginResponse](t, loginResp)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/nutritions/calculations/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	calcs := decodeBody[[]Calculation](t, resp)
	assert.NotEmpty(t, calcs)

	// The bearer token stops working once its hour is up.
	clock.Advance(61 * time.Minute)
	req, err = http.NewRequest(http.MethodGet, ts.URL+"/nutritions/calculations/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutRevokesTokens(t *testing.T) {
	s, ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/users/login/", LoginRequest{
		Email: "dietitian@example.com", Password: "hunter2hunter2",
	})
	cookie := refreshCookie(resp)
	login := decodeBody[LoginResponse](t, resp)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/users/logout/", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cleared := refreshCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	resp.Body.Close()

	s.mu.Lock()
	_, tokenAlive := s.tokens[login.Token]
	_, refreshAlive := s.refresh[cookie.Value]
	s.mu.Unlock()
	assert.False(t, tokenAlive)
	assert.False(t, refreshAlive)
}

func TestPasswordResetFlow(t *testing.T) {
	s, ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/users/resetpassword/", PasswordResetRequest{Email: "dietitian@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	s.mu.Lock()
	code := s.accounts["dietitian@example.com"].ResetCode
	s.mu.Unlock()
	require.NotEmpty(t, code)

	resp = postJSON(t, ts.URL+"/users/resetpassword-verify/", PasswordResetVerifyRequest{
		Email: "dietitian@example.com", ResetCode: "000000x",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/users/resetpassword-verify/", PasswordResetVerifyRequest{
		Email: "dietitian@example.com", ResetCode: code,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// A code is single-use.
	resp = postJSON(t, ts.URL+"/users/resetpassword-verify/", PasswordResetVerifyRequest{
		Email: "dietitian@example.com", ResetCode: code,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestResetRequestHidesUnknownAccounts(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/users/resetpassword/", PasswordResetRequest{Email: "nobody@example.com"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDrugEndpoints(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nutritions/drugs/2")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	byCategory := decodeBody[[]Drug](t, resp)
	require.Len(t, byCategory, 2)
	for _, d := range byCategory {
		assert.Equal(t, 2, d.Category)
	}

	resp, err = http.Get(ts.URL + "/nutritions/drugs/?search=warf")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	matches := decodeBody[[]Drug](t, resp)
	require.Len(t, matches, 1)
	assert.Equal(t, "Warfarin", matches[0].Name)

	resp, err = http.Get(ts.URL + "/nutritions/drug-details/5")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decodeBody[Drug](t, resp)
	assert.Equal(t, "Metformin", detail.Name)

	resp, err = http.Get(ts.URL + "/nutritions/drug-details/999")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEquationsListed(t *testing.T) {
	_, ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nutritions/equations/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	eqs := decodeBody[[]Equation](t, resp)
	assert.NotEmpty(t, eqs)
}
