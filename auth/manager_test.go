package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricare/nutrikit/storage"
	"github.com/nutricare/nutrikit/storage/memory"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T) (*Manager, *memory.Store, *testClock) {
	t.Helper()
	clock := newTestClock()
	store := memory.NewStore(memory.WithClock(clock.Now))
	m := NewManager(store, WithClock(clock.Now), WithLogger(quietLogger()))
	return m, store, clock
}

func testUser() User {
	return User{
		Session: Session{
			UserID:    7,
			Email:     "dietitian@example.com",
			Username:  "dietitian",
			FirstName: "Dana",
			LastName:  "Osman",
			Role:      "admin",
		},
		Token:        "access-token-1",
		RefreshToken: "refresh-token-1",
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.SaveSession(testUser(), false))

	got := m.LoadSession()
	require.NotNil(t, got)
	assert.Equal(t, 7, got.UserID)
	assert.Equal(t, "dietitian@example.com", got.Email)
	assert.Equal(t, "dietitian", got.Username)
	assert.Equal(t, "Dana", got.FirstName)
	assert.Equal(t, "Osman", got.LastName)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, "access-token-1", got.Token)
	assert.NotZero(t, got.LastLoginTime)
	assert.True(t, m.IsAuthenticated())
}

func TestLoadSessionAbsent(t *testing.T) {
	m, _, _ := newTestManager(t)
	assert.Nil(t, m.LoadSession())
	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, Unauthenticated, m.State())
}

func TestRemoveSessionIdempotent(t *testing.T) {
	m, store, _ := newTestManager(t)
	require.NoError(t, m.SaveSession(testUser(), false))

	require.NoError(t, m.RemoveSession())
	assert.False(t, m.IsAuthenticated())
	assert.False(t, store.Exists())
	_, err := store.RefreshToken()
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Second removal leaves identical state.
	require.NoError(t, m.RemoveSession())
	assert.False(t, m.IsAuthenticated())
	assert.False(t, store.Exists())
	assert.Equal(t, "", m.Tokens().Get())
}

func TestNoDurableTokenLeakage(t *testing.T) {
	m, store, _ := newTestManager(t)
	user := testUser()
	require.NoError(t, m.SaveSession(user, true))

	raw := store.RawSession()
	require.NotEmpty(t, raw)
	assert.NotContains(t, string(raw), user.Token,
		"access token must never reach durable storage")

	// The refresh token lives only in its own write-only entry.
	assert.NotContains(t, string(raw), user.RefreshToken)
	rt, err := store.RefreshToken()
	require.NoError(t, err)
	assert.Equal(t, "refresh-token-1", rt)
}

func TestCorruptRecordSelfHeals(t *testing.T) {
	m, store, _ := newTestManager(t)
	require.NoError(t, store.SaveSession([]byte("{not json"), time.Hour))

	assert.Nil(t, m.LoadSession())
	assert.False(t, store.Exists(), "corrupt record must be cleared")
	assert.Equal(t, Unauthenticated, m.State())
}

func TestStateDerivation(t *testing.T) {
	m, _, clock := newTestManager(t)
	assert.Equal(t, Unauthenticated, m.State())

	require.NoError(t, m.SaveSession(testUser(), false))
	assert.Equal(t, Authenticated, m.State())

	// Token expires lazily; the record is still there.
	clock.Advance(2 * time.Hour)
	assert.Equal(t, PendingRefresh, m.State())
	assert.False(t, m.IsAuthenticated())

	require.NoError(t, m.RemoveSession())
	assert.Equal(t, Unauthenticated, m.State())
}

func TestLoadAfterTokenExpirySignalsRefresh(t *testing.T) {
	m, _, clock := newTestManager(t)
	require.NoError(t, m.SaveSession(testUser(), false))

	clock.Advance(2 * time.Hour)
	got := m.LoadSession()
	require.NotNil(t, got)
	assert.Equal(t, "", got.Token, "expired token must not be returned")
	assert.Equal(t, "dietitian@example.com", got.Email)
}

// Remembered sessions survive long past the token: after 29 virtual days the
// profile still loads but the state is pending-refresh until a refresh
// succeeds.
func TestRememberedSessionOutlivesToken(t *testing.T) {
	m, _, clock := newTestManager(t)
	require.NoError(t, m.SaveSession(testUser(), true))

	clock.Advance(29 * 24 * time.Hour)
	got := m.LoadSession()
	require.NotNil(t, got)
	assert.Equal(t, "", got.Token)
	assert.Equal(t, PendingRefresh, m.State())
	assert.False(t, m.IsAuthenticated())

	// Past the 30-day max-age the record itself is gone.
	clock.Advance(2 * 24 * time.Hour)
	assert.Nil(t, m.LoadSession())
	assert.Equal(t, Unauthenticated, m.State())
}

func TestUnrememberedSessionExpiresInADay(t *testing.T) {
	m, _, clock := newTestManager(t)
	require.NoError(t, m.SaveSession(testUser(), false))

	clock.Advance(25 * time.Hour)
	assert.Nil(t, m.LoadSession())
}

type staticRefresher struct {
	token string
	calls int
}

func (r *staticRefresher) Refresh(ctx context.Context) string {
	r.calls++
	return r.token
}

func TestRestoreWithValidToken(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.SaveSession(testUser(), false))

	r := &staticRefresher{token: "unused"}
	got := m.Restore(context.Background(), r)
	require.NotNil(t, got)
	assert.Equal(t, "access-token-1", got.Token)
	assert.Zero(t, r.calls, "no refresh needed while the token is valid")
}

func TestRestoreRefreshesExpiredToken(t *testing.T) {
	m, _, clock := newTestManager(t)
	require.NoError(t, m.SaveSession(testUser(), false))
	clock.Advance(2 * time.Hour)

	got := m.Restore(context.Background(), &staticRefresher{token: "fresh-token"})
	require.NotNil(t, got)
	assert.Equal(t, "fresh-token", got.Token)
}

func TestRestoreClearsWhenRefreshFails(t *testing.T) {
	m, store, clock := newTestManager(t)
	require.NoError(t, m.SaveSession(testUser(), false))
	clock.Advance(2 * time.Hour)

	got := m.Restore(context.Background(), &staticRefresher{token: ""})
	assert.Nil(t, got)
	assert.False(t, store.Exists())
	assert.Equal(t, Unauthenticated, m.State())
}

func TestCurrentUserIsACopy(t *testing.T) {
	m, _, _ := newTestManager(t)
	require.NoError(t, m.SaveSession(testUser(), false))

	u := m.CurrentUser()
	require.NotNil(t, u)
	u.Email = "mutated@example.com"
	assert.Equal(t, "dietitian@example.com", m.CurrentUser().Email)
}
