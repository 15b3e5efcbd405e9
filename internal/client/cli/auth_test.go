package cli

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/andrejsk/kvits/internal/client/remote"
	"github.com/andrejsk/kvits/internal/client/repositories/settings"
	"github.com/andrejsk/kvits/internal/client/session"
	"github.com/andrejsk/kvits/internal/client/storage"
	"github.com/andrejsk/kvits/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func signedToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// unreachable endpoint: the probe fails fast and no background sync starts.
func newAuthTestApp(t *testing.T) *App {
	t.Helper()
	repos, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	return &App{
		repos:  repos,
		remote: remote.NewHTTPStore("http://127.0.0.1:1", 100*time.Millisecond),
	}
}

func stubSecret(t *testing.T, secret []byte) {
	t.Helper()
	orig := getSecret
	getSecret = func(_ io.Writer, _ string) ([]byte, error) {
		out := make([]byte, len(secret))
		copy(out, secret)
		return out, nil
	}
	t.Cleanup(func() { getSecret = orig })
}

func TestLogin_CachesTokenAndSetsSession(t *testing.T) {
	app := newAuthTestApp(t)
	token := signedToken(t, "user-9", time.Now().Add(time.Hour))
	stubSecret(t, []byte(token))

	require.NoError(t, app.Login(context.Background()))

	assert.Equal(t, "user-9", app.sess.UserID)
	assert.True(t, app.sess.Authenticated())
	assert.Equal(t, ModeOffline, app.Mode)

	cached, err := app.repos.Settings.Get(context.Background(), settings.KeySessionToken)
	require.NoError(t, err)
	assert.Equal(t, token, cached)
}

func TestLogin_RejectsGarbageToken(t *testing.T) {
	app := newAuthTestApp(t)
	stubSecret(t, []byte("not-a-jwt"))

	err := app.Login(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	assert.False(t, app.sess.Authenticated())
}

func TestLogin_RejectsExpiredToken(t *testing.T) {
	app := newAuthTestApp(t)
	stubSecret(t, []byte(signedToken(t, "user-9", time.Now().Add(-time.Hour))))

	err := app.Login(context.Background())
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestLogout_ClearsSessionAndCache(t *testing.T) {
	app := newAuthTestApp(t)
	token := signedToken(t, "user-9", time.Now().Add(time.Hour))
	stubSecret(t, []byte(token))
	require.NoError(t, app.Login(context.Background()))

	require.NoError(t, app.Logout(context.Background()))
	assert.False(t, app.sess.Authenticated())

	cached, err := app.repos.Settings.Get(context.Background(), settings.KeySessionToken)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestRestoreSession_FromCachedToken(t *testing.T) {
	app := newAuthTestApp(t)
	ctx := context.Background()
	token := signedToken(t, "user-9", time.Now().Add(time.Hour))
	require.NoError(t, app.repos.Settings.Set(ctx, settings.KeySessionToken, token))
	require.NoError(t, app.repos.Settings.Set(ctx, settings.KeyAutoSync, "0"))

	require.NoError(t, app.restoreSession(ctx))

	assert.Equal(t, "user-9", app.sess.UserID)
	assert.False(t, app.sess.AutoSync)
}

func TestRestoreSession_ClearsExpiredToken(t *testing.T) {
	app := newAuthTestApp(t)
	ctx := context.Background()
	expired := signedToken(t, "user-9", time.Now().Add(-time.Hour))
	require.NoError(t, app.repos.Settings.Set(ctx, settings.KeySessionToken, expired))

	err := app.restoreSession(ctx)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
	assert.Equal(t, session.Session{}, app.sess)

	cached, err := app.repos.Settings.Get(ctx, settings.KeySessionToken)
	require.NoError(t, err)
	assert.Empty(t, cached)
}
