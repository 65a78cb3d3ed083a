package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/internal/cache"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	c, err := cache.New(t.TempDir() + "/cache.db")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	a, err := New(c, "admin", "correct-password")
	require.NoError(t, err)
	return a
}

func TestLoginWithCorrectCredentialsIssuesSession(t *testing.T) {
	a := newTestAuthenticator(t)

	session, err := a.Login("admin", "correct-password")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	checked, err := a.Check(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Token, checked.Token)
}

func TestLoginWithWrongPasswordRejected(t *testing.T) {
	a := newTestAuthenticator(t)

	_, err := a.Login("admin", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWithWrongUsernameRejected(t *testing.T) {
	a := newTestAuthenticator(t)

	_, err := a.Login("nobody", "correct-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	a := newTestAuthenticator(t)

	session, err := a.Login("admin", "correct-password")
	require.NoError(t, err)

	require.NoError(t, a.Logout(session.Token))

	_, err = a.Check(session.Token)
	assert.Error(t, err)
}
