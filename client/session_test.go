package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempSession(t *testing.T) *Session {
	t.Helper()
	session, err := LoadSession(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return session
}

func TestLoadSessionMissingFile(t *testing.T) {
	session := tempSession(t)
	assert.False(t, session.IsAuthenticated())

	decision := Authorize(session)
	assert.False(t, decision.Authorized)
	assert.Equal(t, LoginPath, decision.RedirectTo)
}

func TestSessionPersistsAcrossLoads(t *testing.T) {
	session := tempSession(t)
	user := &UserInfo{ID: "u-1", Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, session.SetCredentials("token-123", user))

	reloaded, err := LoadSession(session.path)
	require.NoError(t, err)
	assert.True(t, reloaded.IsAuthenticated())
	assert.Equal(t, "token-123", reloaded.Token)
	require.NotNil(t, reloaded.User)
	assert.Equal(t, "ada@example.com", reloaded.User.Email)

	decision := Authorize(reloaded)
	assert.True(t, decision.Authorized)
	assert.Empty(t, decision.RedirectTo)
}

func TestLogoutClearsTokenSlot(t *testing.T) {
	session := tempSession(t)
	require.NoError(t, session.SetCredentials("token-123", nil))

	require.NoError(t, session.Logout())
	assert.False(t, session.IsAuthenticated())

	_, err := os.Stat(session.path)
	assert.True(t, os.IsNotExist(err))

	// Logging out twice is fine.
	assert.NoError(t, session.Logout())
}
