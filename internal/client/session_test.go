package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionFile_Roundtrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := OpenSessionFile(path)
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())

	require.NoError(t, s.Set("tok-1", "a@x.com"))
	assert.True(t, s.LoggedIn())
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "a@x.com", s.UserEmail())

	// A fresh open reads the persisted state: the session survives restarts.
	reopened, err := OpenSessionFile(path)
	require.NoError(t, err)
	assert.True(t, reopened.LoggedIn())
	assert.Equal(t, "tok-1", reopened.Token())
	assert.Equal(t, "a@x.com", reopened.UserEmail())
}

func TestSessionFile_StorageKeys(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := OpenSessionFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("tok-1", "a@x.com"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"tok-1","userEmail":"a@x.com"}`, string(data))
}

func TestSessionFile_Clear(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")

	s, err := OpenSessionFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("tok-1", "a@x.com"))

	require.NoError(t, s.Clear())
	assert.False(t, s.LoggedIn())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing an already-empty session is a no-op.
	require.NoError(t, s.Clear())
}

func TestSessionFile_CorruptFileIsLoggedOut(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := OpenSessionFile(path)
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
}
