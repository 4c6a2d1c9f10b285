package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	st := NewStore(path)

	_, err := st.Load()
	assert.ErrorIs(t, err, ErrNotSignedIn)

	sess := Session{
		Token:     "jwt-token",
		UserID:    "u1",
		Email:     "anna@example.com",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, st.Save(sess))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, sess, *loaded)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	require.NoError(t, st.Clear())
	_, err = st.Load()
	assert.ErrorIs(t, err, ErrNotSignedIn)

	// Clearing twice is fine.
	require.NoError(t, st.Clear())
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	st := NewStore(path)

	require.NoError(t, st.Save(Session{Token: "tok"}))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.Token)
}

func TestLoadEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":""}`), 0o600))

	_, err := NewStore(path).Load()
	assert.ErrorIs(t, err, ErrNotSignedIn)
}
