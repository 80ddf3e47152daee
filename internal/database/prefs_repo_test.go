package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) {
	t.Helper()
	require.NoError(t, Open(Config{Path: filepath.Join(t.TempDir(), "test.db")}))
	t.Cleanup(func() { Close() })
}

func TestPrefsRepoRoundTrip(t *testing.T) {
	setupDB(t)
	repo := NewPrefsRepo()

	_, err := repo.Get("missing")
	assert.ErrorIs(t, err, ErrPrefNotFound)

	require.NoError(t, repo.Set("greeting", "hello"))
	value, err := repo.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)

	// Overwrite
	require.NoError(t, repo.Set("greeting", "bonjour"))
	value, err = repo.Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, "bonjour", value)
}

func TestPrefsRepoBool(t *testing.T) {
	setupDB(t)
	repo := NewPrefsRepo()

	assert.False(t, repo.GetBool("flag"), "missing flag defaults to false")

	require.NoError(t, repo.SetBool("flag", true))
	assert.True(t, repo.GetBool("flag"))

	require.NoError(t, repo.SetBool("flag", false))
	assert.False(t, repo.GetBool("flag"))

	// Unparsable values default to false
	require.NoError(t, repo.Set("flag", "whatever"))
	assert.False(t, repo.GetBool("flag"))
}

func TestPrefsRepoTime(t *testing.T) {
	setupDB(t)
	repo := NewPrefsRepo()

	assert.Nil(t, repo.GetTime("when"))

	when := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, repo.SetTime("when", when))
	got := repo.GetTime("when")
	require.NotNil(t, got)
	assert.True(t, got.Equal(when))

	// Corrupt values yield nil, not an error
	require.NoError(t, repo.Set("when", "not a timestamp"))
	assert.Nil(t, repo.GetTime("when"))
}

func TestPrefsRepoDelete(t *testing.T) {
	setupDB(t)
	repo := NewPrefsRepo()

	require.NoError(t, repo.Set("key", "value"))
	require.NoError(t, repo.Delete("key"))
	_, err := repo.Get("key")
	assert.ErrorIs(t, err, ErrPrefNotFound)

	// Deleting a missing key is a no-op
	require.NoError(t, repo.Delete("key"))
}

func TestPrefsNamespacesAreIndependent(t *testing.T) {
	setupDB(t)
	prefs := NewPrefsRepo()
	shared := NewSharedPrefsRepo()

	require.NoError(t, prefs.Set("key", "primary"))
	require.NoError(t, shared.Set("key", "shared"))

	value, err := prefs.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "primary", value)

	value, err = shared.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "shared", value)

	all, err := prefs.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"key": "primary"}, all)
}

func TestDeviceRepo(t *testing.T) {
	setupDB(t)
	repo := NewDeviceRepo()

	token, device, err := repo.Create("watch")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "watch", device.Name)
	assert.NotEqual(t, token, device.TokenHash, "plain token must not be stored")

	found, err := repo.GetByToken(token)
	require.NoError(t, err)
	assert.Equal(t, device.ID, found.ID)
	assert.Nil(t, found.LastSyncAt)

	_, err = repo.GetByToken("bogus")
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	require.NoError(t, repo.TouchLastSync(device.ID))
	found, err = repo.GetByToken(token)
	require.NoError(t, err)
	assert.NotNil(t, found.LastSyncAt)

	require.NoError(t, repo.Delete(device.ID))
	_, err = repo.GetByToken(token)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestAuditRepo(t *testing.T) {
	setupDB(t)
	repo := NewAuditRepo()

	require.NoError(t, repo.Log("consent.accepted", nil))
	require.NoError(t, repo.Log("data.exported", map[string]interface{}{"keys": 4}))

	entries, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "data.exported", entries[0].Action)
	assert.Equal(t, "consent.accepted", entries[1].Action)
	assert.Contains(t, entries[0].Details, `"keys":4`)
}
