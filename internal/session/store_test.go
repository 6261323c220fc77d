package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/api"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := DeriveKey("test passphrase")
	require.Nil(t, err)
	return key
}

func testPair() api.TokenPair {
	return api.TokenPair{
		Access:  api.Token{Value: "acc", ExpiresAt: time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)},
		Refresh: api.Token{Value: "ref", ExpiresAt: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func TestSQLiteStoreTokenRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")
	key := testKey(t)

	store, err := NewSQLiteStore(dbPath, key)
	require.Nil(t, err)

	_, ok := store.AccessToken()
	assert.False(t, ok)
	assert.False(t, store.IsLoggedIn())

	require.Nil(t, store.SaveTokens(testPair()))

	access, ok := store.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "acc", access.Value)
	assert.Equal(t, testPair().Access.ExpiresAt, access.ExpiresAt)

	refresh, ok := store.RefreshToken()
	require.True(t, ok)
	assert.Equal(t, "ref", refresh.Value)

	assert.True(t, store.IsLoggedIn())
	require.Nil(t, store.Close())

	// Tokens survive a process restart.
	reopened, err := NewSQLiteStore(dbPath, key)
	require.Nil(t, err)
	defer reopened.Close()

	access, ok = reopened.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "acc", access.Value)
	assert.Equal(t, testPair().Access.ExpiresAt, access.ExpiresAt, "token and expiry persisted together")
}

func TestSQLiteStoreUserAndTokensIndependent(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"), testKey(t))
	require.Nil(t, err)
	defer store.Close()

	require.Nil(t, store.SaveTokens(testPair()))
	require.Nil(t, store.SaveUser(api.UserProfile{ID: 42, Username: "juan", Roles: []string{"ROLE_RESIDENT"}}))

	// Saving the profile did not disturb tokens, and vice versa.
	access, ok := store.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "acc", access.Value)

	newPair := testPair()
	newPair.Access.Value = "acc2"
	require.Nil(t, store.SaveTokens(newPair))

	user, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, "juan", user.Username)
}

func TestSQLiteStoreClear(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"), testKey(t))
	require.Nil(t, err)
	defer store.Close()

	require.Nil(t, store.SaveTokens(testPair()))
	require.Nil(t, store.SaveUser(api.UserProfile{ID: 42, Username: "juan"}))
	require.Nil(t, store.Clear())

	assert.False(t, store.IsLoggedIn())
	_, ok := store.AccessToken()
	assert.False(t, ok)
	_, ok = store.RefreshToken()
	assert.False(t, ok)
	_, ok = store.User()
	assert.False(t, ok)
}

func TestSQLiteStoreWrongKeyTreatedAsAbsent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	store, err := NewSQLiteStore(dbPath, testKey(t))
	require.Nil(t, err)
	require.Nil(t, store.SaveTokens(testPair()))
	require.Nil(t, store.Close())

	otherKey, err := DeriveKey("different passphrase")
	require.Nil(t, err)

	// Undecryptable credentials must not crash; the session just looks absent.
	reopened, err := NewSQLiteStore(dbPath, otherKey)
	require.Nil(t, err)
	defer reopened.Close()

	_, ok := reopened.AccessToken()
	assert.False(t, ok)
	assert.False(t, reopened.IsLoggedIn())
}

func TestSQLiteStoreSeenAnnouncements(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"), testKey(t))
	require.Nil(t, err)
	defer store.Close()

	seen, err := store.IsAnnouncementSeen(7)
	require.Nil(t, err)
	assert.False(t, seen)

	require.Nil(t, store.MarkAnnouncementSeen(7))
	require.Nil(t, store.MarkAnnouncementSeen(7)) // idempotent

	seen, err = store.IsAnnouncementSeen(7)
	require.Nil(t, err)
	assert.True(t, seen)

	// Pruning with a negative max age drops everything marked so far.
	require.Nil(t, store.PruneSeenAnnouncements(-time.Second))
	seen, err = store.IsAnnouncementSeen(7)
	require.Nil(t, err)
	assert.False(t, seen)
}

func TestMemoryStoreImplementsStore(t *testing.T) {
	var _ Store = NewMemoryStore()

	store := NewMemoryStore()
	require.Nil(t, store.SaveTokens(testPair()))
	assert.True(t, store.IsLoggedIn())

	require.Nil(t, store.Clear())
	assert.False(t, store.IsLoggedIn())
	_, ok := store.User()
	assert.False(t, ok)
}
