package session

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/client"
)

func newManager(t *testing.T, handler http.Handler) (*Manager, *MemoryStore) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	store := NewMemoryStore()
	c := client.New(client.Opts{BaseURL: ts.URL, Store: store})
	return NewManager(c, store), store
}

func TestLoginPopulatesStore(t *testing.T) {
	var body []byte
	manager, store := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 42,
			"username": "juan",
			"firstName": "Juan",
			"lastName": "Dela Cruz",
			"email": "juan@example.com",
			"roles": ["ROLE_RESIDENT"],
			"token": "acc",
			"refreshToken": "ref",
			"expiresAt": "2030-01-01T00:00:00Z"
		}`))
	}))

	user, err := manager.Login(context.Background(), "juan", "secret")
	require.Nil(t, err)
	assert.Contains(t, string(body), `"password":"secret"`)
	assert.Equal(t, "Juan", user.FirstName)

	access, ok := store.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "acc", access.Value)
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), access.ExpiresAt.UTC())

	refresh, ok := store.RefreshToken()
	require.True(t, ok)
	assert.Equal(t, "ref", refresh.Value)

	stored, ok := store.User()
	require.True(t, ok)
	assert.Equal(t, "juan", stored.Username)

	assert.True(t, manager.IsAuthenticated())
	assert.True(t, manager.HasRole("ROLE_RESIDENT"))
	assert.False(t, manager.HasRole("ROLE_OFFICIAL"))
}

func TestLoginFailureLeavesStoreEmpty(t *testing.T) {
	manager, store := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Bad credentials"}`))
	}))

	_, err := manager.Login(context.Background(), "juan", "wrong")
	require.NotNil(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad credentials", apiErr.Message)

	assert.False(t, store.IsLoggedIn())
	assert.False(t, manager.IsAuthenticated())
}

func TestLoginMissingTokenFailsLoudly(t *testing.T) {
	manager, store := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42, "username": "juan"}`))
	}))

	_, err := manager.Login(context.Background(), "juan", "secret")
	assert.NotNil(t, err)
	assert.False(t, store.IsLoggedIn())
}

func TestLogoutClearsEverything(t *testing.T) {
	manager, store := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42, "username": "juan", "roles": ["ROLE_RESIDENT"], "token": "acc", "refreshToken": "ref"}`))
	}))

	_, err := manager.Login(context.Background(), "juan", "secret")
	require.Nil(t, err)
	require.True(t, manager.IsAuthenticated())

	require.Nil(t, manager.Logout())

	assert.False(t, manager.IsAuthenticated())
	assert.False(t, store.IsLoggedIn())
	assert.False(t, manager.HasRole("ROLE_RESIDENT"))

	current := manager.CurrentUser()
	assert.Equal(t, int64(0), current.ID)
	assert.Empty(t, current.Roles)
	assert.True(t, current.IsActive(), "active defaults true when absent")
}

func TestConfirmQRLoginRequiresSession(t *testing.T) {
	manager, _ := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a session")
	}))

	_, err := manager.ConfirmQRLogin(context.Background(), "qr-1")
	assert.True(t, errors.Is(err, client.ErrSessionExpired))
}

func TestConfirmQRLoginStoresNewPair(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42, "username": "juan", "roles": ["ROLE_RESIDENT"], "token": "first-acc", "refreshToken": "first-ref"}`))
	})
	mux.HandleFunc("/api/auth/qr/confirm", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "qr-1", r.URL.Query().Get("sessionId"))
		assert.Equal(t, "Bearer first-acc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42, "username": "juan", "roles": ["ROLE_RESIDENT"], "token": "second-acc", "refreshToken": "second-ref"}`))
	})
	manager, store := newManager(t, mux)

	_, err := manager.Login(context.Background(), "juan", "secret")
	require.Nil(t, err)

	_, err = manager.ConfirmQRLogin(context.Background(), "qr-1")
	require.Nil(t, err)

	access, ok := store.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "second-acc", access.Value)
}

func TestCurrentUserDefaults(t *testing.T) {
	manager := NewManager(nil, NewMemoryStore())

	user := manager.CurrentUser()
	assert.NotNil(t, user.Roles)
	assert.Empty(t, user.Roles)
	assert.True(t, user.IsActive())
}
