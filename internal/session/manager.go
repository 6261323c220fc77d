package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/api"
	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/client"
)

// Manager is the session facade: login, logout and the handful of identity
// questions the rest of the app asks. It is constructed explicitly and passed
// by reference; there is no package-level instance.
type Manager struct {
	client *client.Client
	store  Store
	now    func() time.Time
}

// NewManager creates a Manager on top of the given client and store. The
// store should be the same one the client's transport uses, or refreshed
// tokens will land somewhere the manager never looks.
func NewManager(c *client.Client, s Store) *Manager {
	return &Manager{
		client: c,
		store:  s,
		now:    time.Now,
	}
}

// Login signs in and populates the store with the token pair and profile from
// the response. On failure the store is left untouched.
func (m *Manager) Login(ctx context.Context, username, password string) (api.UserProfile, error) {
	res, err := m.client.SignIn(ctx, api.SignInRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return api.UserProfile{}, err
	}

	if err := m.adopt(res); err != nil {
		return api.UserProfile{}, err
	}

	log.Info().Int64("userId", res.UserProfile.ID).Str("username", username).Msg("signed in")
	return res.UserProfile, nil
}

// ConfirmQRLogin approves a pending QR login. The confirming device must
// already hold a session; the token pair in the response belongs to the
// session being established and replaces the stored one.
func (m *Manager) ConfirmQRLogin(ctx context.Context, sessionID string) (api.UserProfile, error) {
	if !m.store.IsLoggedIn() {
		return api.UserProfile{}, fmt.Errorf("confirming device holds no session: %w", client.ErrSessionExpired)
	}

	res, err := m.client.ConfirmQRLogin(ctx, sessionID)
	if err != nil {
		return api.UserProfile{}, err
	}

	if err := m.adopt(res); err != nil {
		return api.UserProfile{}, err
	}

	log.Info().Str("sessionId", sessionID).Msg("qr login confirmed")
	return res.UserProfile, nil
}

// adopt persists the tokens and profile of a sign-in shaped response.
func (m *Manager) adopt(res *api.SignInResponse) error {
	pair := res.Tokens(m.now())
	if !pair.Access.Present() {
		return fmt.Errorf("response carried no access token")
	}
	if err := m.store.SaveTokens(pair); err != nil {
		return fmt.Errorf("persisting tokens: %w", err)
	}
	if err := m.store.SaveUser(res.UserProfile); err != nil {
		return fmt.Errorf("persisting profile: %w", err)
	}
	return nil
}

// Logout clears the local session. Bearer tokens are stateless, so there is
// no server call to make.
func (m *Manager) Logout() error {
	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	log.Info().Msg("signed out")
	return nil
}

// IsAuthenticated reports whether a session is present. An expired access
// token still counts: the refresh path deals with expiry.
func (m *Manager) IsAuthenticated() bool {
	return m.store.IsLoggedIn()
}

// HasRole checks the stored profile for a role. Absent profile means no roles.
func (m *Manager) HasRole(role string) bool {
	u, ok := m.store.User()
	return ok && u.HasRole(role)
}

// CurrentUser returns the stored profile. When no profile is stored the zero
// profile is returned with an empty role set and the active default applied
// through UserProfile.IsActive.
func (m *Manager) CurrentUser() api.UserProfile {
	u, ok := m.store.User()
	if !ok {
		return api.UserProfile{Roles: []string{}}
	}
	if u.Roles == nil {
		u.Roles = []string{}
	}
	return u
}
