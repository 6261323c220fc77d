package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/api"
)

const (
	// RefreshPath is the token refresh endpoint. A 401 from this path never
	// triggers another refresh.
	RefreshPath = "/api/auth/refreshtoken"

	// retryHeader marks a request as the one-shot replay after a refresh.
	// Its presence stops any further refresh cycles for that request.
	retryHeader = "X-Auth-Retried"
)

// TokenStore is the slice of the credential store the transport needs: read
// the current tokens, persist a refreshed pair. Reads that fail at the
// storage layer report the token as absent.
type TokenStore interface {
	AccessToken() (api.Token, bool)
	RefreshToken() (api.Token, bool)
	SaveTokens(pair api.TokenPair) error
}

// authTransport attaches the bearer token to outgoing requests and, on a 401,
// exchanges the refresh token for a new pair and replays the request exactly
// once. Concurrent 401s collapse into a single refresh call.
type authTransport struct {
	base       http.RoundTripper
	store      TokenStore
	refreshURL string
	group      singleflight.Group
	now        func() time.Time
}

func newAuthTransport(store TokenStore, base http.RoundTripper, refreshURL string) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &authTransport{
		base:       base,
		store:      store,
		refreshURL: refreshURL,
		now:        time.Now,
	}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.store == nil {
		return t.base.RoundTrip(req)
	}

	out := req
	if tok, ok := t.store.AccessToken(); ok && tok.Present() {
		out = req.Clone(req.Context())
		out.Header.Set("Authorization", "Bearer "+tok.Value)
	}

	res, err := t.base.RoundTrip(out)
	if err != nil || res.StatusCode != http.StatusUnauthorized {
		return res, err
	}

	// A failing refresh call or an already-replayed request gets its 401
	// back untouched. This is what keeps refresh cycles from looping.
	if req.URL.Path == RefreshPath || req.Header.Get(retryHeader) != "" {
		return res, nil
	}

	// A streaming body can't be rebuilt for the replay.
	if req.Body != nil && req.GetBody == nil {
		return res, nil
	}

	access, refreshErr := t.refresh(req)
	if refreshErr != nil {
		log.Debug().Err(refreshErr).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Msg("token refresh failed, propagating 401")
		return res, nil
	}

	io.Copy(io.Discard, res.Body)
	res.Body.Close()

	retry := req.Clone(req.Context())
	retry.Header.Set("Authorization", "Bearer "+access.Value)
	retry.Header.Set(retryHeader, "1")
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rebuilding request body for retry: %w", err)
		}
		retry.Body = body
	}

	return t.base.RoundTrip(retry)
}

// refresh exchanges the stored refresh token for a new token pair and
// persists it. Waiters arriving while a refresh is in flight share its
// outcome instead of issuing their own call.
func (t *authTransport) refresh(req *http.Request) (api.Token, error) {
	v, err, _ := t.group.Do("refresh", func() (any, error) {
		now := t.now()

		rt, ok := t.store.RefreshToken()
		if !ok || rt.Expired(now) {
			return nil, fmt.Errorf("refresh token absent or expired: %w", ErrSessionExpired)
		}

		body, err := json.Marshal(api.RefreshTokenRequest{RefreshToken: rt.Value})
		if err != nil {
			return nil, err
		}

		refreshReq, err := http.NewRequestWithContext(req.Context(), http.MethodPost, t.refreshURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("building refresh request: %w", err)
		}
		refreshReq.Header.Set("Content-Type", "application/json")
		refreshReq.Header.Set("Accept", "application/json")

		res, err := t.base.RoundTrip(refreshReq)
		if err != nil {
			return nil, fmt.Errorf("refresh request failed: %w", err)
		}
		defer res.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
		if err != nil {
			return nil, fmt.Errorf("reading refresh response: %w", err)
		}
		if res.StatusCode < 200 || res.StatusCode > 299 {
			return nil, &APIError{StatusCode: res.StatusCode, Message: serverMessage(raw)}
		}

		var out api.RefreshTokenResponse
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("parsing refresh response: %w", err)
		}

		pair := out.Tokens(now)
		if !pair.Access.Present() {
			return nil, fmt.Errorf("refresh response carried no access token")
		}
		// Persist only after the full pair is known; a cancelled or failed
		// refresh must never leave a partial write behind.
		if err := t.store.SaveTokens(pair); err != nil {
			return nil, fmt.Errorf("persisting refreshed tokens: %w", err)
		}

		log.Debug().Time("accessExpiry", pair.Access.ExpiresAt).Msg("token pair refreshed")
		return pair.Access, nil
	})
	if err != nil {
		return api.Token{}, err
	}
	return v.(api.Token), nil
}
