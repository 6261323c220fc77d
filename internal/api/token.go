package api

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DefaultAccessTokenTTL is assumed when a token response carries no
	// access-token expiry at all.
	DefaultAccessTokenTTL = time.Hour

	// DefaultRefreshTokenTTL is assumed when a token response carries no
	// refresh-token expiry.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// Token is a bearer credential together with its expiry. The value is opaque
// to the client; only the server-supplied expiry is trusted.
type Token struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Present reports whether the token has a value.
func (t Token) Present() bool {
	return t.Value != ""
}

// Expired reports whether the token is unusable at the given instant. A token
// expiring exactly now counts as expired, and so does an absent token or one
// with no known expiry.
func (t Token) Expired(now time.Time) bool {
	if t.Value == "" || t.ExpiresAt.IsZero() {
		return true
	}
	return !now.Before(t.ExpiresAt)
}

// TokenPair is an access/refresh token couple as issued by sign-in, QR
// confirmation and token refresh.
type TokenPair struct {
	Access  Token `json:"access"`
	Refresh Token `json:"refresh"`
}

// Timestamp decodes a server-supplied instant that may arrive either as epoch
// milliseconds or as an RFC 3339 string. The backend is not consistent about
// which one it sends.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		t.Time = parsed
		return nil
	}
	var ms int64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", b, err)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UnixMilli())
}

// TokenEnvelope holds the raw token fields of an auth response. Older backend
// builds send expiryDate, newer ones expiresAt; both are accepted and
// normalized through Tokens.
type TokenEnvelope struct {
	Token             string     `json:"token"`
	RefreshToken      string     `json:"refreshToken"`
	ExpiryDate        *Timestamp `json:"expiryDate,omitempty"`
	ExpiresAt         *Timestamp `json:"expiresAt,omitempty"`
	RefreshExpiryDate *Timestamp `json:"refreshExpiryDate,omitempty"`
	RefreshExpiresAt  *Timestamp `json:"refreshExpiresAt,omitempty"`
}

// Tokens normalizes the envelope into a TokenPair, applying the default TTLs
// relative to now when the server supplied no expiry.
func (e TokenEnvelope) Tokens(now time.Time) TokenPair {
	pair := TokenPair{
		Access:  Token{Value: e.Token, ExpiresAt: now.Add(DefaultAccessTokenTTL)},
		Refresh: Token{Value: e.RefreshToken, ExpiresAt: now.Add(DefaultRefreshTokenTTL)},
	}
	if e.ExpiryDate != nil {
		pair.Access.ExpiresAt = e.ExpiryDate.Time
	} else if e.ExpiresAt != nil {
		pair.Access.ExpiresAt = e.ExpiresAt.Time
	}
	if e.RefreshExpiryDate != nil {
		pair.Refresh.ExpiresAt = e.RefreshExpiryDate.Time
	} else if e.RefreshExpiresAt != nil {
		pair.Refresh.ExpiresAt = e.RefreshExpiresAt.Time
	}
	return pair
}
