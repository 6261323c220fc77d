package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/api"
)

// ErrSessionExpired marks terminal authentication failures: the access token
// was rejected and could not be refreshed. The only recovery is a new login.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx response from the backend, carrying the server's own
// message when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.StatusCode)
}

// Is lets callers classify terminal 401s with errors.Is(err, ErrSessionExpired)
// while still seeing the server message.
func (e *APIError) Is(target error) bool {
	return target == ErrSessionExpired && e.StatusCode == http.StatusUnauthorized
}

// IsTransient reports whether err is a network-level failure where no response
// was received, as opposed to a response the server deliberately sent. Such
// errors are safe to retry; they never indicate a bad token.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// serverMessage pulls the `message` field out of an error body, if any.
func serverMessage(body []byte) string {
	var m api.MessageResponse
	if err := json.Unmarshal(body, &m); err != nil {
		return ""
	}
	return m.Message
}
