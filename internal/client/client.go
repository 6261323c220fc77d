package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/api"
)

// DefaultBaseURL is the development loopback. Deployments override it through
// configuration; there is no single production host baked in.
const DefaultBaseURL = "http://localhost:8080"

// Opts configures a Client.
type Opts struct {
	// BaseURL is the backend root, without the /api suffix.
	BaseURL string

	// Store supplies and receives tokens. May be nil for a client that only
	// calls public endpoints.
	Store TokenStore

	// Debug turns on resty's request/response dumping.
	Debug bool
}

// Client is the typed HTTP client for the Barangay360 backend. All
// authenticated calls go through the auth transport, so a 401 is transparently
// refreshed and replayed once before it surfaces to the caller.
type Client struct {
	httpClient     *resty.Client
	baseURL        string
	store          TokenStore
	installationID string
	validate       *validator.Validate
}

// New creates a Client. One Client corresponds to one logical session; share
// it by reference instead of constructing several against the same store.
func New(opts Opts) *Client {
	c := &Client{
		baseURL:        DefaultBaseURL,
		store:          opts.Store,
		installationID: uuid.NewString(),
		validate:       validator.New(),
	}
	if opts.BaseURL != "" {
		c.baseURL = strings.TrimRight(opts.BaseURL, "/")
	}

	c.httpClient = resty.New().
		SetDebug(opts.Debug).
		SetBaseURL(c.baseURL).
		SetTransport(newAuthTransport(opts.Store, http.DefaultTransport, c.baseURL+RefreshPath)).
		SetHeaders(map[string]string{
			"Accept":      "application/json",
			"User-Agent":  "Barangay360-Go/1.0",
			"X-Client-Id": c.installationID,
		})

	return c
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// InstallationID returns the per-client installation identifier sent with
// every request.
func (c *Client) InstallationID() string {
	return c.installationID
}

func (c *Client) req(ctx context.Context, result any) *resty.Request {
	request := c.httpClient.NewRequest().SetContext(ctx)
	if result != nil {
		request.SetResult(result)
	}
	return request
}

// handleError is a generic error handler for failing responses (>399 status
// code). Without this, failing responses would have nil error.
func handleError(res *resty.Response, err error) error {
	if err != nil {
		if res == nil || res.Request == nil {
			return err
		}
		return fmt.Errorf("%s %s: %w", res.Request.Method, res.Request.URL, err)
	}
	if res.IsError() {
		return &APIError{StatusCode: res.StatusCode(), Message: serverMessage(res.Body())}
	}
	return nil
}

// SignIn exchanges credentials for a token pair and the user's profile. It
// does not touch the token store; that is the session manager's job.
func (c *Client) SignIn(ctx context.Context, in api.SignInRequest) (*api.SignInResponse, error) {
	if err := c.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid sign-in request: %w", err)
	}
	result := &api.SignInResponse{}
	err := handleError(c.req(ctx, result).
		SetBody(in).
		Post("/api/auth/signin"))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SignUp registers a new resident account.
func (c *Client) SignUp(ctx context.Context, in api.SignUpRequest) (*api.MessageResponse, error) {
	if err := c.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid sign-up request: %w", err)
	}
	result := &api.MessageResponse{}
	err := handleError(c.req(ctx, result).
		SetBody(in).
		Post("/api/auth/signup"))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RefreshToken trades a refresh token for a new pair. The auth transport
// calls the same endpoint internally; this method exists for callers that
// manage tokens themselves.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*api.RefreshTokenResponse, error) {
	result := &api.RefreshTokenResponse{}
	err := handleError(c.req(ctx, result).
		SetBody(api.RefreshTokenRequest{RefreshToken: refreshToken}).
		Post(RefreshPath))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConfirmQRLogin approves a pending QR login session. The response carries a
// fresh token pair for the session being established.
func (c *Client) ConfirmQRLogin(ctx context.Context, sessionID string) (*api.SignInResponse, error) {
	result := &api.SignInResponse{}
	err := handleError(c.req(ctx, result).
		SetQueryParam("sessionId", sessionID).
		Post("/api/auth/qr/confirm"))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetUser fetches a resident profile.
func (c *Client) GetUser(ctx context.Context, id int64) (api.UserProfile, error) {
	result := &api.UserProfile{}
	err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{
			"id": fmt.Sprintf("%d", id),
		}).
		Get("/api/users/{id}"))
	return *result, err
}

// UpdateUser applies a partial profile update and returns the updated profile.
func (c *Client) UpdateUser(ctx context.Context, id int64, in api.UpdateUserRequest) (api.UserProfile, error) {
	if err := c.validate.Struct(in); err != nil {
		return api.UserProfile{}, fmt.Errorf("invalid profile update: %w", err)
	}
	result := &api.UserProfile{}
	err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{
			"id": fmt.Sprintf("%d", id),
		}).
		SetBody(in).
		Put("/api/users/{id}"))
	return *result, err
}

// CreateServiceRequest submits a new bureaucratic service request.
func (c *Client) CreateServiceRequest(ctx context.Context, in api.NewServiceRequest) (*api.ServiceRequest, error) {
	if err := c.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid service request: %w", err)
	}
	result := &api.ServiceRequest{}
	err := handleError(c.req(ctx, result).
		SetBody(in).
		Post("/api/service-requests"))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListServiceRequests returns the given user's service requests.
func (c *Client) ListServiceRequests(ctx context.Context, userID int64) ([]api.ServiceRequest, error) {
	result := &[]api.ServiceRequest{}
	err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{
			"userId": fmt.Sprintf("%d", userID),
		}).
		Get("/api/service-requests/user/{userId}"))
	return *result, err
}

// ListEvents returns the barangay event calendar.
func (c *Client) ListEvents(ctx context.Context) ([]api.Event, error) {
	result := &[]api.Event{}
	err := handleError(c.req(ctx, result).
		Get("/api/events"))
	return *result, err
}

// ListAnnouncements returns official announcements, newest first.
func (c *Client) ListAnnouncements(ctx context.Context) ([]api.Announcement, error) {
	result := &[]api.Announcement{}
	err := handleError(c.req(ctx, result).
		Get("/api/announcements"))
	return *result, err
}

// ListForumPosts returns one page of forum posts. Pages are zero-based.
func (c *Client) ListForumPosts(ctx context.Context, page, size int) (*api.Page[api.ForumPost], error) {
	result := &api.Page[api.ForumPost]{}
	err := handleError(c.req(ctx, result).
		SetQueryParams(map[string]string{
			"page": fmt.Sprintf("%d", page),
			"size": fmt.Sprintf("%d", size),
		}).
		Get("/api/forum/posts"))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListComments returns the comments of a forum post.
func (c *Client) ListComments(ctx context.Context, postID int64) ([]api.Comment, error) {
	result := &[]api.Comment{}
	err := handleError(c.req(ctx, result).
		SetPathParams(map[string]string{
			"postId": fmt.Sprintf("%d", postID),
		}).
		Get("/api/forum/posts/{postId}/comments"))
	return *result, err
}
