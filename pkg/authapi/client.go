package authapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/trailquest/trailquest-go/pkg/httputil"
)

// ErrCredentialRejected means the renewal endpoint refused the refresh
// credential itself. This is terminal: the session cannot be renewed and the
// user has to log in again.
var ErrCredentialRejected = errors.New("refresh credential rejected")

const defaultTimeout = 15 * time.Second

// Client talks to the TrailQuest auth service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an auth service client. httpClient may be nil; note that
// it must NOT be a gateway-equipped client, auth endpoints manage their own
// credentials.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Login exchanges user credentials for a session. Failures come back as
// *httputil.APIError with the server's message intact.
func (c *Client) Login(ctx context.Context, reqBody LoginRequest) (*LoginResponse, error) {
	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, c.baseURL+"/auth/login", reqBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	var out LoginResponse
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		return nil, err
	}
	if out.User == nil || out.AccessCredential == "" || out.RefreshCredential == "" {
		return nil, fmt.Errorf("login response missing session fields")
	}
	return &out, nil
}

// Register creates an account. It grants no session; the caller logs in
// separately afterwards.
func (c *Client) Register(ctx context.Context, reqBody RegisterRequest) (*Account, error) {
	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, c.baseURL+"/auth/register", reqBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}

	var out Account
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges the refresh credential for a fresh access credential.
// A 401 or 403 maps to ErrCredentialRejected; anything else is a transport
// or server error and may be transient.
func (c *Client) Refresh(ctx context.Context, reqBody RefreshRequest) (*RefreshResponse, error) {
	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, c.baseURL+"/auth/refresh", reqBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}

	var out RefreshResponse
	if err := httputil.DecodeResponse(resp, &out); err != nil {
		var apiErr *httputil.APIError
		if errors.As(err, &apiErr) &&
			(apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: %s", ErrCredentialRejected, apiErr.Message)
		}
		return nil, err
	}
	if out.AccessCredential == "" {
		return nil, fmt.Errorf("refresh response missing access credential")
	}
	return &out, nil
}

// Logout invalidates the session server-side. Callers treat failures as
// best-effort; the local session is cleared regardless.
func (c *Client) Logout(ctx context.Context, accessCredential string) error {
	req, err := httputil.NewJSONRequest(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessCredential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return httputil.DecodeResponse(resp, nil)
}
