package identitysdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the identity service. It covers the unauthenticated
// endpoints and creates Sessions for the rest.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client for baseURL with a 10 second timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Register creates an account and returns its first token pair.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return c.authCall(ctx, "/api/auth/register", req, http.StatusCreated)
}

// Login exchanges a username or email and password for a token pair.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*AuthResponse, error) {
	return c.authCall(ctx, "/api/auth/login", LoginRequest{
		UsernameOrEmail: usernameOrEmail,
		Password:        password,
	}, http.StatusOK)
}

// Refresh rotates refreshToken. The presented value is spent whether or not
// the caller keeps the returned pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	return c.authCall(ctx, "/api/auth/refresh", RefreshRequest{RefreshToken: refreshToken}, http.StatusOK)
}

// Logout revokes refreshToken and ends its session.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", RefreshRequest{RefreshToken: refreshToken}, "")
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// AuthenticateWithPassword logs in and wraps the result in a Session.
func (c *Client) AuthenticateWithPassword(ctx context.Context, usernameOrEmail, password string) (*Session, error) {
	auth, err := c.Login(ctx, usernameOrEmail, password)
	if err != nil {
		return nil, err
	}
	return c.NewSession(auth), nil
}

// CheckUsername reports whether username is free to register.
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	return c.availability(ctx, "/api/auth/check-username?username="+url.QueryEscape(username))
}

// CheckEmail reports whether email is free to register.
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	return c.availability(ctx, "/api/auth/check-email?email="+url.QueryEscape(email))
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) authCall(ctx context.Context, path string, body any, expected int) (*AuthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, body, "")
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := decodeJSON(resp, &out, expected); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) availability(ctx context.Context, path string) (bool, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return false, err
	}

	var out AvailabilityResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.Available, nil
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
