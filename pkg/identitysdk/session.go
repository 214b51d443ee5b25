package identitysdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// expiryBuffer refreshes the access token this long before it lapses.
const expiryBuffer = 30 * time.Second

// Session is an authenticated client that rotates its refresh token
// transparently when the access token expires.
type Session struct {
	client *Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	user         UserResponse
}

// NewSession wraps a token envelope from Register, Login or Refresh.
func (c *Client) NewSession(auth *AuthResponse) *Session {
	s := &Session{client: c}
	s.apply(auth)
	return s
}

func (s *Session) apply(auth *AuthResponse) {
	s.accessToken = auth.AccessToken
	s.refreshToken = auth.RefreshToken
	s.expiresAt = time.Now().Add(time.Duration(auth.ExpiresIn)*time.Second - expiryBuffer)
	s.user = auth.User
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User returns the account summary from the latest token envelope.
func (s *Session) User() UserResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Refresh rotates the refresh token now, regardless of access token expiry.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	if s.refreshToken == "" {
		return errors.New("no refresh token available")
	}

	auth, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}
	s.apply(auth)
	return nil
}

// getValidToken returns a live access token, rotating first if it expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have rotated while we waited.
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}
	if err := s.refreshLocked(ctx); err != nil {
		return "", err
	}
	return s.accessToken, nil
}

func (s *Session) do(ctx context.Context, method, path string, body, target any, expected int) error {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return err
	}

	resp, err := s.client.doRequest(ctx, method, path, body, token)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expected)
}

// Me returns the account behind the session.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	var out UserResponse
	if err := s.do(ctx, http.MethodGet, "/api/auth/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes this session's refresh token. The session is unusable
// afterwards.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	refresh := s.refreshToken
	s.refreshToken = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	if refresh == "" {
		return errors.New("no refresh token to revoke")
	}
	return s.client.Logout(ctx, refresh)
}

// LogoutAll revokes every refresh token and session of the account,
// including this one.
func (s *Session) LogoutAll(ctx context.Context) error {
	if err := s.do(ctx, http.MethodPost, "/api/auth/logout-all", nil, nil, http.StatusOK); err != nil {
		return err
	}

	s.mu.Lock()
	s.refreshToken = ""
	s.mu.Unlock()
	return nil
}

// ChangePassword replaces the account password. The server signs out every
// device, so the session must log in again afterwards.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	return s.do(ctx, http.MethodPost, "/api/auth/change-password", ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}, nil, http.StatusOK)
}

// ListSessions returns the account's active device logins.
func (s *Session) ListSessions(ctx context.Context) ([]SessionResponse, error) {
	var out SessionListResponse
	if err := s.do(ctx, http.MethodGet, "/api/auth/sessions", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// RevokeSession ends one of the account's sessions by id.
func (s *Session) RevokeSession(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/auth/sessions/"+url.PathEscape(id), nil, nil, http.StatusOK)
}

// SetAccountStatus changes another account's flags. Requires ROLE_ADMIN.
func (s *Session) SetAccountStatus(ctx context.Context, publicID string, req SetStatusRequest) (*AdminAccountResponse, error) {
	return s.adminUpdate(ctx, http.MethodPost, "/api/admin/accounts/"+url.PathEscape(publicID)+"/status", req)
}

// SetAccountRole replaces another account's role. Requires ROLE_ADMIN.
func (s *Session) SetAccountRole(ctx context.Context, publicID, role string) (*AdminAccountResponse, error) {
	return s.adminUpdate(ctx, http.MethodPut, "/api/admin/accounts/"+url.PathEscape(publicID)+"/role", SetRoleRequest{Role: role})
}

func (s *Session) adminUpdate(ctx context.Context, method, path string, body any) (*AdminAccountResponse, error) {
	var out AdminAccountResponse
	if err := s.do(ctx, method, path, body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
