package identitysdk

import (
	"time"

	"github.com/aussiebroadwan/identity/pkg/httpx"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse = httpx.ErrorBody

// ============================================================================
// Authentication
// ============================================================================

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login. UsernameOrEmail is
// matched case-insensitively against both identifiers.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// RefreshRequest carries a refresh token for rotation or logout.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is the token envelope returned by register, login and
// refresh.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`

	// TokenType is always "Bearer"
	TokenType string `json:"tokenType"`

	// ExpiresIn is the access token lifetime in seconds
	ExpiresIn int64 `json:"expiresIn"`

	User UserResponse `json:"user"`
}

// ============================================================================
// Accounts
// ============================================================================

// UserResponse is the public summary of an account.
type UserResponse struct {
	UUID          string     `json:"uuid"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName,omitempty"`
	LastName      string     `json:"lastName,omitempty"`
	FullName      string     `json:"fullName"`
	EmailVerified bool       `json:"emailVerified"`
	Roles         []string   `json:"roles"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
}

// AvailabilityResponse answers the username and email availability checks.
type AvailabilityResponse struct {
	Available bool `json:"available"`
}

// ChangePasswordRequest is the body of POST /api/auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// SessionResponse describes one device login.
type SessionResponse struct {
	ID             string    `json:"id"`
	DeviceInfo     string    `json:"deviceInfo,omitempty"`
	IPAddress      string    `json:"ipAddress,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	ExpiresAt      time.Time `json:"expiresAt"`

	// Current is set on the session the request was made from
	Current bool `json:"current"`
}

// SessionListResponse is returned from GET /api/auth/sessions.
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// SetStatusRequest changes the administrative flags on an account. Nil
// fields are left untouched.
type SetStatusRequest struct {
	Enabled *bool `json:"enabled,omitempty"`
	Locked  *bool `json:"locked,omitempty"`
	Banned  *bool `json:"banned,omitempty"`

	// BanReason is recorded when Banned is true and cleared when it is false.
	BanReason string `json:"banReason,omitempty"`
}

// SetRoleRequest is the body of PUT /api/admin/accounts/{publicId}/role.
// ROLE_USER is always kept alongside the requested role.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// AdminAccountResponse is the account view returned to administrators.
type AdminAccountResponse struct {
	UserResponse
	Status    string `json:"status"`
	Enabled   bool   `json:"enabled"`
	Locked    bool   `json:"locked"`
	Banned    bool   `json:"banned"`
	BanReason string `json:"banReason,omitempty"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned from /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks holds readiness results per dependency.
type HealthChecks struct {
	Database string `json:"database"`
}
