package domain

import (
	"slices"
	"strings"
	"time"
)

// AccountStatus is the effective sign-in state derived from the account flags.
type AccountStatus int

const (
	StatusActive AccountStatus = iota
	StatusDisabled
	StatusLocked
	StatusBanned
)

func (s AccountStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusDisabled:
		return "disabled"
	case StatusLocked:
		return "locked"
	case StatusBanned:
		return "banned"
	default:
		return "unknown"
	}
}

type Account struct {
	ID                string // internal ULID, never leaves the service
	PublicID          string // UUID exposed to clients and used as token subject
	Username          string // canonical lowercase
	Email             string // canonical lowercase
	PasswordHash      string // argon2id encoded
	FirstName         string
	LastName          string
	Roles             []Role
	Enabled           bool
	Locked            bool
	Banned            bool
	BanReason         string // empty unless Banned
	EmailVerified     bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastLoginAt       *time.Time
	PasswordChangedAt *time.Time
}

// Status collapses the flags into one state. A disabled account reports
// disabled even when it is also locked or banned.
func (a *Account) Status() AccountStatus {
	switch {
	case !a.Enabled:
		return StatusDisabled
	case a.Banned:
		return StatusBanned
	case a.Locked:
		return StatusLocked
	default:
		return StatusActive
	}
}

// CanLogin reports whether the account may obtain or renew credentials.
func (a *Account) CanLogin() bool {
	return a.Status() == StatusActive
}

func (a *Account) HasRole(r Role) bool {
	return slices.Contains(a.Roles, r)
}

// HighestRole returns the most privileged role held, ROLE_USER when none.
func (a *Account) HighestRole() Role {
	return HighestRole(a.Roles)
}

// FullName joins first and last name, falling back to the username.
func (a *Account) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
	if name == "" {
		return a.Username
	}
	return name
}

// RoleNames returns the role list as strings for token claims.
func (a *Account) RoleNames() []string {
	return RoleNames(a.Roles)
}

// NormalizeIdentifier is the canonical form of usernames and emails used for
// every uniqueness check and lookup.
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
