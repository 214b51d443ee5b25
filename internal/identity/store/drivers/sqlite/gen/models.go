package gen

import (
	"database/sql"
)

type Account struct {
	ID                string
	PublicID          string
	Username          string
	Email             string
	PasswordHash      string
	FirstName         string
	LastName          string
	Roles             string
	Enabled           bool
	Locked            bool
	Banned            bool
	EmailVerified     bool
	CreatedAt         int64
	UpdatedAt         int64
	LastLoginAt       sql.NullInt64
	PasswordChangedAt sql.NullInt64
	BanReason         string
}

type RefreshToken struct {
	ID         string
	AccountID  string
	SessionID  string
	TokenHash  string
	DeviceInfo string
	IpAddress  string
	ExpiresAt  int64
	Revoked    bool
	CreatedAt  int64
	UpdatedAt  int64
}

type Session struct {
	ID             string
	AccountID      string
	TokenHash      string
	DeviceInfo     string
	IpAddress      string
	Active         bool
	CreatedAt      int64
	LastActivityAt int64
	ExpiresAt      int64
}
