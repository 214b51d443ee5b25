package domain

import "time"

// TokenType is the only scheme the service issues.
const TokenType = "Bearer"

// TokenPair is what register, login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string // plaintext, only ever held in memory
	TokenType    string
	ExpiresIn    time.Duration // access token lifetime
}

// AuthResult is a token pair plus the account it was issued for.
type AuthResult struct {
	TokenPair
	Account   *Account
	SessionID string
}

// RefreshToken is a ledger row. Only the fingerprint of the opaque value is
// stored.
type RefreshToken struct {
	ID         string
	AccountID  string
	SessionID  string
	TokenHash  string // base64url SHA-256 of the opaque value
	DeviceInfo string
	IPAddress  string
	ExpiresAt  time.Time
	Revoked    bool // monotonic: never flips back to false
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsValid reports whether the token may still be exchanged at now. Expiry is
// exclusive: a token is dead at exactly ExpiresAt.
func (t *RefreshToken) IsValid(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
