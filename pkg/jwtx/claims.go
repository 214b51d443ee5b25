package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants. Both can be overridden through configuration.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens and the
	// sessions that track them.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the access token claims. Roles are a snapshot taken at issue
// time; the gate re-checks live account status but never rewrites roles.
type Claims struct {
	jwt.RegisteredClaims

	// Session ID the token was minted for.
	SID string `json:"sid,omitempty"`

	// Username is the display handle of the account.
	Username string `json:"username"`

	// Roles held by the account when the token was issued.
	Roles []string `json:"roles"`
}

// Subject is everything the codec needs to know about an account to mint a
// token for it.
type Subject struct {
	PublicID  string
	Username  string
	Roles     []string
	SessionID string
}

// NewAccessClaims builds claims for subject valid for [now, now+ttl).
func NewAccessClaims(s Subject, issuer string, ttl time.Duration, now time.Time) Claims {
	now = now.UTC()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.PublicID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:      s.SessionID,
		Username: s.Username,
		Roles:    slices.Clone(s.Roles),
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasRole reports whether role was granted at issue time.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// ExpiresIn is the remaining lifetime relative to now, never negative.
func (c Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(c.ExpiresAt.Sub(now), 0)
}
