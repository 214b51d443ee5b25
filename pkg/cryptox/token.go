package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize128 provides 128 bits of entropy (22 chars base64url).
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (43 chars base64url). Refresh
	// tokens use this size.
	TokenSize256 = 32
)

// GenerateToken creates a cryptographically secure random token of the given
// byte length, returned base64url encoded without padding.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewRefreshToken returns a fresh opaque refresh value together with the
// fingerprint that gets persisted in its place.
func NewRefreshToken() (value, fingerprint string, err error) {
	value, err = GenerateToken(TokenSize256)
	if err != nil {
		return "", "", err
	}
	return value, FingerprintToken(value), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token
// (base64url, 43 chars). Only fingerprints are ever written to the database so
// a leaked row cannot be replayed as a credential.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
