package jwtx

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret NewCodec accepts (256 bits).
const MinSecretLength = 32

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Config is the key material and lifetime the codec is built from. It is
// passed in explicitly so tests can use short TTLs and a fixed clock.
type Config struct {
	Secret    []byte
	Issuer    string
	AccessTTL time.Duration

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Codec issues and verifies HS256 access tokens. It holds no mutable state
// and is safe for concurrent use.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewCodec validates cfg and builds a Codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrWeakSecret, MinSecretLength, len(cfg.Secret))
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("jwtx: access ttl must be positive")
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	utc := func() time.Time { return now().UTC() }

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(utc),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &Codec{
		secret: slices.Clone(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.AccessTTL,
		now:    utc,
		parser: jwt.NewParser(opts...),
	}, nil
}

// AccessTTL is the lifetime of every token this codec issues.
func (c *Codec) AccessTTL() time.Duration { return c.ttl }

// Issue signs a token for s valid from now until now+AccessTTL.
func (c *Codec) Issue(s Subject) (string, Claims, error) {
	if s.PublicID == "" {
		return "", Claims{}, fmt.Errorf("%w: empty subject", ErrInvalidClaim)
	}

	claims := NewAccessClaims(s, c.issuer, c.ttl, c.now())
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("jwtx: sign: %w", err)
	}
	return token, claims, nil
}

// Verify checks the signature, then that now is strictly before exp. The
// returned error wraps one of ErrMalformed, ErrInvalidSig, ErrExpired,
// ErrIssuer, ErrNotYetValid or ErrInvalidClaim.
func (c *Codec) Verify(token string) (Claims, error) {
	var claims Claims
	parsed, err := c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidClaim
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidClaim)
	}
	return claims, nil
}

// ExtractSubject returns the subject of a token that verifies. It never
// fails loudly, so it is safe to call from logging paths.
func (c *Codec) ExtractSubject(token string) (string, bool) {
	claims, err := c.Verify(token)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

// ExtractRoles returns the role snapshot of a token that verifies, or nil.
func (c *Codec) ExtractRoles(token string) []string {
	claims, err := c.Verify(token)
	if err != nil {
		return nil
	}
	return slices.Clone(claims.Roles)
}
