package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories. Repositories obtained from a Tx run inside that
// transaction; a Tx cannot open another one.
type Store interface {
	Accounts() Accounts
	RefreshTokens() RefreshTokens
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// AccountStatus is the set of administrative flags written together.
type AccountStatus struct {
	Enabled bool
	Locked  bool
	Banned  bool

	// BanReason is stored as given; callers clear it when lifting a ban.
	BanReason string
}

type Accounts interface {
	// CreateAccount inserts a new account. A username or email that collides
	// case-insensitively with an existing row returns ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	GetAccountByPublicID(ctx context.Context, publicID string) (domain.Account, error)

	// GetAccountByIdentifier matches identifier against username or email.
	GetAccountByIdentifier(ctx context.Context, identifier string) (domain.Account, error)

	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error
	UpdateStatus(ctx context.Context, id string, s AccountStatus, at time.Time) error
	UpdateRoles(ctx context.Context, id string, roles []domain.Role, at time.Time) error

	// IsEmpty returns true if there are no accounts.
	IsEmpty(ctx context.Context) (bool, error)
}

// RefreshTokens is the refresh token ledger. Rows are addressed by the
// fingerprint of the opaque value; revocation is one-way.
type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked on. Revoking an already revoked or
	// unknown token is a no-op, reported as false.
	RevokeRefreshToken(ctx context.Context, hash string, at time.Time) (bool, error)

	// ConsumeRefreshToken revokes the token only if it is still valid at now,
	// as one conditional write. ErrNotFound means another caller got there
	// first or the token was not valid.
	ConsumeRefreshToken(ctx context.Context, hash string, now time.Time) error

	// RevokeAccountRefreshTokens revokes every live token of an account in
	// a single statement and returns how many were revoked.
	RevokeAccountRefreshTokens(ctx context.Context, accountID string, at time.Time) (int64, error)

	// RevokeSessionRefreshTokens revokes every live token bound to a session.
	RevokeSessionRefreshTokens(ctx context.Context, sessionID string, at time.Time) (int64, error)

	// DeleteExpiredRefreshTokens removes rows whose expiry is before cutoff.
	DeleteExpiredRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sessions is the session registry. Only the fingerprint of the current
// refresh value is stored.
type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// GetActiveSessionByHash returns a session that is active and unexpired
	// at now.
	GetActiveSessionByHash(ctx context.Context, hash string, now time.Time) (domain.Session, error)

	// ListActiveSessions returns live sessions, most recently active first.
	ListActiveSessions(ctx context.Context, accountID string, now time.Time) ([]domain.Session, error)

	// DeactivateSession is idempotent; the bool reports whether a row changed.
	DeactivateSession(ctx context.Context, id string) (bool, error)

	// DeactivateSessionByHash closes the session only while hash is still its
	// current key.
	DeactivateSessionByHash(ctx context.Context, hash string) (bool, error)

	// DeactivateAllAccountSessions closes every active session of an account
	// in a single statement.
	DeactivateAllAccountSessions(ctx context.Context, accountID string) (int64, error)

	// RotateSessionToken rekeys an active session to a new refresh value.
	// ErrNotFound when the session is gone or inactive.
	RotateSessionToken(ctx context.Context, s domain.Session) error

	// DeactivateExpiredSessions closes sessions whose expiry is at or before now.
	DeactivateExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// DeleteInactiveSessionsBefore removes closed sessions idle since cutoff.
	DeleteInactiveSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
