package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/internal/identity/store/drivers/sqlite/gen"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

// NewStore opens the database at dsn. SQLite allows a single writer, so the
// pool is pinned to one connection: writers queue in database/sql instead of
// failing with SQLITE_BUSY, and ":memory:" databases stay shared. Never use
// the Store itself from inside WithTx; use the Tx handed to fn.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Accounts() store.Accounts           { return &accountsRepo{q: s.q} }
func (s *Store) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{q: s.q} }
func (s *Store) Sessions() store.Sessions           { return &sessionsRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns unique and primary key violations into
// store.ErrAlreadyExists.
func mapConstraint(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	return err
}

// rowsOrNotFound reports ErrNotFound when an update matched nothing.
func rowsOrNotFound(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Timestamps are stored as unix nanoseconds so ordering and expiry
// comparisons are exact in SQL.
func toNanos(t time.Time) int64 { return t.UTC().UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func toNullNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toNanos(*t), Valid: true}
}

func fromNullNanos(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromNanos(n.Int64)
	return &t
}

func mapAccount(row gen.Account) domain.Account {
	return domain.Account{
		ID:                row.ID,
		PublicID:          row.PublicID,
		Username:          row.Username,
		Email:             row.Email,
		PasswordHash:      row.PasswordHash,
		FirstName:         row.FirstName,
		LastName:          row.LastName,
		Roles:             domain.SplitRoles(row.Roles),
		Enabled:           row.Enabled,
		Locked:            row.Locked,
		Banned:            row.Banned,
		EmailVerified:     row.EmailVerified,
		CreatedAt:         fromNanos(row.CreatedAt),
		UpdatedAt:         fromNanos(row.UpdatedAt),
		LastLoginAt:       fromNullNanos(row.LastLoginAt),
		PasswordChangedAt: fromNullNanos(row.PasswordChangedAt),
		BanReason:         row.BanReason,
	}
}

func mapRefreshToken(row gen.RefreshToken) domain.RefreshToken {
	return domain.RefreshToken{
		ID:         row.ID,
		AccountID:  row.AccountID,
		SessionID:  row.SessionID,
		TokenHash:  row.TokenHash,
		DeviceInfo: row.DeviceInfo,
		IPAddress:  row.IpAddress,
		ExpiresAt:  fromNanos(row.ExpiresAt),
		Revoked:    row.Revoked,
		CreatedAt:  fromNanos(row.CreatedAt),
		UpdatedAt:  fromNanos(row.UpdatedAt),
	}
}

func mapSession(row gen.Session) domain.Session {
	return domain.Session{
		ID:             row.ID,
		AccountID:      row.AccountID,
		TokenHash:      row.TokenHash,
		DeviceInfo:     row.DeviceInfo,
		IPAddress:      row.IpAddress,
		Active:         row.Active,
		CreatedAt:      fromNanos(row.CreatedAt),
		LastActivityAt: fromNanos(row.LastActivityAt),
		ExpiresAt:      fromNanos(row.ExpiresAt),
	}
}
