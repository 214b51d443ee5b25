// source: accounts.sql

package gen

import (
	"context"
	"database/sql"
)

const countAccounts = `-- name: CountAccounts :one
SELECT COUNT(*) FROM accounts
`

func (q *Queries) CountAccounts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countAccounts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countAccountsByEmail = `-- name: CountAccountsByEmail :one
SELECT COUNT(*) FROM accounts WHERE email = ?
`

func (q *Queries) CountAccountsByEmail(ctx context.Context, email string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countAccountsByEmail, email)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countAccountsByUsername = `-- name: CountAccountsByUsername :one
SELECT COUNT(*) FROM accounts WHERE username = ?
`

func (q *Queries) CountAccountsByUsername(ctx context.Context, username string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countAccountsByUsername, username)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createAccount = `-- name: CreateAccount :exec
INSERT INTO accounts (
    id, public_id, username, email, password_hash, first_name, last_name,
    roles, enabled, locked, banned, email_verified, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateAccountParams struct {
	ID            string
	PublicID      string
	Username      string
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Roles         string
	Enabled       bool
	Locked        bool
	Banned        bool
	EmailVerified bool
	CreatedAt     int64
	UpdatedAt     int64
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) error {
	_, err := q.db.ExecContext(ctx, createAccount,
		arg.ID,
		arg.PublicID,
		arg.Username,
		arg.Email,
		arg.PasswordHash,
		arg.FirstName,
		arg.LastName,
		arg.Roles,
		arg.Enabled,
		arg.Locked,
		arg.Banned,
		arg.EmailVerified,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, public_id, username, email, password_hash, first_name, last_name, roles,
       enabled, locked, banned, email_verified, created_at, updated_at, last_login_at, password_changed_at,
       ban_reason
FROM accounts
WHERE id = ?
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRowContext(ctx, getAccountByID, id)
	return scanAccount(row)
}

const getAccountByIdentifier = `-- name: GetAccountByIdentifier :one
SELECT id, public_id, username, email, password_hash, first_name, last_name, roles,
       enabled, locked, banned, email_verified, created_at, updated_at, last_login_at, password_changed_at,
       ban_reason
FROM accounts
WHERE username = ?1 OR email = ?1
LIMIT 1
`

func (q *Queries) GetAccountByIdentifier(ctx context.Context, identifier string) (Account, error) {
	row := q.db.QueryRowContext(ctx, getAccountByIdentifier, identifier)
	return scanAccount(row)
}

const getAccountByPublicID = `-- name: GetAccountByPublicID :one
SELECT id, public_id, username, email, password_hash, first_name, last_name, roles,
       enabled, locked, banned, email_verified, created_at, updated_at, last_login_at, password_changed_at,
       ban_reason
FROM accounts
WHERE public_id = ?
`

func (q *Queries) GetAccountByPublicID(ctx context.Context, publicID string) (Account, error) {
	row := q.db.QueryRowContext(ctx, getAccountByPublicID, publicID)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (Account, error) {
	var i Account
	err := row.Scan(
		&i.ID,
		&i.PublicID,
		&i.Username,
		&i.Email,
		&i.PasswordHash,
		&i.FirstName,
		&i.LastName,
		&i.Roles,
		&i.Enabled,
		&i.Locked,
		&i.Banned,
		&i.EmailVerified,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.LastLoginAt,
		&i.PasswordChangedAt,
		&i.BanReason,
	)
	return i, err
}

const updateAccountLastLogin = `-- name: UpdateAccountLastLogin :execrows
UPDATE accounts SET last_login_at = ?, updated_at = ? WHERE id = ?
`

type UpdateAccountLastLoginParams struct {
	LastLoginAt sql.NullInt64
	UpdatedAt   int64
	ID          string
}

func (q *Queries) UpdateAccountLastLogin(ctx context.Context, arg UpdateAccountLastLoginParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateAccountLastLogin, arg.LastLoginAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateAccountPasswordHash = `-- name: UpdateAccountPasswordHash :execrows
UPDATE accounts SET password_hash = ?, password_changed_at = ?, updated_at = ? WHERE id = ?
`

type UpdateAccountPasswordHashParams struct {
	PasswordHash      string
	PasswordChangedAt sql.NullInt64
	UpdatedAt         int64
	ID                string
}

func (q *Queries) UpdateAccountPasswordHash(ctx context.Context, arg UpdateAccountPasswordHashParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateAccountPasswordHash,
		arg.PasswordHash,
		arg.PasswordChangedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateAccountRoles = `-- name: UpdateAccountRoles :execrows
UPDATE accounts SET roles = ?, updated_at = ? WHERE id = ?
`

type UpdateAccountRolesParams struct {
	Roles     string
	UpdatedAt int64
	ID        string
}

func (q *Queries) UpdateAccountRoles(ctx context.Context, arg UpdateAccountRolesParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateAccountRoles, arg.Roles, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateAccountStatus = `-- name: UpdateAccountStatus :execrows
UPDATE accounts SET enabled = ?, locked = ?, banned = ?, ban_reason = ?, updated_at = ? WHERE id = ?
`

type UpdateAccountStatusParams struct {
	Enabled   bool
	Locked    bool
	Banned    bool
	BanReason string
	UpdatedAt int64
	ID        string
}

func (q *Queries) UpdateAccountStatus(ctx context.Context, arg UpdateAccountStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateAccountStatus,
		arg.Enabled,
		arg.Locked,
		arg.Banned,
		arg.BanReason,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
