// source: refresh_tokens.sql

package gen

import (
	"context"
)

const consumeRefreshToken = `-- name: ConsumeRefreshToken :execrows
UPDATE refresh_tokens SET revoked = 1, updated_at = ?1
WHERE token_hash = ?2 AND revoked = 0 AND expires_at > ?1
`

type ConsumeRefreshTokenParams struct {
	Now       int64
	TokenHash string
}

func (q *Queries) ConsumeRefreshToken(ctx context.Context, arg ConsumeRefreshTokenParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, consumeRefreshToken, arg.Now, arg.TokenHash)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createRefreshToken = `-- name: CreateRefreshToken :exec
INSERT INTO refresh_tokens (
    id, account_id, session_id, token_hash, device_info, ip_address,
    expires_at, revoked, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
`

type CreateRefreshTokenParams struct {
	ID         string
	AccountID  string
	SessionID  string
	TokenHash  string
	DeviceInfo string
	IpAddress  string
	ExpiresAt  int64
	CreatedAt  int64
	UpdatedAt  int64
}

func (q *Queries) CreateRefreshToken(ctx context.Context, arg CreateRefreshTokenParams) error {
	_, err := q.db.ExecContext(ctx, createRefreshToken,
		arg.ID,
		arg.AccountID,
		arg.SessionID,
		arg.TokenHash,
		arg.DeviceInfo,
		arg.IpAddress,
		arg.ExpiresAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteExpiredRefreshTokens = `-- name: DeleteExpiredRefreshTokens :execrows
DELETE FROM refresh_tokens WHERE expires_at < ?
`

func (q *Queries) DeleteExpiredRefreshTokens(ctx context.Context, cutoff int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpiredRefreshTokens, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getRefreshTokenByHash = `-- name: GetRefreshTokenByHash :one
SELECT id, account_id, session_id, token_hash, device_info, ip_address,
       expires_at, revoked, created_at, updated_at
FROM refresh_tokens
WHERE token_hash = ?
`

func (q *Queries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (RefreshToken, error) {
	row := q.db.QueryRowContext(ctx, getRefreshTokenByHash, tokenHash)
	var i RefreshToken
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.SessionID,
		&i.TokenHash,
		&i.DeviceInfo,
		&i.IpAddress,
		&i.ExpiresAt,
		&i.Revoked,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const revokeAccountRefreshTokens = `-- name: RevokeAccountRefreshTokens :execrows
UPDATE refresh_tokens SET revoked = 1, updated_at = ?
WHERE account_id = ? AND revoked = 0
`

type RevokeAccountRefreshTokensParams struct {
	UpdatedAt int64
	AccountID string
}

func (q *Queries) RevokeAccountRefreshTokens(ctx context.Context, arg RevokeAccountRefreshTokensParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, revokeAccountRefreshTokens, arg.UpdatedAt, arg.AccountID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const revokeRefreshToken = `-- name: RevokeRefreshToken :execrows
UPDATE refresh_tokens SET revoked = 1, updated_at = ?
WHERE token_hash = ? AND revoked = 0
`

type RevokeRefreshTokenParams struct {
	UpdatedAt int64
	TokenHash string
}

func (q *Queries) RevokeRefreshToken(ctx context.Context, arg RevokeRefreshTokenParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, revokeRefreshToken, arg.UpdatedAt, arg.TokenHash)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const revokeSessionRefreshTokens = `-- name: RevokeSessionRefreshTokens :execrows
UPDATE refresh_tokens SET revoked = 1, updated_at = ?
WHERE session_id = ? AND revoked = 0
`

type RevokeSessionRefreshTokensParams struct {
	UpdatedAt int64
	SessionID string
}

func (q *Queries) RevokeSessionRefreshTokens(ctx context.Context, arg RevokeSessionRefreshTokensParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, revokeSessionRefreshTokens, arg.UpdatedAt, arg.SessionID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
