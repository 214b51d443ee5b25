// source: sessions.sql

package gen

import (
	"context"
)

const createSession = `-- name: CreateSession :exec
INSERT INTO sessions (
    id, account_id, token_hash, device_info, ip_address, active,
    created_at, last_activity_at, expires_at
) VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?)
`

type CreateSessionParams struct {
	ID             string
	AccountID      string
	TokenHash      string
	DeviceInfo     string
	IpAddress      string
	CreatedAt      int64
	LastActivityAt int64
	ExpiresAt      int64
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.db.ExecContext(ctx, createSession,
		arg.ID,
		arg.AccountID,
		arg.TokenHash,
		arg.DeviceInfo,
		arg.IpAddress,
		arg.CreatedAt,
		arg.LastActivityAt,
		arg.ExpiresAt,
	)
	return err
}

const deactivateAccountSessions = `-- name: DeactivateAccountSessions :execrows
UPDATE sessions SET active = 0 WHERE account_id = ? AND active = 1
`

func (q *Queries) DeactivateAccountSessions(ctx context.Context, accountID string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deactivateAccountSessions, accountID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deactivateExpiredSessions = `-- name: DeactivateExpiredSessions :execrows
UPDATE sessions SET active = 0 WHERE active = 1 AND expires_at <= ?
`

func (q *Queries) DeactivateExpiredSessions(ctx context.Context, now int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deactivateExpiredSessions, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deactivateSession = `-- name: DeactivateSession :execrows
UPDATE sessions SET active = 0 WHERE id = ? AND active = 1
`

func (q *Queries) DeactivateSession(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deactivateSession, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deactivateSessionByHash = `-- name: DeactivateSessionByHash :execrows
UPDATE sessions SET active = 0 WHERE token_hash = ? AND active = 1
`

func (q *Queries) DeactivateSessionByHash(ctx context.Context, tokenHash string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deactivateSessionByHash, tokenHash)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteInactiveSessionsBefore = `-- name: DeleteInactiveSessionsBefore :execrows
DELETE FROM sessions WHERE active = 0 AND last_activity_at < ?
`

func (q *Queries) DeleteInactiveSessionsBefore(ctx context.Context, cutoff int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteInactiveSessionsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getActiveSessionByHash = `-- name: GetActiveSessionByHash :one
SELECT id, account_id, token_hash, device_info, ip_address, active,
       created_at, last_activity_at, expires_at
FROM sessions
WHERE token_hash = ? AND active = 1 AND expires_at > ?
`

type GetActiveSessionByHashParams struct {
	TokenHash string
	Now       int64
}

func (q *Queries) GetActiveSessionByHash(ctx context.Context, arg GetActiveSessionByHashParams) (Session, error) {
	row := q.db.QueryRowContext(ctx, getActiveSessionByHash, arg.TokenHash, arg.Now)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.TokenHash,
		&i.DeviceInfo,
		&i.IpAddress,
		&i.Active,
		&i.CreatedAt,
		&i.LastActivityAt,
		&i.ExpiresAt,
	)
	return i, err
}

const getSessionByID = `-- name: GetSessionByID :one
SELECT id, account_id, token_hash, device_info, ip_address, active,
       created_at, last_activity_at, expires_at
FROM sessions
WHERE id = ?
`

func (q *Queries) GetSessionByID(ctx context.Context, id string) (Session, error) {
	row := q.db.QueryRowContext(ctx, getSessionByID, id)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.TokenHash,
		&i.DeviceInfo,
		&i.IpAddress,
		&i.Active,
		&i.CreatedAt,
		&i.LastActivityAt,
		&i.ExpiresAt,
	)
	return i, err
}

const listActiveSessions = `-- name: ListActiveSessions :many
SELECT id, account_id, token_hash, device_info, ip_address, active,
       created_at, last_activity_at, expires_at
FROM sessions
WHERE account_id = ? AND active = 1 AND expires_at > ?
ORDER BY last_activity_at DESC, id DESC
`

type ListActiveSessionsParams struct {
	AccountID string
	Now       int64
}

func (q *Queries) ListActiveSessions(ctx context.Context, arg ListActiveSessionsParams) ([]Session, error) {
	rows, err := q.db.QueryContext(ctx, listActiveSessions, arg.AccountID, arg.Now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Session
	for rows.Next() {
		var i Session
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.TokenHash,
			&i.DeviceInfo,
			&i.IpAddress,
			&i.Active,
			&i.CreatedAt,
			&i.LastActivityAt,
			&i.ExpiresAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const rotateSessionToken = `-- name: RotateSessionToken :execrows
UPDATE sessions
SET token_hash = ?, device_info = ?, ip_address = ?, last_activity_at = ?, expires_at = ?
WHERE id = ? AND active = 1
`

type RotateSessionTokenParams struct {
	TokenHash      string
	DeviceInfo     string
	IpAddress      string
	LastActivityAt int64
	ExpiresAt      int64
	ID             string
}

func (q *Queries) RotateSessionToken(ctx context.Context, arg RotateSessionTokenParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, rotateSessionToken,
		arg.TokenHash,
		arg.DeviceInfo,
		arg.IpAddress,
		arg.LastActivityAt,
		arg.ExpiresAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

