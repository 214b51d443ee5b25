package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/store/drivers/sqlite/gen"
)

type sessionsRepo struct {
	q *gen.Queries
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	err := r.q.CreateSession(ctx, gen.CreateSessionParams{
		ID:             s.ID,
		AccountID:      s.AccountID,
		TokenHash:      s.TokenHash,
		DeviceInfo:     s.DeviceInfo,
		IpAddress:      s.IPAddress,
		CreatedAt:      toNanos(s.CreatedAt),
		LastActivityAt: toNanos(s.LastActivityAt),
		ExpiresAt:      toNanos(s.ExpiresAt),
	})
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row, err := r.q.GetSessionByID(ctx, id)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

func (r *sessionsRepo) GetActiveSessionByHash(ctx context.Context, hash string, now time.Time) (domain.Session, error) {
	row, err := r.q.GetActiveSessionByHash(ctx, gen.GetActiveSessionByHashParams{
		TokenHash: hash,
		Now:       toNanos(now),
	})
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

func (r *sessionsRepo) ListActiveSessions(ctx context.Context, accountID string, now time.Time) ([]domain.Session, error) {
	rows, err := r.q.ListActiveSessions(ctx, gen.ListActiveSessionsParams{
		AccountID: accountID,
		Now:       toNanos(now),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Session, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapSession(row))
	}
	return out, nil
}

func (r *sessionsRepo) DeactivateSession(ctx context.Context, id string) (bool, error) {
	n, err := r.q.DeactivateSession(ctx, id)
	return n > 0, err
}

func (r *sessionsRepo) DeactivateSessionByHash(ctx context.Context, hash string) (bool, error) {
	n, err := r.q.DeactivateSessionByHash(ctx, hash)
	return n > 0, err
}

func (r *sessionsRepo) DeactivateAllAccountSessions(ctx context.Context, accountID string) (int64, error) {
	return r.q.DeactivateAccountSessions(ctx, accountID)
}

func (r *sessionsRepo) RotateSessionToken(ctx context.Context, s domain.Session) error {
	return rowsOrNotFound(r.q.RotateSessionToken(ctx, gen.RotateSessionTokenParams{
		TokenHash:      s.TokenHash,
		DeviceInfo:     s.DeviceInfo,
		IpAddress:      s.IPAddress,
		LastActivityAt: toNanos(s.LastActivityAt),
		ExpiresAt:      toNanos(s.ExpiresAt),
		ID:             s.ID,
	}))
}

func (r *sessionsRepo) DeactivateExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeactivateExpiredSessions(ctx, toNanos(now))
}

func (r *sessionsRepo) DeleteInactiveSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.DeleteInactiveSessionsBefore(ctx, toNanos(cutoff))
}
