package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/store/drivers/sqlite/gen"
)

type refreshTokensRepo struct {
	q *gen.Queries
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	err := r.q.CreateRefreshToken(ctx, gen.CreateRefreshTokenParams{
		ID:         t.ID,
		AccountID:  t.AccountID,
		SessionID:  t.SessionID,
		TokenHash:  t.TokenHash,
		DeviceInfo: t.DeviceInfo,
		IpAddress:  t.IPAddress,
		ExpiresAt:  toNanos(t.ExpiresAt),
		CreatedAt:  toNanos(t.CreatedAt),
		UpdatedAt:  toNanos(t.UpdatedAt),
	})
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row, err := r.q.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return mapRefreshToken(row), nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string, at time.Time) (bool, error) {
	n, err := r.q.RevokeRefreshToken(ctx, gen.RevokeRefreshTokenParams{
		UpdatedAt: toNanos(at),
		TokenHash: hash,
	})
	return n > 0, err
}

func (r *refreshTokensRepo) ConsumeRefreshToken(ctx context.Context, hash string, now time.Time) error {
	return rowsOrNotFound(r.q.ConsumeRefreshToken(ctx, gen.ConsumeRefreshTokenParams{
		Now:       toNanos(now),
		TokenHash: hash,
	}))
}

func (r *refreshTokensRepo) RevokeAccountRefreshTokens(ctx context.Context, accountID string, at time.Time) (int64, error) {
	return r.q.RevokeAccountRefreshTokens(ctx, gen.RevokeAccountRefreshTokensParams{
		UpdatedAt: toNanos(at),
		AccountID: accountID,
	})
}

func (r *refreshTokensRepo) RevokeSessionRefreshTokens(ctx context.Context, sessionID string, at time.Time) (int64, error) {
	return r.q.RevokeSessionRefreshTokens(ctx, gen.RevokeSessionRefreshTokensParams{
		UpdatedAt: toNanos(at),
		SessionID: sessionID,
	})
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.DeleteExpiredRefreshTokens(ctx, toNanos(cutoff))
}
