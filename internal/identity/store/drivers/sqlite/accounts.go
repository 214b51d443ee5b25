package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/internal/identity/store/drivers/sqlite/gen"
)

type accountsRepo struct {
	q *gen.Queries
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	err := r.q.CreateAccount(ctx, gen.CreateAccountParams{
		ID:            a.ID,
		PublicID:      a.PublicID,
		Username:      a.Username,
		Email:         a.Email,
		PasswordHash:  a.PasswordHash,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Roles:         domain.JoinRoles(a.Roles),
		Enabled:       a.Enabled,
		Locked:        a.Locked,
		Banned:        a.Banned,
		EmailVerified: a.EmailVerified,
		CreatedAt:     toNanos(a.CreatedAt),
		UpdatedAt:     toNanos(a.UpdatedAt),
	})
	return mapConstraint(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row, err := r.q.GetAccountByID(ctx, id)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByPublicID(ctx context.Context, publicID string) (domain.Account, error) {
	row, err := r.q.GetAccountByPublicID(ctx, publicID)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByIdentifier(ctx context.Context, identifier string) (domain.Account, error) {
	row, err := r.q.GetAccountByIdentifier(ctx, identifier)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := r.q.CountAccountsByUsername(ctx, username)
	return n > 0, err
}

func (r *accountsRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.q.CountAccountsByEmail(ctx, email)
	return n > 0, err
}

func (r *accountsRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return rowsOrNotFound(r.q.UpdateAccountLastLogin(ctx, gen.UpdateAccountLastLoginParams{
		LastLoginAt: toNullNanos(&at),
		UpdatedAt:   toNanos(at),
		ID:          id,
	}))
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error {
	return rowsOrNotFound(r.q.UpdateAccountPasswordHash(ctx, gen.UpdateAccountPasswordHashParams{
		PasswordHash:      hash,
		PasswordChangedAt: toNullNanos(&at),
		UpdatedAt:         toNanos(at),
		ID:                id,
	}))
}

func (r *accountsRepo) UpdateStatus(ctx context.Context, id string, s store.AccountStatus, at time.Time) error {
	return rowsOrNotFound(r.q.UpdateAccountStatus(ctx, gen.UpdateAccountStatusParams{
		Enabled:   s.Enabled,
		Locked:    s.Locked,
		Banned:    s.Banned,
		BanReason: s.BanReason,
		UpdatedAt: toNanos(at),
		ID:        id,
	}))
}

func (r *accountsRepo) UpdateRoles(ctx context.Context, id string, roles []domain.Role, at time.Time) error {
	return rowsOrNotFound(r.q.UpdateAccountRoles(ctx, gen.UpdateAccountRolesParams{
		Roles:     domain.JoinRoles(roles),
		UpdatedAt: toNanos(at),
		ID:        id,
	}))
}

func (r *accountsRepo) IsEmpty(ctx context.Context) (bool, error) {
	count, err := r.q.CountAccounts(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
