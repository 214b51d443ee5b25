package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

// AccountService reads accounts and applies administrative changes.
type AccountService struct {
	Store store.Store

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// StatusUpdate changes only the flags that are set. BanReason is stored
// when Banned is set to true and cleared when it is set to false.
type StatusUpdate struct {
	Enabled   *bool
	Locked    *bool
	Banned    *bool
	BanReason string
}

// maxBanReason bounds the stored ban reason in bytes.
const maxBanReason = 255

// restricts reports whether u takes sign-in away from an account.
func (u StatusUpdate) restricts() bool {
	return (u.Enabled != nil && !*u.Enabled) ||
		(u.Locked != nil && *u.Locked) ||
		(u.Banned != nil && *u.Banned)
}

func (s *AccountService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *AccountService) GetByID(ctx context.Context, id string) (domain.Account, error) {
	acc, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrNotFound
	}
	return acc, err
}

func (s *AccountService) GetByPublicID(ctx context.Context, publicID string) (domain.Account, error) {
	acc, err := s.Store.Accounts().GetAccountByPublicID(ctx, publicID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, ErrNotFound
	}
	return acc, err
}

// ResolveActive maps a token subject to the internal account id, failing
// when the account is gone or may no longer sign in.
func (s *AccountService) ResolveActive(ctx context.Context, publicID string) (string, error) {
	acc, err := s.GetByPublicID(ctx, publicID)
	if err != nil {
		return "", err
	}
	if err := statusError(&acc); err != nil {
		return "", err
	}
	return acc.ID, nil
}

// UsernameAvailable reports whether username is free, ignoring case.
func (s *AccountService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	username = domain.NormalizeIdentifier(username)
	if username == "" {
		return false, invalidField("username", "username is required")
	}
	taken, err := s.Store.Accounts().UsernameExists(ctx, username)
	return !taken, err
}

// EmailAvailable reports whether email is free, ignoring case.
func (s *AccountService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	email = domain.NormalizeIdentifier(email)
	if email == "" {
		return false, invalidField("email", "email is required")
	}
	taken, err := s.Store.Accounts().EmailExists(ctx, email)
	return !taken, err
}

// ListSessions returns the live sessions of an account, most recent first.
func (s *AccountService) ListSessions(ctx context.Context, accountID string) ([]domain.Session, error) {
	return s.Store.Sessions().ListActiveSessions(ctx, accountID, s.now())
}

// RevokeSession closes one live session of accountID together with its
// refresh tokens. Closed sessions and sessions of other accounts are reported
// as not found.
func (s *AccountService) RevokeSession(ctx context.Context, accountID, sessionID string) error {
	now := s.now()
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		sess, err := tx.Sessions().GetSessionByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if sess.AccountID != accountID || !sess.Active {
			return ErrNotFound
		}

		if _, err := tx.Sessions().DeactivateSession(ctx, sess.ID); err != nil {
			return err
		}
		if _, err := tx.RefreshTokens().RevokeSessionRefreshTokens(ctx, sess.ID, now); err != nil {
			return err
		}

		slogx.FromContext(ctx).Info("session revoked", "account_id", accountID, "session_id", sess.ID)
		return nil
	})
}

// SetStatus updates the administrative flags of an account. Administrators
// cannot be disabled, locked or banned. An account that can no longer sign in
// loses every session and refresh token in the same transaction.
func (s *AccountService) SetStatus(ctx context.Context, publicID string, u StatusUpdate) (domain.Account, error) {
	l := slogx.FromContext(ctx)
	now := s.now()

	u.BanReason = strings.TrimSpace(u.BanReason)
	if len(u.BanReason) > maxBanReason {
		return domain.Account{}, invalidField("banReason", "banReason must be at most 255 characters")
	}

	var acc domain.Account
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		acc, err = tx.Accounts().GetAccountByPublicID(ctx, publicID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if u.restricts() && acc.HasRole(domain.RoleAdmin) {
			return ErrProtectedAccount
		}

		if u.Enabled != nil {
			acc.Enabled = *u.Enabled
		}
		if u.Locked != nil {
			acc.Locked = *u.Locked
		}
		if u.Banned != nil {
			acc.Banned = *u.Banned
			acc.BanReason = ""
			if acc.Banned {
				acc.BanReason = u.BanReason
			}
		}
		acc.UpdatedAt = now

		err = tx.Accounts().UpdateStatus(ctx, acc.ID, store.AccountStatus{
			Enabled:   acc.Enabled,
			Locked:    acc.Locked,
			Banned:    acc.Banned,
			BanReason: acc.BanReason,
		}, now)
		if err != nil {
			return err
		}

		if acc.CanLogin() {
			return nil
		}
		if _, err := tx.RefreshTokens().RevokeAccountRefreshTokens(ctx, acc.ID, now); err != nil {
			return err
		}
		_, err = tx.Sessions().DeactivateAllAccountSessions(ctx, acc.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrProtectedAccount) {
			l.Warn("status change refused for administrator", "public_id", publicID)
		}
		return domain.Account{}, err
	}

	l.Info("account status changed", "account_id", acc.ID, "status", acc.Status().String())
	return acc, nil
}

// SetRole replaces the roles of an account with role plus ROLE_USER. The
// acting account cannot change its own role. Access tokens already issued
// keep their role snapshot until they expire; the next refresh signs the new
// roles.
func (s *AccountService) SetRole(ctx context.Context, actorID, publicID, role string) (domain.Account, error) {
	l := slogx.FromContext(ctx)
	now := s.now()

	r, err := domain.ParseRole(role)
	if err != nil {
		return domain.Account{}, invalidField("role", "role must be one of ROLE_USER, ROLE_MODERATOR, ROLE_ADMIN")
	}
	roles := []domain.Role{domain.RoleUser}
	if r != domain.RoleUser {
		roles = append(roles, r)
	}

	var acc domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		acc, err = tx.Accounts().GetAccountByPublicID(ctx, publicID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if acc.ID == actorID {
			return ErrProtectedAccount
		}

		acc.Roles = roles
		acc.UpdatedAt = now
		return tx.Accounts().UpdateRoles(ctx, acc.ID, roles, now)
	})
	if err != nil {
		if errors.Is(err, ErrProtectedAccount) {
			l.Warn("role change refused for acting account", "account_id", actorID)
		}
		return domain.Account{}, err
	}

	l.Info("account role changed", "account_id", acc.ID, "actor_id", actorID, "role", string(r))
	return acc, nil
}
