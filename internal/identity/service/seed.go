package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/idx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

// AdminSeed describes the administrator created on an empty database.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// SeedService creates the first administrator.
type SeedService struct {
	Store store.Store
	Admin AdminSeed

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// EnsureAdmin creates the configured administrator when no account exists
// yet. When no password is configured one is generated and returned so the
// caller can show it once.
func (s *SeedService) EnsureAdmin(ctx context.Context) (created bool, generatedPassword string, err error) {
	l := slogx.FromContext(ctx)

	if s.Admin.Username == "" {
		return false, "", nil
	}

	empty, err := s.Store.Accounts().IsEmpty(ctx)
	if err != nil {
		return false, "", err
	}
	if !empty {
		l.Debug("accounts present, skipping admin seed")
		return false, "", nil
	}

	password := s.Admin.Password
	if password == "" {
		password, err = cryptox.GeneratePassword()
		if err != nil {
			return false, "", err
		}
		generatedPassword = password
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return false, "", err
	}

	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock().UTC()
	}
	acc := domain.Account{
		ID:            idx.NewAt(now).String(),
		PublicID:      idx.NewPublic().String(),
		Username:      domain.NormalizeIdentifier(s.Admin.Username),
		Email:         domain.NormalizeIdentifier(s.Admin.Email),
		PasswordHash:  hash,
		Roles:         []domain.Role{domain.RoleAdmin, domain.RoleUser},
		Enabled:       true,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Store.Accounts().CreateAccount(ctx, acc); err != nil {
		return false, "", err
	}

	l.Info("administrator account created", "account_id", acc.ID, "username", acc.Username)
	return true, generatedPassword, nil
}
