package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenExpiryIsExclusive(t *testing.T) {
	exp := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tok := &domain.RefreshToken{ExpiresAt: exp}

	require.True(t, tok.IsValid(exp.Add(-time.Nanosecond)))
	require.False(t, tok.IsValid(exp))
	require.False(t, tok.IsValid(exp.Add(time.Second)))

	tok.Revoked = true
	require.False(t, tok.IsValid(exp.Add(-time.Hour)))
}

func TestSessionTouchDoesNotExtendExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &domain.Session{Active: true, CreatedAt: now, LastActivityAt: now, ExpiresAt: now.Add(time.Hour)}

	later := now.Add(30 * time.Minute)
	s.Touch(later)
	require.Equal(t, later, s.LastActivityAt)
	require.Equal(t, now.Add(time.Hour), s.ExpiresAt)

	require.True(t, s.IsValid(later))
	require.False(t, s.IsValid(now.Add(time.Hour)))

	s.Active = false
	require.False(t, s.IsValid(later))
}

func TestAccountStatus(t *testing.T) {
	cases := []struct {
		name string
		acc  domain.Account
		want domain.AccountStatus
	}{
		{"active", domain.Account{Enabled: true}, domain.StatusActive},
		{"disabled wins", domain.Account{Enabled: false, Locked: true, Banned: true}, domain.StatusDisabled},
		{"banned", domain.Account{Enabled: true, Banned: true, Locked: true}, domain.StatusBanned},
		{"locked", domain.Account{Enabled: true, Locked: true}, domain.StatusLocked},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.acc.Status())
			require.Equal(t, tc.want == domain.StatusActive, tc.acc.CanLogin())
		})
	}
}

func TestRoles(t *testing.T) {
	t.Run("highest role precedence", func(t *testing.T) {
		require.Equal(t, domain.RoleUser, domain.HighestRole(nil))
		require.Equal(t, domain.RoleModerator, domain.HighestRole([]domain.Role{domain.RoleUser, domain.RoleModerator}))
		require.Equal(t, domain.RoleAdmin, domain.HighestRole([]domain.Role{domain.RoleModerator, domain.RoleAdmin, domain.RoleUser}))
	})

	t.Run("storage round trip orders and dedups", func(t *testing.T) {
		joined := domain.JoinRoles([]domain.Role{domain.RoleUser, domain.RoleAdmin, domain.RoleUser})
		require.Equal(t, "ROLE_ADMIN ROLE_USER", joined)
		require.Equal(t, []domain.Role{domain.RoleAdmin, domain.RoleUser}, domain.SplitRoles(joined+" ROLE_BOGUS"))
	})

	t.Run("parse", func(t *testing.T) {
		r, err := domain.ParseRole("admin")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, r)

		r, err = domain.ParseRole("ROLE_moderator")
		require.NoError(t, err)
		require.Equal(t, domain.RoleModerator, r)

		_, err = domain.ParseRole("superuser")
		require.Error(t, err)
	})
}

func TestAccountFullName(t *testing.T) {
	a := domain.Account{Username: "alice"}
	require.Equal(t, "alice", a.FullName())

	a.FirstName = "Alice"
	require.Equal(t, "Alice", a.FullName())

	a.LastName = " Liddell "
	require.Equal(t, "Alice Liddell", a.FullName())
}

func TestNormalizeIdentifier(t *testing.T) {
	require.Equal(t, "alice@x.com", domain.NormalizeIdentifier("  Alice@X.com "))
}

func TestClientInfoNormalize(t *testing.T) {
	long := strings.Repeat("a", 254) + "é" // é spans bytes 254 and 255
	ci := domain.ClientInfo{UserAgent: long, IPAddress: " 10.0.0.1 "}.Normalize()

	require.Len(t, ci.UserAgent, 254)
	require.Equal(t, "10.0.0.1", ci.IPAddress)
}
