package identity_test

import (
	"testing"

	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/stretchr/testify/require"
)

// TestRegisterLoginRefreshLogout walks an account through its whole
// lifecycle against a running container.
func TestRegisterLoginRefreshLogout(t *testing.T) {
	client := setupIdentityContainer(t, nil)
	ctx := t.Context()

	reg := registerUser(t, client, "alice")
	require.Equal(t, []string{"ROLE_USER"}, reg.User.Roles)

	login, err := client.Login(ctx, "ALICE@example.com", userPassword)
	require.NoError(t, err)
	assertAuthResponse(t, login)

	rotated, err := client.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, login.RefreshToken, rotated.RefreshToken, "Refresh token should be rotated")

	_, err = client.Refresh(ctx, login.RefreshToken)
	require.ErrorIs(t, err, identitysdk.ErrInvalidRefreshToken, "Rotated token must not be accepted twice")

	session := client.NewSession(rotated)
	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "alice", me.Username)

	require.NoError(t, session.Logout(ctx))
	_, err = client.Refresh(ctx, rotated.RefreshToken)
	require.ErrorIs(t, err, identitysdk.ErrInvalidRefreshToken)

	require.NoError(t, client.Logout(ctx, rotated.RefreshToken), "Logout is idempotent")
}

// TestSeededAdminCanLockAccounts checks the admin seeded from the
// environment and that a locked account is indistinguishable from a wrong
// password.
func TestSeededAdminCanLockAccounts(t *testing.T) {
	client := setupIdentityContainer(t, nil)
	ctx := t.Context()

	admin, err := client.AuthenticateWithPassword(ctx, adminUsername, adminPassword)
	require.NoError(t, err)
	require.Contains(t, admin.User().Roles, "ROLE_ADMIN")

	bob := registerUser(t, client, "bob")

	_, wrongErr := client.Login(ctx, "bob", "Wrong1234")
	require.ErrorIs(t, wrongErr, identitysdk.ErrInvalidCredentials)

	locked := true
	_, err = admin.SetAccountStatus(ctx, bob.User.UUID, identitysdk.SetStatusRequest{Locked: &locked})
	require.NoError(t, err)

	_, lockedErr := client.Login(ctx, "bob", userPassword)
	require.ErrorIs(t, lockedErr, identitysdk.ErrInvalidCredentials)
	require.Equal(t, wrongErr.Error(), lockedErr.Error())

	_, err = client.NewSession(bob).Me(ctx)
	require.ErrorIs(t, err, identitysdk.ErrUnauthorized, "Gate re-checks account status")
}

// TestSessionCap verifies MAX_SESSIONS_PER_ACCOUNT evicts the least recently
// active session.
func TestSessionCap(t *testing.T) {
	client := setupIdentityContainer(t, map[string]string{"MAX_SESSIONS_PER_ACCOUNT": "2"})
	ctx := t.Context()

	first := registerUser(t, client, "carol")
	_, err := client.Login(ctx, "carol", userPassword)
	require.NoError(t, err)
	third, err := client.AuthenticateWithPassword(ctx, "carol", userPassword)
	require.NoError(t, err)

	sessions, err := third.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	_, err = client.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, identitysdk.ErrInvalidRefreshToken)
}

func TestHealthEndpoints(t *testing.T) {
	client := setupIdentityContainer(t, nil)

	live, err := client.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
}
