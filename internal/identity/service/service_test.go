package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/internal/identity/store/drivers/sqlite"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/validx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cryptox.SetPepper("test-pepper-test-pepper-test-pep")
	os.Exit(m.Run())
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	store    *sqlite.Store
	clock    *fakeClock
	codec    *jwtx.Codec
	auth     *AuthService
	accounts *AccountService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec, err := jwtx.NewCodec(jwtx.Config{
		Secret:    []byte("0123456789abcdef0123456789abcdef"),
		Issuer:    "identity-test",
		AccessTTL: 15 * time.Minute,
		Clock:     clock.Now,
	})
	require.NoError(t, err)

	return &fixture{
		store: s,
		clock: clock,
		codec: codec,
		auth: &AuthService{
			Store:      s,
			Codec:      codec,
			Validator:  validx.New(),
			RefreshTTL: 24 * time.Hour,
			Clock:      clock.Now,
		},
		accounts: &AccountService{Store: s, Clock: clock.Now},
	}
}

var web = domain.ClientInfo{UserAgent: "test-agent", IPAddress: "192.0.2.1"}

func (f *fixture) register(t *testing.T, username, email string) *domain.AuthResult {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "Secret123",
	}, web)
	require.NoError(t, err)
	return res
}

func (f *fixture) login(t *testing.T, identifier string) *domain.AuthResult {
	t.Helper()
	res, err := f.auth.Login(context.Background(), LoginInput{
		UsernameOrEmail: identifier,
		Password:        "Secret123",
	}, web)
	require.NoError(t, err)
	return res
}

func TestAliceScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	reg := f.register(t, "alice", "a@x.com")
	require.Equal(t, "alice", reg.Account.Username)
	require.Equal(t, []domain.Role{domain.RoleUser}, reg.Account.Roles)
	require.Equal(t, domain.TokenType, reg.TokenType)
	require.Equal(t, 15*time.Minute, reg.ExpiresIn)

	claims, err := f.codec.Verify(reg.AccessToken)
	require.NoError(t, err)
	require.Equal(t, reg.Account.PublicID, claims.Subject)
	require.Equal(t, []string{"ROLE_USER"}, claims.Roles)

	login := f.login(t, "A@X.COM")
	require.NotEqual(t, reg.SessionID, login.SessionID)

	f.clock.Advance(time.Minute)
	rotated, err := f.auth.Refresh(ctx, login.RefreshToken, web)
	require.NoError(t, err)
	require.NotEqual(t, login.RefreshToken, rotated.RefreshToken)
	require.Equal(t, login.SessionID, rotated.SessionID, "rotation keeps the session")

	_, err = f.auth.Refresh(ctx, login.RefreshToken, web)
	require.ErrorIs(t, err, ErrInvalidRefresh, "rotated token is single use")

	require.NoError(t, f.auth.Logout(ctx, rotated.RefreshToken))
	_, err = f.auth.Refresh(ctx, rotated.RefreshToken, web)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	sessions, err := f.accounts.ListSessions(ctx, reg.Account.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, reg.SessionID, sessions[0].ID)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "alice", "a@x.com")

	t.Run("username conflict ignores case", func(t *testing.T) {
		_, err := f.auth.Register(ctx, RegisterInput{Username: "ALICE", Email: "b@x.com", Password: "Secret123"}, web)
		require.ErrorIs(t, err, ErrUsernameTaken)
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("email conflict ignores case", func(t *testing.T) {
		_, err := f.auth.Register(ctx, RegisterInput{Username: "bob", Email: " A@X.com ", Password: "Secret123"}, web)
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("validation failures name the field", func(t *testing.T) {
		_, err := f.auth.Register(ctx, RegisterInput{Username: "b!", Email: "nope", Password: "weak"}, web)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Contains(t, ve.Fields, "username")
		require.Contains(t, ve.Fields, "email")
		require.Contains(t, ve.Fields, "password")
	})

	t.Run("stored lowercase", func(t *testing.T) {
		res := f.register(t, "Carol_1", "Carol@X.com")
		require.Equal(t, "carol_1", res.Account.Username)
		require.Equal(t, "carol@x.com", res.Account.Email)
	})
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reg := f.register(t, "alice", "a@x.com")

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := f.auth.Login(ctx, LoginInput{UsernameOrEmail: "nobody", Password: "Secret123"}, web)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.auth.Login(ctx, LoginInput{UsernameOrEmail: "alice", Password: "Wrong1234"}, web)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	locked := true
	_, err := f.accounts.SetStatus(ctx, reg.Account.PublicID, StatusUpdate{Locked: &locked})
	require.NoError(t, err)

	t.Run("locked account with right password", func(t *testing.T) {
		_, err := f.auth.Login(ctx, LoginInput{UsernameOrEmail: "alice", Password: "Secret123"}, web)
		require.ErrorIs(t, err, ErrAccountLocked)
		require.ErrorIs(t, err, ErrAccountInactive)
	})

	t.Run("locked account with wrong password", func(t *testing.T) {
		_, err := f.auth.Login(ctx, LoginInput{UsernameOrEmail: "alice", Password: "Wrong1234"}, web)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("locking revoked the registration session", func(t *testing.T) {
		_, err := f.auth.Refresh(ctx, reg.RefreshToken, web)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("expiry is exclusive", func(t *testing.T) {
		f := newFixture(t)
		reg := f.register(t, "alice", "a@x.com")

		f.clock.Advance(24 * time.Hour)
		_, err := f.auth.Refresh(ctx, reg.RefreshToken, web)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("valid just before expiry", func(t *testing.T) {
		f := newFixture(t)
		reg := f.register(t, "alice", "a@x.com")

		f.clock.Advance(24*time.Hour - time.Nanosecond)
		_, err := f.auth.Refresh(ctx, reg.RefreshToken, web)
		require.NoError(t, err)
	})

	t.Run("unknown and blank tokens", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Refresh(ctx, "not-a-token", web)
		require.ErrorIs(t, err, ErrInvalidRefresh)
		_, err = f.auth.Refresh(ctx, "   ", web)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("banned account", func(t *testing.T) {
		f := newFixture(t)
		reg := f.register(t, "alice", "a@x.com")

		// Flip the flag without the revocation SetStatus performs.
		require.NoError(t, f.store.Accounts().UpdateStatus(ctx, reg.Account.ID, storeStatus(true, false, true), f.clock.Now()))

		_, err := f.auth.Refresh(ctx, reg.RefreshToken, web)
		require.ErrorIs(t, err, ErrAccountBanned)
	})

	t.Run("concurrent presentations rotate once", func(t *testing.T) {
		f := newFixture(t)
		reg := f.register(t, "alice", "a@x.com")

		const n = 8
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = f.auth.Refresh(ctx, reg.RefreshToken, web)
			}()
		}
		wg.Wait()

		ok := 0
		for _, err := range errs {
			if err == nil {
				ok++
				continue
			}
			require.ErrorIs(t, err, ErrInvalidRefresh)
		}
		require.Equal(t, 1, ok)
	})

	t.Run("expired session is replaced", func(t *testing.T) {
		f := newFixture(t)
		reg := f.register(t, "alice", "a@x.com")

		_, err := f.store.Sessions().DeactivateSession(ctx, reg.SessionID)
		require.NoError(t, err)

		res, err := f.auth.Refresh(ctx, reg.RefreshToken, web)
		require.NoError(t, err)
		require.NotEqual(t, reg.SessionID, res.SessionID)
	})

	t.Run("deadline fails closed and leaves the token usable", func(t *testing.T) {
		f := newFixture(t)
		reg := f.register(t, "alice", "a@x.com")

		expired, cancel := context.WithDeadline(ctx, time.Now().Add(-time.Second))
		defer cancel()

		res, err := f.auth.Refresh(expired, reg.RefreshToken, web)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Nil(t, res)

		_, err = f.auth.Refresh(ctx, reg.RefreshToken, web)
		require.NoError(t, err, "a failed rotation must not consume the token")
	})

	t.Run("op timeout bounds the call", func(t *testing.T) {
		f := newFixture(t)
		reg := f.register(t, "alice", "a@x.com")

		slow := *f.auth
		slow.Store = stallingStore{Store: f.store}
		slow.OpTimeout = 20 * time.Millisecond

		res, err := slow.Refresh(ctx, reg.RefreshToken, web)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Nil(t, res)

		f.auth.OpTimeout = time.Minute
		_, err = f.auth.Refresh(ctx, reg.RefreshToken, web)
		require.NoError(t, err)
	})
}

// stallingStore holds every transaction until the caller's context is done.
type stallingStore struct {
	store.Store
}

func (s stallingStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	<-ctx.Done()
	return s.Store.WithTx(ctx, fn)
}

func TestLogoutNeverFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reg := f.register(t, "alice", "a@x.com")

	require.NoError(t, f.auth.Logout(ctx, ""))
	require.NoError(t, f.auth.Logout(ctx, "garbage"))
	require.NoError(t, f.auth.Logout(ctx, reg.RefreshToken))
	require.NoError(t, f.auth.Logout(ctx, reg.RefreshToken))

	sessions, err := f.accounts.ListSessions(ctx, reg.Account.ID)
	require.NoError(t, err)
	require.Empty(t, sessions)
}

func TestLogoutWithSupersededToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reg := f.register(t, "alice", "a@x.com")

	f.clock.Advance(time.Minute)
	rotated, err := f.auth.Refresh(ctx, reg.RefreshToken, web)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, reg.RefreshToken))

	sessions, err := f.accounts.ListSessions(ctx, reg.Account.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1, "the session now keyed by the successor stays open")

	next, err := f.auth.Refresh(ctx, rotated.RefreshToken, web)
	require.NoError(t, err)
	require.Equal(t, reg.SessionID, next.SessionID)

	require.NoError(t, f.auth.Logout(ctx, next.RefreshToken))
	sessions, err = f.accounts.ListSessions(ctx, reg.Account.ID)
	require.NoError(t, err)
	require.Empty(t, sessions)
}

func TestDummyHash(t *testing.T) {
	require.ErrorIs(t, cryptox.VerifyPassword("anything", dummyHash()), cryptox.ErrPasswordMismatch)

	failing := func(string) (string, error) { return "", errors.New("entropy exhausted") }
	require.Panics(t, func() { mustDummyHash(failing)() })
}

func TestLogoutAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reg := f.register(t, "alice", "a@x.com")
	other := f.login(t, "alice")
	bob := f.register(t, "bob", "b@x.com")

	require.NoError(t, f.auth.LogoutAll(ctx, reg.Account.ID))

	for _, tok := range []string{reg.RefreshToken, other.RefreshToken} {
		_, err := f.auth.Refresh(ctx, tok, web)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	}

	_, err := f.auth.Refresh(ctx, bob.RefreshToken, web)
	require.NoError(t, err, "other accounts are untouched")
}

func TestMaxSessions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.auth.MaxSessions = 2

	first := f.register(t, "alice", "a@x.com")
	f.clock.Advance(time.Second)
	second := f.login(t, "alice")
	f.clock.Advance(time.Second)
	third := f.login(t, "alice")

	sessions, err := f.accounts.ListSessions(ctx, first.Account.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, third.SessionID, sessions[0].ID)
	require.Equal(t, second.SessionID, sessions[1].ID)

	_, err = f.auth.Refresh(ctx, first.RefreshToken, web)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	reg := f.register(t, "alice", "a@x.com")

	err := f.auth.ChangePassword(ctx, reg.Account.ID, ChangePasswordInput{CurrentPassword: "Wrong1234", NewPassword: "Newpass123"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Fields, "currentPassword")

	err = f.auth.ChangePassword(ctx, reg.Account.ID, ChangePasswordInput{CurrentPassword: "Secret123", NewPassword: "Secret123"})
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Fields, "newPassword")

	require.NoError(t, f.auth.ChangePassword(ctx, reg.Account.ID, ChangePasswordInput{CurrentPassword: "Secret123", NewPassword: "Newpass123"}))

	_, err = f.auth.Refresh(ctx, reg.RefreshToken, web)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	_, err = f.auth.Login(ctx, LoginInput{UsernameOrEmail: "alice", Password: "Secret123"}, web)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, LoginInput{UsernameOrEmail: "alice", Password: "Newpass123"}, web)
	require.NoError(t, err)
}
