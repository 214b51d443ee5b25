package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/metrics"
	"github.com/aussiebroadwan/identity/internal/identity/store"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/idx"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/aussiebroadwan/identity/pkg/validx"
)

// RegisterInput is a new account request. Username and email are normalised
// to lowercase before validation.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=50,username"`
	Email     string `json:"email" validate:"required,max=100,email"`
	Password  string `json:"password" validate:"required,min=8,max=128,password"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
}

func (in *RegisterInput) normalize() {
	in.Username = domain.NormalizeIdentifier(in.Username)
	in.Email = domain.NormalizeIdentifier(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
}

// LoginInput identifies an account by username or email.
type LoginInput struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required,max=100"`
	Password        string `json:"password" validate:"required,max=128"`
}

// ChangePasswordInput replaces the password of a signed-in account.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required,max=128"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128,password"`
}

// AuthService is the only component that creates or rotates credentials.
type AuthService struct {
	Store     store.Store
	Codec     *jwtx.Codec
	Validator *validx.Validator

	RefreshTTL time.Duration

	// MaxSessions caps concurrent sessions per account; the least recently
	// active ones are closed when a new one opens. Zero means unlimited.
	MaxSessions int

	// OpTimeout bounds Refresh end to end. Zero means no extra deadline.
	OpTimeout time.Duration

	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

// dummyHash is verified against when the identifier is unknown so both
// login failure paths cost one argon2 derivation.
var dummyHash = sync.OnceValue(mustDummyHash(cryptox.HashPassword))

// mustDummyHash panics rather than hand back an empty hash, which would let
// unknown identifiers fail measurably faster than wrong passwords.
func mustDummyHash(hash func(string) (string, error)) func() string {
	return func() string {
		h, err := hash("dummy-password-for-timing")
		if err != nil {
			panic("service: dummy password hash: " + err.Error())
		}
		return h
	}
}

// Register creates an account with the default role and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, client domain.ClientInfo) (*domain.AuthResult, error) {
	l := slogx.FromContext(ctx)

	in.normalize()
	if err := validate(s.Validator, in); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	acc := domain.Account{
		ID:           idx.NewAt(now).String(),
		PublicID:     idx.NewPublic().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Roles:        []domain.Role{domain.DefaultRole},
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  &now,
	}

	var result *domain.AuthResult
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if taken, err := tx.Accounts().UsernameExists(ctx, acc.Username); err != nil {
			return err
		} else if taken {
			return ErrUsernameTaken
		}
		if taken, err := tx.Accounts().EmailExists(ctx, acc.Email); err != nil {
			return err
		} else if taken {
			return ErrEmailTaken
		}

		if err := tx.Accounts().CreateAccount(ctx, acc); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrConflict
			}
			return err
		}

		result, err = s.issue(ctx, tx, &acc, client, now)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			l.Info("registration conflict", "err", err)
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	l.Info("account registered", "account_id", acc.ID)
	return result, nil
}

// Login verifies credentials and opens a new session. The account status is
// only checked once the password is known to be right.
func (s *AuthService) Login(ctx context.Context, in LoginInput, client domain.ClientInfo) (*domain.AuthResult, error) {
	l := slogx.FromContext(ctx)

	if err := validate(s.Validator, in); err != nil {
		return nil, err
	}
	identifier := domain.NormalizeIdentifier(in.UsernameOrEmail)

	acc, err := s.Store.Accounts().GetAccountByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(in.Password, dummyHash())
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			l.Info("login for unknown identifier")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(in.Password, acc.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unusable", "account_id", acc.ID, "err", err)
		}
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		l.Info("login with wrong password", "account_id", acc.ID)
		return nil, ErrInvalidCredentials
	}

	if err := statusError(&acc); err != nil {
		metrics.LoginsTotal.WithLabelValues(acc.Status().String()).Inc()
		l.Info("login for inactive account", "account_id", acc.ID, "status", acc.Status().String())
		return nil, err
	}

	now := s.now()
	var result *domain.AuthResult
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().UpdateLastLogin(ctx, acc.ID, now); err != nil {
			return err
		}
		acc.LastLoginAt = &now

		var err error
		result, err = s.issue(ctx, tx, &acc, client, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	l.Info("login succeeded", "account_id", acc.ID, "session_id", result.SessionID)
	return result, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// single use: it is revoked by a conditional write in the same transaction
// that creates its replacement, so of two concurrent calls with the same
// value exactly one succeeds. Any store failure or deadline fails the call.
func (s *AuthService) Refresh(ctx context.Context, value string, client domain.ClientInfo) (*domain.AuthResult, error) {
	if s.OpTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.OpTimeout)
		defer cancel()
	}
	l := slogx.FromContext(ctx)

	value = strings.TrimSpace(value)
	if value == "" {
		metrics.RefreshesTotal.WithLabelValues("unknown").Inc()
		return nil, ErrInvalidRefresh
	}
	fp := cryptox.FingerprintToken(value)
	now := s.now()

	var result *domain.AuthResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rt, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				metrics.RefreshesTotal.WithLabelValues("unknown").Inc()
				l.Info("refresh with unknown token", slogx.Fingerprint("token_fp", fp))
				return ErrInvalidRefresh
			}
			return err
		}

		if rt.Revoked {
			metrics.RefreshesTotal.WithLabelValues("reused").Inc()
			metrics.RefreshReuseTotal.Inc()
			l.Warn("refresh_token_reuse",
				slog.String("account_id", rt.AccountID),
				slog.String("session_id", rt.SessionID),
				slogx.Fingerprint("token_fp", fp),
				slog.String("ip", client.IPAddress),
			)
			return ErrInvalidRefresh
		}
		if !rt.IsValid(now) {
			metrics.RefreshesTotal.WithLabelValues("expired").Inc()
			l.Info("refresh with expired token", slog.String("account_id", rt.AccountID))
			return ErrInvalidRefresh
		}

		acc, err := tx.Accounts().GetAccountByID(ctx, rt.AccountID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if err := statusError(&acc); err != nil {
			metrics.RefreshesTotal.WithLabelValues("account_inactive").Inc()
			l.Info("refresh for inactive account", "account_id", acc.ID, "status", acc.Status().String())
			return err
		}

		if err := tx.RefreshTokens().ConsumeRefreshToken(ctx, fp, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				metrics.RefreshesTotal.WithLabelValues("raced").Inc()
				l.Warn("refresh token consumed concurrently", slog.String("account_id", acc.ID))
				return ErrInvalidRefresh
			}
			return err
		}

		result, err = s.rotate(ctx, tx, &acc, rt.SessionID, client, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RefreshesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	l.Debug("refresh token rotated", "account_id", result.Account.ID, "session_id", result.SessionID)
	return result, nil
}

// Logout revokes a refresh token and closes its session. Unknown or already
// revoked tokens are not an error and change nothing: a superseded value must
// not end the session its successor now keys. Only store failures are returned.
func (s *AuthService) Logout(ctx context.Context, value string) error {
	l := slogx.FromContext(ctx)

	value = strings.TrimSpace(value)
	if value == "" {
		l.Debug("logout without refresh token")
		return nil
	}
	fp := cryptox.FingerprintToken(value)
	now := s.now()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rt, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				l.Info("logout with unknown refresh token", slogx.Fingerprint("token_fp", fp))
				return nil
			}
			return err
		}

		if rt.Revoked {
			l.Info("logout with revoked refresh token",
				slog.String("account_id", rt.AccountID),
				slog.String("session_id", rt.SessionID),
				slogx.Fingerprint("token_fp", fp),
			)
			return nil
		}

		if _, err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp, now); err != nil {
			return err
		}
		closed, err := tx.Sessions().DeactivateSessionByHash(ctx, fp)
		if err != nil {
			return err
		}

		l.Info("logged out", "account_id", rt.AccountID, "session_id", rt.SessionID, "session_closed", closed)
		return nil
	})
	if err != nil {
		return err
	}

	metrics.LogoutsTotal.WithLabelValues("single").Inc()
	return nil
}

// LogoutAll revokes every refresh token and closes every session of the
// account as one transaction.
func (s *AuthService) LogoutAll(ctx context.Context, accountID string) error {
	if err := s.revokeEverything(ctx, accountID, s.now()); err != nil {
		return err
	}
	metrics.LogoutsTotal.WithLabelValues("all").Inc()
	return nil
}

func (s *AuthService) revokeEverything(ctx context.Context, accountID string, now time.Time) error {
	l := slogx.FromContext(ctx)

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		tokens, err := tx.RefreshTokens().RevokeAccountRefreshTokens(ctx, accountID, now)
		if err != nil {
			return err
		}
		sessions, err := tx.Sessions().DeactivateAllAccountSessions(ctx, accountID)
		if err != nil {
			return err
		}

		l.Info("revoked all credentials",
			"account_id", accountID,
			"refresh_tokens", tokens,
			"sessions", sessions,
		)
		return nil
	})
}

// ChangePassword verifies the current password, stores the new one and
// signs the account out everywhere.
func (s *AuthService) ChangePassword(ctx context.Context, accountID string, in ChangePasswordInput) error {
	l := slogx.FromContext(ctx)

	if err := validate(s.Validator, in); err != nil {
		return err
	}

	acc, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := cryptox.VerifyPassword(in.CurrentPassword, acc.PasswordHash); err != nil {
		l.Info("password change with wrong current password", "account_id", acc.ID)
		return invalidField("currentPassword", "currentPassword is incorrect")
	}
	if in.CurrentPassword == in.NewPassword {
		return invalidField("newPassword", "newPassword must differ from the current password")
	}

	hash, err := cryptox.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}

	now := s.now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().UpdatePasswordHash(ctx, acc.ID, hash, now); err != nil {
			return err
		}
		if _, err := tx.RefreshTokens().RevokeAccountRefreshTokens(ctx, acc.ID, now); err != nil {
			return err
		}
		_, err := tx.Sessions().DeactivateAllAccountSessions(ctx, acc.ID)
		return err
	})
	if err != nil {
		return err
	}

	l.Info("password changed", "account_id", acc.ID)
	return nil
}

// issue opens a session, records its refresh token and signs an access
// token. It runs inside the caller's transaction.
func (s *AuthService) issue(
	ctx context.Context,
	tx store.Tx,
	acc *domain.Account,
	client domain.ClientInfo,
	now time.Time,
) (*domain.AuthResult, error) {
	client = client.Normalize()

	value, fp, err := cryptox.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	sess := domain.Session{
		ID:             idx.NewAt(now).String(),
		AccountID:      acc.ID,
		TokenHash:      fp,
		DeviceInfo:     client.UserAgent,
		IPAddress:      client.IPAddress,
		Active:         true,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.refreshTTL()),
	}
	if err := tx.Sessions().CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	if err := s.recordRefresh(ctx, tx, acc.ID, sess.ID, fp, client, now); err != nil {
		return nil, err
	}

	if err := s.enforceSessionLimit(ctx, tx, acc.ID, sess.ID, now); err != nil {
		return nil, err
	}

	return s.sign(acc, sess.ID, value)
}

// rotate replaces the session's refresh token. A session that is gone or
// expired is replaced by a fresh one.
func (s *AuthService) rotate(
	ctx context.Context,
	tx store.Tx,
	acc *domain.Account,
	sessionID string,
	client domain.ClientInfo,
	now time.Time,
) (*domain.AuthResult, error) {
	client = client.Normalize()

	sess, err := tx.Sessions().GetSessionByID(ctx, sessionID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err != nil || !sess.IsValid(now) {
		return s.issue(ctx, tx, acc, client, now)
	}

	value, fp, err := cryptox.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	sess.TokenHash = fp
	sess.Touch(now)
	sess.ExpiresAt = now.Add(s.refreshTTL())
	if client.UserAgent != "" {
		sess.DeviceInfo = client.UserAgent
	}
	if client.IPAddress != "" {
		sess.IPAddress = client.IPAddress
	}
	if err := tx.Sessions().RotateSessionToken(ctx, sess); err != nil {
		return nil, err
	}

	if err := s.recordRefresh(ctx, tx, acc.ID, sess.ID, fp, client, now); err != nil {
		return nil, err
	}

	return s.sign(acc, sess.ID, value)
}

func (s *AuthService) recordRefresh(
	ctx context.Context,
	tx store.Tx,
	accountID, sessionID, fp string,
	client domain.ClientInfo,
	now time.Time,
) error {
	return tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:         idx.NewAt(now).String(),
		AccountID:  accountID,
		SessionID:  sessionID,
		TokenHash:  fp,
		DeviceInfo: client.UserAgent,
		IPAddress:  client.IPAddress,
		ExpiresAt:  now.Add(s.refreshTTL()),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// enforceSessionLimit closes the least recently active sessions beyond
// MaxSessions. The session just opened is always kept.
func (s *AuthService) enforceSessionLimit(
	ctx context.Context,
	tx store.Tx,
	accountID, currentID string,
	now time.Time,
) error {
	if s.MaxSessions <= 0 {
		return nil
	}

	active, err := tx.Sessions().ListActiveSessions(ctx, accountID, now)
	if err != nil {
		return err
	}

	kept := 1
	for _, sess := range active {
		if sess.ID == currentID {
			continue
		}
		if kept < s.MaxSessions {
			kept++
			continue
		}

		if _, err := tx.Sessions().DeactivateSession(ctx, sess.ID); err != nil {
			return err
		}
		if _, err := tx.RefreshTokens().RevokeSessionRefreshTokens(ctx, sess.ID, now); err != nil {
			return err
		}
		metrics.SessionsEvictedTotal.Inc()
		slogx.FromContext(ctx).Info("session evicted by limit", "account_id", accountID, "session_id", sess.ID)
	}
	return nil
}

func (s *AuthService) sign(acc *domain.Account, sessionID, refresh string) (*domain.AuthResult, error) {
	access, _, err := s.Codec.Issue(jwtx.Subject{
		PublicID:  acc.PublicID,
		Username:  acc.Username,
		Roles:     acc.RoleNames(),
		SessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{
		TokenPair: domain.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			TokenType:    domain.TokenType,
			ExpiresIn:    s.Codec.AccessTTL(),
		},
		Account:   acc,
		SessionID: sessionID,
	}, nil
}
