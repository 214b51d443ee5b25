package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/pkg/validx"
)

var (
	// ErrConflict is the parent of every uniqueness failure.
	ErrConflict      = errors.New("conflict")
	ErrUsernameTaken = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email already registered", ErrConflict)

	// ErrInvalidCredentials covers an unknown identifier and a wrong password
	// alike.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrAccountInactive is the parent of the account status failures. They
	// are only reported after the password has been verified.
	ErrAccountInactive = errors.New("account_inactive")
	ErrAccountDisabled = fmt.Errorf("%w: disabled", ErrAccountInactive)
	ErrAccountLocked   = fmt.Errorf("%w: locked", ErrAccountInactive)
	ErrAccountBanned   = fmt.Errorf("%w: banned", ErrAccountInactive)

	// ErrInvalidRefresh covers unknown, expired, revoked and reused refresh
	// tokens, and a lost rotation race.
	ErrInvalidRefresh = errors.New("invalid_refresh_token")

	ErrNotFound = errors.New("not_found")

	// ErrProtectedAccount rejects administrative changes that would take
	// sign-in away from an administrator or let one change their own role.
	ErrProtectedAccount = errors.New("protected_account")
)

// ValidationError carries per-field messages safe to show to the client.
type ValidationError struct {
	Fields validx.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}

func invalidField(field, msg string) *ValidationError {
	return &ValidationError{Fields: validx.FieldErrors{field: msg}}
}

// validate runs v over in and wraps field failures in a ValidationError.
func validate(v *validx.Validator, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var fe validx.FieldErrors
	if errors.As(err, &fe) {
		return &ValidationError{Fields: fe}
	}
	return err
}

// statusError maps an account that may not sign in to its typed error.
func statusError(a *domain.Account) error {
	switch a.Status() {
	case domain.StatusDisabled:
		return ErrAccountDisabled
	case domain.StatusLocked:
		return ErrAccountLocked
	case domain.StatusBanned:
		return ErrAccountBanned
	default:
		return nil
	}
}
