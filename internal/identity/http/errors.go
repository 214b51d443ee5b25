package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

// writeServiceError maps service errors to their client facing response.
// Account status failures are reported exactly like bad credentials so the
// response never reveals whether a password was right.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError

	switch {
	case errors.As(err, &ve):
		identitysdk.ErrValidationFailed.WithDetails(ve.Fields).WriteError(w)
	case errors.Is(err, service.ErrUsernameTaken):
		identitysdk.ErrUsernameTaken.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		identitysdk.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrConflict):
		identitysdk.ErrConflict.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		identitysdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		identitysdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrProtectedAccount):
		identitysdk.ErrProtectedAccount.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		identitysdk.ErrInternal.WriteError(w)
	}
}

// writeLoginError is writeServiceError for credential checks.
func writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrAccountInactive) {
		identitysdk.ErrInvalidCredentials.WriteError(w)
		return
	}
	writeServiceError(w, r, err)
}

// writeRefreshError is writeServiceError for refresh token exchanges.
func writeRefreshError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrInvalidRefresh) || errors.Is(err, service.ErrAccountInactive) {
		identitysdk.ErrInvalidRefreshToken.WriteError(w)
		return
	}
	writeServiceError(w, r, err)
}
