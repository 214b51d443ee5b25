package identitysdk

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"github.com/aussiebroadwan/identity/pkg/httpx"
)

// Error codes carried in ErrorResponse.ErrorCode.
const (
	ErrorCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrorCodeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	ErrorCodeUnauthorized        = "UNAUTHORIZED"
	ErrorCodeForbidden           = "FORBIDDEN"
	ErrorCodeUsernameTaken       = "USERNAME_TAKEN"
	ErrorCodeEmailTaken          = "EMAIL_TAKEN"
	ErrorCodeConflict            = "CONFLICT"
	ErrorCodeValidationFailed    = "VALIDATION_FAILED"
	ErrorCodeInvalidRequest      = "INVALID_REQUEST"
	ErrorCodeNotFound            = "NOT_FOUND"
	ErrorCodeProtectedAccount    = "PROTECTED_ACCOUNT"
	ErrorCodeRateLimited         = "RATE_LIMITED"
	ErrorCodeInternal            = "INTERNAL_ERROR"
)

// APIError is a typed error response. The server writes it with WriteError
// and the client decodes responses back into it.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on Code, so errors.Is(err, ErrInvalidCredentials) works on
// errors decoded by the client.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// WithDetails returns a copy of e carrying per-field details.
func (e *APIError) WithDetails(details map[string]string) *APIError {
	cp := *e
	cp.Details = maps.Clone(details)
	return &cp
}

// WriteError writes e as an ErrorResponse.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Code, e.Message, e.Details)
}

// Predefined errors. Messages are client facing and deliberately generic.
var (
	// ErrInvalidCredentials covers an unknown identifier, a wrong password and
	// a disabled, locked or banned account alike.
	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidCredentials,
		Message:    "Invalid credentials",
	}

	// ErrInvalidRefreshToken covers unknown, expired, revoked and reused
	// refresh tokens.
	ErrInvalidRefreshToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidRefreshToken,
		Message:    "Invalid or expired refresh token",
	}

	ErrUnauthorized = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
		Message:    "Authentication required",
	}

	ErrForbidden = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeForbidden,
		Message:    "Access denied",
	}

	ErrUsernameTaken = &APIError{
		StatusCode: http.StatusConflict,
		Code:       ErrorCodeUsernameTaken,
		Message:    "Username is already taken",
	}

	ErrEmailTaken = &APIError{
		StatusCode: http.StatusConflict,
		Code:       ErrorCodeEmailTaken,
		Message:    "Email is already registered",
	}

	ErrConflict = &APIError{
		StatusCode: http.StatusConflict,
		Code:       ErrorCodeConflict,
		Message:    "Username or email is already in use",
	}

	ErrValidationFailed = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeValidationFailed,
		Message:    "Validation failed",
	}

	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidRequest,
		Message:    "Malformed request body",
	}

	ErrNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeNotFound,
		Message:    "Resource not found",
	}

	ErrProtectedAccount = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeProtectedAccount,
		Message:    "This change is not allowed for the account",
	}

	ErrInternal = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeInternal,
		Message:    "An unexpected error occurred",
	}
)

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies that
// are not ErrorResponse JSON fall back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.ErrorCode != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       errResp.ErrorCode,
			Message:    errResp.Message,
			Details:    errResp.Details,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       ErrorCodeInternal,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
