package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// decodeJSON reads a single JSON object from the body. Unknown fields are
// ignored; an empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// clientInfo captures the caller's device and origin address for the ledger.
func clientInfo(r *http.Request) domain.ClientInfo {
	return domain.ClientInfo{
		UserAgent: r.UserAgent(),
		IPAddress: httpx.ClientIP(r),
	}.Normalize()
}

func toUserResponse(a *domain.Account) identitysdk.UserResponse {
	return identitysdk.UserResponse{
		UUID:          a.PublicID,
		Username:      a.Username,
		Email:         a.Email,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		FullName:      a.FullName(),
		EmailVerified: a.EmailVerified,
		Roles:         a.RoleNames(),
		CreatedAt:     a.CreatedAt,
		LastLoginAt:   a.LastLoginAt,
	}
}

func toAdminAccountResponse(a *domain.Account) identitysdk.AdminAccountResponse {
	return identitysdk.AdminAccountResponse{
		UserResponse: toUserResponse(a),
		Status:       a.Status().String(),
		Enabled:      a.Enabled,
		Locked:       a.Locked,
		Banned:       a.Banned,
		BanReason:    a.BanReason,
	}
}

func toAuthResponse(res *domain.AuthResult) identitysdk.AuthResponse {
	return identitysdk.AuthResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		TokenType:    res.TokenType,
		ExpiresIn:    int64(res.ExpiresIn / time.Second),
		User:         toUserResponse(res.Account),
	}
}

func toSessionResponse(s domain.Session, currentID string) identitysdk.SessionResponse {
	return identitysdk.SessionResponse{
		ID:             s.ID,
		DeviceInfo:     s.DeviceInfo,
		IPAddress:      s.IPAddress,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
		ExpiresAt:      s.ExpiresAt,
		Current:        s.ID == currentID,
	}
}
