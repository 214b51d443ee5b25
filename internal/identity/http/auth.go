package http

import (
	"net/http"

	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/aussiebroadwan/identity/pkg/slogx"
)

// AuthHandler serves the credential endpoints under /api/auth.
type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister handles POST /api/auth/register
//
//	@Summary		Register an account
//	@Description	Creates an account with the default role and signs it in. Username and email are unique ignoring case.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.RegisterRequest	true	"New account"
//	@Success		201		{object}	identitysdk.AuthResponse	"Token envelope"
//	@Failure		400		{object}	identitysdk.ErrorResponse	"Validation failed"
//	@Failure		409		{object}	identitysdk.ErrorResponse	"Username or email taken"
//	@Failure		429		{object}	identitysdk.ErrorResponse	"Rate limited"
//	@Router			/api/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		identitysdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, clientInfo(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAuthResponse(res))
}

// HandleLogin handles POST /api/auth/login
//
//	@Summary		Sign in
//	@Description	Verifies a username or email and password and opens a new session.
//	@Description	Unknown accounts, wrong passwords and disabled, locked or banned accounts all return the same 401.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	identitysdk.AuthResponse	"Token envelope"
//	@Failure		400		{object}	identitysdk.ErrorResponse	"Validation failed"
//	@Failure		401		{object}	identitysdk.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	identitysdk.ErrorResponse	"Rate limited"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		identitysdk.ErrInvalidRequest.WriteError(w)
		return
	}

	res, err := h.AuthService.Login(r.Context(), service.LoginInput{
		UsernameOrEmail: req.UsernameOrEmail,
		Password:        req.Password,
	}, clientInfo(r))
	if err != nil {
		writeLoginError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAuthResponse(res))
}

// HandleRefresh handles POST /api/auth/refresh
//
//	@Summary		Rotate a refresh token
//	@Description	Exchanges a refresh token for a new pair. The presented token is revoked; presenting it again fails.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	identitysdk.AuthResponse	"Token envelope"
//	@Failure		400		{object}	identitysdk.ErrorResponse	"Missing refresh token"
//	@Failure		401		{object}	identitysdk.ErrorResponse	"Invalid or expired refresh token"
//	@Router			/api/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		identitysdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.RefreshToken == "" {
		identitysdk.ErrValidationFailed.
			WithDetails(map[string]string{"refreshToken": "refreshToken is required"}).
			WriteError(w)
		return
	}

	res, err := h.AuthService.Refresh(r.Context(), req.RefreshToken, clientInfo(r))
	if err != nil {
		writeRefreshError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAuthResponse(res))
}

// HandleLogout handles POST /api/auth/logout
//
//	@Summary		Sign out
//	@Description	Revokes the refresh token and closes its session. Always succeeds so clients can clear local state.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identitysdk.RefreshRequest	false	"Refresh token"
//	@Success		200		{object}	identitysdk.MessageResponse	"Logged out"
//	@Router			/api/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slogx.FromContext(r.Context()).Debug("logout with unreadable body", "err", err)
	}

	if err := h.AuthService.Logout(r.Context(), req.RefreshToken); err != nil {
		slogx.FromContext(r.Context()).Error("logout failed", "err", err)
	}

	httpx.WriteJSON(w, http.StatusOK, identitysdk.MessageResponse{Message: "Logged out successfully"})
}

// HandleLogoutAll handles POST /api/auth/logout-all
//
//	@Summary		Sign out everywhere
//	@Description	Revokes every refresh token and closes every session of the caller.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	identitysdk.MessageResponse	"Logged out of all sessions"
//	@Failure		401	{object}	identitysdk.ErrorResponse	"Authentication required"
//	@Router			/api/auth/logout-all [post].
func (h *AuthHandler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFromContext(r.Context())

	if err := h.AuthService.LogoutAll(r.Context(), p.AccountID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, identitysdk.MessageResponse{Message: "Logged out of all sessions"})
}

// HandleChangePassword handles POST /api/auth/change-password
//
//	@Summary		Change password
//	@Description	Replaces the caller's password and signs the account out everywhere.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		identitysdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	identitysdk.MessageResponse			"Password changed"
//	@Failure		400		{object}	identitysdk.ErrorResponse			"Validation failed"
//	@Failure		401		{object}	identitysdk.ErrorResponse			"Authentication required"
//	@Router			/api/auth/change-password [post].
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFromContext(r.Context())

	var req identitysdk.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		identitysdk.ErrInvalidRequest.WriteError(w)
		return
	}

	err := h.AuthService.ChangePassword(r.Context(), p.AccountID, service.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, identitysdk.MessageResponse{Message: "Password changed successfully"})
}
