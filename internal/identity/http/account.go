package http

import (
	"net/http"

	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/identitysdk"
)

// AccountHandler serves the signed-in account and availability endpoints.
type AccountHandler struct {
	AccountService *service.AccountService
}

// HandleMe handles GET /api/auth/me
//
//	@Summary		Current account
//	@Tags			Account
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	identitysdk.UserResponse	"Account summary"
//	@Failure		401	{object}	identitysdk.ErrorResponse	"Authentication required"
//	@Router			/api/auth/me [get].
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFromContext(r.Context())

	acc, err := h.AccountService.GetByID(r.Context(), p.AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(&acc))
}

// HandleCheckUsername handles GET /api/auth/check-username
//
//	@Summary		Username availability
//	@Tags			Account
//	@Produce		json
//	@Param			username	query		string							true	"Username to check"
//	@Success		200			{object}	identitysdk.AvailabilityResponse	"available"
//	@Failure		400			{object}	identitysdk.ErrorResponse			"Missing username"
//	@Router			/api/auth/check-username [get].
func (h *AccountHandler) HandleCheckUsername(w http.ResponseWriter, r *http.Request) {
	ok, err := h.AccountService.UsernameAvailable(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.AvailabilityResponse{Available: ok})
}

// HandleCheckEmail handles GET /api/auth/check-email
//
//	@Summary		Email availability
//	@Tags			Account
//	@Produce		json
//	@Param			email	query		string							true	"Email to check"
//	@Success		200		{object}	identitysdk.AvailabilityResponse	"available"
//	@Failure		400		{object}	identitysdk.ErrorResponse			"Missing email"
//	@Router			/api/auth/check-email [get].
func (h *AccountHandler) HandleCheckEmail(w http.ResponseWriter, r *http.Request) {
	ok, err := h.AccountService.EmailAvailable(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.AvailabilityResponse{Available: ok})
}

// HandleListSessions handles GET /api/auth/sessions
//
//	@Summary		Active sessions
//	@Description	Lists the caller's live sessions, most recently active first. The session of the presented access token is flagged current.
//	@Tags			Account
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	identitysdk.SessionListResponse	"sessions"
//	@Failure		401	{object}	identitysdk.ErrorResponse		"Authentication required"
//	@Router			/api/auth/sessions [get].
func (h *AccountHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFromContext(r.Context())

	sessions, err := h.AccountService.ListSessions(r.Context(), p.AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := identitysdk.SessionListResponse{Sessions: make([]identitysdk.SessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(s, p.SessionID))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleRevokeSession handles DELETE /api/auth/sessions/{id}
//
//	@Summary		Revoke a session
//	@Tags			Account
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string						true	"Session ID"
//	@Success		200	{object}	identitysdk.MessageResponse	"Session revoked"
//	@Failure		401	{object}	identitysdk.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	identitysdk.ErrorResponse	"No such session"
//	@Router			/api/auth/sessions/{id} [delete].
func (h *AccountHandler) HandleRevokeSession(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFromContext(r.Context())

	if err := h.AccountService.RevokeSession(r.Context(), p.AccountID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identitysdk.MessageResponse{Message: "Session revoked"})
}

// HandleSetStatus handles POST /api/admin/accounts/{publicId}/status
//
//	@Summary		Set account status
//	@Description	Enables, disables, locks or bans an account. An account that can no longer sign in loses all sessions immediately. Administrators cannot be disabled, locked or banned.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			publicId	path		string							true	"Account UUID"
//	@Param			request		body		identitysdk.SetStatusRequest	true	"Flags to change"
//	@Success		200			{object}	identitysdk.AdminAccountResponse	"Updated account"
//	@Failure		400			{object}	identitysdk.ErrorResponse		"Protected account or invalid ban reason"
//	@Failure		401			{object}	identitysdk.ErrorResponse		"Authentication required"
//	@Failure		403			{object}	identitysdk.ErrorResponse		"Access denied"
//	@Failure		404			{object}	identitysdk.ErrorResponse		"No such account"
//	@Router			/api/admin/accounts/{publicId}/status [post].
func (h *AccountHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.SetStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		identitysdk.ErrInvalidRequest.WriteError(w)
		return
	}

	acc, err := h.AccountService.SetStatus(r.Context(), r.PathValue("publicId"), service.StatusUpdate{
		Enabled:   req.Enabled,
		Locked:    req.Locked,
		Banned:    req.Banned,
		BanReason: req.BanReason,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAdminAccountResponse(&acc))
}

// HandleSetRole handles PUT /api/admin/accounts/{publicId}/role
//
//	@Summary		Set account role
//	@Description	Replaces the account's role. ROLE_USER is always kept. Administrators cannot change their own role.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			publicId	path		string							true	"Account UUID"
//	@Param			request		body		identitysdk.SetRoleRequest		true	"Role to grant"
//	@Success		200			{object}	identitysdk.AdminAccountResponse	"Updated account"
//	@Failure		400			{object}	identitysdk.ErrorResponse		"Unknown role or own account"
//	@Failure		401			{object}	identitysdk.ErrorResponse		"Authentication required"
//	@Failure		403			{object}	identitysdk.ErrorResponse		"Access denied"
//	@Failure		404			{object}	identitysdk.ErrorResponse		"No such account"
//	@Router			/api/admin/accounts/{publicId}/role [put].
func (h *AccountHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	var req identitysdk.SetRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		identitysdk.ErrInvalidRequest.WriteError(w)
		return
	}
	p, _ := httpx.PrincipalFromContext(r.Context())

	acc, err := h.AccountService.SetRole(r.Context(), p.AccountID, r.PathValue("publicId"), req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAdminAccountResponse(&acc))
}
