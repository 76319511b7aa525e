package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/internal/adminauth/rate"
	"github.com/bastionlabs/adminauth/internal/adminauth/service"
	"github.com/bastionlabs/adminauth/pkg/httpx"
	"github.com/bastionlabs/adminauth/pkg/tokenx"
)

// ResetHandler handles the password reset flow.
type ResetHandler struct {
	ResetService *service.ResetService
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetSubmitRequest struct {
	NewPassword string `json:"new_password"`
}

// HandleRequest handles POST /v1/reset
//
//	@Summary		Request a password reset link
//	@Description	Emails a time-boxed reset link. The response is identical for known
//	@Description	and unknown addresses.
//	@Tags			Reset
//	@Accept			json
//	@Produce		json
//	@Param			request	body		resetRequest	true	"Target address"
//	@Success		200		{object}	httpx.Result	"Link sent if registered"
//	@Failure		429		{object}	httpx.Result	"Too many requests"
//	@Router			/v1/reset [post].
func (h *ResetHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteResult(w, http.StatusBadRequest, false, "Malformed request body.")
		return
	}

	err := h.ResetService.Request(ctx, req.Email)
	switch {
	case errors.Is(err, rate.ErrRateLimited):
		httpx.WriteResult(w, http.StatusTooManyRequests, false, "Too many reset requests. Try again later.")
		return
	case errors.Is(err, domain.ErrEmailInvalid):
		httpx.WriteResult(w, http.StatusBadRequest, false, err.Error())
		return
	case err != nil:
		httpx.WriteResult(w, http.StatusInternalServerError, false, "Reset link delivery failed.")
		return
	}

	httpx.WriteResult(w, http.StatusOK, true, "If the address is registered, a reset link has been sent.")
}

// HandleConfirm handles GET /v1/reset/{token}
//
//	@Summary		Validate a reset token
//	@Description	Checks the emailed token before the reset form is shown.
//	@Tags			Reset
//	@Produce		json
//	@Param			token	path		string			true	"Reset token"
//	@Success		200		{object}	httpx.Result	"Token valid"
//	@Failure		401		{object}	httpx.Result	"Invalid or expired token"
//	@Router			/v1/reset/{token} [get].
func (h *ResetHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	email, err := h.ResetService.Confirm(r.Context(), r.PathValue("token"))
	if err != nil {
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Invalid or expired reset token.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Result{
		Success: true,
		Message: "Token valid.",
		Email:   email,
	})
}

// HandleReset handles POST /v1/reset/{token}
//
//	@Summary		Submit a new password
//	@Description	Verifies the token under the submit window and stores the new password.
//	@Tags			Reset
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string				true	"Reset token"
//	@Param			request	body		resetSubmitRequest	true	"New password"
//	@Success		200		{object}	httpx.Result		"Password updated"
//	@Failure		400		{object}	httpx.Result		"Password too short"
//	@Failure		401		{object}	httpx.Result		"Invalid or expired token"
//	@Router			/v1/reset/{token} [post].
func (h *ResetHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resetSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteResult(w, http.StatusBadRequest, false, "Malformed request body.")
		return
	}

	err := h.ResetService.Reset(ctx, r.PathValue("token"), req.NewPassword)
	switch {
	case errors.Is(err, tokenx.ErrInvalidToken):
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Invalid or expired reset token.")
		return
	case errors.Is(err, domain.ErrNewPasswordTooShort):
		httpx.WriteResult(w, http.StatusBadRequest, false, err.Error())
		return
	case err != nil:
		httpx.WriteResult(w, http.StatusInternalServerError, false, "Password reset failed.")
		return
	}

	httpx.WriteResult(w, http.StatusOK, true, "Password reset successfully.")
}
