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

// UnlockHandler handles the account unlock flow.
type UnlockHandler struct {
	UnlockService *service.UnlockService
}

type unlockRequest struct {
	Email string `json:"email"`
}

// HandleRequest handles POST /v1/unlock
//
//	@Summary		Request an unlock link
//	@Description	Emails a time-boxed unlock link for a locked account. The response is
//	@Description	identical for unknown addresses and accounts that are not locked.
//	@Tags			Unlock
//	@Accept			json
//	@Produce		json
//	@Param			request	body		unlockRequest	true	"Target address"
//	@Success		200		{object}	httpx.Result	"Link sent if applicable"
//	@Failure		429		{object}	httpx.Result	"Too many requests"
//	@Router			/v1/unlock [post].
func (h *UnlockHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req unlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteResult(w, http.StatusBadRequest, false, "Malformed request body.")
		return
	}

	err := h.UnlockService.Request(ctx, req.Email)
	switch {
	case errors.Is(err, rate.ErrRateLimited):
		httpx.WriteResult(w, http.StatusTooManyRequests, false, "Too many unlock requests. Try again later.")
		return
	case errors.Is(err, domain.ErrEmailInvalid):
		httpx.WriteResult(w, http.StatusBadRequest, false, err.Error())
		return
	case err != nil:
		httpx.WriteResult(w, http.StatusInternalServerError, false, "Unlock link delivery failed.")
		return
	}

	httpx.WriteResult(w, http.StatusOK, true, "If the account is locked, an unlock link has been sent.")
}

// HandleConfirm handles GET /v1/unlock/{token}
//
//	@Summary		Validate an unlock token
//	@Tags			Unlock
//	@Produce		json
//	@Param			token	path		string			true	"Unlock token"
//	@Success		200		{object}	httpx.Result	"Token valid"
//	@Failure		401		{object}	httpx.Result	"Invalid or expired token"
//	@Router			/v1/unlock/{token} [get].
func (h *UnlockHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	email, err := h.UnlockService.Confirm(r.Context(), r.PathValue("token"))
	if err != nil {
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Invalid or expired unlock token.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Result{
		Success: true,
		Message: "Token valid.",
		Email:   email,
	})
}

// HandleUnlock handles POST /v1/unlock/{token}
//
//	@Summary		Unlock the account
//	@Description	Verifies the token, clears the lock flag, and resets the login counter.
//	@Tags			Unlock
//	@Produce		json
//	@Param			token	path		string			true	"Unlock token"
//	@Success		200		{object}	httpx.Result	"Account unlocked"
//	@Failure		401		{object}	httpx.Result	"Invalid or expired token"
//	@Router			/v1/unlock/{token} [post].
func (h *UnlockHandler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	err := h.UnlockService.Unlock(r.Context(), r.PathValue("token"))
	switch {
	case errors.Is(err, tokenx.ErrInvalidToken):
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Invalid or expired unlock token.")
		return
	case err != nil:
		httpx.WriteResult(w, http.StatusInternalServerError, false, "Account unlock failed.")
		return
	}

	httpx.WriteResult(w, http.StatusOK, true, "Account unlocked.")
}
