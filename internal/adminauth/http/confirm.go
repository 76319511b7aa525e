package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bastionlabs/adminauth/internal/adminauth/domain"
	"github.com/bastionlabs/adminauth/internal/adminauth/service"
	"github.com/bastionlabs/adminauth/pkg/httpx"
)

// ConfirmHandler handles email address confirmation.
type ConfirmHandler struct {
	ConfirmService *service.ConfirmService
}

type confirmRequest struct {
	Email string `json:"email"`
}

// HandleSend handles POST /v1/confirm
//
//	@Summary		Send an email confirmation link
//	@Tags			Confirm
//	@Accept			json
//	@Produce		json
//	@Param			request	body		confirmRequest	true	"Target address"
//	@Success		200		{object}	httpx.Result	"Link sent"
//	@Failure		400		{object}	httpx.Result	"Invalid address"
//	@Router			/v1/confirm [post].
func (h *ConfirmHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteResult(w, http.StatusBadRequest, false, "Malformed request body.")
		return
	}

	err := h.ConfirmService.SendConfirmation(ctx, req.Email)
	switch {
	case errors.Is(err, domain.ErrEmailInvalid):
		httpx.WriteResult(w, http.StatusBadRequest, false, err.Error())
		return
	case err != nil:
		httpx.WriteResult(w, http.StatusInternalServerError, false, "Confirmation link delivery failed.")
		return
	}

	httpx.WriteResult(w, http.StatusOK, true, "Confirmation link sent.")
}

// HandleConfirm handles GET /v1/confirm/{token}
//
//	@Summary		Confirm an email address
//	@Tags			Confirm
//	@Produce		json
//	@Param			token	path		string			true	"Confirmation token"
//	@Success		200		{object}	httpx.Result	"Address confirmed"
//	@Failure		401		{object}	httpx.Result	"Invalid or expired token"
//	@Router			/v1/confirm/{token} [get].
func (h *ConfirmHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	email, err := h.ConfirmService.Confirm(r.Context(), r.PathValue("token"))
	if err != nil {
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Invalid or expired confirmation token.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Result{
		Success: true,
		Message: "Email confirmed.",
		Email:   email,
	})
}
