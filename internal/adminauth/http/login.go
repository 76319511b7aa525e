package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bastionlabs/adminauth/internal/adminauth/rate"
	"github.com/bastionlabs/adminauth/internal/adminauth/service"
	"github.com/bastionlabs/adminauth/pkg/httpx"
	"github.com/bastionlabs/adminauth/pkg/slogx"
)

// LoginHandler handles the credential and second factor login steps.
type LoginHandler struct {
	GuardService *service.GuardService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type mfaRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
}

// HandleLogin handles POST /v1/login
//
//	@Summary		Admin login
//	@Description	Checks the password and machine fingerprint for an admin account.
//	@Description	Accounts with the second factor enabled receive a challenge id instead
//	@Description	of a token; redeem it at /v1/login/mfa with the emailed code.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	httpx.Result	"Session token or challenge id"
//	@Failure		401		{object}	httpx.Result	"Invalid credentials"
//	@Failure		423		{object}	httpx.Result	"Account locked"
//	@Failure		429		{object}	httpx.Result	"Too many attempts"
//	@Router			/v1/login [post].
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteResult(w, http.StatusBadRequest, false, "Malformed request body.")
		return
	}

	res, err := h.GuardService.Login(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, rate.ErrRateLimited):
		httpx.WriteResult(w, http.StatusTooManyRequests, false, "Too many login attempts. Try again later.")
		return
	case errors.Is(err, service.ErrAccountLocked):
		httpx.WriteResult(w, http.StatusLocked, false, "Admin Account Locked")
		return
	case err != nil:
		log.Warn("login rejected", "err", err)
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Invalid credentials.")
		return
	}

	if res.MFARequired {
		httpx.WriteJSON(w, http.StatusOK, httpx.Result{
			Success:     true,
			Message:     "Verification code sent.",
			MFARequired: true,
			ChallengeID: res.ChallengeID,
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Result{
		Success: true,
		Message: "Login successful.",
		Token:   res.Token,
	})
}

// HandleMFA handles POST /v1/login/mfa
//
//	@Summary		Complete second factor login
//	@Description	Redeems the emailed code against a login challenge and returns the
//	@Description	session token that was withheld at /v1/login.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mfaRequest		true	"Challenge id and code"
//	@Success		200		{object}	httpx.Result	"Session token"
//	@Failure		401		{object}	httpx.Result	"Invalid or expired challenge"
//	@Router			/v1/login/mfa [post].
func (h *LoginHandler) HandleMFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req mfaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteResult(w, http.StatusBadRequest, false, "Malformed request body.")
		return
	}

	token, err := h.GuardService.CompleteMFA(ctx, req.ChallengeID, req.Code)
	if err != nil {
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Invalid or expired verification code.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Result{
		Success: true,
		Message: "Login successful.",
		Token:   token,
	})
}
