package http

import (
	"encoding/json"
	"net/http"

	"github.com/bastionlabs/adminauth/internal/adminauth/service"
	"github.com/bastionlabs/adminauth/internal/adminauth/store"
	"github.com/bastionlabs/adminauth/pkg/cryptox"
	"github.com/bastionlabs/adminauth/pkg/httpx"
	"github.com/bastionlabs/adminauth/pkg/slogx"
)

// SecondFactorHandler handles standalone code delivery and verification,
// outside of the login flow.
type SecondFactorHandler struct {
	SecondFactor *service.SecondFactorService
	Store        store.Store
}

type twofaSendRequest struct {
	Email string `json:"email"`
}

type twofaVerifyRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
}

// HandleSend handles POST /v1/2fa/send
//
//	@Summary		Send a verification code
//	@Description	Emails a six digit code to the admin and returns an opaque challenge id.
//	@Description	The code itself never appears in any response.
//	@Tags			SecondFactor
//	@Accept			json
//	@Produce		json
//	@Param			request	body		twofaSendRequest	true	"Target address"
//	@Success		200		{object}	httpx.Result		"Challenge id"
//	@Failure		400		{object}	httpx.Result		"Malformed request"
//	@Router			/v1/2fa/send [post].
func (h *SecondFactorHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req twofaSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteResult(w, http.StatusBadRequest, false, "Malformed request body.")
		return
	}

	identity := cryptox.IdentityHash(req.Email)
	account, err := h.Store.Accounts().GetAccountByNameHash(ctx, identity)
	if err != nil {
		// Same outward shape as the known-address path
		httpx.WriteJSON(w, http.StatusOK, httpx.Result{
			Success: true,
			Message: "If the address is registered, a code has been sent.",
		})
		return
	}

	challengeID, err := h.SecondFactor.Begin(ctx, identity, account.Email, "")
	if err != nil {
		log.Error("code delivery failed", "err", err)
		httpx.WriteResult(w, http.StatusInternalServerError, false, "Code delivery failed.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Result{
		Success:     true,
		Message:     "If the address is registered, a code has been sent.",
		ChallengeID: challengeID,
	})
}

// HandleVerify handles POST /v1/2fa/verify
//
//	@Summary		Verify a code
//	@Description	Redeems a challenge with the emailed code. Challenges are single use.
//	@Tags			SecondFactor
//	@Accept			json
//	@Produce		json
//	@Param			request	body		twofaVerifyRequest	true	"Challenge id and code"
//	@Success		200		{object}	httpx.Result		"Code accepted"
//	@Failure		401		{object}	httpx.Result		"Invalid or expired challenge"
//	@Router			/v1/2fa/verify [post].
func (h *SecondFactorHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req twofaVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteResult(w, http.StatusBadRequest, false, "Malformed request body.")
		return
	}

	if _, _, err := h.SecondFactor.Verify(ctx, req.ChallengeID, req.Code); err != nil {
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Invalid or expired verification code.")
		return
	}

	httpx.WriteResult(w, http.StatusOK, true, "Code verified.")
}
