package http

import (
	"net/http"
	"strings"

	"github.com/bastionlabs/adminauth/internal/adminauth/service"
	"github.com/bastionlabs/adminauth/pkg/httpx"
)

// SessionHandler verifies and revokes session tokens.
type SessionHandler struct {
	SessionService *service.SessionService
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}
	return ""
}

// HandleVerify handles GET /v1/session
//
//	@Summary		Verify the session token
//	@Description	Checks the bearer token and the server-side session record. Activity
//	@Description	slides the server-side expiry.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	httpx.Result	"Session valid"
//	@Failure		401	{object}	httpx.Result	"Invalid or expired session"
//	@Router			/v1/session [get].
func (h *SessionHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Missing bearer token.")
		return
	}

	_, email, err := h.SessionService.Verify(r.Context(), token)
	if err != nil {
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Invalid or expired session.")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Result{
		Success: true,
		Message: "Session valid.",
		Email:   email,
	})
}

// HandleDestroy handles DELETE /v1/session
//
//	@Summary		Log out
//	@Description	Revokes the session server-side. The token will no longer verify even
//	@Description	before its expiry.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	httpx.Result	"Session revoked"
//	@Failure		401	{object}	httpx.Result	"Invalid session"
//	@Router			/v1/session [delete].
func (h *SessionHandler) HandleDestroy(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Missing bearer token.")
		return
	}

	if err := h.SessionService.Destroy(r.Context(), token); err != nil {
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Invalid session.")
		return
	}

	httpx.WriteResult(w, http.StatusOK, true, "Logged out.")
}
