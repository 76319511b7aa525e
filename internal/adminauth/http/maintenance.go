package http

import (
	"encoding/json"
	"net/http"

	"github.com/bastionlabs/adminauth/internal/adminauth/service"
	"github.com/bastionlabs/adminauth/pkg/httpx"
)

// MaintenanceHandler triggers the background jobs on demand.
type MaintenanceHandler struct {
	MaintenanceService *service.MaintenanceService
	SessionService     *service.SessionService
}

type maintenanceRequest struct {
	// Task selects a single job: "clean_cache" or "refresh_filings".
	// Empty runs both.
	Task string `json:"task"`
}

// HandleRun handles POST /v1/maintenance
//
//	@Summary		Run maintenance now
//	@Description	Runs the cache sweep and/or filings refresh immediately instead of
//	@Description	waiting for the next tick. Requires a valid session.
//	@Tags			Maintenance
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		maintenanceRequest	false	"Job selector"
//	@Success		200		{object}	httpx.Result		"Jobs completed"
//	@Failure		400		{object}	httpx.Result		"Unknown task"
//	@Failure		401		{object}	httpx.Result		"Invalid or expired session"
//	@Router			/v1/maintenance [post].
func (h *MaintenanceHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := bearerToken(r)
	if token == "" {
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Missing bearer token.")
		return
	}
	if _, _, err := h.SessionService.Verify(ctx, token); err != nil {
		httpx.WriteResult(w, http.StatusUnauthorized, false, "Invalid or expired session.")
		return
	}

	var req maintenanceRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteResult(w, http.StatusBadRequest, false, "Malformed request body.")
			return
		}
	}

	switch req.Task {
	case "clean_cache":
		h.MaintenanceService.CleanCache(ctx)
	case "refresh_filings":
		h.MaintenanceService.RefreshFilings(ctx)
	case "":
		h.MaintenanceService.CleanCache(ctx)
		h.MaintenanceService.RefreshFilings(ctx)
	default:
		httpx.WriteResult(w, http.StatusBadRequest, false, "Unknown maintenance task.")
		return
	}

	httpx.WriteResult(w, http.StatusOK, true, "Maintenance completed.")
}
