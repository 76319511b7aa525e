package httpx

import (
	"encoding/json"
	"net/http"
)

// Result is the envelope every endpoint returns: a success flag and a
// human-readable message, optionally with extra fields. No stack traces or
// internal identifiers ever leave the service.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	Email       string `json:"email,omitempty"`
	Token       string `json:"token,omitempty"`
	ChallengeID string `json:"challenge_id,omitempty"`
	MFARequired bool   `json:"mfa_required,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteResult writes the standard {success, message} envelope.
func WriteResult(w http.ResponseWriter, code int, success bool, message string) {
	WriteJSON(w, code, Result{Success: success, Message: message})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
