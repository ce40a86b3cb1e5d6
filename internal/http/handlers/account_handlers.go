package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/internal/http/response"
)

// SetupAccount finishes trainer onboarding: the magic token from the
// activation email plus a chosen password yields a session.
func (h *Handlers) SetupAccount(w http.ResponseWriter, r *http.Request) {
	var req domain.SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	session, err := h.accountService.SetupAccount(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// VerifyCode redeems the emailed short code instead of the magic link.
func (h *Handlers) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	session, err := h.accountService.VerifyCode(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	session, err := h.accountService.Login(r.Context(), &req)
	if err != nil {
		// Wrong email and wrong password look identical to the caller.
		if errors.Is(err, domain.ErrInvalidToken) {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}
