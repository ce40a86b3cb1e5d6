package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/internal/http/response"
)

// CreateTempTrainer builds a preview profile from the trainer intake form
// and returns the capability link pieces: id, token and expiry.
func (h *Handlers) CreateTempTrainer(w http.ResponseWriter, r *http.Request) {
	var req domain.TempTrainerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	trainer, err := h.trainerService.CreatePreview(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"trainer": domain.Normalize(trainer),
		"token":   trainer.Token,
	})
}

// GetTempTrainer serves the preview page data. The token travels as a
// query parameter; it is a capability secret, not a login.
func (h *Handlers) GetTempTrainer(w http.ResponseWriter, r *http.Request) {
	tempID := chi.URLParam(r, "tempID")
	token := r.URL.Query().Get("token")

	view, err := h.trainerService.GetPreview(r.Context(), tempID, token)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"trainer": view,
	})
}

type tempTrainerUpdateReq struct {
	Token string `json:"token"`
	domain.TempTrainerPatch
}

// UpdateTempTrainer applies edit-in-place changes from the preview page.
// The response is an acknowledgement only; the page re-reads afterwards.
func (h *Handlers) UpdateTempTrainer(w http.ResponseWriter, r *http.Request) {
	tempID := chi.URLParam(r, "tempID")

	var req tempTrainerUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if err := h.trainerService.UpdatePreview(r.Context(), tempID, req.Token, req.TempTrainerPatch); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ListTempTrainers is the admin view of recent previews.
func (h *Handlers) ListTempTrainers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	trainers, err := h.trainerService.ListPreviews(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w, "Failed to list previews", err.Error())
		return
	}

	// Tokens stay server-side on the admin listing
	views := make([]domain.TempTrainerView, 0, len(trainers))
	for i := range trainers {
		views = append(views, domain.Normalize(&trainers[i]))
	}

	writeJSON(w, http.StatusOK, views)
}
