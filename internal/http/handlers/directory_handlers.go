package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/juicefit/juice-platform/internal/directory"
	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/internal/geo"
	"github.com/juicefit/juice-platform/internal/http/response"
)

// SearchTrainers runs a marketplace directory query. lat, lng and radius
// are all-or-nothing; radius must come from the fixed option set.
func (h *Handlers) SearchTrainers(w http.ResponseWriter, r *http.Request) {
	q := directory.Query{
		Text:      r.URL.Query().Get("q"),
		Specialty: r.URL.Query().Get("specialty"),
	}

	latRaw := r.URL.Query().Get("lat")
	lngRaw := r.URL.Query().Get("lng")
	if latRaw != "" || lngRaw != "" {
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr != nil || lngErr != nil {
			response.BadRequest(w, "lat and lng must both be valid coordinates")
			return
		}

		radius := 50.0
		if raw := r.URL.Query().Get("radius"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || !geo.ValidRadius(parsed) {
				response.BadRequest(w, "radius must be one of 5, 10, 25, 50, 75, 100, 150, 200")
				return
			}
			radius = parsed
		}

		q.Location = &geo.Point{Lat: lat, Lng: lng}
		q.RadiusKm = radius
	}

	trainers, err := h.directoryService.Search(r.Context(), q)
	if err != nil {
		response.InternalError(w, "Failed to search trainers", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"trainers": trainers,
		"count":    len(trainers),
	})
}

func (h *Handlers) GetTrainer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	trainer, err := h.directoryService.GetTrainer(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"trainer": trainer,
	})
}

// UpdateTrainerProfile lets an activated trainer edit their own directory
// entry. Ownership comes from the session claim, not the URL.
func (h *Handlers) UpdateTrainerProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var patch domain.TrainerPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	updated, err := h.directoryService.UpdateProfile(r.Context(), claims.Sub, id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"trainer": updated,
	})
}
