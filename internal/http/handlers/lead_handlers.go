package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/internal/forms"
	"github.com/juicefit/juice-platform/internal/http/response"
)

// CreateLead accepts a completed intake form submission.
func (h *Handlers) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req domain.LeadReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	lead, err := h.leadService.CaptureLead(r.Context(), &req)
	if err != nil {
		var fieldErr *forms.FieldError
		if errors.As(err, &fieldErr) {
			response.BadRequest(w, fieldErr.Error())
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"lead":    lead,
	})
}

type leadStepReq struct {
	Flow      string `json:"flow"`
	StepIndex int    `json:"stepIndex"`
	StepName  string `json:"stepName"`
}

// RecordLeadStep tracks partial progress through the intake flow. It is
// fire-and-forget from the client's perspective and always acks.
func (h *Handlers) RecordLeadStep(w http.ResponseWriter, r *http.Request) {
	var req leadStepReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	if req.Flow == "" || req.StepName == "" {
		response.BadRequest(w, "flow and stepName are required")
		return
	}

	h.leadService.RecordStep(r.Context(), req.Flow, req.StepIndex, req.StepName)

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
	})
}

// ListLeads is admin-only.
func (h *Handlers) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	leads, err := h.leadService.ListLeads(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w, "Failed to list leads", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"leads":   leads,
		"count":   len(leads),
	})
}
