package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/juicefit/juice-platform/internal/http/response"
	"github.com/juicefit/juice-platform/internal/platform/payments"
)

type paymentIntentReq struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Metadata struct {
		Type         string `json:"type"`
		TempID       string `json:"tempId"`
		TrainerEmail string `json:"trainerEmail"`
		TrainerName  string `json:"trainerName"`
		Token        string `json:"token"`
	} `json:"metadata"`
}

// CreatePaymentIntent starts the trainer activation payment. The client
// sends amount and currency for display parity, but the server always
// charges the fixed activation fee from config.
func (h *Handlers) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req paymentIntentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if req.Metadata.Type != payments.ActivationType {
		response.BadRequest(w, "unsupported payment type")
		return
	}
	if req.Metadata.TempID == "" {
		response.BadRequest(w, "tempId is required")
		return
	}

	clientSecret, err := h.paymentService.CreateActivationIntent(r.Context(), payments.ActivationIntent{
		TempID:       req.Metadata.TempID,
		Token:        req.Metadata.Token,
		TrainerName:  req.Metadata.TrainerName,
		TrainerEmail: req.Metadata.TrainerEmail,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"clientSecret": clientSecret,
	})
}

// maxWebhookBody caps webhook payload reads at 64KB, matching Stripe's
// own limit.
const maxWebhookBody = 65536

// StripeWebhook receives provider events. Signature verification happens
// inside the provider; a bad signature is a client error so Stripe does
// not retry it forever.
func (h *Handlers) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(w, "failed to read webhook payload")
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		response.BadRequest(w, "missing Stripe-Signature header")
		return
	}

	if err := h.paymentService.HandleWebhook(r.Context(), payload, signature); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"received": true,
	})
}
