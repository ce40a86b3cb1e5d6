package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/juicefit/juice-platform/internal/domain"
)

func webhookEvent(eventType, intentID, tempID string) string {
	return fmt.Sprintf(`{
		"type": %q,
		"data": {
			"object": {
				"id": %q,
				"metadata": {"type": "trainer_activation", "tempId": %q}
			}
		}
	}`, eventType, intentID, tempID)
}

func postWebhook(t *testing.T, env *testEnv, payload string, expectedStatus int) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/stripe/webhook", bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("Webhook request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", "t=1,v1=test")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Webhook request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != expectedStatus {
		t.Fatalf("Webhook: expected status %d, got %d", expectedStatus, resp.StatusCode)
	}
}

func countSubject(subjects []string, subject string) int {
	n := 0
	for _, s := range subjects {
		if s == subject {
			n++
		}
	}
	return n
}

func TestCreatePaymentIntent_ReturnsClientSecret(t *testing.T) {
	env := setupTestServer(t)
	created := createPreview(t, env, map[string]interface{}{
		"name":  "Alex Trainer",
		"email": "alex@example.com",
	})

	resp := postJSON(t, env.server.URL+"/api/create-payment-intent", map[string]interface{}{
		"amount":   4900,
		"currency": "eur",
		"metadata": map[string]string{
			"type":   "trainer_activation",
			"tempId": created.Trainer.ID,
			"token":  created.Token,
		},
	}, http.StatusOK)
	defer resp.Body.Close()

	var result map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode intent response: %v", err)
	}
	if result["clientSecret"] != "cs_test_secret" {
		t.Fatalf("Expected stubbed client secret, got %q", result["clientSecret"])
	}
}

func TestStripeWebhook_SucceededPaymentPromotesPreview(t *testing.T) {
	env := setupTestServer(t)
	created := createPreview(t, env, map[string]interface{}{
		"name":  "Alex Trainer",
		"email": "alex@example.com",
		"bio":   "Strength coach",
	})

	postWebhook(t, env, webhookEvent("payment_intent.succeeded", "pi_1", created.Trainer.ID), http.StatusOK)

	if len(env.trainerRepo.trainers) != 1 {
		t.Fatalf("Expected 1 promoted trainer, got %d", len(env.trainerRepo.trainers))
	}
	preview := env.tempRepo.previews[created.Trainer.ID]
	if !preview.IsPaid {
		t.Fatal("Expected preview to be marked paid")
	}
	if env.mailer.lastTo != "alex@example.com" || env.mailer.lastCode == "" {
		t.Fatalf("Expected setup email with code to alex@example.com, got to=%q code=%q",
			env.mailer.lastTo, env.mailer.lastCode)
	}
	if len(env.setupRepo.magicTokens) != 1 {
		t.Fatalf("Expected 1 magic setup token, got %d", len(env.setupRepo.magicTokens))
	}
	if countSubject(env.bus.subjects, "payment.succeeded") != 1 {
		t.Fatal("Expected a payment.succeeded event")
	}
	if countSubject(env.bus.subjects, "trainer.activated") != 1 {
		t.Fatal("Expected a trainer.activated event")
	}
}

// A transient promotion failure must not strand a paid preview: Stripe
// redelivers the event, and the redelivery has to finish the promotion
// even though the preview is already marked paid.
func TestStripeWebhook_RedeliveryFinishesFailedPromotion(t *testing.T) {
	env := setupTestServer(t)
	created := createPreview(t, env, map[string]interface{}{
		"name":  "Alex Trainer",
		"email": "alex@example.com",
	})
	payload := webhookEvent("payment_intent.succeeded", "pi_1", created.Trainer.ID)

	env.trainerRepo.createErr = errors.New("connection reset")
	postWebhook(t, env, payload, http.StatusInternalServerError)

	if len(env.trainerRepo.trainers) != 0 {
		t.Fatalf("Expected no trainer after failed promotion, got %d", len(env.trainerRepo.trainers))
	}
	if !env.tempRepo.previews[created.Trainer.ID].IsPaid {
		t.Fatal("Expected preview marked paid despite the promotion failure")
	}

	postWebhook(t, env, payload, http.StatusOK)

	if len(env.trainerRepo.trainers) != 1 {
		t.Fatalf("Expected redelivery to promote the trainer, got %d trainers", len(env.trainerRepo.trainers))
	}
	if env.mailer.lastCode == "" {
		t.Fatal("Expected setup email after the redelivery promoted the trainer")
	}
}

func TestStripeWebhook_RedeliveryAfterSuccessIsNoOp(t *testing.T) {
	env := setupTestServer(t)
	created := createPreview(t, env, map[string]interface{}{
		"name":  "Alex Trainer",
		"email": "alex@example.com",
	})
	payload := webhookEvent("payment_intent.succeeded", "pi_1", created.Trainer.ID)

	postWebhook(t, env, payload, http.StatusOK)
	postWebhook(t, env, payload, http.StatusOK)

	if len(env.trainerRepo.trainers) != 1 {
		t.Fatalf("Expected 1 trainer after duplicate delivery, got %d", len(env.trainerRepo.trainers))
	}
	if len(env.setupRepo.magicTokens) != 1 {
		t.Fatalf("Expected 1 magic setup token after duplicate delivery, got %d", len(env.setupRepo.magicTokens))
	}
	if countSubject(env.bus.subjects, "trainer.activated") != 1 {
		t.Fatal("Expected a single trainer.activated event")
	}
}

func TestStripeWebhook_FailedPaymentDoesNotPromote(t *testing.T) {
	env := setupTestServer(t)
	created := createPreview(t, env, map[string]interface{}{
		"name":  "Alex Trainer",
		"email": "alex@example.com",
	})

	postWebhook(t, env, webhookEvent("payment_intent.payment_failed", "pi_1", created.Trainer.ID), http.StatusOK)

	if len(env.trainerRepo.trainers) != 0 {
		t.Fatalf("Expected no trainer after failed payment, got %d", len(env.trainerRepo.trainers))
	}
	if env.tempRepo.previews[created.Trainer.ID].IsPaid {
		t.Fatal("Expected preview to stay unpaid")
	}
	if countSubject(env.bus.subjects, "payment.failed") != 1 {
		t.Fatal("Expected a payment.failed event")
	}
}

func TestStripeWebhook_MissingSignatureRejected(t *testing.T) {
	env := setupTestServer(t)
	created := createPreview(t, env, map[string]interface{}{
		"name":  "Alex Trainer",
		"email": "alex@example.com",
	})

	payload := webhookEvent("payment_intent.succeeded", "pi_1", created.Trainer.ID)
	resp, err := http.Post(env.server.URL+"/api/stripe/webhook", "application/json", bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("Webhook request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unsigned webhook, got %d", resp.StatusCode)
	}
}

func TestStripeWebhook_ExpiredPreviewStillPromotes(t *testing.T) {
	env := setupTestServer(t)
	env.tempRepo.seed(&domain.TempTrainer{
		ID:        "temp-old",
		Token:     "token-old",
		Name:      "Old Preview",
		Email:     "old@example.com",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	})

	postWebhook(t, env, webhookEvent("payment_intent.succeeded", "pi_2", "temp-old"), http.StatusOK)

	if len(env.trainerRepo.trainers) != 1 {
		t.Fatalf("Expected expired-but-paid preview to promote, got %d trainers", len(env.trainerRepo.trainers))
	}
}
