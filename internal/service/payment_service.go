package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"

	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/internal/platform/cache"
	"github.com/juicefit/juice-platform/internal/platform/mailer"
	"github.com/juicefit/juice-platform/internal/platform/payments"
	"github.com/juicefit/juice-platform/internal/repo/postgres"
	"github.com/juicefit/juice-platform/pkg/config"
	"github.com/juicefit/juice-platform/pkg/events"
	"github.com/juicefit/juice-platform/pkg/logger"
)

type PaymentService interface {
	CreateActivationIntent(ctx context.Context, req payments.ActivationIntent) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	provider    payments.Provider
	tempRepo    postgres.TempTrainerRepository
	trainerRepo postgres.TrainerRepository
	setupRepo   postgres.SetupRepository
	mailer      mailer.Service
	cache       *cache.Redis
	eventBus    events.Publisher
	config      *config.Config
}

func NewPaymentService(
	provider payments.Provider,
	tempRepo postgres.TempTrainerRepository,
	trainerRepo postgres.TrainerRepository,
	setupRepo postgres.SetupRepository,
	mail mailer.Service,
	redis *cache.Redis,
	eventBus events.Publisher,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		provider:    provider,
		tempRepo:    tempRepo,
		trainerRepo: trainerRepo,
		setupRepo:   setupRepo,
		mailer:      mail,
		cache:       redis,
		eventBus:    eventBus,
		config:      cfg,
	}
}

// CreateActivationIntent forwards a single fixed-amount request to the
// provider. One attempt only; any retry is the user clicking again.
func (s *paymentService) CreateActivationIntent(ctx context.Context, req payments.ActivationIntent) (string, error) {
	clientSecret, intentID, err := s.provider.CreateActivationIntent(req)
	if err != nil {
		return "", err
	}

	event := events.PaymentIntentCreatedEvent{
		TempID:   req.TempID,
		IntentID: intentID,
		Amount:   s.config.Trainer.ActivationFeeCents,
		Currency: s.config.Trainer.Currency,
	}
	if err := s.eventBus.Publish(ctx, events.PaymentIntentCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish payment intent event", "error", err, "temp_id", req.TempID)
	}

	return clientSecret, nil
}

// HandleWebhook consumes provider events. A succeeded activation payment
// promotes the temp preview into a permanent directory profile and starts
// the account setup flow.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	// A rejected signature is a client error; reporting it as such stops
	// the provider from retrying a payload it cannot ever verify.
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	if event.Type != "payment_intent.succeeded" && event.Type != "payment_intent.payment_failed" {
		logger.DebugContext(ctx, "Ignoring webhook event", "type", event.Type)
		return nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("failed to decode payment intent: %w", err)
	}

	if intent.Metadata[payments.MetaType] != payments.ActivationType {
		logger.DebugContext(ctx, "Ignoring non-activation payment", "intent_id", intent.ID)
		return nil
	}

	tempID := intent.Metadata[payments.MetaTempID]
	if tempID == "" {
		return fmt.Errorf("activation payment %s carries no temp id", intent.ID)
	}

	if event.Type == "payment_intent.payment_failed" {
		failed := events.PaymentFailedEvent{TempID: tempID, IntentID: intent.ID}
		if intent.LastPaymentError != nil {
			failed.Reason = intent.LastPaymentError.Msg
		}
		if err := s.eventBus.Publish(ctx, events.PaymentFailed, failed); err != nil {
			logger.ErrorContext(ctx, "Failed to publish payment failed event", "error", err, "temp_id", tempID)
		}
		logger.InfoContext(ctx, "Activation payment failed", "temp_id", tempID, "intent_id", intent.ID)
		return nil
	}

	succeeded := events.PaymentSucceededEvent{TempID: tempID, IntentID: intent.ID}
	if err := s.eventBus.Publish(ctx, events.PaymentSucceeded, succeeded); err != nil {
		logger.ErrorContext(ctx, "Failed to publish payment succeeded event", "error", err, "temp_id", tempID)
	}

	return s.activate(ctx, tempID, intent.ID)
}

func (s *paymentService) activate(ctx context.Context, tempID, intentID string) error {
	preview, err := s.tempRepo.GetByID(ctx, tempID)
	if err != nil {
		return fmt.Errorf("failed to load paid preview: %w", err)
	}
	if preview == nil {
		return fmt.Errorf("paid preview %s not found", tempID)
	}

	// MarkPaid is bookkeeping, not a delivery guard: if promotion fails
	// after this point the handler errors, the provider redelivers, and
	// the whole sequence re-runs. CreateFromPreview's email conflict is
	// what makes the redelivery a no-op once a profile exists.
	marked, err := s.tempRepo.MarkPaid(ctx, tempID)
	if err != nil {
		return fmt.Errorf("failed to mark preview paid: %w", err)
	}
	if !marked {
		logger.InfoContext(ctx, "Preview already marked paid, re-running promotion", "temp_id", tempID, "intent_id", intentID)
	}

	trainer, err := s.trainerRepo.CreateFromPreview(ctx, preview)
	if err != nil {
		return fmt.Errorf("failed to promote preview: %w", err)
	}
	if trainer == nil {
		// A profile already exists for this email: either an earlier
		// delivery finished the job or the trainer signed up separately.
		logger.InfoContext(ctx, "Promotion skipped, profile exists", "temp_id", tempID, "email", preview.Email)
		return nil
	}

	s.cache.InvalidateDirectory(ctx)

	activated := events.TrainerActivatedEvent{
		TempID:       tempID,
		TrainerID:    trainer.ID,
		TrainerEmail: trainer.Email,
		ActivatedAt:  time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.TrainerActivated, activated); err != nil {
		logger.ErrorContext(ctx, "Failed to publish trainer activated event", "error", err, "trainer_id", trainer.ID)
	}

	code, err := generateSetupCode()
	if err != nil {
		return fmt.Errorf("failed to generate setup code: %w", err)
	}
	magic := uuid.NewString()
	expiresAt := time.Now().Add(s.config.Auth.SetupCodeTTL)

	if err := s.setupRepo.CreateSetupCode(ctx, trainer.ID, trainer.Email, code, magic, expiresAt); err != nil {
		return fmt.Errorf("failed to store setup code: %w", err)
	}

	setupURL := fmt.Sprintf("%s/trainer/setup?token=%s", s.config.Site.BaseURL, magic)
	if err := s.mailer.SendSetupEmail(trainer.Email, trainer.Name, code, setupURL); err != nil {
		logger.WarnContext(ctx, "Failed to send setup email", "error", err, "trainer_id", trainer.ID)
	} else {
		notify := events.NotificationEvent{
			Type:      "account_setup",
			Recipient: trainer.Email,
			Template:  "trainer_setup",
			Data:      map[string]interface{}{"trainer_id": trainer.ID},
		}
		if err := s.eventBus.Publish(ctx, events.NotifySend, notify); err != nil {
			logger.ErrorContext(ctx, "Failed to publish notification event", "error", err, "trainer_id", trainer.ID)
		}
	}

	logger.InfoContext(ctx, "Trainer activated", "temp_id", tempID, "trainer_id", trainer.ID, "intent_id", intentID)
	return nil
}

func generateSetupCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
