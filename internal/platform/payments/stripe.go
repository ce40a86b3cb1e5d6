// Package payments is the thin bridge to Stripe: one fixed-amount
// activation intent per call, no retries, provider errors surfaced
// verbatim for the preview page to show inline.
package payments

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/juicefit/juice-platform/internal/domain"
	"github.com/juicefit/juice-platform/pkg/config"
)

// Metadata keys tagged onto every activation intent. The webhook consumer
// relies on these to find the temp record to promote.
const (
	MetaType         = "type"
	MetaTempID       = "tempId"
	MetaTrainerEmail = "trainerEmail"
	MetaTrainerName  = "trainerName"
	MetaToken        = "token"

	ActivationType = "trainer_activation"
)

// ActivationIntent identifies the temp record a checkout is for. The amount
// is fixed server-side and deliberately decoupled from record state: this
// layer does not verify the temp record exists.
type ActivationIntent struct {
	TempID       string
	Token        string
	TrainerName  string
	TrainerEmail string
}

type Provider interface {
	CreateActivationIntent(req ActivationIntent) (clientSecret, intentID string, err error)
	ParseWebhook(payload []byte, signature string) (*stripe.Event, error)
}

type StripeProvider struct {
	api           *client.API
	amountCents   int64
	currency      string
	webhookSecret string
}

func NewStripeProvider(cfg config.StripeConfig, amountCents int64, currency string) *StripeProvider {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	return &StripeProvider{
		api:           api,
		amountCents:   amountCents,
		currency:      currency,
		webhookSecret: cfg.WebhookSecret,
	}
}

func (s *StripeProvider) CreateActivationIntent(req ActivationIntent) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(s.amountCents),
		Currency:    stripe.String(s.currency),
		Description: stripe.String("Juice trainer profile activation"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.TrainerEmail != "" {
		params.ReceiptEmail = stripe.String(req.TrainerEmail)
	}
	params.AddMetadata(MetaType, ActivationType)
	params.AddMetadata(MetaTempID, req.TempID)
	params.AddMetadata(MetaTrainerEmail, req.TrainerEmail)
	params.AddMetadata(MetaTrainerName, req.TrainerName)
	params.AddMetadata(MetaToken, req.Token)

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return "", "", fmt.Errorf("%w: %s", domain.ErrUpstream, stripeErr.Msg)
		}
		return "", "", fmt.Errorf("%w: %s", domain.ErrUpstream, err.Error())
	}

	return pi.ClientSecret, pi.ID, nil
}

// ParseWebhook verifies the Stripe signature and decodes the event.
func (s *StripeProvider) ParseWebhook(payload []byte, signature string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return &event, nil
}
