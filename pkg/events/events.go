package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/juicefit/juice-platform/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	// Temp trainer preview events
	PreviewCreated = "trainer.preview.created"
	PreviewUpdated = "trainer.preview.updated"

	// Activation events
	TrainerActivated = "trainer.activated"

	// Payment events
	PaymentIntentCreated = "payment.intent.created"
	PaymentSucceeded     = "payment.succeeded"
	PaymentFailed        = "payment.failed"

	// Lead funnel events
	LeadCaptured      = "lead.captured"
	LeadStepCompleted = "lead.step.completed"

	// Notification events
	NotifySend = "notify.send"
)

// Event payloads
type PreviewCreatedEvent struct {
	TempID       string    `json:"temp_id"`
	TrainerName  string    `json:"trainer_name"`
	TrainerEmail string    `json:"trainer_email"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

type PreviewUpdatedEvent struct {
	TempID    string    `json:"temp_id"`
	Changes   []string  `json:"changes"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TrainerActivatedEvent struct {
	TempID       string    `json:"temp_id"`
	TrainerID    string    `json:"trainer_id"`
	TrainerEmail string    `json:"trainer_email"`
	ActivatedAt  time.Time `json:"activated_at"`
}

type PaymentIntentCreatedEvent struct {
	TempID   string `json:"temp_id"`
	IntentID string `json:"intent_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type PaymentSucceededEvent struct {
	TempID   string `json:"temp_id"`
	IntentID string `json:"intent_id"`
}

type PaymentFailedEvent struct {
	TempID   string `json:"temp_id"`
	IntentID string `json:"intent_id"`
	Reason   string `json:"reason"`
}

type LeadCapturedEvent struct {
	LeadID    int64     `json:"lead_id"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
}

type LeadStepCompletedEvent struct {
	FlowName    string    `json:"flow_name"`
	StepIndex   int       `json:"step_index"`
	StepName    string    `json:"step_name"`
	CompletedAt time.Time `json:"completed_at"`
}

type NotificationEvent struct {
	Type      string                 `json:"type"`
	Recipient string                 `json:"recipient"`
	Subject   string                 `json:"subject"`
	Template  string                 `json:"template"`
	Data      map[string]interface{} `json:"data"`
}
