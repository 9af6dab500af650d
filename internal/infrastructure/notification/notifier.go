// Package notification hands sent quotes and confirmed sales notes to the
// delivery service over Kafka.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/sales"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Message kinds published for the delivery service
const (
	KindQuoteSent          = "quote.sent"
	KindSalesNoteConfirmed = "sales_note.confirmed"
)

// Writer is the subset of kafka.Writer the notifier needs
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Message is the payload written to the topic
type Message struct {
	Kind        string     `json:"kind"`
	EventID     uuid.UUID  `json:"event_id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	DocumentID  uuid.UUID  `json:"document_id"`
	Folio       string     `json:"folio"`
	ClientName  string     `json:"client_name"`
	ClientEmail string     `json:"client_email,omitempty"`
	Total       int64      `json:"total"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
	Resend      bool       `json:"resend,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

// Config holds the Kafka connection settings
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// KafkaNotifier publishes delivery requests. It is an event handler so it
// only runs after the document change has committed.
type KafkaNotifier struct {
	writer       Writer
	writeTimeout time.Duration
	logger       *zap.Logger
}

// NewKafkaNotifier creates a notifier writing to the configured brokers
func NewKafkaNotifier(cfg Config, logger *zap.Logger) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
	}
	return NewKafkaNotifierWithWriter(w, cfg.WriteTimeout, logger)
}

// NewKafkaNotifierWithWriter allows injecting a test writer
func NewKafkaNotifierWithWriter(w Writer, writeTimeout time.Duration, logger *zap.Logger) *KafkaNotifier {
	return &KafkaNotifier{writer: w, writeTimeout: writeTimeout, logger: logger}
}

// EventTypes returns the events that trigger a delivery
func (n *KafkaNotifier) EventTypes() []string {
	return []string{sales.EventTypeQuoteSent, sales.EventTypeSalesNoteConfirmed}
}

// Handle publishes the delivery message for the event
func (n *KafkaNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	msg, ok := MessageFor(event)
	if !ok {
		return nil
	}
	if err := n.Publish(ctx, msg); err != nil {
		return err
	}
	n.logger.Info("delivery requested",
		zap.String("kind", msg.Kind),
		zap.String("folio", msg.Folio),
		zap.String("document_id", msg.DocumentID.String()),
	)
	return nil
}

// Publish writes one message keyed by document id so all messages about a
// document land on the same partition
func (n *KafkaNotifier) Publish(ctx context.Context, msg Message) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", msg.Kind, err)
	}
	if n.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.writeTimeout)
		defer cancel()
	}
	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.DocumentID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(msg.Kind)},
			{Key: "tenant_id", Value: []byte(msg.TenantID.String())},
		},
	})
	if err != nil {
		return fmt.Errorf("write %s message: %w", msg.Kind, err)
	}
	return nil
}

// Close closes the underlying writer
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// MessageFor maps a domain event to its delivery message
func MessageFor(event shared.DomainEvent) (Message, bool) {
	switch e := event.(type) {
	case *sales.QuoteSentEvent:
		validUntil := e.ValidUntil
		return Message{
			Kind:        KindQuoteSent,
			EventID:     e.EventID(),
			TenantID:    e.TenantID(),
			DocumentID:  e.AggregateID(),
			Folio:       e.Folio,
			ClientName:  e.ClientName,
			ClientEmail: e.ClientEmail,
			Total:       e.Total,
			ValidUntil:  &validUntil,
			Resend:      e.Resend,
			OccurredAt:  e.OccurredAt(),
		}, true
	case *sales.SalesNoteConfirmedEvent:
		return Message{
			Kind:        KindSalesNoteConfirmed,
			EventID:     e.EventID(),
			TenantID:    e.TenantID(),
			DocumentID:  e.AggregateID(),
			Folio:       e.Folio,
			ClientName:  e.ClientName,
			ClientEmail: e.ClientEmail,
			Total:       e.Total,
			OccurredAt:  e.OccurredAt(),
		}, true
	}
	return Message{}, false
}

var _ shared.EventHandler = (*KafkaNotifier)(nil)
