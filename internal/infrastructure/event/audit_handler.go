package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/audit"
	"github.com/quotedesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditHandler writes every published event to the audit log
type AuditHandler struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewAuditHandler creates an audit handler
func NewAuditHandler(repo audit.Repository, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{repo: repo, logger: logger}
}

// EventTypes returns nil so the handler is registered for all events
func (h *AuditHandler) EventTypes() []string {
	return nil
}

// Handle appends the event as an audit entry
func (h *AuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	entry, err := EntryFromEvent(event)
	if err != nil {
		return err
	}
	if err := h.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry for %s: %w", event.EventType(), err)
	}
	h.logger.Debug("audit entry recorded",
		zap.String("event_type", entry.EventType),
		zap.String("aggregate_id", entry.AggregateID.String()),
		zap.String("actor", entry.Actor),
	)
	return nil
}

// EntryFromEvent converts a domain event into an audit entry.
// The full event is kept as the JSON payload.
func EntryFromEvent(event shared.DomainEvent) (*audit.Entry, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event.EventType(), err)
	}
	entry := &audit.Entry{
		ID:            uuid.New(),
		TenantID:      event.TenantID(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		Actor:         event.ActorID(),
		Payload:       payload,
		OccurredAt:    event.OccurredAt(),
	}
	if sc, ok := event.(shared.StateChange); ok {
		entry.FromState = sc.FromState()
		entry.ToState = sc.ToState()
	}
	return entry, nil
}
