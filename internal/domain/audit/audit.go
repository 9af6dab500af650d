// Package audit models the append-only record of document changes.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one audited change: who did what to which document, and the
// state before and after.
type Entry struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	EventID       uuid.UUID
	EventType     string
	AggregateType string
	AggregateID   uuid.UUID
	Actor         string
	FromState     string
	ToState       string
	Payload       []byte
	OccurredAt    time.Time
}

// Repository appends audit entries
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	ListForAggregate(ctx context.Context, tenantID, aggregateID uuid.UUID) ([]Entry, error)
}
