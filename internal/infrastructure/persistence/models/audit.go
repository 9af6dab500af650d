package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/audit"
)

// AuditEventModel is one row of the append-only audit log
type AuditEventModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_events_aggregate,priority:1"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	EventType     string    `gorm:"type:varchar(100);not null"`
	AggregateType string    `gorm:"type:varchar(50);not null"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_events_aggregate,priority:2"`
	Actor         string    `gorm:"type:varchar(100)"`
	FromState     string    `gorm:"type:varchar(30)"`
	ToState       string    `gorm:"type:varchar(30)"`
	Payload       string    `gorm:"type:jsonb"`
	OccurredAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AuditEventModel) TableName() string {
	return "audit_events"
}

func (m *AuditEventModel) ToDomain() audit.Entry {
	return audit.Entry{
		ID:            m.ID,
		TenantID:      m.TenantID,
		EventID:       m.EventID,
		EventType:     m.EventType,
		AggregateType: m.AggregateType,
		AggregateID:   m.AggregateID,
		Actor:         m.Actor,
		FromState:     m.FromState,
		ToState:       m.ToState,
		Payload:       []byte(m.Payload),
		OccurredAt:    m.OccurredAt,
	}
}

func AuditEventModelFromDomain(e *audit.Entry) *AuditEventModel {
	return &AuditEventModel{
		ID:            e.ID,
		TenantID:      e.TenantID,
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateType: e.AggregateType,
		AggregateID:   e.AggregateID,
		Actor:         e.Actor,
		FromState:     e.FromState,
		ToState:       e.ToState,
		Payload:       string(e.Payload),
		OccurredAt:    e.OccurredAt,
	}
}

// All returns every model, in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&QuoteModel{},
		&QuoteItemModel{},
		&SalesNoteModel{},
		&SalesNoteItemModel{},
		&DocumentSequenceModel{},
		&ReceivableDocumentModel{},
		&AuditEventModel{},
	}
}
