package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that occurred in the domain
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
	ActorID() string
}

// ActorStamper is implemented by events whose actor is known only to the
// application layer (the authenticated user of the request).
type ActorStamper interface {
	StampActor(actor string)
}

// StateChange is implemented by events that move a document between states.
// The audit log records both sides.
type StateChange interface {
	FromState() string
	ToState() string
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggID         uuid.UUID `json:"aggregate_id"`
	AggType       string    `json:"aggregate_type"`
	TenantIDValue uuid.UUID `json:"tenant_id"`
	Actor         string    `json:"actor,omitempty"`
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.Timestamp }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.AggID }
func (e *BaseDomainEvent) AggregateType() string  { return e.AggType }
func (e *BaseDomainEvent) TenantID() uuid.UUID    { return e.TenantIDValue }
func (e *BaseDomainEvent) ActorID() string        { return e.Actor }

// StampActor records who caused the event
func (e *BaseDomainEvent) StampActor(actor string) {
	e.Actor = actor
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID, at time.Time) BaseDomainEvent {
	return BaseDomainEvent{
		ID:            uuid.New(),
		Type:          eventType,
		Timestamp:     at,
		AggID:         aggID,
		AggType:       aggType,
		TenantIDValue: tenantID,
	}
}

// StateTransition is embedded by events that carry a before/after status pair
type StateTransition struct {
	From string `json:"from_status,omitempty"`
	To   string `json:"to_status"`
}

func (s StateTransition) FromState() string { return s.From }
func (s StateTransition) ToState() string   { return s.To }
