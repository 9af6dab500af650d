package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// AggregateTypeQuote identifies quote events
const AggregateTypeQuote = "Quote"

const (
	EventTypeQuoteCreated   = "QuoteCreated"
	EventTypeQuoteSent      = "QuoteSent"
	EventTypeQuoteAccepted  = "QuoteAccepted"
	EventTypeQuoteRejected  = "QuoteRejected"
	EventTypeQuoteConverted = "QuoteConverted"
	EventTypeQuoteDeleted   = "QuoteDeleted"
)

// QuoteCreatedEvent is raised when a new quote is drafted
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	shared.StateTransition
	Folio      string `json:"folio"`
	ClientName string `json:"client_name"`
}

func NewQuoteCreatedEvent(q *Quote, at time.Time) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, AggregateTypeQuote, q.ID, q.TenantID, at),
		StateTransition: shared.StateTransition{To: q.Status.String()},
		Folio:           q.Folio,
		ClientName:      q.Client.Name,
	}
}

// QuoteSentEvent is raised each time a quote is sent to the client.
// It is the trigger for outbound delivery.
type QuoteSentEvent struct {
	shared.BaseDomainEvent
	shared.StateTransition
	Folio       string    `json:"folio"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email,omitempty"`
	Total       int64     `json:"total"`
	ValidUntil  time.Time `json:"valid_until"`
	Resend      bool      `json:"resend"`
}

func NewQuoteSentEvent(q *Quote, from QuoteStatus, at time.Time) *QuoteSentEvent {
	return &QuoteSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteSent, AggregateTypeQuote, q.ID, q.TenantID, at),
		StateTransition: shared.StateTransition{From: from.String(), To: q.Status.String()},
		Folio:           q.Folio,
		ClientName:      q.Client.Name,
		ClientEmail:     q.Client.Email,
		Total:           q.Totals.Total,
		ValidUntil:      q.ValidUntil(),
		Resend:          from == QuoteStatusSent,
	}
}

// QuoteStatusChangedEvent covers acceptance, rejection and deletion
type QuoteStatusChangedEvent struct {
	shared.BaseDomainEvent
	shared.StateTransition
	Folio  string `json:"folio"`
	Reason string `json:"reason,omitempty"`
}

func NewQuoteStatusChangedEvent(eventType string, q *Quote, from QuoteStatus, reason string, at time.Time) *QuoteStatusChangedEvent {
	to := q.Status.String()
	if eventType == EventTypeQuoteDeleted {
		to = "deleted"
	}
	return &QuoteStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeQuote, q.ID, q.TenantID, at),
		StateTransition: shared.StateTransition{From: from.String(), To: to},
		Folio:           q.Folio,
		Reason:          reason,
	}
}

// QuoteConvertedEvent is raised when a sales note is created from the quote
type QuoteConvertedEvent struct {
	shared.BaseDomainEvent
	Folio          string    `json:"folio"`
	SalesNoteID    uuid.UUID `json:"sales_note_id"`
	SalesNoteFolio string    `json:"sales_note_folio,omitempty"`
}

func NewQuoteConvertedEvent(q *Quote, noteID uuid.UUID, noteFolio string, at time.Time) *QuoteConvertedEvent {
	return &QuoteConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteConverted, AggregateTypeQuote, q.ID, q.TenantID, at),
		Folio:           q.Folio,
		SalesNoteID:     noteID,
		SalesNoteFolio:  noteFolio,
	}
}
