package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeSalesNote identifies sales note events
const AggregateTypeSalesNote = "SalesNote"

const (
	EventTypeSalesNoteCreated         = "SalesNoteCreated"
	EventTypeSalesNoteConfirmed       = "SalesNoteConfirmed"
	EventTypeSalesNoteCancelled       = "SalesNoteCancelled"
	EventTypeSalesNoteDeleted         = "SalesNoteDeleted"
	EventTypeInvoicedQuantityRecorded = "InvoicedQuantityRecorded"
)

// SalesNoteCreatedEvent is raised when a note is drafted, from scratch or from a quote
type SalesNoteCreatedEvent struct {
	shared.BaseDomainEvent
	shared.StateTransition
	Folio   string     `json:"folio,omitempty"`
	QuoteID *uuid.UUID `json:"quote_id,omitempty"`
}

func NewSalesNoteCreatedEvent(n *SalesNote, at time.Time) *SalesNoteCreatedEvent {
	return &SalesNoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesNoteCreated, AggregateTypeSalesNote, n.ID, n.TenantID, at),
		StateTransition: shared.StateTransition{To: n.Status.String()},
		Folio:           n.Folio,
		QuoteID:         n.QuoteID,
	}
}

// SalesNoteConfirmedEvent is raised when a note is confirmed.
// It is the trigger for outbound delivery.
type SalesNoteConfirmedEvent struct {
	shared.BaseDomainEvent
	shared.StateTransition
	Folio       string `json:"folio"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email,omitempty"`
	Total       int64  `json:"total"`
	ItemCount   int    `json:"item_count"`
}

func NewSalesNoteConfirmedEvent(n *SalesNote, from SalesNoteStatus, at time.Time) *SalesNoteConfirmedEvent {
	return &SalesNoteConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesNoteConfirmed, AggregateTypeSalesNote, n.ID, n.TenantID, at),
		StateTransition: shared.StateTransition{From: from.String(), To: n.Status.String()},
		Folio:           n.Folio,
		ClientName:      n.Client.Name,
		ClientEmail:     n.Client.Email,
		Total:           n.Totals.Total,
		ItemCount:       len(n.Items),
	}
}

// SalesNoteStatusChangedEvent covers cancellation and deletion
type SalesNoteStatusChangedEvent struct {
	shared.BaseDomainEvent
	shared.StateTransition
	Folio  string `json:"folio,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func NewSalesNoteStatusChangedEvent(eventType string, n *SalesNote, from SalesNoteStatus, reason string, at time.Time) *SalesNoteStatusChangedEvent {
	to := n.Status.String()
	if eventType == EventTypeSalesNoteDeleted {
		to = "deleted"
	}
	return &SalesNoteStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSalesNote, n.ID, n.TenantID, at),
		StateTransition: shared.StateTransition{From: from.String(), To: to},
		Folio:           n.Folio,
		Reason:          reason,
	}
}

// InvoicedQuantityRecordedEvent is raised by invoicing reconciliation.
// From/To carry the invoicing status, not the document status.
type InvoicedQuantityRecordedEvent struct {
	shared.BaseDomainEvent
	shared.StateTransition
	Folio            string          `json:"folio"`
	ItemID           uuid.UUID       `json:"item_id"`
	Delta            decimal.Decimal `json:"delta"`
	InvoicedQuantity decimal.Decimal `json:"invoiced_quantity"`
	Quantity         decimal.Decimal `json:"quantity"`
}

func NewInvoicedQuantityRecordedEvent(n *SalesNote, item *LineItem, delta decimal.Decimal, before, after InvoicingStatus, at time.Time) *InvoicedQuantityRecordedEvent {
	return &InvoicedQuantityRecordedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeInvoicedQuantityRecorded, AggregateTypeSalesNote, n.ID, n.TenantID, at),
		StateTransition:  shared.StateTransition{From: before.String(), To: after.String()},
		Folio:            n.Folio,
		ItemID:           item.ID,
		Delta:            delta,
		InvoicedQuantity: item.InvoicedQuantity,
		Quantity:         item.Quantity,
	}
}
