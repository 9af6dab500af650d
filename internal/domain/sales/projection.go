package sales

import (
	"time"

	"github.com/google/uuid"
)

// Document kinds carried by projections
const (
	DocumentKindQuote     = "quote"
	DocumentKindSalesNote = "sales_note"
)

// DocumentProjection is the read model handed to rendering. It holds
// everything a printable document needs and nothing that can change it.
type DocumentProjection struct {
	Kind            string
	ID              uuid.UUID
	TenantID        uuid.UUID
	Folio           string
	Status          string
	InvoicingStatus string
	IssuedAt        time.Time
	ValidUntil      *time.Time
	Client          ClientSnapshot
	Items           []LineItem
	Totals          Totals
	PaymentTerms    *PaymentTerms
	Delivery        *Delivery
	Notes           string
	Version         int
}

// Projection renders the quote as seen at now
func (q *Quote) Projection(now time.Time) DocumentProjection {
	validUntil := q.ValidUntil()
	return DocumentProjection{
		Kind:       DocumentKindQuote,
		ID:         q.ID,
		TenantID:   q.TenantID,
		Folio:      q.Folio,
		Status:     q.EffectiveStatus(now).String(),
		IssuedAt:   q.EmissionDate,
		ValidUntil: &validUntil,
		Client:     q.Client,
		Items:      append([]LineItem(nil), q.Items...),
		Totals:     q.Totals,
		Notes:      q.Notes,
		Version:    q.Version,
	}
}

// Projection renders the sales note
func (n *SalesNote) Projection() DocumentProjection {
	issued := n.CreatedAt
	if n.ConfirmedAt != nil {
		issued = *n.ConfirmedAt
	}
	terms := n.PaymentTerms
	delivery := n.Delivery
	return DocumentProjection{
		Kind:            DocumentKindSalesNote,
		ID:              n.ID,
		TenantID:        n.TenantID,
		Folio:           n.Folio,
		Status:          n.Status.String(),
		InvoicingStatus: n.InvoicingStatus().String(),
		IssuedAt:        issued,
		Client:          n.Client,
		Items:           append([]LineItem(nil), n.Items...),
		Totals:          n.Totals,
		PaymentTerms:    &terms,
		Delivery:        &delivery,
		Notes:           n.Notes,
		Version:         n.Version,
	}
}
