package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/sales"
)

// QuoteModel is the persistence model for the Quote aggregate root.
type QuoteModel struct {
	TenantAggregateModel
	Folio        string            `gorm:"type:varchar(50);not null;index"`
	Status       sales.QuoteStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	EmissionDate time.Time         `gorm:"not null"`
	ValidityDays int               `gorm:"not null"`
	Client       ClientColumns     `gorm:"embedded;embeddedPrefix:client_"`
	Totals       TotalsColumns     `gorm:"embedded"`
	Items        []QuoteItemModel  `gorm:"foreignKey:QuoteID;references:ID"`
	Notes        string            `gorm:"type:text"`
	SalesNoteID  *uuid.UUID        `gorm:"type:uuid;index"`
	SentAt       *time.Time
	AcceptedAt   *time.Time
	RejectedAt   *time.Time
	RejectReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote.
func (m *QuoteModel) ToDomain() *sales.Quote {
	q := &sales.Quote{
		Folio:          m.Folio,
		Status:         m.Status,
		EmissionDate:   m.EmissionDate,
		ValidityDays:   m.ValidityDays,
		Client:         m.Client.ToDomain(),
		GlobalDiscount: m.Totals.RequestedDiscount,
		TaxPercent:     m.Totals.TaxPercent,
		Totals:         m.Totals.ToDomain(),
		Notes:          m.Notes,
		SalesNoteID:    m.SalesNoteID,
		SentAt:         m.SentAt,
		AcceptedAt:     m.AcceptedAt,
		RejectedAt:     m.RejectedAt,
		RejectReason:   m.RejectReason,
		Items:          make([]sales.LineItem, len(m.Items)),
	}
	m.PopulateTenantAggregateRoot(&q.TenantAggregateRoot)
	for i, item := range m.Items {
		q.Items[i] = item.ToDomain()
	}
	return q
}

// FromDomain populates the persistence model from a domain Quote.
func (m *QuoteModel) FromDomain(q *sales.Quote) {
	m.FromDomainTenantAggregateRoot(q.TenantAggregateRoot)
	m.Folio = q.Folio
	m.Status = q.Status
	m.EmissionDate = q.EmissionDate
	m.ValidityDays = q.ValidityDays
	m.Client = clientColumnsFromDomain(q.Client)
	m.Totals = totalsColumnsFromDomain(q.GlobalDiscount, q.TaxPercent, q.Totals)
	m.Notes = q.Notes
	m.SalesNoteID = q.SalesNoteID
	m.SentAt = q.SentAt
	m.AcceptedAt = q.AcceptedAt
	m.RejectedAt = q.RejectedAt
	m.RejectReason = q.RejectReason
	m.Items = make([]QuoteItemModel, len(q.Items))
	for i, item := range q.Items {
		m.Items[i] = QuoteItemModel{
			LineItemColumns: lineItemColumnsFromDomain(item, q.UpdatedAt),
			QuoteID:         q.ID,
		}
	}
}

// QuoteModelFromDomain creates a new persistence model from a domain Quote.
func QuoteModelFromDomain(q *sales.Quote) *QuoteModel {
	m := &QuoteModel{}
	m.FromDomain(q)
	return m
}

// QuoteItemModel is the persistence model for a quote line.
type QuoteItemModel struct {
	LineItemColumns
	QuoteID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (QuoteItemModel) TableName() string {
	return "quote_items"
}

func (m QuoteItemModel) ToDomain() sales.LineItem {
	return m.toDomain()
}
