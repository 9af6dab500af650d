package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// SalesNoteModel is the persistence model for the SalesNote aggregate root.
// InvoicingStatus is a projection of the item quantities, rewritten in the
// same statement that changes them.
type SalesNoteModel struct {
	TenantAggregateModel
	Folio           string                `gorm:"type:varchar(50);not null;default:'';index"`
	Status          sales.SalesNoteStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	InvoicingStatus sales.InvoicingStatus `gorm:"type:varchar(30);not null;default:'created'"`
	QuoteID         *uuid.UUID            `gorm:"type:uuid;index"`
	Client          ClientColumns         `gorm:"embedded;embeddedPrefix:client_"`
	Totals          TotalsColumns         `gorm:"embedded"`
	Items           []SalesNoteItemModel  `gorm:"foreignKey:SalesNoteID;references:ID"`
	PaymentMethod   string                `gorm:"type:varchar(50)"`
	PaymentDueDays  int                   `gorm:"not null;default:0"`
	PaymentNotes    string                `gorm:"type:varchar(500)"`
	DeliveryAddress string                `gorm:"type:varchar(500)"`
	DeliveryAt      *time.Time
	DeliveryNotes   string `gorm:"type:varchar(500)"`
	Notes           string `gorm:"type:text"`
	ConfirmedAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SalesNoteModel) TableName() string {
	return "sales_notes"
}

// ToDomain converts the persistence model to a domain SalesNote.
func (m *SalesNoteModel) ToDomain() *sales.SalesNote {
	n := &sales.SalesNote{
		Folio:          m.Folio,
		Status:         m.Status,
		QuoteID:        m.QuoteID,
		Client:         m.Client.ToDomain(),
		GlobalDiscount: m.Totals.RequestedDiscount,
		TaxPercent:     m.Totals.TaxPercent,
		Totals:         m.Totals.ToDomain(),
		PaymentTerms: sales.PaymentTerms{
			Method:  m.PaymentMethod,
			DueDays: m.PaymentDueDays,
			Notes:   m.PaymentNotes,
		},
		Delivery: sales.Delivery{
			Address:      m.DeliveryAddress,
			ScheduledAt:  m.DeliveryAt,
			Instructions: m.DeliveryNotes,
		},
		Notes:        m.Notes,
		ConfirmedAt:  m.ConfirmedAt,
		CancelledAt:  m.CancelledAt,
		CancelReason: m.CancelReason,
		Items:        make([]sales.LineItem, len(m.Items)),
	}
	m.PopulateTenantAggregateRoot(&n.TenantAggregateRoot)
	for i, item := range m.Items {
		n.Items[i] = item.ToDomain()
	}
	return n
}

// FromDomain populates the persistence model from a domain SalesNote.
func (m *SalesNoteModel) FromDomain(n *sales.SalesNote) {
	m.FromDomainTenantAggregateRoot(n.TenantAggregateRoot)
	m.Folio = n.Folio
	m.Status = n.Status
	m.InvoicingStatus = n.InvoicingStatus()
	m.QuoteID = n.QuoteID
	m.Client = clientColumnsFromDomain(n.Client)
	m.Totals = totalsColumnsFromDomain(n.GlobalDiscount, n.TaxPercent, n.Totals)
	m.PaymentMethod = n.PaymentTerms.Method
	m.PaymentDueDays = n.PaymentTerms.DueDays
	m.PaymentNotes = n.PaymentTerms.Notes
	m.DeliveryAddress = n.Delivery.Address
	m.DeliveryAt = n.Delivery.ScheduledAt
	m.DeliveryNotes = n.Delivery.Instructions
	m.Notes = n.Notes
	m.ConfirmedAt = n.ConfirmedAt
	m.CancelledAt = n.CancelledAt
	m.CancelReason = n.CancelReason
	m.Items = make([]SalesNoteItemModel, len(n.Items))
	for i, item := range n.Items {
		m.Items[i] = SalesNoteItemModelFromDomain(n.ID, item, n.UpdatedAt)
	}
}

// SalesNoteModelFromDomain creates a new persistence model from a domain SalesNote.
func SalesNoteModelFromDomain(n *sales.SalesNote) *SalesNoteModel {
	m := &SalesNoteModel{}
	m.FromDomain(n)
	return m
}

// SalesNoteItemModel is the persistence model for a sales-note line.
type SalesNoteItemModel struct {
	LineItemColumns
	SalesNoteID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoicedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (SalesNoteItemModel) TableName() string {
	return "sales_note_items"
}

func (m SalesNoteItemModel) ToDomain() sales.LineItem {
	item := m.toDomain()
	item.InvoicedQuantity = m.InvoicedQuantity
	return item
}

// SalesNoteItemModelFromDomain creates the persistence model of one line
func SalesNoteItemModelFromDomain(noteID uuid.UUID, item sales.LineItem, at time.Time) SalesNoteItemModel {
	return SalesNoteItemModel{
		LineItemColumns:  lineItemColumnsFromDomain(item, at),
		SalesNoteID:      noteID,
		InvoicedQuantity: item.InvoicedQuantity,
	}
}
