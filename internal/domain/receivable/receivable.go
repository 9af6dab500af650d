// Package receivable is the read-only view of the payments ledger for sales notes.
// Receivable documents are written by the payments subsystem, never here.
package receivable

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the collection state of a receivable document
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// IsValid checks if the status is a known PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

// Document is a receivable raised against a sales note
type Document struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	SalesNoteID uuid.UUID
	Status      PaymentStatus
	TotalAmount int64
	Outstanding int64
	UpdatedAt   time.Time
}

// Link is the payment view of a sales note. Linked is false when no
// receivable exists yet.
type Link struct {
	SalesNoteID uuid.UUID     `json:"sales_note_id"`
	Linked      bool          `json:"linked"`
	Status      PaymentStatus `json:"status,omitempty"`
	Outstanding int64         `json:"outstanding"`
	TotalAmount int64         `json:"total_amount"`
}

// LinkFor builds the link view of a document, nil meaning unlinked
func LinkFor(salesNoteID uuid.UUID, doc *Document) Link {
	if doc == nil {
		return Link{SalesNoteID: salesNoteID}
	}
	return Link{
		SalesNoteID: salesNoteID,
		Linked:      true,
		Status:      doc.Status,
		Outstanding: doc.Outstanding,
		TotalAmount: doc.TotalAmount,
	}
}

// Reader looks up receivables. FindBySalesNote returns a not-found domain
// error when the note has no receivable.
type Reader interface {
	FindBySalesNote(ctx context.Context, tenantID, salesNoteID uuid.UUID) (*Document, error)
}

// Cache stores link views for a short time
type Cache interface {
	Get(ctx context.Context, tenantID, salesNoteID uuid.UUID) (*Link, error)
	Set(ctx context.Context, tenantID uuid.UUID, link Link) error
}
