package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/receivable"
)

// ReceivableDocumentModel mirrors the payments ledger row of a sales note.
// Rows are written by the payments subsystem.
type ReceivableDocumentModel struct {
	ID                uuid.UUID                `gorm:"type:uuid;primary_key"`
	TenantID          uuid.UUID                `gorm:"type:uuid;not null;index"`
	SalesNoteID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	Status            receivable.PaymentStatus `gorm:"type:varchar(20);not null"`
	TotalAmount       int64                    `gorm:"not null"`
	OutstandingAmount int64                    `gorm:"not null"`
	CreatedAt         time.Time                `gorm:"not null"`
	UpdatedAt         time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceivableDocumentModel) TableName() string {
	return "receivable_documents"
}

func (m *ReceivableDocumentModel) ToDomain() *receivable.Document {
	return &receivable.Document{
		ID:          m.ID,
		TenantID:    m.TenantID,
		SalesNoteID: m.SalesNoteID,
		Status:      m.Status,
		TotalAmount: m.TotalAmount,
		Outstanding: m.OutstandingAmount,
		UpdatedAt:   m.UpdatedAt,
	}
}
