package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentSequenceModel holds the last folio number issued per tenant,
// document type and prefix. The unique key is the conflict target of the
// allocation upsert.
type DocumentSequenceModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_document_sequences_key,priority:1"`
	DocumentType string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_document_sequences_key,priority:2"`
	Prefix       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_document_sequences_key,priority:3"`
	LastNumber   int64     `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
