package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/receivable"
	"github.com/quotedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReceivableReader reads the receivable documents written by the
// payments subsystem. It never writes.
type GormReceivableReader struct {
	db *gorm.DB
}

// NewGormReceivableReader creates a new GormReceivableReader
func NewGormReceivableReader(db *gorm.DB) *GormReceivableReader {
	return &GormReceivableReader{db: db}
}

// FindBySalesNote returns the most recent receivable of a sales note
func (r *GormReceivableReader) FindBySalesNote(ctx context.Context, tenantID, salesNoteID uuid.UUID) (*receivable.Document, error) {
	var m models.ReceivableDocumentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sales_note_id = ?", tenantID, salesNoteID).
		Order("updated_at DESC").
		First(&m).Error; err != nil {
		return nil, wrapError(err, "RECEIVABLE_NOT_FOUND", "No receivable for sales note")
	}
	return m.ToDomain(), nil
}

var _ receivable.Reader = (*GormReceivableReader)(nil)
