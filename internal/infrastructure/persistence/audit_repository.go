package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/audit"
	"github.com/quotedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAuditRepository appends to the audit_events table
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append stores the entry. Re-delivery of the same event is ignored.
func (r *GormAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(models.AuditEventModelFromDomain(entry)).Error
	return storageError(err)
}

// ListForAggregate returns the history of one document, oldest first
func (r *GormAuditRepository) ListForAggregate(ctx context.Context, tenantID, aggregateID uuid.UUID) ([]audit.Entry, error) {
	var rows []models.AuditEventModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND aggregate_id = ?", tenantID, aggregateID).
		Order("occurred_at ASC").
		Find(&rows).Error; err != nil {
		return nil, storageError(err)
	}
	entries := make([]audit.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

var _ audit.Repository = (*GormAuditRepository)(nil)
