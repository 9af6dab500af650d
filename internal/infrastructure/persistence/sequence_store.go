package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/sequence"
	"github.com/quotedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// incrementSequenceSQL creates the counter at 1 or bumps it, returning the
// new value, in one statement. Concurrent callers serialize on the row.
const incrementSequenceSQL = `INSERT INTO document_sequences (id, tenant_id, document_type, prefix, last_number, created_at, updated_at)
VALUES (?, ?, ?, ?, 1, ?, ?)
ON CONFLICT (tenant_id, document_type, prefix)
DO UPDATE SET last_number = document_sequences.last_number + 1, updated_at = excluded.updated_at
RETURNING last_number`

// GormSequenceStore implements sequence.Store on the document_sequences table
type GormSequenceStore struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewGormSequenceStore creates a new GormSequenceStore
func NewGormSequenceStore(db *gorm.DB) *GormSequenceStore {
	return &GormSequenceStore{db: db, clock: time.Now}
}

// Increment returns the next number of the sequence
func (s *GormSequenceStore) Increment(ctx context.Context, tenantID uuid.UUID, docType sequence.DocumentType, prefix string) (int64, error) {
	now := s.clock().UTC()
	var next int64
	if err := s.db.WithContext(ctx).
		Raw(incrementSequenceSQL, uuid.New(), tenantID, docType.String(), prefix, now, now).
		Scan(&next).Error; err != nil {
		return 0, storageError(err)
	}
	return next, nil
}

// Current returns the last issued number, zero when nothing was issued
func (s *GormSequenceStore) Current(ctx context.Context, tenantID uuid.UUID, docType sequence.DocumentType, prefix string) (int64, error) {
	var m models.DocumentSequenceModel
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND document_type = ? AND prefix = ?", tenantID, docType.String(), prefix).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, storageError(err)
	}
	return m.LastNumber, nil
}

var _ sequence.Store = (*GormSequenceStore)(nil)
