package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/sales"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/quotedesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSalesNoteRepository implements sales.SalesNoteRepository using GORM
type GormSalesNoteRepository struct {
	db *gorm.DB
}

// NewGormSalesNoteRepository creates a new GormSalesNoteRepository
func NewGormSalesNoteRepository(db *gorm.DB) *GormSalesNoteRepository {
	return &GormSalesNoteRepository{db: db}
}

// FindByIDForTenant finds a sales note by ID within a tenant
func (r *GormSalesNoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.SalesNote, error) {
	var m models.SalesNoteModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByPosition).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		return nil, wrapError(err, "SALES_NOTE_NOT_FOUND", "Sales note not found")
	}
	return m.ToDomain(), nil
}

// FindForUpdate loads the note holding a row lock on the header until the
// surrounding transaction ends. Items are read after the lock is granted.
func (r *GormSalesNoteRepository) FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*sales.SalesNote, error) {
	var m models.SalesNoteModel
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		return nil, wrapError(err, "SALES_NOTE_NOT_FOUND", "Sales note not found")
	}
	if err := db.Where("sales_note_id = ?", m.ID).Order("position ASC").Find(&m.Items).Error; err != nil {
		return nil, storageError(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists sales notes for a tenant with filtering and pagination
func (r *GormSalesNoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.SalesNote, error) {
	var rows []models.SalesNoteModel
	query := applyDocumentFilter(
		r.db.WithContext(ctx).Model(&models.SalesNoteModel{}).Where("tenant_id = ?", tenantID),
		filter, SalesNoteSortFields, true,
	)
	if err := query.Preload("Items", orderItemsByPosition).Find(&rows).Error; err != nil {
		return nil, storageError(err)
	}
	notes := make([]sales.SalesNote, len(rows))
	for i := range rows {
		notes[i] = *rows[i].ToDomain()
	}
	return notes, nil
}

// CountForTenant counts sales notes for a tenant with optional filters
func (r *GormSalesNoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applyDocumentFilter(
		r.db.WithContext(ctx).Model(&models.SalesNoteModel{}).Where("tenant_id = ?", tenantID),
		filter, SalesNoteSortFields, false,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, storageError(err)
	}
	return count, nil
}

// FindByQuote finds the sales note created from a quote
func (r *GormSalesNoteRepository) FindByQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (*sales.SalesNote, error) {
	var m models.SalesNoteModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByPosition).
		Where("tenant_id = ? AND quote_id = ?", tenantID, quoteID).
		First(&m).Error; err != nil {
		return nil, wrapError(err, "SALES_NOTE_NOT_FOUND", "No sales note was created from this quote")
	}
	return m.ToDomain(), nil
}

// Create inserts a new sales note with its items
func (r *GormSalesNoteRepository) Create(ctx context.Context, n *sales.SalesNote) error {
	m := models.SalesNoteModelFromDomain(n)
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(m).Error; err != nil {
		return storageError(err)
	}
	if len(m.Items) > 0 {
		if err := db.Create(&m.Items).Error; err != nil {
			return storageError(err)
		}
	}
	return nil
}

// SaveWithLock updates the note only if the stored version still matches,
// then bumps the version
func (r *GormSalesNoteRepository) SaveWithLock(ctx context.Context, n *sales.SalesNote) error {
	expected := n.Version
	m := models.SalesNoteModelFromDomain(n)
	db := r.db.WithContext(ctx)

	values := salesNoteColumns(m)
	values["version"] = expected + 1
	result := db.Model(&models.SalesNoteModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", n.ID, n.TenantID, expected).
		Updates(values)
	if result.Error != nil {
		return storageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return concurrencyConflict("sales note")
	}

	if err := replaceItems(db, &models.SalesNoteItemModel{}, "sales_note_id", n.ID, itemIDs(n.Items)); err != nil {
		return err
	}
	for i := range m.Items {
		if err := db.Save(&m.Items[i]).Error; err != nil {
			return storageError(err)
		}
	}
	n.Version = expected + 1
	return nil
}

// SaveInvoicedQuantity writes one item's invoiced quantity and the derived
// invoicing status of the header under the version check
func (r *GormSalesNoteRepository) SaveInvoicedQuantity(ctx context.Context, n *sales.SalesNote, itemID uuid.UUID) error {
	item := n.GetItem(itemID)
	if item == nil {
		return shared.NewNotFoundError("ITEM_NOT_FOUND", "Item not found in sales note")
	}
	expected := n.Version
	db := r.db.WithContext(ctx)

	result := db.Model(&models.SalesNoteModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", n.ID, n.TenantID, expected).
		Updates(map[string]interface{}{
			"invoicing_status": n.InvoicingStatus(),
			"version":          expected + 1,
			"updated_at":       n.UpdatedAt,
		})
	if result.Error != nil {
		return storageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return concurrencyConflict("sales note")
	}

	result = db.Model(&models.SalesNoteItemModel{}).
		Where("id = ? AND sales_note_id = ?", item.ID, n.ID).
		Updates(map[string]interface{}{
			"invoiced_quantity": item.InvoicedQuantity,
			"updated_at":        n.UpdatedAt,
		})
	if result.Error != nil {
		return storageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("ITEM_NOT_FOUND", "Item not found in sales note")
	}
	n.Version = expected + 1
	return nil
}

// DeleteWithLock removes the note and its items under the version check
func (r *GormSalesNoteRepository) DeleteWithLock(ctx context.Context, n *sales.SalesNote) error {
	db := r.db.WithContext(ctx)
	result := db.Where("id = ? AND tenant_id = ? AND version = ?", n.ID, n.TenantID, n.Version).
		Delete(&models.SalesNoteModel{})
	if result.Error != nil {
		return storageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return concurrencyConflict("sales note")
	}
	if err := db.Where("sales_note_id = ?", n.ID).Delete(&models.SalesNoteItemModel{}).Error; err != nil {
		return storageError(err)
	}
	return nil
}

func salesNoteColumns(m *models.SalesNoteModel) map[string]interface{} {
	values := map[string]interface{}{
		"folio":            m.Folio,
		"status":           m.Status,
		"invoicing_status": m.InvoicingStatus,
		"quote_id":         m.QuoteID,
		"payment_method":   m.PaymentMethod,
		"payment_due_days": m.PaymentDueDays,
		"payment_notes":    m.PaymentNotes,
		"delivery_address": m.DeliveryAddress,
		"delivery_at":      m.DeliveryAt,
		"delivery_notes":   m.DeliveryNotes,
		"notes":            m.Notes,
		"confirmed_at":     m.ConfirmedAt,
		"cancelled_at":     m.CancelledAt,
		"cancel_reason":    m.CancelReason,
		"updated_at":       m.UpdatedAt,
	}
	addClientColumns(values, m.Client)
	addTotalsColumns(values, m.Totals)
	return values
}

var _ sales.SalesNoteRepository = (*GormSalesNoteRepository)(nil)
