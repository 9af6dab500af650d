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

// GormQuoteRepository implements sales.QuoteRepository using GORM.
// Writes touch the header and item tables and are meant to run inside a
// TransactionScope.
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

func orderItemsByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByIDForTenant finds a quote by ID within a tenant
func (r *GormQuoteRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.Quote, error) {
	var m models.QuoteModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItemsByPosition).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		return nil, wrapError(err, "QUOTE_NOT_FOUND", "Quote not found")
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists quotes for a tenant with filtering and pagination
func (r *GormQuoteRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Quote, error) {
	var rows []models.QuoteModel
	query := applyDocumentFilter(
		r.db.WithContext(ctx).Model(&models.QuoteModel{}).Where("tenant_id = ?", tenantID),
		filter, QuoteSortFields, true,
	)
	if err := query.Preload("Items", orderItemsByPosition).Find(&rows).Error; err != nil {
		return nil, storageError(err)
	}
	quotes := make([]sales.Quote, len(rows))
	for i := range rows {
		quotes[i] = *rows[i].ToDomain()
	}
	return quotes, nil
}

// CountForTenant counts quotes for a tenant with optional filters
func (r *GormQuoteRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applyDocumentFilter(
		r.db.WithContext(ctx).Model(&models.QuoteModel{}).Where("tenant_id = ?", tenantID),
		filter, QuoteSortFields, false,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, storageError(err)
	}
	return count, nil
}

// Create inserts a new quote with its items
func (r *GormQuoteRepository) Create(ctx context.Context, q *sales.Quote) error {
	m := models.QuoteModelFromDomain(q)
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

// SaveWithLock updates the quote only if the stored version still matches
// the loaded one, then bumps the version
func (r *GormQuoteRepository) SaveWithLock(ctx context.Context, q *sales.Quote) error {
	expected := q.Version
	m := models.QuoteModelFromDomain(q)
	db := r.db.WithContext(ctx)

	values := quoteColumns(m)
	values["version"] = expected + 1
	result := db.Model(&models.QuoteModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", q.ID, q.TenantID, expected).
		Updates(values)
	if result.Error != nil {
		return storageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return concurrencyConflict("quote")
	}

	if err := replaceItems(db, &models.QuoteItemModel{}, "quote_id", q.ID, itemIDs(q.Items)); err != nil {
		return err
	}
	for i := range m.Items {
		if err := db.Save(&m.Items[i]).Error; err != nil {
			return storageError(err)
		}
	}
	q.Version = expected + 1
	return nil
}

// DeleteWithLock removes the quote and its items under the version check
func (r *GormQuoteRepository) DeleteWithLock(ctx context.Context, q *sales.Quote) error {
	db := r.db.WithContext(ctx)
	result := db.Where("id = ? AND tenant_id = ? AND version = ?", q.ID, q.TenantID, q.Version).
		Delete(&models.QuoteModel{})
	if result.Error != nil {
		return storageError(result.Error)
	}
	if result.RowsAffected == 0 {
		return concurrencyConflict("quote")
	}
	if err := db.Where("quote_id = ?", q.ID).Delete(&models.QuoteItemModel{}).Error; err != nil {
		return storageError(err)
	}
	return nil
}

func quoteColumns(m *models.QuoteModel) map[string]interface{} {
	values := map[string]interface{}{
		"folio":         m.Folio,
		"status":        m.Status,
		"emission_date": m.EmissionDate,
		"validity_days": m.ValidityDays,
		"notes":         m.Notes,
		"sales_note_id": m.SalesNoteID,
		"sent_at":       m.SentAt,
		"accepted_at":   m.AcceptedAt,
		"rejected_at":   m.RejectedAt,
		"reject_reason": m.RejectReason,
		"updated_at":    m.UpdatedAt,
	}
	addClientColumns(values, m.Client)
	addTotalsColumns(values, m.Totals)
	return values
}

func addClientColumns(values map[string]interface{}, c models.ClientColumns) {
	values["client_client_id"] = c.ClientID
	values["client_name"] = c.Name
	values["client_tax_id"] = c.TaxID
	values["client_email"] = c.Email
	values["client_phone"] = c.Phone
	values["client_address"] = c.Address
}

func addTotalsColumns(values map[string]interface{}, t models.TotalsColumns) {
	values["global_discount"] = t.RequestedDiscount
	values["subtotal"] = t.Subtotal
	values["line_discount_total"] = t.LineDiscountTotal
	values["applied_global_discount"] = t.AppliedDiscount
	values["combined_discount"] = t.CombinedDiscount
	values["net_after_discount"] = t.NetAfterDiscount
	values["tax_percent"] = t.TaxPercent
	values["tax_amount"] = t.TaxAmount
	values["total"] = t.Total
	values["discount_clamped"] = t.DiscountClamped
}

func itemIDs(items []sales.LineItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// replaceItems deletes the rows of the parent whose id is no longer in keep
func replaceItems(db *gorm.DB, model interface{}, parentColumn string, parentID uuid.UUID, keep []uuid.UUID) error {
	query := db.Where(parentColumn+" = ?", parentID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(model).Error; err != nil {
		return storageError(err)
	}
	return nil
}

var _ sales.QuoteRepository = (*GormQuoteRepository)(nil)
