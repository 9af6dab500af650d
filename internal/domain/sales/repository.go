package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// QuoteRepository persists quotes
type QuoteRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quote, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Quote, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// Create inserts a new quote with its items
	Create(ctx context.Context, quote *Quote) error
	// SaveWithLock writes the quote only if its stored version still matches,
	// then bumps the version. A lost race returns a conflict error.
	SaveWithLock(ctx context.Context, quote *Quote) error
	DeleteWithLock(ctx context.Context, quote *Quote) error
}

// SalesNoteRepository persists sales notes
type SalesNoteRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesNote, error)
	// FindForUpdate loads the note and holds a row lock on its header until
	// the surrounding transaction ends.
	FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*SalesNote, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesNote, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (*SalesNote, error)
	Create(ctx context.Context, note *SalesNote) error
	SaveWithLock(ctx context.Context, note *SalesNote) error
	// SaveInvoicedQuantity writes one item's invoiced quantity together with
	// the header's invoicing status under the version check.
	SaveInvoicedQuantity(ctx context.Context, note *SalesNote, itemID uuid.UUID) error
	DeleteWithLock(ctx context.Context, note *SalesNote) error
}
