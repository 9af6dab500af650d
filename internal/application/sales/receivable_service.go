package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/receivable"
	"github.com/quotedesk/backend/internal/domain/sales"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/quotedesk/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ReceivableLinkService answers payment status questions about sales notes.
// It only reads: receivables belong to the payments subsystem and the
// invoicing status of a note is never derived from them.
type ReceivableLinkService struct {
	notes  sales.SalesNoteRepository
	reader receivable.Reader
	cache  receivable.Cache
	logger *zap.Logger
}

// NewReceivableLinkService creates a new ReceivableLinkService. cache may be nil.
func NewReceivableLinkService(notes sales.SalesNoteRepository, reader receivable.Reader, cache receivable.Cache, log *zap.Logger) *ReceivableLinkService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReceivableLinkService{notes: notes, reader: reader, cache: cache, logger: log}
}

// PaymentStatus returns the payment view of a sales note. A note without a
// receivable is reported as unlinked.
func (s *ReceivableLinkService) PaymentStatus(ctx context.Context, tenantID, noteID uuid.UUID) (*PaymentStatusResponse, error) {
	if link := s.cached(ctx, tenantID, noteID); link != nil {
		return toPaymentStatusResponse(*link), nil
	}

	if _, err := s.notes.FindByIDForTenant(ctx, tenantID, noteID); err != nil {
		return nil, err
	}
	doc, err := s.reader.FindBySalesNote(ctx, tenantID, noteID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	link := receivable.LinkFor(noteID, doc)

	if s.cache != nil {
		if err := s.cache.Set(ctx, tenantID, link); err != nil {
			logger.L(ctx).Warn("failed to cache payment status",
				zap.String("sales_note_id", noteID.String()),
				zap.Error(err),
			)
		}
	}
	return toPaymentStatusResponse(link), nil
}

// cached returns the cached link or nil. Cache failures count as misses.
func (s *ReceivableLinkService) cached(ctx context.Context, tenantID, noteID uuid.UUID) *receivable.Link {
	if s.cache == nil {
		return nil
	}
	link, err := s.cache.Get(ctx, tenantID, noteID)
	if err != nil {
		logger.L(ctx).Warn("payment status cache unavailable", zap.Error(err))
		return nil
	}
	return link
}

func toPaymentStatusResponse(link receivable.Link) *PaymentStatusResponse {
	return &PaymentStatusResponse{
		SalesNoteID: link.SalesNoteID,
		Linked:      link.Linked,
		Status:      link.Status.String(),
		Outstanding: link.Outstanding,
		TotalAmount: link.TotalAmount,
	}
}
