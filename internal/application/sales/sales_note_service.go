package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/sales"
	"github.com/quotedesk/backend/internal/domain/sequence"
	"github.com/quotedesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SalesNoteService handles sales note business operations
type SalesNoteService struct {
	documentService
	notes sales.SalesNoteRepository
}

// NewSalesNoteService creates a new SalesNoteService
func NewSalesNoteService(scope TransactionScope, notes sales.SalesNoteRepository, opts Options, log *zap.Logger) *SalesNoteService {
	return &SalesNoteService{
		documentService: newDocumentService(scope, opts, log),
		notes:           notes,
	}
}

// Create stores a new draft sales note. The folio is allocated now unless
// folios are deferred to confirmation.
func (s *SalesNoteService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSalesNoteRequest) (*SalesNoteResponse, error) {
	now := s.now()
	tax := s.opts.DefaultTaxPercent
	if req.TaxPercent != nil {
		tax = *req.TaxPercent
	}
	if err := validateDraft(req.Client, req.Items, tax, req.GlobalDiscount); err != nil {
		return nil, s.failed(ctx, "sales_note.create", err)
	}

	var (
		note   *sales.SalesNote
		events []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		folio := ""
		if !s.opts.SalesNoteFolioOnConfirm {
			allocated, event, err := s.allocator(repos).Allocate(ctx, tenantID, sequence.DocumentTypeSalesNote, req.Prefix)
			if err != nil {
				return err
			}
			folio = allocated.Value
			events = append(events, event)
		}
		n, err := sales.NewSalesNote(tenantID, folio, req.Client.toDomain(), tax, now)
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			if _, err := n.AddItem(item.toDomain(), now); err != nil {
				return err
			}
		}
		if req.GlobalDiscount != 0 {
			if err := n.ApplyGlobalDiscount(req.GlobalDiscount, now); err != nil {
				return err
			}
		}
		if err := applyTerms(n, req.PaymentTerms, req.Delivery, now); err != nil {
			return err
		}
		if req.Notes != "" {
			if err := n.SetNotes(req.Notes, now); err != nil {
				return err
			}
		}
		if err := repos.SalesNotes().Create(ctx, n); err != nil {
			return err
		}
		note = n
		events = append(events, n.PullDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, s.failed(ctx, "sales_note.create", err)
	}

	s.observe(ctx, events)
	s.publish(ctx, events...)
	response := ToSalesNoteResponse(note)
	return &response, nil
}

// GetByID retrieves a sales note by ID
func (s *SalesNoteService) GetByID(ctx context.Context, tenantID, noteID uuid.UUID) (*SalesNoteResponse, error) {
	n, err := s.notes.FindByIDForTenant(ctx, tenantID, noteID)
	if err != nil {
		return nil, err
	}
	response := ToSalesNoteResponse(n)
	return &response, nil
}

// List retrieves sales notes with filtering and pagination
func (s *SalesNoteService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) (*shared.Paginated[SalesNoteListItemResponse], error) {
	domainFilter := buildFilter(filter)
	if filter.Status != "" {
		status, err := sales.ParseSalesNoteStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		domainFilter.Filters["status"] = status.String()
	}
	if filter.InvoicingStatus != "" {
		status, err := sales.ParseInvoicingStatus(filter.InvoicingStatus)
		if err != nil {
			return nil, err
		}
		domainFilter.Filters["invoicing_status"] = status.String()
	}
	if filter.QuoteID != nil {
		domainFilter.Filters["quote_id"] = *filter.QuoteID
	}

	notes, err := s.notes.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.notes.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]SalesNoteListItemResponse, len(notes))
	for i := range notes {
		items[i] = ToSalesNoteListItemResponse(&notes[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// AddItem appends a line to a draft note
func (s *SalesNoteService) AddItem(ctx context.Context, tenantID, noteID uuid.UUID, req ItemRequest) (*SalesNoteResponse, error) {
	return s.mutate(ctx, "sales_note.add_item", tenantID, noteID, req.Version, func(_ TransactionalRepositories, n *sales.SalesNote, now time.Time) error {
		_, err := n.AddItem(req.toDomain(), now)
		return err
	})
}

// UpdateItem replaces the caller-supplied fields of a line on a draft note
func (s *SalesNoteService) UpdateItem(ctx context.Context, tenantID, noteID, itemID uuid.UUID, req ItemRequest) (*SalesNoteResponse, error) {
	return s.mutate(ctx, "sales_note.update_item", tenantID, noteID, req.Version, func(_ TransactionalRepositories, n *sales.SalesNote, now time.Time) error {
		return n.UpdateItem(itemID, req.toDomain(), now)
	})
}

// RemoveItem removes a line from a draft note
func (s *SalesNoteService) RemoveItem(ctx context.Context, tenantID, noteID, itemID uuid.UUID, version int) (*SalesNoteResponse, error) {
	return s.mutate(ctx, "sales_note.remove_item", tenantID, noteID, version, func(_ TransactionalRepositories, n *sales.SalesNote, now time.Time) error {
		return n.RemoveItem(itemID, now)
	})
}

// UpdatePricing changes the global discount, tax percentage or notes of a draft note
func (s *SalesNoteService) UpdatePricing(ctx context.Context, tenantID, noteID uuid.UUID, req PricingRequest) (*SalesNoteResponse, error) {
	return s.mutate(ctx, "sales_note.update_pricing", tenantID, noteID, req.Version, func(_ TransactionalRepositories, n *sales.SalesNote, now time.Time) error {
		if req.GlobalDiscount != nil {
			if err := n.ApplyGlobalDiscount(*req.GlobalDiscount, now); err != nil {
				return err
			}
		}
		if req.TaxPercent != nil {
			if err := n.SetTaxPercent(*req.TaxPercent, now); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			return n.SetNotes(*req.Notes, now)
		}
		return nil
	})
}

// UpdateTerms replaces the payment terms and delivery metadata of a draft note
func (s *SalesNoteService) UpdateTerms(ctx context.Context, tenantID, noteID uuid.UUID, req TermsRequest) (*SalesNoteResponse, error) {
	return s.mutate(ctx, "sales_note.update_terms", tenantID, noteID, req.Version, func(_ TransactionalRepositories, n *sales.SalesNote, now time.Time) error {
		return applyTerms(n, req.PaymentTerms, req.Delivery, now)
	})
}

// Confirm recomputes totals, allocates the folio when the note has none and
// confirms the note, all in one transaction.
func (s *SalesNoteService) Confirm(ctx context.Context, tenantID, noteID uuid.UUID, req ConfirmSalesNoteRequest) (*SalesNoteResponse, error) {
	return s.mutate(ctx, "sales_note.confirm", tenantID, noteID, req.Version, func(repos TransactionalRepositories, n *sales.SalesNote, now time.Time) error {
		if n.Status != sales.SalesNoteStatusDraft {
			return n.Confirm(now)
		}
		if n.Folio == "" && len(n.Items) > 0 {
			folio, event, err := s.allocator(repos).Allocate(ctx, tenantID, sequence.DocumentTypeSalesNote, req.Prefix)
			if err != nil {
				return err
			}
			if err := n.AssignFolio(folio.Value); err != nil {
				return err
			}
			n.AddDomainEvent(event)
		}
		return n.Confirm(now)
	})
}

// Cancel cancels a draft or confirmed note that is not fully invoiced
func (s *SalesNoteService) Cancel(ctx context.Context, tenantID, noteID uuid.UUID, req ReasonRequest) (*SalesNoteResponse, error) {
	return s.mutate(ctx, "sales_note.cancel", tenantID, noteID, req.Version, func(_ TransactionalRepositories, n *sales.SalesNote, now time.Time) error {
		return n.Cancel(req.Reason, now)
	})
}

// RecordInvoicedQuantity adds quantity invoiced against one item of a
// confirmed note. The note row stays locked from read to write so
// concurrent invoicing of the same note is serialized.
func (s *SalesNoteService) RecordInvoicedQuantity(ctx context.Context, tenantID, noteID, itemID uuid.UUID, req InvoicedQuantityRequest) (*SalesNoteResponse, error) {
	now := s.now()
	var (
		note   *sales.SalesNote
		events []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		n, err := repos.SalesNotes().FindForUpdate(ctx, tenantID, noteID)
		if err != nil {
			return err
		}
		if err := n.CheckVersion(req.Version); err != nil {
			return err
		}
		if _, err := n.RecordInvoicedQuantity(itemID, req.Quantity, now); err != nil {
			return err
		}
		if err := repos.SalesNotes().SaveInvoicedQuantity(ctx, n, itemID); err != nil {
			return err
		}
		note = n
		events = n.PullDomainEvents()
		return nil
	})
	if err != nil {
		return nil, s.failed(ctx, "sales_note.record_invoiced", err)
	}

	s.metrics.InvoicedQuantity(ctx, note.InvoicingStatus().String())
	s.publish(ctx, events...)
	response := ToSalesNoteResponse(note)
	return &response, nil
}

// Delete removes a draft note
func (s *SalesNoteService) Delete(ctx context.Context, tenantID, noteID uuid.UUID, version int) error {
	var events []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		n, err := repos.SalesNotes().FindByIDForTenant(ctx, tenantID, noteID)
		if err != nil {
			return err
		}
		if err := n.CheckVersion(version); err != nil {
			return err
		}
		if err := n.Delete(s.now()); err != nil {
			return err
		}
		if err := repos.SalesNotes().DeleteWithLock(ctx, n); err != nil {
			return err
		}
		events = n.PullDomainEvents()
		return nil
	})
	if err != nil {
		return s.failed(ctx, "sales_note.delete", err)
	}
	s.publish(ctx, events...)
	return nil
}

// Projection returns the rendering read model of a sales note
func (s *SalesNoteService) Projection(ctx context.Context, tenantID, noteID uuid.UUID) (*ProjectionResponse, error) {
	n, err := s.notes.FindByIDForTenant(ctx, tenantID, noteID)
	if err != nil {
		return nil, err
	}
	response := ToProjectionResponse(n.Projection())
	return &response, nil
}

func (s *SalesNoteService) mutate(ctx context.Context, operation string, tenantID, noteID uuid.UUID, version int, fn func(repos TransactionalRepositories, n *sales.SalesNote, now time.Time) error) (*SalesNoteResponse, error) {
	now := s.now()
	var (
		note   *sales.SalesNote
		events []shared.DomainEvent
		from   sales.SalesNoteStatus
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		n, err := repos.SalesNotes().FindByIDForTenant(ctx, tenantID, noteID)
		if err != nil {
			return err
		}
		if err := n.CheckVersion(version); err != nil {
			return err
		}
		from = n.Status
		if err := fn(repos, n, now); err != nil {
			return err
		}
		if err := repos.SalesNotes().SaveWithLock(ctx, n); err != nil {
			return err
		}
		note = n
		events = n.PullDomainEvents()
		return nil
	})
	if err != nil {
		return nil, s.failed(ctx, operation, err)
	}

	s.observe(ctx, events)
	if from != note.Status {
		s.metrics.Transition(ctx, sequence.DocumentTypeSalesNote.String(), from.String(), note.Status.String())
	}
	s.publish(ctx, events...)
	response := ToSalesNoteResponse(note)
	return &response, nil
}

func applyTerms(n *sales.SalesNote, terms *PaymentTermsInput, delivery *DeliveryInput, now time.Time) error {
	if terms != nil {
		if err := n.SetPaymentTerms(sales.PaymentTerms(*terms), now); err != nil {
			return err
		}
	}
	if delivery != nil {
		if err := n.SetDelivery(sales.Delivery(*delivery), now); err != nil {
			return err
		}
	}
	return nil
}
