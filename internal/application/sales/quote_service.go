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

// QuoteService handles quote business operations
type QuoteService struct {
	documentService
	quotes sales.QuoteRepository
}

// NewQuoteService creates a new QuoteService. quotes serves reads outside
// transactions; every write goes through scope.
func NewQuoteService(scope TransactionScope, quotes sales.QuoteRepository, opts Options, log *zap.Logger) *QuoteService {
	return &QuoteService{
		documentService: newDocumentService(scope, opts, log),
		quotes:          quotes,
	}
}

// Create allocates a folio and stores a new draft quote in one transaction
func (s *QuoteService) Create(ctx context.Context, tenantID uuid.UUID, req CreateQuoteRequest) (*QuoteResponse, error) {
	now := s.now()
	validity := req.ValidityDays
	if validity == 0 {
		validity = s.opts.DefaultValidityDays
	}
	tax := s.opts.DefaultTaxPercent
	if req.TaxPercent != nil {
		tax = *req.TaxPercent
	}
	if err := validateDraft(req.Client, req.Items, tax, req.GlobalDiscount); err != nil {
		return nil, s.failed(ctx, "quote.create", err)
	}
	if err := sales.ValidateValidityDays(validity); err != nil {
		return nil, s.failed(ctx, "quote.create", err)
	}

	var (
		quote  *sales.Quote
		events []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		folio, allocated, err := s.allocator(repos).Allocate(ctx, tenantID, sequence.DocumentTypeQuote, req.Prefix)
		if err != nil {
			return err
		}
		q, err := sales.NewQuote(tenantID, folio.Value, req.Client.toDomain(), validity, tax, now)
		if err != nil {
			return err
		}
		for _, item := range req.Items {
			if _, err := q.AddItem(item.toDomain(), now); err != nil {
				return err
			}
		}
		if req.GlobalDiscount != 0 {
			if err := q.ApplyGlobalDiscount(req.GlobalDiscount, now); err != nil {
				return err
			}
		}
		if req.Notes != "" {
			if err := q.SetNotes(req.Notes, now); err != nil {
				return err
			}
		}
		if err := repos.Quotes().Create(ctx, q); err != nil {
			return err
		}
		quote = q
		events = append([]shared.DomainEvent{allocated}, q.PullDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, s.failed(ctx, "quote.create", err)
	}

	s.observe(ctx, events)
	s.publish(ctx, events...)
	response := ToQuoteResponse(quote, now)
	return &response, nil
}

// GetByID retrieves a quote by ID
func (s *QuoteService) GetByID(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	q, err := s.quotes.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(q, s.now())
	return &response, nil
}

// List retrieves quotes with filtering and pagination
func (s *QuoteService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) (*shared.Paginated[QuoteListItemResponse], error) {
	domainFilter := buildFilter(filter)
	if filter.Status != "" {
		status, err := sales.ParseQuoteStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		if status == sales.QuoteStatusExpired {
			return nil, shared.NewValidationError("INVALID_STATUS", "Expired is derived and cannot be used as a filter")
		}
		domainFilter.Filters["status"] = status.String()
	}

	quotes, err := s.quotes.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.quotes.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]QuoteListItemResponse, len(quotes))
	for i := range quotes {
		items[i] = ToQuoteListItemResponse(&quotes[i], now)
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// AddItem appends a line to an open quote
func (s *QuoteService) AddItem(ctx context.Context, tenantID, quoteID uuid.UUID, req ItemRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, "quote.add_item", tenantID, quoteID, req.Version, func(q *sales.Quote, now time.Time) error {
		_, err := q.AddItem(req.toDomain(), now)
		return err
	})
}

// UpdateItem replaces the caller-supplied fields of a line
func (s *QuoteService) UpdateItem(ctx context.Context, tenantID, quoteID, itemID uuid.UUID, req ItemRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, "quote.update_item", tenantID, quoteID, req.Version, func(q *sales.Quote, now time.Time) error {
		return q.UpdateItem(itemID, req.toDomain(), now)
	})
}

// RemoveItem removes a line from an open quote
func (s *QuoteService) RemoveItem(ctx context.Context, tenantID, quoteID, itemID uuid.UUID, version int) (*QuoteResponse, error) {
	return s.mutate(ctx, "quote.remove_item", tenantID, quoteID, version, func(q *sales.Quote, now time.Time) error {
		return q.RemoveItem(itemID, now)
	})
}

// UpdatePricing changes the global discount, tax percentage or notes
func (s *QuoteService) UpdatePricing(ctx context.Context, tenantID, quoteID uuid.UUID, req PricingRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, "quote.update_pricing", tenantID, quoteID, req.Version, func(q *sales.Quote, now time.Time) error {
		if req.GlobalDiscount != nil {
			if err := q.ApplyGlobalDiscount(*req.GlobalDiscount, now); err != nil {
				return err
			}
		}
		if req.TaxPercent != nil {
			if err := q.SetTaxPercent(*req.TaxPercent, now); err != nil {
				return err
			}
		}
		if req.Notes != nil {
			return q.SetNotes(*req.Notes, now)
		}
		return nil
	})
}

// ExtendValidity lengthens the offer, reviving it when it has expired
func (s *QuoteService) ExtendValidity(ctx context.Context, tenantID, quoteID uuid.UUID, req ExtendValidityRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, "quote.extend_validity", tenantID, quoteID, req.Version, func(q *sales.Quote, now time.Time) error {
		return q.ExtendValidity(req.Days, now)
	})
}

// Send marks the quote as sent. Sending a sent quote again is a resend.
func (s *QuoteService) Send(ctx context.Context, tenantID, quoteID uuid.UUID, req VersionRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, "quote.send", tenantID, quoteID, req.Version, func(q *sales.Quote, now time.Time) error {
		return q.Send(now)
	})
}

// Accept records the client's acceptance of a sent quote
func (s *QuoteService) Accept(ctx context.Context, tenantID, quoteID uuid.UUID, req VersionRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, "quote.accept", tenantID, quoteID, req.Version, func(q *sales.Quote, now time.Time) error {
		return q.Accept(now)
	})
}

// Reject records the client's rejection of a sent quote
func (s *QuoteService) Reject(ctx context.Context, tenantID, quoteID uuid.UUID, req ReasonRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, "quote.reject", tenantID, quoteID, req.Version, func(q *sales.Quote, now time.Time) error {
		return q.Reject(req.Reason, now)
	})
}

// ConvertToSalesNote creates a sales note from an accepted quote. A sent
// quote is accepted in the same transaction. The quote converts only once.
func (s *QuoteService) ConvertToSalesNote(ctx context.Context, tenantID, quoteID uuid.UUID, req ConvertQuoteRequest) (*SalesNoteResponse, error) {
	now := s.now()
	var (
		note      *sales.SalesNote
		events    []shared.DomainEvent
		fromState sales.QuoteStatus
		toState   sales.QuoteStatus
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		q, err := repos.Quotes().FindByIDForTenant(ctx, tenantID, quoteID)
		if err != nil {
			return err
		}
		if err := q.CheckVersion(req.Version); err != nil {
			return err
		}
		if q.SalesNoteID != nil {
			return shared.NewConflictError("ALREADY_CONVERTED", "Quote "+q.Folio+" was already converted to a sales note")
		}
		fromState = q.Status
		if q.Status == sales.QuoteStatusSent {
			if err := q.Accept(now); err != nil {
				return err
			}
		}
		toState = q.Status

		folio := ""
		if !s.opts.SalesNoteFolioOnConfirm {
			allocated, event, err := s.allocator(repos).Allocate(ctx, tenantID, sequence.DocumentTypeSalesNote, req.Prefix)
			if err != nil {
				return err
			}
			folio = allocated.Value
			events = append(events, event)
		}
		n, err := sales.NewSalesNoteFromQuote(q, folio, now)
		if err != nil {
			return err
		}
		if err := q.MarkConverted(n.ID, n.Folio, now); err != nil {
			return err
		}
		// The quote row is written first so a concurrent conversion loses
		// on the version check instead of the sales note unique index.
		if err := repos.Quotes().SaveWithLock(ctx, q); err != nil {
			return err
		}
		if err := repos.SalesNotes().Create(ctx, n); err != nil {
			return err
		}
		note = n
		events = append(events, q.PullDomainEvents()...)
		events = append(events, n.PullDomainEvents()...)
		return nil
	})
	if err != nil {
		return nil, s.failed(ctx, "quote.convert", err)
	}

	s.observe(ctx, events)
	if fromState != toState {
		s.metrics.Transition(ctx, sequence.DocumentTypeQuote.String(), fromState.String(), toState.String())
	}
	s.publish(ctx, events...)
	s.logger.Info("quote converted",
		zap.String("quote_id", quoteID.String()),
		zap.String("sales_note_id", note.ID.String()),
		zap.String("sales_note_folio", note.Folio),
	)
	response := ToSalesNoteResponse(note)
	return &response, nil
}

// Delete removes a quote that has not reached a terminal status
func (s *QuoteService) Delete(ctx context.Context, tenantID, quoteID uuid.UUID, version int) error {
	var events []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		q, err := repos.Quotes().FindByIDForTenant(ctx, tenantID, quoteID)
		if err != nil {
			return err
		}
		if err := q.CheckVersion(version); err != nil {
			return err
		}
		if err := q.Delete(s.now()); err != nil {
			return err
		}
		if err := repos.Quotes().DeleteWithLock(ctx, q); err != nil {
			return err
		}
		events = q.PullDomainEvents()
		return nil
	})
	if err != nil {
		return s.failed(ctx, "quote.delete", err)
	}
	s.publish(ctx, events...)
	return nil
}

// Projection returns the rendering read model of a quote
func (s *QuoteService) Projection(ctx context.Context, tenantID, quoteID uuid.UUID) (*ProjectionResponse, error) {
	q, err := s.quotes.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	response := ToProjectionResponse(q.Projection(s.now()))
	return &response, nil
}

// mutate loads the quote inside a transaction, applies fn and writes the
// result under the version check
func (s *QuoteService) mutate(ctx context.Context, operation string, tenantID, quoteID uuid.UUID, version int, fn func(q *sales.Quote, now time.Time) error) (*QuoteResponse, error) {
	now := s.now()
	var (
		quote  *sales.Quote
		events []shared.DomainEvent
		from   sales.QuoteStatus
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		q, err := repos.Quotes().FindByIDForTenant(ctx, tenantID, quoteID)
		if err != nil {
			return err
		}
		if err := q.CheckVersion(version); err != nil {
			return err
		}
		from = q.Status
		if err := fn(q, now); err != nil {
			return err
		}
		if err := repos.Quotes().SaveWithLock(ctx, q); err != nil {
			return err
		}
		quote = q
		events = q.PullDomainEvents()
		return nil
	})
	if err != nil {
		return nil, s.failed(ctx, operation, err)
	}

	if from != quote.Status {
		s.metrics.Transition(ctx, sequence.DocumentTypeQuote.String(), from.String(), quote.Status.String())
	}
	s.publish(ctx, events...)
	response := ToQuoteResponse(quote, now)
	return &response, nil
}

func buildFilter(filter ListFilter) shared.Filter {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	return f
}
