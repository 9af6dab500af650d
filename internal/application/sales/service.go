// Package sales holds the application services of the quote and sales note
// lifecycles. Services open one transaction per operation, allocate folios
// inside it and publish the collected domain events after commit.
package sales

import (
	"context"
	"time"

	"github.com/quotedesk/backend/internal/domain/sequence"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/quotedesk/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Metrics receives lifecycle counters
type Metrics interface {
	FolioAllocated(ctx context.Context, documentType string)
	Transition(ctx context.Context, documentType, from, to string)
	Conflict(ctx context.Context, operation string)
	InvoicedQuantity(ctx context.Context, invoicingStatus string)
}

type noopMetrics struct{}

func (noopMetrics) FolioAllocated(context.Context, string)             {}
func (noopMetrics) Transition(context.Context, string, string, string) {}
func (noopMetrics) Conflict(context.Context, string)                   {}
func (noopMetrics) InvoicedQuantity(context.Context, string)           {}

// Options configures the document services
type Options struct {
	Policy sequence.Policy
	// SalesNoteFolioOnConfirm leaves new sales notes without a folio until
	// they are confirmed.
	SalesNoteFolioOnConfirm bool
	DefaultValidityDays     int
	DefaultTaxPercent       decimal.Decimal
	Clock                   func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Policy == nil {
		o.Policy = sequence.DefaultPolicy()
	}
	if o.DefaultValidityDays <= 0 {
		o.DefaultValidityDays = 30
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// documentService carries what every document service needs
type documentService struct {
	scope     TransactionScope
	opts      Options
	publisher shared.EventPublisher
	metrics   Metrics
	logger    *zap.Logger
}

func newDocumentService(scope TransactionScope, opts Options, log *zap.Logger) documentService {
	if log == nil {
		log = zap.NewNop()
	}
	return documentService{
		scope:   scope,
		opts:    opts.withDefaults(),
		metrics: noopMetrics{},
		logger:  log,
	}
}

func (s *documentService) now() time.Time {
	return s.opts.Clock().UTC()
}

func (s *documentService) allocator(repos TransactionalRepositories) *sequence.Allocator {
	return sequence.NewAllocator(repos.Sequences(), s.opts.Policy, s.opts.Clock)
}

// publish stamps the request actor on the events and hands them to the
// publisher. Publication failures never fail the committed operation.
func (s *documentService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if actor := logger.GetUserID(ctx); actor != "" {
		for _, e := range events {
			if st, ok := e.(shared.ActorStamper); ok {
				st.StampActor(actor)
			}
		}
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Warn("failed to publish domain events",
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}

// observe records allocation counters for the committed events
func (s *documentService) observe(ctx context.Context, events []shared.DomainEvent) {
	for _, e := range events {
		if a, ok := e.(*sequence.AllocatedEvent); ok {
			s.metrics.FolioAllocated(ctx, a.DocumentType.String())
		}
	}
}

func (s *documentService) failed(ctx context.Context, operation string, err error) error {
	if shared.IsConflict(err) {
		s.metrics.Conflict(ctx, operation)
	}
	if shared.IsStorage(err) {
		logger.L(ctx).Error("document operation failed", zap.String("operation", operation), zap.Error(err))
	}
	return err
}

// SetEventPublisher sets the publisher that receives committed domain events
func (s *documentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetMetrics replaces the no-op metrics
func (s *documentService) SetMetrics(metrics Metrics) {
	if metrics != nil {
		s.metrics = metrics
	}
}
