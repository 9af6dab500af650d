package handler

import (
	"context"

	"github.com/google/uuid"
	salesapp "github.com/quotedesk/backend/internal/application/sales"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockQuoteService implements QuoteService for testing
type MockQuoteService struct {
	mock.Mock
}

func quoteResult(args mock.Arguments) (*salesapp.QuoteResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.QuoteResponse), args.Error(1)
}

func noteResult(args mock.Arguments) (*salesapp.SalesNoteResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.SalesNoteResponse), args.Error(1)
}

func projectionResult(args mock.Arguments) (*salesapp.ProjectionResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.ProjectionResponse), args.Error(1)
}

func (m *MockQuoteService) Create(ctx context.Context, tenantID uuid.UUID, req salesapp.CreateQuoteRequest) (*salesapp.QuoteResponse, error) {
	return quoteResult(m.Called(ctx, tenantID, req))
}

func (m *MockQuoteService) GetByID(ctx context.Context, tenantID, quoteID uuid.UUID) (*salesapp.QuoteResponse, error) {
	return quoteResult(m.Called(ctx, tenantID, quoteID))
}

func (m *MockQuoteService) List(ctx context.Context, tenantID uuid.UUID, filter salesapp.ListFilter) (*shared.Paginated[salesapp.QuoteListItemResponse], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[salesapp.QuoteListItemResponse]), args.Error(1)
}

func (m *MockQuoteService) AddItem(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.ItemRequest) (*salesapp.QuoteResponse, error) {
	return quoteResult(m.Called(ctx, tenantID, quoteID, req))
}

func (m *MockQuoteService) UpdateItem(ctx context.Context, tenantID, quoteID, itemID uuid.UUID, req salesapp.ItemRequest) (*salesapp.QuoteResponse, error) {
	return quoteResult(m.Called(ctx, tenantID, quoteID, itemID, req))
}

func (m *MockQuoteService) RemoveItem(ctx context.Context, tenantID, quoteID, itemID uuid.UUID, version int) (*salesapp.QuoteResponse, error) {
	return quoteResult(m.Called(ctx, tenantID, quoteID, itemID, version))
}

func (m *MockQuoteService) UpdatePricing(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.PricingRequest) (*salesapp.QuoteResponse, error) {
	return quoteResult(m.Called(ctx, tenantID, quoteID, req))
}

func (m *MockQuoteService) ExtendValidity(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.ExtendValidityRequest) (*salesapp.QuoteResponse, error) {
	return quoteResult(m.Called(ctx, tenantID, quoteID, req))
}

func (m *MockQuoteService) Send(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.VersionRequest) (*salesapp.QuoteResponse, error) {
	return quoteResult(m.Called(ctx, tenantID, quoteID, req))
}

func (m *MockQuoteService) Accept(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.VersionRequest) (*salesapp.QuoteResponse, error) {
	return quoteResult(m.Called(ctx, tenantID, quoteID, req))
}

func (m *MockQuoteService) Reject(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.ReasonRequest) (*salesapp.QuoteResponse, error) {
	return quoteResult(m.Called(ctx, tenantID, quoteID, req))
}

func (m *MockQuoteService) ConvertToSalesNote(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.ConvertQuoteRequest) (*salesapp.SalesNoteResponse, error) {
	return noteResult(m.Called(ctx, tenantID, quoteID, req))
}

func (m *MockQuoteService) Delete(ctx context.Context, tenantID, quoteID uuid.UUID, version int) error {
	return m.Called(ctx, tenantID, quoteID, version).Error(0)
}

func (m *MockQuoteService) Projection(ctx context.Context, tenantID, quoteID uuid.UUID) (*salesapp.ProjectionResponse, error) {
	return projectionResult(m.Called(ctx, tenantID, quoteID))
}

// MockSalesNoteService implements SalesNoteService and PaymentStatusService for testing
type MockSalesNoteService struct {
	mock.Mock
}

func (m *MockSalesNoteService) Create(ctx context.Context, tenantID uuid.UUID, req salesapp.CreateSalesNoteRequest) (*salesapp.SalesNoteResponse, error) {
	return noteResult(m.Called(ctx, tenantID, req))
}

func (m *MockSalesNoteService) GetByID(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.SalesNoteResponse, error) {
	return noteResult(m.Called(ctx, tenantID, noteID))
}

func (m *MockSalesNoteService) List(ctx context.Context, tenantID uuid.UUID, filter salesapp.ListFilter) (*shared.Paginated[salesapp.SalesNoteListItemResponse], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[salesapp.SalesNoteListItemResponse]), args.Error(1)
}

func (m *MockSalesNoteService) AddItem(ctx context.Context, tenantID, noteID uuid.UUID, req salesapp.ItemRequest) (*salesapp.SalesNoteResponse, error) {
	return noteResult(m.Called(ctx, tenantID, noteID, req))
}

func (m *MockSalesNoteService) UpdateItem(ctx context.Context, tenantID, noteID, itemID uuid.UUID, req salesapp.ItemRequest) (*salesapp.SalesNoteResponse, error) {
	return noteResult(m.Called(ctx, tenantID, noteID, itemID, req))
}

func (m *MockSalesNoteService) RemoveItem(ctx context.Context, tenantID, noteID, itemID uuid.UUID, version int) (*salesapp.SalesNoteResponse, error) {
	return noteResult(m.Called(ctx, tenantID, noteID, itemID, version))
}

func (m *MockSalesNoteService) UpdatePricing(ctx context.Context, tenantID, noteID uuid.UUID, req salesapp.PricingRequest) (*salesapp.SalesNoteResponse, error) {
	return noteResult(m.Called(ctx, tenantID, noteID, req))
}

func (m *MockSalesNoteService) UpdateTerms(ctx context.Context, tenantID, noteID uuid.UUID, req salesapp.TermsRequest) (*salesapp.SalesNoteResponse, error) {
	return noteResult(m.Called(ctx, tenantID, noteID, req))
}

func (m *MockSalesNoteService) Confirm(ctx context.Context, tenantID, noteID uuid.UUID, req salesapp.ConfirmSalesNoteRequest) (*salesapp.SalesNoteResponse, error) {
	return noteResult(m.Called(ctx, tenantID, noteID, req))
}

func (m *MockSalesNoteService) Cancel(ctx context.Context, tenantID, noteID uuid.UUID, req salesapp.ReasonRequest) (*salesapp.SalesNoteResponse, error) {
	return noteResult(m.Called(ctx, tenantID, noteID, req))
}

func (m *MockSalesNoteService) RecordInvoicedQuantity(ctx context.Context, tenantID, noteID, itemID uuid.UUID, req salesapp.InvoicedQuantityRequest) (*salesapp.SalesNoteResponse, error) {
	return noteResult(m.Called(ctx, tenantID, noteID, itemID, req))
}

func (m *MockSalesNoteService) Delete(ctx context.Context, tenantID, noteID uuid.UUID, version int) error {
	return m.Called(ctx, tenantID, noteID, version).Error(0)
}

func (m *MockSalesNoteService) Projection(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.ProjectionResponse, error) {
	return projectionResult(m.Called(ctx, tenantID, noteID))
}

func (m *MockSalesNoteService) PaymentStatus(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.PaymentStatusResponse, error) {
	args := m.Called(ctx, tenantID, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.PaymentStatusResponse), args.Error(1)
}

// MockPricing implements TotalsPreviewer and SequenceReader for testing
type MockPricing struct {
	mock.Mock
}

func (m *MockPricing) Preview(req salesapp.TotalsPreviewRequest) (*salesapp.TotalsPreviewResponse, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.TotalsPreviewResponse), args.Error(1)
}

func (m *MockPricing) Peek(ctx context.Context, tenantID uuid.UUID, documentType, prefix string) (*salesapp.SequenceResponse, error) {
	args := m.Called(ctx, tenantID, documentType, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.SequenceResponse), args.Error(1)
}
