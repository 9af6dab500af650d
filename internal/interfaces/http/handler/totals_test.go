package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	salesapp "github.com/quotedesk/backend/internal/application/sales"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupPricingHandler(tenantID uuid.UUID) (*MockPricing, http.Handler) {
	svc := new(MockPricing)
	h := NewPricingHandler(svc, svc)

	engine := newTestEngine(tenantID)
	engine.POST("/totals/preview", h.PreviewTotals)
	engine.GET("/sequences/:type/:prefix", h.PeekSequence)
	return svc, engine
}

func TestPricingHandler_PreviewTotals(t *testing.T) {
	svc, engine := setupPricingHandler(uuid.New())

	svc.On("Preview", mock.MatchedBy(func(req salesapp.TotalsPreviewRequest) bool {
		return len(req.Items) == 2 && req.GlobalDiscount == 500
	})).Return(&salesapp.TotalsPreviewResponse{
		Lines:  []salesapp.LineTotalsResponse{{Position: 1, Gross: 20000, Net: 20000}, {Position: 2, Gross: 5000, Discount: 500, Net: 4500}},
		Totals: salesapp.TotalsResponse{Subtotal: 24500, Total: 28560},
	}, nil)

	w := doRequest(engine, http.MethodPost, "/totals/preview", `{
		"global_discount": 500,
		"items": [
			{"description": "Widget", "quantity": "2", "unit_price": 10000},
			{"description": "Service", "quantity": "1", "unit_price": 5000, "discount_percent": "10"}
		]
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"position":2`)
	svc.AssertExpectations(t)
}

func TestPricingHandler_PeekSequence(t *testing.T) {
	tenantID := uuid.New()
	svc, engine := setupPricingHandler(tenantID)

	svc.On("Peek", mock.Anything, tenantID, "quote", "QT").
		Return(&salesapp.SequenceResponse{DocumentType: "quote", Prefix: "QT", LastNumber: 12, LastFolio: "QT-000012"}, nil)
	svc.On("Peek", mock.Anything, tenantID, "invoice", "FA").
		Return(nil, shared.NewValidationError("INVALID_DOCUMENT_TYPE", "unknown document type"))

	w := doRequest(engine, http.MethodGet, "/sequences/quote/QT", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "QT-000012")

	w = doRequest(engine, http.MethodGet, "/sequences/invoice/FA", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
