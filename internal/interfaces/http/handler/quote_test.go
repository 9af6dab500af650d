package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	salesapp "github.com/quotedesk/backend/internal/application/sales"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/quotedesk/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupQuoteHandler(tenantID uuid.UUID) (*MockQuoteService, http.Handler) {
	svc := new(MockQuoteService)
	h := NewQuoteHandler(svc)

	engine := newTestEngine(tenantID)
	engine.POST("/quotes", h.Create)
	engine.GET("/quotes", h.List)
	engine.GET("/quotes/:id", h.GetByID)
	engine.DELETE("/quotes/:id", h.Delete)
	engine.POST("/quotes/:id/items", h.AddItem)
	engine.DELETE("/quotes/:id/items/:item_id", h.RemoveItem)
	engine.POST("/quotes/:id/send", h.Send)
	engine.POST("/quotes/:id/accept", h.Accept)
	engine.POST("/quotes/:id/reject", h.Reject)
	engine.POST("/quotes/:id/convert", h.Convert)
	return svc, engine
}

func TestQuoteHandler_Create(t *testing.T) {
	tenantID := uuid.New()
	svc, engine := setupQuoteHandler(tenantID)

	created := &salesapp.QuoteResponse{ID: uuid.New(), TenantID: tenantID, Folio: "QT-000001", Status: "draft", Version: 1}
	svc.On("Create", mock.Anything, tenantID, mock.MatchedBy(func(req salesapp.CreateQuoteRequest) bool {
		return req.Client.Name == "ACME" && len(req.Items) == 1 && req.Items[0].UnitPrice == 10000
	})).Return(created, nil)

	body := map[string]any{
		"client": map[string]any{"name": "ACME"},
		"items": []map[string]any{
			{"description": "Widget", "quantity": "2", "unit_price": 10000},
		},
	}
	w := doRequest(engine, http.MethodPost, "/quotes", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool                   `json:"success"`
		Data    salesapp.QuoteResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "QT-000001", resp.Data.Folio)
	svc.AssertExpectations(t)
}

func TestQuoteHandler_Create_ValidationError(t *testing.T) {
	svc, engine := setupQuoteHandler(uuid.New())

	w := doRequest(engine, http.MethodPost, "/quotes", map[string]any{
		"client": map[string]any{"name": ""},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.NotEmpty(t, resp.Error.Details)
	assert.Equal(t, "client.name", resp.Error.Details[0].Field)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuoteHandler_Create_MalformedJSON(t *testing.T) {
	_, engine := setupQuoteHandler(uuid.New())

	w := doRequest(engine, http.MethodPost, "/quotes", `{"client":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
}

func TestQuoteHandler_GetByID(t *testing.T) {
	tenantID := uuid.New()
	svc, engine := setupQuoteHandler(tenantID)
	quoteID := uuid.New()

	svc.On("GetByID", mock.Anything, tenantID, quoteID).
		Return(nil, shared.NewNotFoundError("NOT_FOUND", "quote not found"))

	w := doRequest(engine, http.MethodGet, "/quotes/"+quoteID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(engine, http.MethodGet, "/quotes/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestQuoteHandler_List(t *testing.T) {
	tenantID := uuid.New()
	svc, engine := setupQuoteHandler(tenantID)

	page := shared.NewPaginated([]salesapp.QuoteListItemResponse{{ID: uuid.New(), Folio: "QT-000001", Status: "sent"}}, 21, 2, 10)
	svc.On("List", mock.Anything, tenantID, mock.MatchedBy(func(f salesapp.ListFilter) bool {
		return f.Status == "sent" && f.Page == 2 && f.PageSize == 10
	})).Return(&page, nil)

	w := doRequest(engine, http.MethodGet, "/quotes?status=sent&page=2&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(21), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	w = doRequest(engine, http.MethodGet, "/quotes?page_size=1000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuoteHandler_Transitions(t *testing.T) {
	tenantID := uuid.New()
	quoteID := uuid.New()

	t.Run("send without body", func(t *testing.T) {
		svc, engine := setupQuoteHandler(tenantID)
		svc.On("Send", mock.Anything, tenantID, quoteID, salesapp.VersionRequest{}).
			Return(&salesapp.QuoteResponse{ID: quoteID, Status: "sent", Version: 2}, nil)

		w := doRequest(engine, http.MethodPost, "/quotes/"+quoteID.String()+"/send", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("accept draft reports current status", func(t *testing.T) {
		svc, engine := setupQuoteHandler(tenantID)
		svc.On("Accept", mock.Anything, tenantID, quoteID, salesapp.VersionRequest{Version: 3}).
			Return(nil, shared.NewInvalidTransitionError("draft", "only sent quotes can be accepted"))

		w := doRequest(engine, http.MethodPost, "/quotes/"+quoteID.String()+"/accept", map[string]int{"version": 3})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "draft", decodeResponse(t, w).Error.CurrentStatus)
	})

	t.Run("reject needs a reason", func(t *testing.T) {
		svc, engine := setupQuoteHandler(tenantID)

		w := doRequest(engine, http.MethodPost, "/quotes/"+quoteID.String()+"/reject", map[string]int{"version": 1})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestQuoteHandler_Convert(t *testing.T) {
	tenantID := uuid.New()
	quoteID := uuid.New()

	t.Run("created", func(t *testing.T) {
		svc, engine := setupQuoteHandler(tenantID)
		note := &salesapp.SalesNoteResponse{ID: uuid.New(), QuoteID: &quoteID, Folio: "NV-000001", Status: "draft"}
		svc.On("ConvertToSalesNote", mock.Anything, tenantID, quoteID, salesapp.ConvertQuoteRequest{Version: 3}).
			Return(note, nil)

		w := doRequest(engine, http.MethodPost, "/quotes/"+quoteID.String()+"/convert", map[string]int{"version": 3})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "NV-000001")
	})

	t.Run("already converted", func(t *testing.T) {
		svc, engine := setupQuoteHandler(tenantID)
		svc.On("ConvertToSalesNote", mock.Anything, tenantID, quoteID, salesapp.ConvertQuoteRequest{}).
			Return(nil, shared.NewConflictError("ALREADY_CONVERTED", "quote already converted"))

		w := doRequest(engine, http.MethodPost, "/quotes/"+quoteID.String()+"/convert", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyConverted, decodeResponse(t, w).Error.Code)
	})
}

func TestQuoteHandler_DeleteAndRemoveItem(t *testing.T) {
	tenantID := uuid.New()
	quoteID, itemID := uuid.New(), uuid.New()
	svc, engine := setupQuoteHandler(tenantID)

	svc.On("Delete", mock.Anything, tenantID, quoteID, 4).Return(nil)
	svc.On("RemoveItem", mock.Anything, tenantID, quoteID, itemID, 2).
		Return(&salesapp.QuoteResponse{ID: quoteID, Version: 3}, nil)

	w := doRequest(engine, http.MethodDelete, "/quotes/"+quoteID.String()+"?version=4", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(engine, http.MethodDelete, "/quotes/"+quoteID.String()+"/items/"+itemID.String()+"?version=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	svc.AssertExpectations(t)
}
