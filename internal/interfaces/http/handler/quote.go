package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/quotedesk/backend/internal/application/sales"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// QuoteService is the application surface the quote endpoints need
type QuoteService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req salesapp.CreateQuoteRequest) (*salesapp.QuoteResponse, error)
	GetByID(ctx context.Context, tenantID, quoteID uuid.UUID) (*salesapp.QuoteResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter salesapp.ListFilter) (*shared.Paginated[salesapp.QuoteListItemResponse], error)
	AddItem(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.ItemRequest) (*salesapp.QuoteResponse, error)
	UpdateItem(ctx context.Context, tenantID, quoteID, itemID uuid.UUID, req salesapp.ItemRequest) (*salesapp.QuoteResponse, error)
	RemoveItem(ctx context.Context, tenantID, quoteID, itemID uuid.UUID, version int) (*salesapp.QuoteResponse, error)
	UpdatePricing(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.PricingRequest) (*salesapp.QuoteResponse, error)
	ExtendValidity(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.ExtendValidityRequest) (*salesapp.QuoteResponse, error)
	Send(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.VersionRequest) (*salesapp.QuoteResponse, error)
	Accept(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.VersionRequest) (*salesapp.QuoteResponse, error)
	Reject(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.ReasonRequest) (*salesapp.QuoteResponse, error)
	ConvertToSalesNote(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.ConvertQuoteRequest) (*salesapp.SalesNoteResponse, error)
	Delete(ctx context.Context, tenantID, quoteID uuid.UUID, version int) error
	Projection(ctx context.Context, tenantID, quoteID uuid.UUID) (*salesapp.ProjectionResponse, error)
}

// QuoteHandler handles quote-related API endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Create godoc
// @Summary      Create a quote
// @Description  Allocates the next folio and stores the quote as draft
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateQuoteRequest true "Quote"
// @Success      201 {object} dto.Response{data=salesapp.QuoteResponse}
// @Failure      400 {object} dto.Response
// @Router       /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req salesapp.CreateQuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quote)
}

// GetByID godoc
// @Summary      Get a quote
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      200 {object} dto.Response{data=salesapp.QuoteResponse}
// @Failure      404 {object} dto.Response
// @Router       /quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	quote, err := h.quoteService.GetByID(c.Request.Context(), tenantID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// List godoc
// @Summary      List quotes
// @Tags         quotes
// @Produce      json
// @Param        search query string false "Folio or client name"
// @Param        status query string false "Stored status (approved is accepted)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]salesapp.QuoteListItemResponse}
// @Router       /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter salesapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.quoteService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddItem godoc
// @Summary      Add a line item
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Param        request body salesapp.ItemRequest true "Line item"
// @Success      200 {object} dto.Response{data=salesapp.QuoteResponse}
// @Failure      422 {object} dto.Response
// @Router       /quotes/{id}/items [post]
func (h *QuoteHandler) AddItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req salesapp.ItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.AddItem(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// UpdateItem godoc
// @Summary      Replace a line item
// @Tags         quotes
// @Router       /quotes/{id}/items/{item_id} [put]
func (h *QuoteHandler) UpdateItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "item_id")
	if !ok {
		return
	}
	var req salesapp.ItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.UpdateItem(c.Request.Context(), tenantID, quoteID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// RemoveItem godoc
// @Summary      Remove a line item
// @Tags         quotes
// @Param        version query int false "Expected version"
// @Router       /quotes/{id}/items/{item_id} [delete]
func (h *QuoteHandler) RemoveItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "item_id")
	if !ok {
		return
	}
	version, ok := h.queryVersion(c)
	if !ok {
		return
	}

	quote, err := h.quoteService.RemoveItem(c.Request.Context(), tenantID, quoteID, itemID, version)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// UpdatePricing godoc
// @Summary      Change global discount, tax rate or notes
// @Tags         quotes
// @Router       /quotes/{id}/pricing [put]
func (h *QuoteHandler) UpdatePricing(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req salesapp.PricingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.UpdatePricing(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// ExtendValidity godoc
// @Summary      Extend the offer validity
// @Description  Also revives a sent quote whose validity has lapsed
// @Tags         quotes
// @Router       /quotes/{id}/extend-validity [post]
func (h *QuoteHandler) ExtendValidity(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req salesapp.ExtendValidityRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.ExtendValidity(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Send godoc
// @Summary      Send a draft quote to the client
// @Tags         quotes
// @Router       /quotes/{id}/send [post]
func (h *QuoteHandler) Send(c *gin.Context) {
	h.versionTransition(c, h.quoteService.Send)
}

// Accept godoc
// @Summary      Record the client's acceptance
// @Tags         quotes
// @Router       /quotes/{id}/accept [post]
func (h *QuoteHandler) Accept(c *gin.Context) {
	h.versionTransition(c, h.quoteService.Accept)
}

// Reject godoc
// @Summary      Record the client's rejection
// @Tags         quotes
// @Router       /quotes/{id}/reject [post]
func (h *QuoteHandler) Reject(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req salesapp.ReasonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.Reject(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Convert godoc
// @Summary      Convert an accepted quote into a sales note
// @Description  A sent quote is accepted on the way. Fails with 409 when already converted.
// @Tags         quotes
// @Success      201 {object} dto.Response{data=salesapp.SalesNoteResponse}
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /quotes/{id}/convert [post]
func (h *QuoteHandler) Convert(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req salesapp.ConvertQuoteRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	note, err := h.quoteService.ConvertToSalesNote(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, note)
}

// Delete godoc
// @Summary      Delete a draft or rejected quote
// @Tags         quotes
// @Param        version query int false "Expected version"
// @Success      204
// @Router       /quotes/{id} [delete]
func (h *QuoteHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	version, ok := h.queryVersion(c)
	if !ok {
		return
	}

	if err := h.quoteService.Delete(c.Request.Context(), tenantID, quoteID, version); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Projection godoc
// @Summary      Read model for rendering the quote
// @Tags         quotes
// @Router       /quotes/{id}/projection [get]
func (h *QuoteHandler) Projection(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	projection, err := h.quoteService.Projection(c.Request.Context(), tenantID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, projection)
}

type quoteTransition func(ctx context.Context, tenantID, quoteID uuid.UUID, req salesapp.VersionRequest) (*salesapp.QuoteResponse, error)

// versionTransition runs a status change whose body carries only the
// expected version. An empty body is accepted.
func (h *QuoteHandler) versionTransition(c *gin.Context, fn quoteTransition) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req salesapp.VersionRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	quote, err := fn(c.Request.Context(), tenantID, quoteID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}
