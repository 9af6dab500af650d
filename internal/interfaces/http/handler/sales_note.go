package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/quotedesk/backend/internal/application/sales"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// SalesNoteService is the application surface the sales note endpoints need
type SalesNoteService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req salesapp.CreateSalesNoteRequest) (*salesapp.SalesNoteResponse, error)
	GetByID(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.SalesNoteResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter salesapp.ListFilter) (*shared.Paginated[salesapp.SalesNoteListItemResponse], error)
	AddItem(ctx context.Context, tenantID, noteID uuid.UUID, req salesapp.ItemRequest) (*salesapp.SalesNoteResponse, error)
	UpdateItem(ctx context.Context, tenantID, noteID, itemID uuid.UUID, req salesapp.ItemRequest) (*salesapp.SalesNoteResponse, error)
	RemoveItem(ctx context.Context, tenantID, noteID, itemID uuid.UUID, version int) (*salesapp.SalesNoteResponse, error)
	UpdatePricing(ctx context.Context, tenantID, noteID uuid.UUID, req salesapp.PricingRequest) (*salesapp.SalesNoteResponse, error)
	UpdateTerms(ctx context.Context, tenantID, noteID uuid.UUID, req salesapp.TermsRequest) (*salesapp.SalesNoteResponse, error)
	Confirm(ctx context.Context, tenantID, noteID uuid.UUID, req salesapp.ConfirmSalesNoteRequest) (*salesapp.SalesNoteResponse, error)
	Cancel(ctx context.Context, tenantID, noteID uuid.UUID, req salesapp.ReasonRequest) (*salesapp.SalesNoteResponse, error)
	RecordInvoicedQuantity(ctx context.Context, tenantID, noteID, itemID uuid.UUID, req salesapp.InvoicedQuantityRequest) (*salesapp.SalesNoteResponse, error)
	Delete(ctx context.Context, tenantID, noteID uuid.UUID, version int) error
	Projection(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.ProjectionResponse, error)
}

// PaymentStatusService reads the receivable linked to a sales note
type PaymentStatusService interface {
	PaymentStatus(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.PaymentStatusResponse, error)
}

// SalesNoteHandler handles sales note-related API endpoints
type SalesNoteHandler struct {
	BaseHandler
	noteService     SalesNoteService
	paymentsService PaymentStatusService
}

// NewSalesNoteHandler creates a new SalesNoteHandler
func NewSalesNoteHandler(noteService SalesNoteService, paymentsService PaymentStatusService) *SalesNoteHandler {
	return &SalesNoteHandler{
		noteService:     noteService,
		paymentsService: paymentsService,
	}
}

// Create godoc
// @Summary      Create a sales note without a quote
// @Tags         sales-notes
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateSalesNoteRequest true "Sales note"
// @Success      201 {object} dto.Response{data=salesapp.SalesNoteResponse}
// @Router       /sales-notes [post]
func (h *SalesNoteHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req salesapp.CreateSalesNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	note, err := h.noteService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, note)
}

// GetByID godoc
// @Summary      Get a sales note
// @Tags         sales-notes
// @Router       /sales-notes/{id} [get]
func (h *SalesNoteHandler) GetByID(c *gin.Context) {
	h.read(c, func(ctx context.Context, tenantID, noteID uuid.UUID) (any, error) {
		return h.noteService.GetByID(ctx, tenantID, noteID)
	})
}

// List godoc
// @Summary      List sales notes
// @Tags         sales-notes
// @Param        status query string false "Status"
// @Param        invoicing_status query string false "Derived invoicing status"
// @Param        quote_id query string false "Originating quote" format(uuid)
// @Router       /sales-notes [get]
func (h *SalesNoteHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter salesapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.noteService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddItem godoc
// @Summary      Add a line item to a draft note
// @Tags         sales-notes
// @Router       /sales-notes/{id}/items [post]
func (h *SalesNoteHandler) AddItem(c *gin.Context) {
	var req salesapp.ItemRequest
	h.write(c, &req, func(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.SalesNoteResponse, error) {
		return h.noteService.AddItem(ctx, tenantID, noteID, req)
	})
}

// UpdateItem godoc
// @Summary      Replace a line item of a draft note
// @Tags         sales-notes
// @Router       /sales-notes/{id}/items/{item_id} [put]
func (h *SalesNoteHandler) UpdateItem(c *gin.Context) {
	itemID, ok := h.pathUUID(c, "item_id")
	if !ok {
		return
	}
	var req salesapp.ItemRequest
	h.write(c, &req, func(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.SalesNoteResponse, error) {
		return h.noteService.UpdateItem(ctx, tenantID, noteID, itemID, req)
	})
}

// RemoveItem godoc
// @Summary      Remove a line item of a draft note
// @Tags         sales-notes
// @Param        version query int false "Expected version"
// @Router       /sales-notes/{id}/items/{item_id} [delete]
func (h *SalesNoteHandler) RemoveItem(c *gin.Context) {
	itemID, ok := h.pathUUID(c, "item_id")
	if !ok {
		return
	}
	version, ok := h.queryVersion(c)
	if !ok {
		return
	}
	h.write(c, nil, func(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.SalesNoteResponse, error) {
		return h.noteService.RemoveItem(ctx, tenantID, noteID, itemID, version)
	})
}

// UpdatePricing godoc
// @Summary      Change global discount, tax rate or notes
// @Tags         sales-notes
// @Router       /sales-notes/{id}/pricing [put]
func (h *SalesNoteHandler) UpdatePricing(c *gin.Context) {
	var req salesapp.PricingRequest
	h.write(c, &req, func(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.SalesNoteResponse, error) {
		return h.noteService.UpdatePricing(ctx, tenantID, noteID, req)
	})
}

// UpdateTerms godoc
// @Summary      Replace payment terms and delivery metadata
// @Tags         sales-notes
// @Router       /sales-notes/{id}/terms [put]
func (h *SalesNoteHandler) UpdateTerms(c *gin.Context) {
	var req salesapp.TermsRequest
	h.write(c, &req, func(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.SalesNoteResponse, error) {
		return h.noteService.UpdateTerms(ctx, tenantID, noteID, req)
	})
}

// Confirm godoc
// @Summary      Confirm a draft note
// @Description  Allocates the folio here when numbering is deferred to confirmation
// @Tags         sales-notes
// @Router       /sales-notes/{id}/confirm [post]
func (h *SalesNoteHandler) Confirm(c *gin.Context) {
	var req salesapp.ConfirmSalesNoteRequest
	h.write(c, optionalBody(c, &req), func(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.SalesNoteResponse, error) {
		return h.noteService.Confirm(ctx, tenantID, noteID, req)
	})
}

// Cancel godoc
// @Summary      Cancel a note
// @Tags         sales-notes
// @Router       /sales-notes/{id}/cancel [post]
func (h *SalesNoteHandler) Cancel(c *gin.Context) {
	var req salesapp.ReasonRequest
	h.write(c, &req, func(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.SalesNoteResponse, error) {
		return h.noteService.Cancel(ctx, tenantID, noteID, req)
	})
}

// RecordInvoicedQuantity godoc
// @Summary      Record quantity invoiced against a line item
// @Description  Invoiced quantity never exceeds the item quantity
// @Tags         sales-notes
// @Router       /sales-notes/{id}/items/{item_id}/invoiced [post]
func (h *SalesNoteHandler) RecordInvoicedQuantity(c *gin.Context) {
	itemID, ok := h.pathUUID(c, "item_id")
	if !ok {
		return
	}
	var req salesapp.InvoicedQuantityRequest
	h.write(c, &req, func(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.SalesNoteResponse, error) {
		return h.noteService.RecordInvoicedQuantity(ctx, tenantID, noteID, itemID, req)
	})
}

// Delete godoc
// @Summary      Delete a draft note
// @Tags         sales-notes
// @Param        version query int false "Expected version"
// @Success      204
// @Router       /sales-notes/{id} [delete]
func (h *SalesNoteHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	noteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	version, ok := h.queryVersion(c)
	if !ok {
		return
	}

	if err := h.noteService.Delete(c.Request.Context(), tenantID, noteID, version); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PaymentStatus godoc
// @Summary      Payment status of the receivable linked to the note
// @Tags         sales-notes
// @Success      200 {object} dto.Response{data=salesapp.PaymentStatusResponse}
// @Router       /sales-notes/{id}/payment-status [get]
func (h *SalesNoteHandler) PaymentStatus(c *gin.Context) {
	h.read(c, func(ctx context.Context, tenantID, noteID uuid.UUID) (any, error) {
		return h.paymentsService.PaymentStatus(ctx, tenantID, noteID)
	})
}

// Projection godoc
// @Summary      Read model for rendering the note
// @Tags         sales-notes
// @Router       /sales-notes/{id}/projection [get]
func (h *SalesNoteHandler) Projection(c *gin.Context) {
	h.read(c, func(ctx context.Context, tenantID, noteID uuid.UUID) (any, error) {
		return h.noteService.Projection(ctx, tenantID, noteID)
	})
}

// read resolves tenant and note id, then answers 200 with fn's result
func (h *SalesNoteHandler) read(c *gin.Context, fn func(ctx context.Context, tenantID, noteID uuid.UUID) (any, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	noteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	result, err := fn(c.Request.Context(), tenantID, noteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// write resolves tenant and note id, binds req when it is not nil and
// answers 200 with the updated note
func (h *SalesNoteHandler) write(c *gin.Context, req any, fn func(ctx context.Context, tenantID, noteID uuid.UUID) (*salesapp.SalesNoteResponse, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	noteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if req != nil && !h.bindJSON(c, req) {
		return
	}

	note, err := fn(c.Request.Context(), tenantID, noteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, note)
}

// optionalBody returns nil for bodiless requests so write skips binding
func optionalBody(c *gin.Context, req any) any {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return req
}
