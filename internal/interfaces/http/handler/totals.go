package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/quotedesk/backend/internal/application/sales"
)

// TotalsPreviewer computes document totals without storing anything
type TotalsPreviewer interface {
	Preview(req salesapp.TotalsPreviewRequest) (*salesapp.TotalsPreviewResponse, error)
}

// SequenceReader exposes the state of folio sequences
type SequenceReader interface {
	Peek(ctx context.Context, tenantID uuid.UUID, documentType, prefix string) (*salesapp.SequenceResponse, error)
}

// PricingHandler serves stateless totals previews and sequence lookups
type PricingHandler struct {
	BaseHandler
	totals    TotalsPreviewer
	sequences SequenceReader
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(totals TotalsPreviewer, sequences SequenceReader) *PricingHandler {
	return &PricingHandler{totals: totals, sequences: sequences}
}

// PreviewTotals godoc
// @Summary      Compute totals for a set of lines
// @Tags         totals
// @Accept       json
// @Produce      json
// @Param        request body salesapp.TotalsPreviewRequest true "Lines and pricing"
// @Success      200 {object} dto.Response{data=salesapp.TotalsPreviewResponse}
// @Router       /totals/preview [post]
func (h *PricingHandler) PreviewTotals(c *gin.Context) {
	if _, ok := h.tenant(c); !ok {
		return
	}
	var req salesapp.TotalsPreviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	preview, err := h.totals.Preview(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// PeekSequence godoc
// @Summary      Last folio issued for a document type and prefix
// @Tags         sequences
// @Param        type path string true "quote or sales_note"
// @Param        prefix path string true "Folio prefix"
// @Success      200 {object} dto.Response{data=salesapp.SequenceResponse}
// @Router       /sequences/{type}/{prefix} [get]
func (h *PricingHandler) PeekSequence(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	seq, err := h.sequences.Peek(c.Request.Context(), tenantID, c.Param("type"), c.Param("prefix"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, seq)
}
