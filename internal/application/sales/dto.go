package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// ==================== Shared DTOs ====================

// ClientInput is the client snapshot captured on creation
type ClientInput struct {
	ClientID string `json:"client_id" binding:"max=100"`
	Name     string `json:"name" binding:"required,min=1,max=200"`
	TaxID    string `json:"tax_id" binding:"max=50"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	Phone    string `json:"phone" binding:"max=50"`
	Address  string `json:"address" binding:"max=500"`
}

func (c ClientInput) toDomain() sales.ClientSnapshot {
	return sales.ClientSnapshot{
		ClientID: c.ClientID,
		Name:     c.Name,
		TaxID:    c.TaxID,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
	}
}

// LineItemInput is a priced line. Derived amounts are always computed server side.
type LineItemInput struct {
	Description     string          `json:"description" binding:"required,min=1,max=500"`
	Unit            string          `json:"unit" binding:"max=20"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice       int64           `json:"unit_price" binding:"min=0"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

func (in LineItemInput) toDomain() sales.ItemInput {
	return sales.ItemInput{
		Description:     in.Description,
		Unit:            in.Unit,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		DiscountPercent: in.DiscountPercent,
	}
}

// validateDraft checks the creation payload before a folio is allocated,
// so a rejected request never consumes a number.
func validateDraft(client ClientInput, items []LineItemInput, tax decimal.Decimal, globalDiscount int64) error {
	if err := client.toDomain().Normalize().Validate(); err != nil {
		return err
	}
	for _, item := range items {
		if err := item.toDomain().Validate(); err != nil {
			return err
		}
	}
	if err := sales.ValidateTaxPercent(tax); err != nil {
		return err
	}
	return sales.ValidateGlobalDiscount(globalDiscount)
}

// ItemRequest adds or replaces a line on a document
type ItemRequest struct {
	LineItemInput
	Version int `json:"version"`
}

// PricingRequest changes document-level pricing. Nil fields are left unchanged.
type PricingRequest struct {
	GlobalDiscount *int64           `json:"global_discount"`
	TaxPercent     *decimal.Decimal `json:"tax_percent"`
	Notes          *string          `json:"notes" binding:"omitempty,max=2000"`
	Version        int              `json:"version"`
}

// VersionRequest carries only the expected version of the document
type VersionRequest struct {
	Version int `json:"version"`
}

// ReasonRequest carries the reason of a rejection or cancellation
type ReasonRequest struct {
	Reason  string `json:"reason" binding:"required,min=1,max=500"`
	Version int    `json:"version"`
}

// ListFilter filters document listings
type ListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	// InvoicingStatus and QuoteID only apply to sales notes
	InvoicingStatus string     `form:"invoicing_status"`
	QuoteID         *uuid.UUID `form:"quote_id"`
}

// ClientResponse is the client snapshot of a document
type ClientResponse struct {
	ClientID string `json:"client_id,omitempty"`
	Name     string `json:"name"`
	TaxID    string `json:"tax_id,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// LineItemResponse is a line with its derived amounts
type LineItemResponse struct {
	ID               uuid.UUID        `json:"id"`
	Position         int              `json:"position"`
	Description      string           `json:"description"`
	Unit             string           `json:"unit,omitempty"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitPrice        int64            `json:"unit_price"`
	DiscountPercent  decimal.Decimal  `json:"discount_percent"`
	GrossAmount      int64            `json:"gross_amount"`
	DiscountAmount   int64            `json:"discount_amount"`
	NetAmount        int64            `json:"net_amount"`
	InvoicedQuantity *decimal.Decimal `json:"invoiced_quantity,omitempty"`
}

// TotalsResponse holds document totals in base currency units
type TotalsResponse struct {
	Subtotal          int64           `json:"subtotal"`
	LineDiscountTotal int64           `json:"line_discount_total"`
	GlobalDiscount    int64           `json:"global_discount"`
	CombinedDiscount  int64           `json:"combined_discount"`
	NetAfterDiscount  int64           `json:"net_after_discount"`
	TaxPercent        decimal.Decimal `json:"tax_percent"`
	TaxAmount         int64           `json:"tax_amount"`
	Total             int64           `json:"total"`
	DiscountClamped   bool            `json:"discount_clamped"`
}

func toClientResponse(c sales.ClientSnapshot) ClientResponse {
	return ClientResponse(c)
}

func toLineItemResponses(items []sales.LineItem, withInvoiced bool) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, item := range items {
		out[i] = LineItemResponse{
			ID:              item.ID,
			Position:        item.Position,
			Description:     item.Description,
			Unit:            item.Unit,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			GrossAmount:     item.GrossAmount,
			DiscountAmount:  item.DiscountAmount,
			NetAmount:       item.NetAmount,
		}
		if withInvoiced {
			invoiced := item.InvoicedQuantity
			out[i].InvoicedQuantity = &invoiced
		}
	}
	return out
}

func toTotalsResponse(t sales.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:          t.Subtotal,
		LineDiscountTotal: t.LineDiscountTotal,
		GlobalDiscount:    t.GlobalDiscount,
		CombinedDiscount:  t.CombinedDiscount,
		NetAfterDiscount:  t.NetAfterDiscount,
		TaxPercent:        t.TaxPercent,
		TaxAmount:         t.TaxAmount,
		Total:             t.Total,
		DiscountClamped:   t.DiscountClamped,
	}
}

// ==================== Quote DTOs ====================

// CreateQuoteRequest represents a request to create a quote
type CreateQuoteRequest struct {
	Client         ClientInput      `json:"client" binding:"required"`
	ValidityDays   int              `json:"validity_days" binding:"omitempty,min=1,max=3650"`
	TaxPercent     *decimal.Decimal `json:"tax_percent"`
	GlobalDiscount int64            `json:"global_discount" binding:"min=0"`
	Items          []LineItemInput  `json:"items" binding:"dive"`
	Notes          string           `json:"notes" binding:"max=2000"`
	// Prefix overrides the configured folio prefix
	Prefix string `json:"prefix" binding:"max=20"`
}

// ExtendValidityRequest adds days to the offer validity
type ExtendValidityRequest struct {
	Days    int `json:"days" binding:"required,min=1,max=3650"`
	Version int `json:"version"`
}

// ConvertQuoteRequest converts a quote into a sales note
type ConvertQuoteRequest struct {
	Version int `json:"version"`
	// Prefix overrides the configured sales note folio prefix
	Prefix string `json:"prefix" binding:"max=20"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID             uuid.UUID          `json:"id"`
	TenantID       uuid.UUID          `json:"tenant_id"`
	Folio          string             `json:"folio"`
	Status         string             `json:"status"`
	StoredStatus   string             `json:"stored_status"`
	Expired        bool               `json:"expired"`
	EmissionDate   time.Time          `json:"emission_date"`
	ValidityDays   int                `json:"validity_days"`
	ValidUntil     time.Time          `json:"valid_until"`
	Client         ClientResponse     `json:"client"`
	Items          []LineItemResponse `json:"items"`
	GlobalDiscount int64              `json:"global_discount"`
	TaxPercent     decimal.Decimal    `json:"tax_percent"`
	Totals         TotalsResponse     `json:"totals"`
	Notes          string             `json:"notes,omitempty"`
	SalesNoteID    *uuid.UUID         `json:"sales_note_id,omitempty"`
	SentAt         *time.Time         `json:"sent_at,omitempty"`
	AcceptedAt     *time.Time         `json:"accepted_at,omitempty"`
	RejectedAt     *time.Time         `json:"rejected_at,omitempty"`
	RejectReason   string             `json:"reject_reason,omitempty"`
	Version        int                `json:"version"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// QuoteListItemResponse is the summary row of a quote listing
type QuoteListItemResponse struct {
	ID           uuid.UUID  `json:"id"`
	Folio        string     `json:"folio"`
	Status       string     `json:"status"`
	ClientName   string     `json:"client_name"`
	EmissionDate time.Time  `json:"emission_date"`
	ValidUntil   time.Time  `json:"valid_until"`
	Total        int64      `json:"total"`
	SalesNoteID  *uuid.UUID `json:"sales_note_id,omitempty"`
	Version      int        `json:"version"`
}

// ToQuoteResponse converts a quote as seen at now
func ToQuoteResponse(q *sales.Quote, now time.Time) QuoteResponse {
	return QuoteResponse{
		ID:             q.ID,
		TenantID:       q.TenantID,
		Folio:          q.Folio,
		Status:         q.EffectiveStatus(now).String(),
		StoredStatus:   q.Status.String(),
		Expired:        q.IsExpired(now),
		EmissionDate:   q.EmissionDate,
		ValidityDays:   q.ValidityDays,
		ValidUntil:     q.ValidUntil(),
		Client:         toClientResponse(q.Client),
		Items:          toLineItemResponses(q.Items, false),
		GlobalDiscount: q.GlobalDiscount,
		TaxPercent:     q.TaxPercent,
		Totals:         toTotalsResponse(q.Totals),
		Notes:          q.Notes,
		SalesNoteID:    q.SalesNoteID,
		SentAt:         q.SentAt,
		AcceptedAt:     q.AcceptedAt,
		RejectedAt:     q.RejectedAt,
		RejectReason:   q.RejectReason,
		Version:        q.Version,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
}

// ToQuoteListItemResponse converts a quote to its listing row
func ToQuoteListItemResponse(q *sales.Quote, now time.Time) QuoteListItemResponse {
	return QuoteListItemResponse{
		ID:           q.ID,
		Folio:        q.Folio,
		Status:       q.EffectiveStatus(now).String(),
		ClientName:   q.Client.Name,
		EmissionDate: q.EmissionDate,
		ValidUntil:   q.ValidUntil(),
		Total:        q.Totals.Total,
		SalesNoteID:  q.SalesNoteID,
		Version:      q.Version,
	}
}

// ==================== Sales Note DTOs ====================

// PaymentTermsInput describes how the client pays
type PaymentTermsInput struct {
	Method  string `json:"method" binding:"max=50"`
	DueDays int    `json:"due_days" binding:"min=0,max=3650"`
	Notes   string `json:"notes" binding:"max=500"`
}

// DeliveryInput holds shipping metadata
type DeliveryInput struct {
	Address      string     `json:"address" binding:"max=500"`
	ScheduledAt  *time.Time `json:"scheduled_at"`
	Instructions string     `json:"instructions" binding:"max=500"`
}

// CreateSalesNoteRequest represents a request to create a sales note from scratch
type CreateSalesNoteRequest struct {
	Client         ClientInput        `json:"client" binding:"required"`
	TaxPercent     *decimal.Decimal   `json:"tax_percent"`
	GlobalDiscount int64              `json:"global_discount" binding:"min=0"`
	Items          []LineItemInput    `json:"items" binding:"dive"`
	PaymentTerms   *PaymentTermsInput `json:"payment_terms"`
	Delivery       *DeliveryInput     `json:"delivery"`
	Notes          string             `json:"notes" binding:"max=2000"`
	Prefix         string             `json:"prefix" binding:"max=20"`
}

// TermsRequest replaces the payment terms and delivery metadata of a draft note
type TermsRequest struct {
	PaymentTerms *PaymentTermsInput `json:"payment_terms"`
	Delivery     *DeliveryInput     `json:"delivery"`
	Version      int                `json:"version"`
}

// ConfirmSalesNoteRequest confirms a draft note
type ConfirmSalesNoteRequest struct {
	Version int `json:"version"`
	// Prefix is used when the folio is allocated at confirmation
	Prefix string `json:"prefix" binding:"max=20"`
}

// InvoicedQuantityRequest records quantity invoiced against one item
type InvoicedQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Version  int             `json:"version"`
}

// PaymentTermsResponse represents payment terms in API responses
type PaymentTermsResponse struct {
	Method  string `json:"method,omitempty"`
	DueDays int    `json:"due_days"`
	Notes   string `json:"notes,omitempty"`
}

// DeliveryResponse represents delivery metadata in API responses
type DeliveryResponse struct {
	Address      string     `json:"address,omitempty"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
}

// SalesNoteResponse represents a sales note in API responses
type SalesNoteResponse struct {
	ID              uuid.UUID            `json:"id"`
	TenantID        uuid.UUID            `json:"tenant_id"`
	Folio           string               `json:"folio"`
	Status          string               `json:"status"`
	InvoicingStatus string               `json:"invoicing_status"`
	QuoteID         *uuid.UUID           `json:"quote_id,omitempty"`
	Client          ClientResponse       `json:"client"`
	Items           []LineItemResponse   `json:"items"`
	GlobalDiscount  int64                `json:"global_discount"`
	TaxPercent      decimal.Decimal      `json:"tax_percent"`
	Totals          TotalsResponse       `json:"totals"`
	PaymentTerms    PaymentTermsResponse `json:"payment_terms"`
	Delivery        DeliveryResponse     `json:"delivery"`
	Notes           string               `json:"notes,omitempty"`
	ConfirmedAt     *time.Time           `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time           `json:"cancelled_at,omitempty"`
	CancelReason    string               `json:"cancel_reason,omitempty"`
	Version         int                  `json:"version"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// SalesNoteListItemResponse is the summary row of a sales note listing
type SalesNoteListItemResponse struct {
	ID              uuid.UUID  `json:"id"`
	Folio           string     `json:"folio"`
	Status          string     `json:"status"`
	InvoicingStatus string     `json:"invoicing_status"`
	ClientName      string     `json:"client_name"`
	QuoteID         *uuid.UUID `json:"quote_id,omitempty"`
	Total           int64      `json:"total"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToSalesNoteResponse converts a sales note to its response
func ToSalesNoteResponse(n *sales.SalesNote) SalesNoteResponse {
	return SalesNoteResponse{
		ID:              n.ID,
		TenantID:        n.TenantID,
		Folio:           n.Folio,
		Status:          n.Status.String(),
		InvoicingStatus: n.InvoicingStatus().String(),
		QuoteID:         n.QuoteID,
		Client:          toClientResponse(n.Client),
		Items:           toLineItemResponses(n.Items, true),
		GlobalDiscount:  n.GlobalDiscount,
		TaxPercent:      n.TaxPercent,
		Totals:          toTotalsResponse(n.Totals),
		PaymentTerms:    PaymentTermsResponse(n.PaymentTerms),
		Delivery:        DeliveryResponse(n.Delivery),
		Notes:           n.Notes,
		ConfirmedAt:     n.ConfirmedAt,
		CancelledAt:     n.CancelledAt,
		CancelReason:    n.CancelReason,
		Version:         n.Version,
		CreatedAt:       n.CreatedAt,
		UpdatedAt:       n.UpdatedAt,
	}
}

// ToSalesNoteListItemResponse converts a sales note to its listing row
func ToSalesNoteListItemResponse(n *sales.SalesNote) SalesNoteListItemResponse {
	return SalesNoteListItemResponse{
		ID:              n.ID,
		Folio:           n.Folio,
		Status:          n.Status.String(),
		InvoicingStatus: n.InvoicingStatus().String(),
		ClientName:      n.Client.Name,
		QuoteID:         n.QuoteID,
		Total:           n.Totals.Total,
		ConfirmedAt:     n.ConfirmedAt,
		Version:         n.Version,
		CreatedAt:       n.CreatedAt,
	}
}

// ==================== Projection, totals and sequence DTOs ====================

// ProjectionResponse is the read model handed to rendering
type ProjectionResponse struct {
	Kind            string                `json:"kind"`
	ID              uuid.UUID             `json:"id"`
	Folio           string                `json:"folio"`
	Status          string                `json:"status"`
	InvoicingStatus string                `json:"invoicing_status,omitempty"`
	IssuedAt        time.Time             `json:"issued_at"`
	ValidUntil      *time.Time            `json:"valid_until,omitempty"`
	Client          ClientResponse        `json:"client"`
	Items           []LineItemResponse    `json:"items"`
	Totals          TotalsResponse        `json:"totals"`
	PaymentTerms    *PaymentTermsResponse `json:"payment_terms,omitempty"`
	Delivery        *DeliveryResponse     `json:"delivery,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	Version         int                   `json:"version"`
}

// ToProjectionResponse converts a projection to its response
func ToProjectionResponse(p sales.DocumentProjection) ProjectionResponse {
	resp := ProjectionResponse{
		Kind:            p.Kind,
		ID:              p.ID,
		Folio:           p.Folio,
		Status:          p.Status,
		InvoicingStatus: p.InvoicingStatus,
		IssuedAt:        p.IssuedAt,
		ValidUntil:      p.ValidUntil,
		Client:          toClientResponse(p.Client),
		Items:           toLineItemResponses(p.Items, p.Kind == sales.DocumentKindSalesNote),
		Totals:          toTotalsResponse(p.Totals),
		Notes:           p.Notes,
		Version:         p.Version,
	}
	if p.PaymentTerms != nil {
		terms := PaymentTermsResponse(*p.PaymentTerms)
		resp.PaymentTerms = &terms
	}
	if p.Delivery != nil {
		delivery := DeliveryResponse(*p.Delivery)
		resp.Delivery = &delivery
	}
	return resp
}

// TotalsPreviewRequest computes totals without storing anything
type TotalsPreviewRequest struct {
	Items          []LineItemInput  `json:"items" binding:"dive"`
	GlobalDiscount int64            `json:"global_discount" binding:"min=0"`
	TaxPercent     *decimal.Decimal `json:"tax_percent"`
}

// LineTotalsResponse holds the derived amounts of one previewed line
type LineTotalsResponse struct {
	Position int   `json:"position"`
	Gross    int64 `json:"gross"`
	Discount int64 `json:"discount"`
	Net      int64 `json:"net"`
}

// TotalsPreviewResponse holds previewed line and document totals
type TotalsPreviewResponse struct {
	Lines  []LineTotalsResponse `json:"lines"`
	Totals TotalsResponse       `json:"totals"`
}

// SequenceResponse shows the last issued number of a folio sequence
type SequenceResponse struct {
	DocumentType string `json:"document_type"`
	Prefix       string `json:"prefix"`
	LastNumber   int64  `json:"last_number"`
	LastFolio    string `json:"last_folio,omitempty"`
}

// PaymentStatusResponse is the payments view of a sales note
type PaymentStatusResponse struct {
	SalesNoteID uuid.UUID `json:"sales_note_id"`
	Linked      bool      `json:"linked"`
	Status      string    `json:"status,omitempty"`
	Outstanding int64     `json:"outstanding"`
	TotalAmount int64     `json:"total_amount"`
}
