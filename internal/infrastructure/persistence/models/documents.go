package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// ClientColumns stores the client snapshot inline on the document row
type ClientColumns struct {
	ClientID string `gorm:"type:varchar(100)"`
	Name     string `gorm:"type:varchar(200);not null"`
	TaxID    string `gorm:"type:varchar(50)"`
	Email    string `gorm:"type:varchar(200)"`
	Phone    string `gorm:"type:varchar(50)"`
	Address  string `gorm:"type:varchar(500)"`
}

func (c ClientColumns) ToDomain() sales.ClientSnapshot {
	return sales.ClientSnapshot{
		ClientID: c.ClientID,
		Name:     c.Name,
		TaxID:    c.TaxID,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
	}
}

func clientColumnsFromDomain(c sales.ClientSnapshot) ClientColumns {
	return ClientColumns{
		ClientID: c.ClientID,
		Name:     c.Name,
		TaxID:    c.TaxID,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
	}
}

// TotalsColumns stores the computed totals. RequestedDiscount is the
// discount the user asked for; AppliedDiscount is what survived clamping.
type TotalsColumns struct {
	RequestedDiscount int64           `gorm:"column:global_discount;not null;default:0"`
	Subtotal          int64           `gorm:"not null;default:0"`
	LineDiscountTotal int64           `gorm:"not null;default:0"`
	AppliedDiscount   int64           `gorm:"column:applied_global_discount;not null;default:0"`
	CombinedDiscount  int64           `gorm:"not null;default:0"`
	NetAfterDiscount  int64           `gorm:"not null;default:0"`
	TaxPercent        decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	TaxAmount         int64           `gorm:"not null;default:0"`
	Total             int64           `gorm:"not null;default:0"`
	DiscountClamped   bool            `gorm:"not null;default:false"`
}

func (t TotalsColumns) ToDomain() sales.Totals {
	return sales.Totals{
		Subtotal:          t.Subtotal,
		LineDiscountTotal: t.LineDiscountTotal,
		GlobalDiscount:    t.AppliedDiscount,
		CombinedDiscount:  t.CombinedDiscount,
		NetAfterDiscount:  t.NetAfterDiscount,
		TaxPercent:        t.TaxPercent,
		TaxAmount:         t.TaxAmount,
		Total:             t.Total,
		DiscountClamped:   t.DiscountClamped,
	}
}

func totalsColumnsFromDomain(requested int64, taxPercent decimal.Decimal, t sales.Totals) TotalsColumns {
	return TotalsColumns{
		RequestedDiscount: requested,
		Subtotal:          t.Subtotal,
		LineDiscountTotal: t.LineDiscountTotal,
		AppliedDiscount:   t.GlobalDiscount,
		CombinedDiscount:  t.CombinedDiscount,
		NetAfterDiscount:  t.NetAfterDiscount,
		TaxPercent:        taxPercent,
		TaxAmount:         t.TaxAmount,
		Total:             t.Total,
		DiscountClamped:   t.DiscountClamped,
	}
}

// LineItemColumns are the columns shared by quote and sales-note items
type LineItemColumns struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	Position        int             `gorm:"not null"`
	Description     string          `gorm:"type:varchar(500);not null"`
	Unit            string          `gorm:"type:varchar(20)"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       int64           `gorm:"not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	GrossAmount     int64           `gorm:"not null"`
	DiscountAmount  int64           `gorm:"not null"`
	NetAmount       int64           `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

func (c LineItemColumns) toDomain() sales.LineItem {
	return sales.LineItem{
		ID:               c.ID,
		Position:         c.Position,
		Description:      c.Description,
		Unit:             c.Unit,
		Quantity:         c.Quantity,
		UnitPrice:        c.UnitPrice,
		DiscountPercent:  c.DiscountPercent,
		GrossAmount:      c.GrossAmount,
		DiscountAmount:   c.DiscountAmount,
		NetAmount:        c.NetAmount,
		InvoicedQuantity: decimal.Zero,
	}
}

func lineItemColumnsFromDomain(i sales.LineItem, at time.Time) LineItemColumns {
	return LineItemColumns{
		ID:              i.ID,
		Position:        i.Position,
		Description:     i.Description,
		Unit:            i.Unit,
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		DiscountPercent: i.DiscountPercent,
		GrossAmount:     i.GrossAmount,
		DiscountAmount:  i.DiscountAmount,
		NetAmount:       i.NetAmount,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
}
