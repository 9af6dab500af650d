package sales

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemInput is the caller-supplied part of a line item. Derived amounts are
// never accepted from callers.
type ItemInput struct {
	Description     string
	Unit            string
	Quantity        decimal.Decimal
	UnitPrice       int64
	DiscountPercent decimal.Decimal
}

// Validate checks the line-level rules shared by quotes and sales notes
func (in ItemInput) Validate() error {
	if strings.TrimSpace(in.Description) == "" {
		return shared.NewValidationError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if !in.Quantity.IsPositive() {
		return shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !fitsScale(in.Quantity) {
		return shared.NewValidationError("INVALID_QUANTITY",
			fmt.Sprintf("Quantity allows at most %d decimal places, got %s", storedScale, in.Quantity.String()))
	}
	if in.UnitPrice < 0 {
		return shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return validatePercent("INVALID_DISCOUNT_PERCENT", "Item discount percentage", in.DiscountPercent)
}

// LineItem is a priced line on a quote or sales note
type LineItem struct {
	ID              uuid.UUID
	Position        int
	Description     string
	Unit            string
	Quantity        decimal.Decimal
	UnitPrice       int64
	DiscountPercent decimal.Decimal
	GrossAmount     int64 // quantity × unit price
	DiscountAmount  int64 // gross × discount%
	NetAmount       int64 // gross − discount
	// InvoicedQuantity is only meaningful on sales notes and is written by
	// invoicing reconciliation alone.
	InvoicedQuantity decimal.Decimal
}

func newLineItem(in ItemInput, position int) (LineItem, error) {
	item := LineItem{
		ID:               uuid.New(),
		Position:         position,
		InvoicedQuantity: decimal.Zero,
	}
	if err := item.apply(in); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

func (i *LineItem) apply(in ItemInput) error {
	line, err := CalculateLine(in)
	if err != nil {
		return err
	}
	i.Description = strings.TrimSpace(in.Description)
	i.Unit = strings.TrimSpace(in.Unit)
	i.Quantity = in.Quantity
	i.UnitPrice = in.UnitPrice
	i.DiscountPercent = in.DiscountPercent
	i.GrossAmount = line.Gross
	i.DiscountAmount = line.Discount
	i.NetAmount = line.Net
	return nil
}

// Input returns the caller-controlled fields of the item
func (i LineItem) Input() ItemInput {
	return ItemInput{
		Description:     i.Description,
		Unit:            i.Unit,
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		DiscountPercent: i.DiscountPercent,
	}
}

// RemainingQuantity is the quantity not yet invoiced
func (i LineItem) RemainingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.InvoicedQuantity)
}

func itemInputs(items []LineItem) []ItemInput {
	inputs := make([]ItemInput, len(items))
	for idx, item := range items {
		inputs[idx] = item.Input()
	}
	return inputs
}

func findItem(items []LineItem, id uuid.UUID) int {
	for idx := range items {
		if items[idx].ID == id {
			return idx
		}
	}
	return -1
}

func renumber(items []LineItem) {
	for idx := range items {
		items[idx].Position = idx + 1
	}
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for idx, item := range items {
		item.ID = uuid.New()
		item.InvoicedQuantity = decimal.Zero
		out[idx] = item
	}
	return out
}
