package sales

import (
	"github.com/shopspring/decimal"
)

// TotalsInput is everything the totals calculation depends on
type TotalsInput struct {
	Items          []ItemInput
	GlobalDiscount int64
	TaxPercent     decimal.Decimal
}

// LineTotals holds the derived amounts of one line
type LineTotals struct {
	Gross    int64
	Discount int64
	Net      int64
}

// Totals are the document-level aggregates. All amounts are integer base
// currency units.
type Totals struct {
	Subtotal          int64
	LineDiscountTotal int64
	// GlobalDiscount is the amount actually applied, which is lower than the
	// requested discount when it would have driven the net below zero.
	GlobalDiscount   int64
	CombinedDiscount int64
	NetAfterDiscount int64
	TaxPercent       decimal.Decimal
	TaxAmount        int64
	Total            int64
	DiscountClamped  bool
}

// CalculateLine computes the derived amounts of a single line.
// Gross and discount are each rounded once, half away from zero, from the
// exact quantity times price.
func CalculateLine(in ItemInput) (LineTotals, error) {
	if err := in.Validate(); err != nil {
		return LineTotals{}, err
	}
	exact := in.Quantity.Mul(decimal.NewFromInt(in.UnitPrice))
	gross := roundUnits(exact)
	discount := roundUnits(exact.Mul(in.DiscountPercent).Div(hundred))
	return LineTotals{
		Gross:    gross,
		Discount: discount,
		Net:      gross - discount,
	}, nil
}

// Calculate computes document totals from items and document-level pricing.
// It is pure: the same input always yields the same totals.
func Calculate(in TotalsInput) (Totals, error) {
	if err := ValidateGlobalDiscount(in.GlobalDiscount); err != nil {
		return Totals{}, err
	}
	if err := ValidateTaxPercent(in.TaxPercent); err != nil {
		return Totals{}, err
	}

	var t Totals
	for _, item := range in.Items {
		line, err := CalculateLine(item)
		if err != nil {
			return Totals{}, err
		}
		t.Subtotal += line.Gross
		t.LineDiscountTotal += line.Discount
	}

	t.GlobalDiscount = in.GlobalDiscount
	net := t.Subtotal - t.LineDiscountTotal - t.GlobalDiscount
	if net < 0 {
		t.GlobalDiscount = t.Subtotal - t.LineDiscountTotal
		t.DiscountClamped = true
		net = 0
	}
	t.CombinedDiscount = t.LineDiscountTotal + t.GlobalDiscount
	t.NetAfterDiscount = net
	t.TaxPercent = in.TaxPercent
	t.TaxAmount = percentOf(net, in.TaxPercent)
	t.Total = net + t.TaxAmount
	return t, nil
}
