package sales

import (
	"testing"

	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(qty string, price int64, discPct string) ItemInput {
	return ItemInput{
		Description:     "item",
		Unit:            "pcs",
		Quantity:        decimal.RequireFromString(qty),
		UnitPrice:       price,
		DiscountPercent: decimal.RequireFromString(discPct),
	}
}

func TestCalculate_MixedDiscountsWithTax(t *testing.T) {
	totals, err := Calculate(TotalsInput{
		Items: []ItemInput{
			item("10", 1000, "10"),
			item("5", 2000, "0"),
		},
		GlobalDiscount: 500,
		TaxPercent:     decimal.NewFromInt(19),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20000), totals.Subtotal)
	assert.Equal(t, int64(1000), totals.LineDiscountTotal)
	assert.Equal(t, int64(500), totals.GlobalDiscount)
	assert.Equal(t, int64(1500), totals.CombinedDiscount)
	assert.Equal(t, int64(18500), totals.NetAfterDiscount)
	assert.Equal(t, int64(3515), totals.TaxAmount)
	assert.Equal(t, int64(22015), totals.Total)
	assert.False(t, totals.DiscountClamped)
	assert.True(t, totals.TaxPercent.Equal(decimal.NewFromInt(19)))
}

func TestCalculate_ClampsNegativeNet(t *testing.T) {
	totals, err := Calculate(TotalsInput{
		Items:          []ItemInput{item("1", 1000, "0")},
		GlobalDiscount: 1500,
		TaxPercent:     decimal.NewFromInt(19),
	})
	require.NoError(t, err)

	assert.True(t, totals.DiscountClamped)
	assert.Equal(t, int64(1000), totals.GlobalDiscount)
	assert.Equal(t, int64(1000), totals.CombinedDiscount)
	assert.Equal(t, int64(0), totals.NetAfterDiscount)
	assert.Equal(t, int64(0), totals.TaxAmount)
	assert.Equal(t, int64(0), totals.Total)
}

func TestCalculate_ClampAfterLineDiscounts(t *testing.T) {
	totals, err := Calculate(TotalsInput{
		Items:          []ItemInput{item("2", 1000, "50")},
		GlobalDiscount: 5000,
		TaxPercent:     decimal.Zero,
	})
	require.NoError(t, err)

	assert.True(t, totals.DiscountClamped)
	assert.Equal(t, int64(1000), totals.LineDiscountTotal)
	assert.Equal(t, int64(1000), totals.GlobalDiscount)
	assert.Equal(t, int64(2000), totals.CombinedDiscount)
	assert.Equal(t, int64(0), totals.NetAfterDiscount)
}

func TestCalculate_NoItems(t *testing.T) {
	totals, err := Calculate(TotalsInput{TaxPercent: decimal.NewFromInt(19)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), totals.Total)
	assert.Equal(t, int64(0), totals.Subtotal)
	assert.False(t, totals.DiscountClamped)
}

func TestCalculateLine_RoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name         string
		in           ItemInput
		wantGross    int64
		wantDiscount int64
	}{
		{"half unit discount rounds up", item("1", 5, "10"), 5, 1},
		{"one and a half rounds to two", item("1", 15, "10"), 15, 2},
		{"below half rounds down", item("1", 14, "10"), 14, 1},
		{"fractional quantity", item("2.5", 333, "0"), 833, 0},
		// 0.5 x 1 at 50% is 0.25, not 50% of the rounded gross
		{"discount from unrounded gross", item("0.5", 1, "50"), 1, 0},
		{"full discount", item("3", 700, "100"), 2100, 2100},
		{"free item", item("4", 0, "25"), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := CalculateLine(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantGross, line.Gross)
			assert.Equal(t, tt.wantDiscount, line.Discount)
			assert.Equal(t, tt.wantGross-tt.wantDiscount, line.Net)
		})
	}
}

func TestCalculate_TaxRounding(t *testing.T) {
	// net 4 at 12.5% is 0.5, which rounds away from zero
	totals, err := Calculate(TotalsInput{
		Items:      []ItemInput{item("1", 4, "0")},
		TaxPercent: decimal.RequireFromString("12.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), totals.TaxAmount)
	assert.Equal(t, int64(5), totals.Total)
}

func TestCalculate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		in   TotalsInput
		code string
	}{
		{"zero quantity", TotalsInput{Items: []ItemInput{item("0", 10, "0")}}, "INVALID_QUANTITY"},
		{"negative quantity", TotalsInput{Items: []ItemInput{item("-1", 10, "0")}}, "INVALID_QUANTITY"},
		{"negative price", TotalsInput{Items: []ItemInput{item("1", -10, "0")}}, "INVALID_PRICE"},
		{"discount above 100", TotalsInput{Items: []ItemInput{item("1", 10, "100.01")}}, "INVALID_DISCOUNT_PERCENT"},
		{"negative line discount", TotalsInput{Items: []ItemInput{item("1", 10, "-1")}}, "INVALID_DISCOUNT_PERCENT"},
		{"negative global discount", TotalsInput{GlobalDiscount: -1}, "INVALID_DISCOUNT"},
		{"tax above 100", TotalsInput{TaxPercent: decimal.NewFromInt(101)}, "INVALID_TAX_PERCENT"},
		{"empty description", TotalsInput{Items: []ItemInput{{Quantity: decimal.NewFromInt(1)}}}, "INVALID_DESCRIPTION"},
		{"quantity beyond four decimals", TotalsInput{Items: []ItemInput{item("1.00001", 10, "0")}}, "INVALID_QUANTITY"},
		{"line discount beyond four decimals", TotalsInput{Items: []ItemInput{item("1", 10, "12.34567")}}, "INVALID_DISCOUNT_PERCENT"},
		{"tax beyond four decimals", TotalsInput{TaxPercent: decimal.RequireFromString("16.00005")}, "INVALID_TAX_PERCENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.in)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestCalculate_AcceptsFourDecimalsAndTrailingZeros(t *testing.T) {
	_, err := Calculate(TotalsInput{
		Items:      []ItemInput{item("1.2345", 100, "12.5000"), item("2.500000", 10, "0")},
		TaxPercent: decimal.RequireFromString("16.00000"),
	})
	require.NoError(t, err)
}

func TestCalculate_Identities(t *testing.T) {
	inputs := []TotalsInput{
		{Items: []ItemInput{item("3", 999, "7.5"), item("1.25", 4321, "33")}, GlobalDiscount: 250, TaxPercent: decimal.RequireFromString("16")},
		{Items: []ItemInput{item("100", 1, "0.5")}, GlobalDiscount: 0, TaxPercent: decimal.RequireFromString("8.25")},
		{Items: []ItemInput{item("7", 12345, "12.34"), item("2", 50, "100")}, GlobalDiscount: 99999999, TaxPercent: decimal.NewFromInt(19)},
	}
	for _, in := range inputs {
		first, err := Calculate(in)
		require.NoError(t, err)

		var subtotal, lineDiscounts int64
		for _, it := range in.Items {
			line, err := CalculateLine(it)
			require.NoError(t, err)
			subtotal += line.Gross
			lineDiscounts += line.Discount
		}
		assert.Equal(t, subtotal, first.Subtotal)
		assert.Equal(t, lineDiscounts, first.LineDiscountTotal)
		assert.Equal(t, first.LineDiscountTotal+first.GlobalDiscount, first.CombinedDiscount)
		assert.Equal(t, first.Subtotal-first.CombinedDiscount, first.NetAfterDiscount)
		assert.Equal(t, first.NetAfterDiscount+first.TaxAmount, first.Total)
		assert.GreaterOrEqual(t, first.NetAfterDiscount, int64(0))

		second, err := Calculate(in)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}
