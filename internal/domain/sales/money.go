package sales

import (
	"fmt"

	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// storedScale is the number of fractional digits kept for quantities and
// percentages, matching the NUMERIC(18,4) and NUMERIC(7,4) columns.
const storedScale = 4

// fitsScale reports whether d survives storage without losing digits.
// Trailing zeros beyond the stored scale are accepted.
func fitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(storedScale))
}

// roundUnits rounds to the base currency unit, half away from zero.
func roundUnits(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// percentOf returns pct% of amount in base units.
func percentOf(amount int64, pct decimal.Decimal) int64 {
	return roundUnits(decimal.NewFromInt(amount).Mul(pct).Div(hundred))
}

func validatePercent(code, field string, pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return shared.NewValidationError(code, fmt.Sprintf("%s must be between 0 and 100, got %s", field, pct.String()))
	}
	if !fitsScale(pct) {
		return shared.NewValidationError(code,
			fmt.Sprintf("%s allows at most %d decimal places, got %s", field, storedScale, pct.String()))
	}
	return nil
}

// ValidateTaxPercent checks a tax percentage is within [0, 100]
func ValidateTaxPercent(pct decimal.Decimal) error {
	return validatePercent("INVALID_TAX_PERCENT", "Tax percentage", pct)
}

// ValidateGlobalDiscount checks a document-level discount amount
func ValidateGlobalDiscount(amount int64) error {
	if amount < 0 {
		return shared.NewValidationError("INVALID_DISCOUNT", "Global discount cannot be negative")
	}
	return nil
}
