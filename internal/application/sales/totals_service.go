package sales

import (
	"github.com/quotedesk/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// TotalsService previews document totals without storing anything
type TotalsService struct {
	defaultTaxPercent decimal.Decimal
}

// NewTotalsService creates a new TotalsService
func NewTotalsService(defaultTaxPercent decimal.Decimal) *TotalsService {
	return &TotalsService{defaultTaxPercent: defaultTaxPercent}
}

// Preview computes line and document totals with the same rules used when
// documents are written
func (s *TotalsService) Preview(req TotalsPreviewRequest) (*TotalsPreviewResponse, error) {
	in := sales.TotalsInput{
		Items:          make([]sales.ItemInput, len(req.Items)),
		GlobalDiscount: req.GlobalDiscount,
		TaxPercent:     s.defaultTaxPercent,
	}
	if req.TaxPercent != nil {
		in.TaxPercent = *req.TaxPercent
	}

	lines := make([]LineTotalsResponse, len(req.Items))
	for i, item := range req.Items {
		in.Items[i] = item.toDomain()
		line, err := sales.CalculateLine(in.Items[i])
		if err != nil {
			return nil, err
		}
		lines[i] = LineTotalsResponse{Position: i + 1, Gross: line.Gross, Discount: line.Discount, Net: line.Net}
	}

	totals, err := sales.Calculate(in)
	if err != nil {
		return nil, err
	}
	return &TotalsPreviewResponse{Lines: lines, Totals: toTotalsResponse(totals)}, nil
}
