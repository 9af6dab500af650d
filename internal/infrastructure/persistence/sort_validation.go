package persistence

import (
	"strings"

	"github.com/quotedesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// QuoteSortFields contains allowed sort fields for quotes
var QuoteSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"folio":         true,
	"status":        true,
	"emission_date": true,
	"client_name":   true,
	"total":         true,
}

// SalesNoteSortFields contains allowed sort fields for sales notes
var SalesNoteSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"folio":            true,
	"status":           true,
	"invoicing_status": true,
	"client_name":      true,
	"total":            true,
	"confirmed_at":     true,
}

// applyDocumentFilter adds the search, status filter and pagination shared
// by the document listings. Search matches folio and client name.
func applyDocumentFilter(query *gorm.DB, filter shared.Filter, sortFields map[string]bool, paginate bool) *gorm.DB {
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(folio) LIKE ? OR LOWER(client_name) LIKE ?", like, like)
	}
	for _, key := range []string{"status", "invoicing_status", "quote_id"} {
		if v, ok := filter.Filters[key]; ok && v != nil && v != "" {
			query = query.Where(key+" = ?", v)
		}
	}
	if !paginate {
		return query
	}
	sortField := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
