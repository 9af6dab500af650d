package sales

import (
	"strings"

	"github.com/quotedesk/backend/internal/domain/shared"
)

// ClientSnapshot is the client data captured when a document is created.
// Later changes to the client record do not alter issued documents.
type ClientSnapshot struct {
	ClientID string
	Name     string
	TaxID    string
	Email    string
	Phone    string
	Address  string
}

// Normalize trims surrounding whitespace from every field
func (c ClientSnapshot) Normalize() ClientSnapshot {
	return ClientSnapshot{
		ClientID: strings.TrimSpace(c.ClientID),
		Name:     strings.TrimSpace(c.Name),
		TaxID:    strings.TrimSpace(c.TaxID),
		Email:    strings.TrimSpace(c.Email),
		Phone:    strings.TrimSpace(c.Phone),
		Address:  strings.TrimSpace(c.Address),
	}
}

// Validate checks the snapshot carries enough to identify the client
func (c ClientSnapshot) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewValidationError("INVALID_CLIENT", "Client name cannot be empty")
	}
	if len(c.Name) > 200 {
		return shared.NewValidationError("INVALID_CLIENT", "Client name cannot exceed 200 characters")
	}
	return nil
}
