// Package sequence issues human-facing document numbers (folios).
package sequence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/shared"
)

// DocumentType names a numbered document family
type DocumentType string

const (
	DocumentTypeQuote     DocumentType = "quote"
	DocumentTypeSalesNote DocumentType = "sales_note"
)

// ParseDocumentType converts external input to a DocumentType
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", shared.NewValidationError("INVALID_DOCUMENT_TYPE", fmt.Sprintf("Unknown document type %q", s))
	}
	return t, nil
}

// IsValid checks if the type is a known DocumentType
func (t DocumentType) IsValid() bool {
	return t == DocumentTypeQuote || t == DocumentTypeSalesNote
}

func (t DocumentType) String() string {
	return string(t)
}

// Store persists the last issued number per (tenant, type, prefix).
// Increment must be a single atomic step: two callers never receive the same number.
type Store interface {
	Increment(ctx context.Context, tenantID uuid.UUID, docType DocumentType, prefix string) (int64, error)
	Current(ctx context.Context, tenantID uuid.UUID, docType DocumentType, prefix string) (int64, error)
}

// Format controls how a number is rendered as a folio
type Format struct {
	Prefix    string
	Width     int
	Separator string
}

// Render formats n with the given prefix, zero-padded to the format width.
// A prefix already ending in the separator is not separated twice.
func (f Format) Render(prefix string, n int64) string {
	if prefix == "" {
		return fmt.Sprintf("%0*d", f.Width, n)
	}
	sep := f.Separator
	if sep != "" && strings.HasSuffix(prefix, sep) {
		sep = ""
	}
	return fmt.Sprintf("%s%s%0*d", prefix, sep, f.Width, n)
}

// Policy maps each document type to its folio format
type Policy map[DocumentType]Format

// DefaultPolicy is used when configuration does not override a type
func DefaultPolicy() Policy {
	return Policy{
		DocumentTypeQuote:     {Prefix: "QT", Width: 6, Separator: "-"},
		DocumentTypeSalesNote: {Prefix: "NV", Width: 6, Separator: "-"},
	}
}

// FormatFor returns the format of docType, falling back to the defaults
func (p Policy) FormatFor(docType DocumentType) Format {
	if f, ok := p[docType]; ok {
		return f
	}
	return DefaultPolicy()[docType]
}

// Folio is an allocated document number
type Folio struct {
	DocumentType DocumentType
	Prefix       string
	Number       int64
	Value        string
}

func (f Folio) String() string {
	return f.Value
}

// AllocatedEvent is raised for every number handed out. A number whose
// document is never written stays consumed, which the audit trail shows.
type AllocatedEvent struct {
	shared.BaseDomainEvent
	DocumentType DocumentType `json:"document_type"`
	Prefix       string       `json:"prefix"`
	Number       int64        `json:"number"`
	Folio        string       `json:"folio"`
}

const (
	AggregateTypeSequence   = "DocumentSequence"
	EventTypeFolioAllocated = "FolioAllocated"
)

// Allocator issues folios from a Store according to a Policy
type Allocator struct {
	store  Store
	policy Policy
	clock  func() time.Time
}

// NewAllocator creates an allocator. The store decides the transaction the
// increment joins.
func NewAllocator(store Store, policy Policy, clock func() time.Time) *Allocator {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Allocator{store: store, policy: policy, clock: clock}
}

// Allocate issues the next folio for docType. An empty prefix selects the
// configured prefix of the type.
func (a *Allocator) Allocate(ctx context.Context, tenantID uuid.UUID, docType DocumentType, prefix string) (Folio, *AllocatedEvent, error) {
	if !docType.IsValid() {
		return Folio{}, nil, shared.NewValidationError("INVALID_DOCUMENT_TYPE", fmt.Sprintf("Unknown document type %q", docType))
	}
	format := a.policy.FormatFor(docType)
	prefix, err := resolvePrefix(format, prefix)
	if err != nil {
		return Folio{}, nil, err
	}

	n, err := a.store.Increment(ctx, tenantID, docType, prefix)
	if err != nil {
		return Folio{}, nil, err
	}
	folio := Folio{
		DocumentType: docType,
		Prefix:       prefix,
		Number:       n,
		Value:        format.Render(prefix, n),
	}
	event := &AllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFolioAllocated, AggregateTypeSequence, uuid.Nil, tenantID, a.clock()),
		DocumentType:    docType,
		Prefix:          prefix,
		Number:          n,
		Folio:           folio.Value,
	}
	return folio, event, nil
}

// Peek returns the last issued number without consuming one
func (a *Allocator) Peek(ctx context.Context, tenantID uuid.UUID, docType DocumentType, prefix string) (Folio, error) {
	if !docType.IsValid() {
		return Folio{}, shared.NewValidationError("INVALID_DOCUMENT_TYPE", fmt.Sprintf("Unknown document type %q", docType))
	}
	format := a.policy.FormatFor(docType)
	prefix, err := resolvePrefix(format, prefix)
	if err != nil {
		return Folio{}, err
	}
	n, err := a.store.Current(ctx, tenantID, docType, prefix)
	if err != nil {
		return Folio{}, err
	}
	folio := Folio{DocumentType: docType, Prefix: prefix, Number: n}
	if n > 0 {
		folio.Value = format.Render(prefix, n)
	}
	return folio, nil
}

// resolvePrefix keeps the caller's prefix as given: it is part of the
// sequence key, so case and punctuation are significant.
func resolvePrefix(format Format, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = format.Prefix
	}
	if len(prefix) > 20 {
		return "", shared.NewValidationError("INVALID_PREFIX", "Folio prefix cannot exceed 20 characters")
	}
	for _, r := range prefix {
		if !isFolioRune(r) {
			return "", shared.NewValidationError("INVALID_PREFIX",
				fmt.Sprintf("Folio prefix %q may only contain letters, digits and the characters - _ . / #", prefix))
		}
	}
	return prefix, nil
}

func isFolioRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_./#", r)
}
