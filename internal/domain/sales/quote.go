package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the stored or derived status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	// QuoteStatusExpired is never stored. It is derived from the emission date
	// and validity period of an open quote.
	QuoteStatusExpired QuoteStatus = "expired"
)

// legacyAcceptedAlias is the historical name some clients still send for
// the accepted status.
const legacyAcceptedAlias = "approved"

// ParseQuoteStatus converts external input to a QuoteStatus.
// The legacy "approved" value is read as accepted.
func ParseQuoteStatus(s string) (QuoteStatus, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == legacyAcceptedAlias {
		return QuoteStatusAccepted, nil
	}
	status := QuoteStatus(v)
	if !status.IsValid() {
		return "", shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("Unknown quote status %q", s))
	}
	return status, nil
}

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}

func (s QuoteStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s QuoteStatus) IsTerminal() bool {
	return s == QuoteStatusAccepted || s == QuoteStatusRejected
}

// CanTransitionTo checks if the stored status can transition to the target status
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusSent
	case QuoteStatusSent:
		return target == QuoteStatusSent || target == QuoteStatusAccepted || target == QuoteStatusRejected
	}
	return false
}

// Quote is a priced commercial offer with a validity period
type Quote struct {
	shared.TenantAggregateRoot
	Folio          string
	Status         QuoteStatus
	EmissionDate   time.Time
	ValidityDays   int
	Client         ClientSnapshot
	Items          []LineItem
	GlobalDiscount int64 // requested; Totals.GlobalDiscount holds the applied amount
	TaxPercent     decimal.Decimal
	Totals         Totals
	Notes          string
	SalesNoteID    *uuid.UUID
	SentAt         *time.Time
	AcceptedAt     *time.Time
	RejectedAt     *time.Time
	RejectReason   string
}

// NewQuote creates a draft quote. The folio must already be allocated.
func NewQuote(tenantID uuid.UUID, folio string, client ClientSnapshot, validityDays int, taxPercent decimal.Decimal, now time.Time) (*Quote, error) {
	if strings.TrimSpace(folio) == "" {
		return nil, shared.NewValidationError("INVALID_FOLIO", "Quote folio cannot be empty")
	}
	client = client.Normalize()
	if err := client.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateValidityDays(validityDays); err != nil {
		return nil, err
	}
	if err := ValidateTaxPercent(taxPercent); err != nil {
		return nil, err
	}

	q := &Quote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, now),
		Folio:               folio,
		Status:              QuoteStatusDraft,
		EmissionDate:        now,
		ValidityDays:        validityDays,
		Client:              client,
		Items:               make([]LineItem, 0),
		TaxPercent:          taxPercent,
	}
	if err := q.recalculate(); err != nil {
		return nil, err
	}
	q.AddDomainEvent(NewQuoteCreatedEvent(q, now))
	return q, nil
}

// ValidateValidityDays checks a quote's validity window
func ValidateValidityDays(days int) error {
	if days <= 0 {
		return shared.NewValidationError("INVALID_VALIDITY", "Validity days must be positive")
	}
	return nil
}

// ValidUntil is the last instant the offer can be accepted
func (q *Quote) ValidUntil() time.Time {
	return q.EmissionDate.AddDate(0, 0, q.ValidityDays)
}

// IsExpired reports whether an open quote has run past its validity period
func (q *Quote) IsExpired(now time.Time) bool {
	if q.Status.IsTerminal() {
		return false
	}
	return now.After(q.ValidUntil())
}

// EffectiveStatus is the status as seen by callers, including derived expiry
func (q *Quote) EffectiveStatus(now time.Time) QuoteStatus {
	if q.IsExpired(now) {
		return QuoteStatusExpired
	}
	return q.Status
}

func (q *Quote) ensureOpen(now time.Time) error {
	if q.Status.IsTerminal() {
		return shared.NewInvalidTransitionError(q.Status.String(),
			fmt.Sprintf("Quote %s is %s and can no longer be modified", q.Folio, q.Status))
	}
	if q.IsExpired(now) {
		return shared.NewInvalidTransitionError(QuoteStatusExpired.String(),
			fmt.Sprintf("Quote %s expired on %s", q.Folio, q.ValidUntil().Format(time.DateOnly)))
	}
	return nil
}

// AddItem appends a line item
func (q *Quote) AddItem(in ItemInput, now time.Time) (*LineItem, error) {
	if err := q.ensureOpen(now); err != nil {
		return nil, err
	}
	item, err := newLineItem(in, len(q.Items)+1)
	if err != nil {
		return nil, err
	}
	q.Items = append(q.Items, item)
	if err := q.changed(now); err != nil {
		return nil, err
	}
	return &q.Items[len(q.Items)-1], nil
}

// UpdateItem replaces the caller-controlled fields of an item
func (q *Quote) UpdateItem(itemID uuid.UUID, in ItemInput, now time.Time) error {
	if err := q.ensureOpen(now); err != nil {
		return err
	}
	idx := findItem(q.Items, itemID)
	if idx < 0 {
		return shared.NewNotFoundError("ITEM_NOT_FOUND", "Item not found in quote")
	}
	if err := q.Items[idx].apply(in); err != nil {
		return err
	}
	return q.changed(now)
}

// RemoveItem deletes an item and renumbers the remaining lines
func (q *Quote) RemoveItem(itemID uuid.UUID, now time.Time) error {
	if err := q.ensureOpen(now); err != nil {
		return err
	}
	idx := findItem(q.Items, itemID)
	if idx < 0 {
		return shared.NewNotFoundError("ITEM_NOT_FOUND", "Item not found in quote")
	}
	q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
	renumber(q.Items)
	return q.changed(now)
}

// ApplyGlobalDiscount sets the document-level discount amount
func (q *Quote) ApplyGlobalDiscount(amount int64, now time.Time) error {
	if err := q.ensureOpen(now); err != nil {
		return err
	}
	if err := ValidateGlobalDiscount(amount); err != nil {
		return err
	}
	q.GlobalDiscount = amount
	return q.changed(now)
}

// SetTaxPercent sets the tax rate applied to the net amount
func (q *Quote) SetTaxPercent(pct decimal.Decimal, now time.Time) error {
	if err := q.ensureOpen(now); err != nil {
		return err
	}
	if err := ValidateTaxPercent(pct); err != nil {
		return err
	}
	q.TaxPercent = pct
	return q.changed(now)
}

// SetNotes replaces the free-text notes
func (q *Quote) SetNotes(notes string, now time.Time) error {
	if err := q.ensureOpen(now); err != nil {
		return err
	}
	q.Notes = strings.TrimSpace(notes)
	q.Touch(now)
	return nil
}

// ExtendValidity lengthens the offer period. Unlike other edits it is
// allowed on an expired quote, which revives it.
func (q *Quote) ExtendValidity(days int, now time.Time) error {
	if q.Status.IsTerminal() {
		return shared.NewInvalidTransitionError(q.Status.String(), "Cannot extend validity of a closed quote")
	}
	if days <= 0 {
		return shared.NewValidationError("INVALID_VALIDITY", "Extension days must be positive")
	}
	q.ValidityDays += days
	q.Touch(now)
	return nil
}

// Send marks the quote as delivered to the client. Sending again while sent is allowed.
func (q *Quote) Send(now time.Time) error {
	if err := q.ensureOpen(now); err != nil {
		return err
	}
	if !q.Status.CanTransitionTo(QuoteStatusSent) {
		return shared.NewInvalidTransitionError(q.Status.String(), fmt.Sprintf("Cannot send quote in %s status", q.Status))
	}
	if len(q.Items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Cannot send a quote without items")
	}
	from := q.Status
	q.Status = QuoteStatusSent
	q.SentAt = &now
	q.Touch(now)
	q.AddDomainEvent(NewQuoteSentEvent(q, from, now))
	return nil
}

// Accept records the client's acceptance
func (q *Quote) Accept(now time.Time) error {
	if err := q.ensureOpen(now); err != nil {
		return err
	}
	if !q.Status.CanTransitionTo(QuoteStatusAccepted) {
		return shared.NewInvalidTransitionError(q.Status.String(), fmt.Sprintf("Cannot accept quote in %s status", q.Status))
	}
	from := q.Status
	q.Status = QuoteStatusAccepted
	q.AcceptedAt = &now
	q.Touch(now)
	q.AddDomainEvent(NewQuoteStatusChangedEvent(EventTypeQuoteAccepted, q, from, "", now))
	return nil
}

// Reject records the client's rejection
func (q *Quote) Reject(reason string, now time.Time) error {
	if err := q.ensureOpen(now); err != nil {
		return err
	}
	if !q.Status.CanTransitionTo(QuoteStatusRejected) {
		return shared.NewInvalidTransitionError(q.Status.String(), fmt.Sprintf("Cannot reject quote in %s status", q.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Reject reason is required")
	}
	from := q.Status
	q.Status = QuoteStatusRejected
	q.RejectedAt = &now
	q.RejectReason = reason
	q.Touch(now)
	q.AddDomainEvent(NewQuoteStatusChangedEvent(EventTypeQuoteRejected, q, from, reason, now))
	return nil
}

// MarkConverted links the quote to the sales note created from it.
// A quote converts at most once.
func (q *Quote) MarkConverted(salesNoteID uuid.UUID, salesNoteFolio string, now time.Time) error {
	if q.SalesNoteID != nil {
		return shared.NewConflictError("ALREADY_CONVERTED",
			fmt.Sprintf("Quote %s was already converted to a sales note", q.Folio))
	}
	if q.Status != QuoteStatusAccepted {
		return shared.NewInvalidTransitionError(q.EffectiveStatus(now).String(), "Only accepted quotes can be converted")
	}
	q.SalesNoteID = &salesNoteID
	q.Touch(now)
	q.AddDomainEvent(NewQuoteConvertedEvent(q, salesNoteID, salesNoteFolio, now))
	return nil
}

// Delete checks the quote may be removed and records the deletion
func (q *Quote) Delete(now time.Time) error {
	if q.Status.IsTerminal() {
		return shared.NewInvalidTransitionError(q.Status.String(), fmt.Sprintf("Cannot delete quote in %s status", q.Status))
	}
	q.AddDomainEvent(NewQuoteStatusChangedEvent(EventTypeQuoteDeleted, q, q.Status, "", now))
	return nil
}

// GetItem returns the item with the given id, or nil
func (q *Quote) GetItem(itemID uuid.UUID) *LineItem {
	if idx := findItem(q.Items, itemID); idx >= 0 {
		return &q.Items[idx]
	}
	return nil
}

func (q *Quote) changed(now time.Time) error {
	if err := q.recalculate(); err != nil {
		return err
	}
	q.Touch(now)
	return nil
}

func (q *Quote) recalculate() error {
	totals, err := Calculate(TotalsInput{
		Items:          itemInputs(q.Items),
		GlobalDiscount: q.GlobalDiscount,
		TaxPercent:     q.TaxPercent,
	})
	if err != nil {
		return err
	}
	q.Totals = totals
	return nil
}

// Recalculate recomputes derived amounts from the current items
func (q *Quote) Recalculate() error {
	for idx := range q.Items {
		if err := q.Items[idx].apply(q.Items[idx].Input()); err != nil {
			return err
		}
	}
	return q.recalculate()
}
