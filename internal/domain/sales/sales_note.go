package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalesNoteStatus represents the status of a sales note
type SalesNoteStatus string

const (
	SalesNoteStatusDraft     SalesNoteStatus = "draft"
	SalesNoteStatusConfirmed SalesNoteStatus = "confirmed"
	SalesNoteStatusCancelled SalesNoteStatus = "cancelled"
)

// ParseSalesNoteStatus converts external input to a SalesNoteStatus
func ParseSalesNoteStatus(s string) (SalesNoteStatus, error) {
	status := SalesNoteStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("Unknown sales note status %q", s))
	}
	return status, nil
}

// IsValid checks if the status is a valid SalesNoteStatus
func (s SalesNoteStatus) IsValid() bool {
	switch s {
	case SalesNoteStatusDraft, SalesNoteStatusConfirmed, SalesNoteStatusCancelled:
		return true
	}
	return false
}

func (s SalesNoteStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SalesNoteStatus) CanTransitionTo(target SalesNoteStatus) bool {
	switch s {
	case SalesNoteStatusDraft:
		return target == SalesNoteStatusConfirmed || target == SalesNoteStatusCancelled
	case SalesNoteStatusConfirmed:
		return target == SalesNoteStatusCancelled
	}
	return false
}

// InvoicingStatus is derived from the invoiced quantities of the note's items
type InvoicingStatus string

const (
	InvoicingStatusCreated           InvoicingStatus = "created"
	InvoicingStatusPartiallyInvoiced InvoicingStatus = "partially_invoiced"
	InvoicingStatusFullyInvoiced     InvoicingStatus = "fully_invoiced"
)

// ParseInvoicingStatus converts external input to an InvoicingStatus
func ParseInvoicingStatus(s string) (InvoicingStatus, error) {
	status := InvoicingStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case InvoicingStatusCreated, InvoicingStatusPartiallyInvoiced, InvoicingStatusFullyInvoiced:
		return status, nil
	}
	return "", shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("Unknown invoicing status %q", s))
}

func (s InvoicingStatus) String() string {
	return string(s)
}

// DeriveInvoicingStatus maps invoiced quantities to an invoicing status.
// A note with nothing invoiced, including one with no items, is "created".
func DeriveInvoicingStatus(items []LineItem) InvoicingStatus {
	ordered := decimal.Zero
	invoiced := decimal.Zero
	for _, item := range items {
		ordered = ordered.Add(item.Quantity)
		invoiced = invoiced.Add(item.InvoicedQuantity)
	}
	switch {
	case invoiced.IsZero():
		return InvoicingStatusCreated
	case invoiced.Equal(ordered):
		return InvoicingStatusFullyInvoiced
	default:
		return InvoicingStatusPartiallyInvoiced
	}
}

// PaymentTerms describe how and when the client pays
type PaymentTerms struct {
	Method  string
	DueDays int
	Notes   string
}

// Delivery holds shipping metadata carried by the note
type Delivery struct {
	Address      string
	ScheduledAt  *time.Time
	Instructions string
}

// SalesNote is a confirmed commitment to sell, invoiced in one or more parts
type SalesNote struct {
	shared.TenantAggregateRoot
	Folio          string
	Status         SalesNoteStatus
	QuoteID        *uuid.UUID
	Client         ClientSnapshot
	Items          []LineItem
	GlobalDiscount int64
	TaxPercent     decimal.Decimal
	Totals         Totals
	PaymentTerms   PaymentTerms
	Delivery       Delivery
	Notes          string
	ConfirmedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// NewSalesNote creates a draft sales note. folio may be empty when folios are
// allocated at confirmation.
func NewSalesNote(tenantID uuid.UUID, folio string, client ClientSnapshot, taxPercent decimal.Decimal, now time.Time) (*SalesNote, error) {
	client = client.Normalize()
	if err := client.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateTaxPercent(taxPercent); err != nil {
		return nil, err
	}

	n := &SalesNote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, now),
		Folio:               strings.TrimSpace(folio),
		Status:              SalesNoteStatusDraft,
		Client:              client,
		Items:               make([]LineItem, 0),
		TaxPercent:          taxPercent,
	}
	if err := n.recalculate(); err != nil {
		return nil, err
	}
	n.AddDomainEvent(NewSalesNoteCreatedEvent(n, now))
	return n, nil
}

// NewSalesNoteFromQuote creates an independent draft note carrying the quote's
// client snapshot, items and pricing. The quote is not modified.
func NewSalesNoteFromQuote(q *Quote, folio string, now time.Time) (*SalesNote, error) {
	if q.Status != QuoteStatusAccepted {
		return nil, shared.NewInvalidTransitionError(q.EffectiveStatus(now).String(), "Only accepted quotes can be converted")
	}
	n := &SalesNote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(q.TenantID, now),
		Folio:               strings.TrimSpace(folio),
		Status:              SalesNoteStatusDraft,
		Client:              q.Client,
		Items:               cloneItems(q.Items),
		GlobalDiscount:      q.GlobalDiscount,
		TaxPercent:          q.TaxPercent,
		Notes:               q.Notes,
	}
	quoteID := q.ID
	n.QuoteID = &quoteID
	if err := n.recalculate(); err != nil {
		return nil, err
	}
	n.AddDomainEvent(NewSalesNoteCreatedEvent(n, now))
	return n, nil
}

// InvoicingStatus derives the invoicing status from the items
func (n *SalesNote) InvoicingStatus() InvoicingStatus {
	return DeriveInvoicingStatus(n.Items)
}

func (n *SalesNote) ensureDraft(action string) error {
	if n.Status != SalesNoteStatusDraft {
		return shared.NewInvalidTransitionError(n.Status.String(),
			fmt.Sprintf("Cannot %s a sales note in %s status", action, n.Status))
	}
	return nil
}

// AddItem appends a line item. Draft only.
func (n *SalesNote) AddItem(in ItemInput, now time.Time) (*LineItem, error) {
	if err := n.ensureDraft("add items to"); err != nil {
		return nil, err
	}
	item, err := newLineItem(in, len(n.Items)+1)
	if err != nil {
		return nil, err
	}
	n.Items = append(n.Items, item)
	if err := n.changed(now); err != nil {
		return nil, err
	}
	return &n.Items[len(n.Items)-1], nil
}

// UpdateItem replaces the caller-controlled fields of an item. Draft only.
func (n *SalesNote) UpdateItem(itemID uuid.UUID, in ItemInput, now time.Time) error {
	if err := n.ensureDraft("modify items of"); err != nil {
		return err
	}
	idx := findItem(n.Items, itemID)
	if idx < 0 {
		return shared.NewNotFoundError("ITEM_NOT_FOUND", "Item not found in sales note")
	}
	if err := n.Items[idx].apply(in); err != nil {
		return err
	}
	return n.changed(now)
}

// RemoveItem deletes an item. Draft only.
func (n *SalesNote) RemoveItem(itemID uuid.UUID, now time.Time) error {
	if err := n.ensureDraft("remove items from"); err != nil {
		return err
	}
	idx := findItem(n.Items, itemID)
	if idx < 0 {
		return shared.NewNotFoundError("ITEM_NOT_FOUND", "Item not found in sales note")
	}
	n.Items = append(n.Items[:idx], n.Items[idx+1:]...)
	renumber(n.Items)
	return n.changed(now)
}

// ApplyGlobalDiscount sets the document-level discount amount. Draft only.
func (n *SalesNote) ApplyGlobalDiscount(amount int64, now time.Time) error {
	if err := n.ensureDraft("change pricing of"); err != nil {
		return err
	}
	if err := ValidateGlobalDiscount(amount); err != nil {
		return err
	}
	n.GlobalDiscount = amount
	return n.changed(now)
}

// SetTaxPercent sets the tax rate. Draft only.
func (n *SalesNote) SetTaxPercent(pct decimal.Decimal, now time.Time) error {
	if err := n.ensureDraft("change pricing of"); err != nil {
		return err
	}
	if err := ValidateTaxPercent(pct); err != nil {
		return err
	}
	n.TaxPercent = pct
	return n.changed(now)
}

// SetPaymentTerms replaces the payment terms. Draft only.
func (n *SalesNote) SetPaymentTerms(terms PaymentTerms, now time.Time) error {
	if err := n.ensureDraft("change payment terms of"); err != nil {
		return err
	}
	if terms.DueDays < 0 {
		return shared.NewValidationError("INVALID_PAYMENT_TERMS", "Due days cannot be negative")
	}
	terms.Method = strings.TrimSpace(terms.Method)
	terms.Notes = strings.TrimSpace(terms.Notes)
	n.PaymentTerms = terms
	n.Touch(now)
	return nil
}

// SetDelivery replaces the delivery metadata. Draft only.
func (n *SalesNote) SetDelivery(delivery Delivery, now time.Time) error {
	if err := n.ensureDraft("change delivery of"); err != nil {
		return err
	}
	delivery.Address = strings.TrimSpace(delivery.Address)
	delivery.Instructions = strings.TrimSpace(delivery.Instructions)
	n.Delivery = delivery
	n.Touch(now)
	return nil
}

// SetNotes replaces the free-text notes. Draft only.
func (n *SalesNote) SetNotes(notes string, now time.Time) error {
	if err := n.ensureDraft("change notes of"); err != nil {
		return err
	}
	n.Notes = strings.TrimSpace(notes)
	n.Touch(now)
	return nil
}

// AssignFolio sets the folio of a note created without one
func (n *SalesNote) AssignFolio(folio string) error {
	folio = strings.TrimSpace(folio)
	if folio == "" {
		return shared.NewValidationError("INVALID_FOLIO", "Folio cannot be empty")
	}
	if n.Folio != "" {
		return shared.NewConflictError("FOLIO_ALREADY_ASSIGNED", fmt.Sprintf("Sales note already has folio %s", n.Folio))
	}
	n.Folio = folio
	return nil
}

// Confirm freezes the note. Totals are recomputed from the items first so
// the confirmed amounts never depend on earlier writes.
func (n *SalesNote) Confirm(now time.Time) error {
	if !n.Status.CanTransitionTo(SalesNoteStatusConfirmed) {
		return shared.NewInvalidTransitionError(n.Status.String(), fmt.Sprintf("Cannot confirm sales note in %s status", n.Status))
	}
	if len(n.Items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Cannot confirm a sales note without items")
	}
	if n.Folio == "" {
		return shared.NewValidationError("FOLIO_REQUIRED", "Sales note must have a folio before confirmation")
	}
	if err := n.Recalculate(); err != nil {
		return err
	}
	from := n.Status
	n.Status = SalesNoteStatusConfirmed
	n.ConfirmedAt = &now
	n.Touch(now)
	n.AddDomainEvent(NewSalesNoteConfirmedEvent(n, from, now))
	return nil
}

// Cancel cancels a draft or confirmed note. A fully invoiced note cannot be
// cancelled because the invoices already issued would be orphaned.
func (n *SalesNote) Cancel(reason string, now time.Time) error {
	if !n.Status.CanTransitionTo(SalesNoteStatusCancelled) {
		return shared.NewInvalidTransitionError(n.Status.String(), fmt.Sprintf("Cannot cancel sales note in %s status", n.Status))
	}
	if n.InvoicingStatus() == InvoicingStatusFullyInvoiced {
		return shared.NewConflictError("FULLY_INVOICED", fmt.Sprintf("Sales note %s is fully invoiced and cannot be cancelled", n.Folio))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewValidationError("INVALID_REASON", "Cancel reason is required")
	}
	from := n.Status
	n.Status = SalesNoteStatusCancelled
	n.CancelledAt = &now
	n.CancelReason = reason
	n.Touch(now)
	n.AddDomainEvent(NewSalesNoteStatusChangedEvent(EventTypeSalesNoteCancelled, n, from, reason, now))
	return nil
}

// RecordInvoicedQuantity adds delta to an item's invoiced quantity.
// Only confirmed notes can be invoiced and an item is never invoiced beyond
// its ordered quantity.
func (n *SalesNote) RecordInvoicedQuantity(itemID uuid.UUID, delta decimal.Decimal, now time.Time) (*LineItem, error) {
	if n.Status != SalesNoteStatusConfirmed {
		return nil, shared.NewInvalidTransitionError(n.Status.String(),
			fmt.Sprintf("Cannot invoice a sales note in %s status", n.Status))
	}
	if !delta.IsPositive() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Invoiced quantity delta must be positive")
	}
	if !fitsScale(delta) {
		return nil, shared.NewValidationError("INVALID_QUANTITY",
			fmt.Sprintf("Invoiced quantity delta allows at most %d decimal places, got %s", storedScale, delta.String()))
	}
	idx := findItem(n.Items, itemID)
	if idx < 0 {
		return nil, shared.NewNotFoundError("ITEM_NOT_FOUND", "Item not found in sales note")
	}
	item := &n.Items[idx]
	next := item.InvoicedQuantity.Add(delta)
	if next.GreaterThan(item.Quantity) {
		return nil, shared.NewValidationError("INVOICED_EXCEEDS_QUANTITY",
			fmt.Sprintf("Cannot invoice %s: only %s of %s remain for item %d",
				delta.String(), item.RemainingQuantity().String(), item.Quantity.String(), item.Position))
	}

	before := n.InvoicingStatus()
	item.InvoicedQuantity = next
	after := n.InvoicingStatus()
	n.Touch(now)
	n.AddDomainEvent(NewInvoicedQuantityRecordedEvent(n, item, delta, before, after, now))
	return item, nil
}

// Delete checks the note may be removed and records the deletion. Draft only.
func (n *SalesNote) Delete(now time.Time) error {
	if err := n.ensureDraft("delete"); err != nil {
		return err
	}
	n.AddDomainEvent(NewSalesNoteStatusChangedEvent(EventTypeSalesNoteDeleted, n, n.Status, "", now))
	return nil
}

// GetItem returns the item with the given id, or nil
func (n *SalesNote) GetItem(itemID uuid.UUID) *LineItem {
	if idx := findItem(n.Items, itemID); idx >= 0 {
		return &n.Items[idx]
	}
	return nil
}

// Recalculate recomputes line and document amounts from the current items
func (n *SalesNote) Recalculate() error {
	for idx := range n.Items {
		if err := n.Items[idx].apply(n.Items[idx].Input()); err != nil {
			return err
		}
	}
	return n.recalculate()
}

func (n *SalesNote) changed(now time.Time) error {
	if err := n.recalculate(); err != nil {
		return err
	}
	n.Touch(now)
	return nil
}

func (n *SalesNote) recalculate() error {
	totals, err := Calculate(TotalsInput{
		Items:          itemInputs(n.Items),
		GlobalDiscount: n.GlobalDiscount,
		TaxPercent:     n.TaxPercent,
	})
	if err != nil {
		return err
	}
	n.Totals = totals
	return nil
}
