package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestNote(t *testing.T) *SalesNote {
	t.Helper()
	n, err := NewSalesNote(uuid.New(), "NV-000123", testClient(), decimal.NewFromInt(19), testNow)
	require.NoError(t, err)
	return n
}

// confirmedNote returns a confirmed note with a single item of quantity 10
func confirmedNote(t *testing.T) (*SalesNote, uuid.UUID) {
	t.Helper()
	n := createTestNote(t)
	it, err := n.AddItem(item("10", 500, "0"), testNow)
	require.NoError(t, err)
	require.NoError(t, n.Confirm(testNow))
	return n, it.ID
}

func TestSalesNoteStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to SalesNoteStatus
		want     bool
	}{
		{SalesNoteStatusDraft, SalesNoteStatusConfirmed, true},
		{SalesNoteStatusDraft, SalesNoteStatusCancelled, true},
		{SalesNoteStatusConfirmed, SalesNoteStatusCancelled, true},
		{SalesNoteStatusConfirmed, SalesNoteStatusDraft, false},
		{SalesNoteStatusCancelled, SalesNoteStatusConfirmed, false},
		{SalesNoteStatusCancelled, SalesNoteStatusDraft, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDeriveInvoicingStatus(t *testing.T) {
	line := func(qty, invoiced string) LineItem {
		return LineItem{Quantity: decimal.RequireFromString(qty), InvoicedQuantity: decimal.RequireFromString(invoiced)}
	}
	tests := []struct {
		name  string
		items []LineItem
		want  InvoicingStatus
	}{
		{"no items", nil, InvoicingStatusCreated},
		{"nothing invoiced", []LineItem{line("10", "0"), line("2", "0")}, InvoicingStatusCreated},
		{"some invoiced", []LineItem{line("10", "4"), line("2", "0")}, InvoicingStatusPartiallyInvoiced},
		{"one line complete", []LineItem{line("10", "10"), line("2", "0")}, InvoicingStatusPartiallyInvoiced},
		{"everything invoiced", []LineItem{line("10", "10"), line("2.5", "2.5")}, InvoicingStatusFullyInvoiced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveInvoicingStatus(tt.items))
		})
	}
}

func TestSalesNote_ConfirmedRejectsItemChanges(t *testing.T) {
	n := createTestNote(t)
	_, err := n.AddItem(item("2", 1500, "0"), testNow)
	require.NoError(t, err)

	require.NoError(t, n.Confirm(testNow))
	assert.Equal(t, SalesNoteStatusConfirmed, n.Status)
	require.NotNil(t, n.ConfirmedAt)

	_, err = n.AddItem(item("1", 100, "0"), testNow)
	requireTransitionError(t, err, "confirmed")
	requireTransitionError(t, n.UpdateItem(n.Items[0].ID, item("1", 1, "0"), testNow), "confirmed")
	requireTransitionError(t, n.RemoveItem(n.Items[0].ID, testNow), "confirmed")
	requireTransitionError(t, n.ApplyGlobalDiscount(10, testNow), "confirmed")
	requireTransitionError(t, n.SetPaymentTerms(PaymentTerms{DueDays: 30}, testNow), "confirmed")
	requireTransitionError(t, n.Delete(testNow), "confirmed")
	requireTransitionError(t, n.Confirm(testNow), "confirmed")
}

func TestSalesNote_ConfirmValidation(t *testing.T) {
	n := createTestNote(t)
	assert.True(t, shared.IsValidation(n.Confirm(testNow)), "no items")

	noFolio, err := NewSalesNote(uuid.New(), "", testClient(), decimal.Zero, testNow)
	require.NoError(t, err)
	_, err = noFolio.AddItem(item("1", 100, "0"), testNow)
	require.NoError(t, err)
	assert.True(t, shared.IsValidation(noFolio.Confirm(testNow)), "no folio")

	require.NoError(t, noFolio.AssignFolio("NV-000200"))
	assert.True(t, shared.IsConflict(noFolio.AssignFolio("NV-000201")))
	require.NoError(t, noFolio.Confirm(testNow))
}

func TestSalesNote_ConfirmRecomputesTotals(t *testing.T) {
	n := createTestNote(t)
	_, err := n.AddItem(item("10", 1000, "10"), testNow)
	require.NoError(t, err)
	_, err = n.AddItem(item("5", 2000, "0"), testNow)
	require.NoError(t, err)
	n.GlobalDiscount = 500
	n.Totals = Totals{Total: 1}

	require.NoError(t, n.Confirm(testNow))
	assert.Equal(t, int64(22015), n.Totals.Total)
}

func TestSalesNote_Reconciliation(t *testing.T) {
	n, itemID := confirmedNote(t)
	assert.Equal(t, InvoicingStatusCreated, n.InvoicingStatus())

	_, err := n.RecordInvoicedQuantity(itemID, decimal.NewFromInt(4), testNow)
	require.NoError(t, err)
	assert.Equal(t, InvoicingStatusPartiallyInvoiced, n.InvoicingStatus())

	updated, err := n.RecordInvoicedQuantity(itemID, decimal.NewFromInt(6), testNow)
	require.NoError(t, err)
	assert.True(t, updated.InvoicedQuantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, InvoicingStatusFullyInvoiced, n.InvoicingStatus())

	_, err = n.RecordInvoicedQuantity(itemID, decimal.NewFromInt(1), testNow)
	assert.True(t, shared.IsValidation(err))
	assert.True(t, n.Items[0].InvoicedQuantity.Equal(decimal.NewFromInt(10)))
}

func TestSalesNote_ReconciliationGuards(t *testing.T) {
	draft := createTestNote(t)
	it, err := draft.AddItem(item("3", 100, "0"), testNow)
	require.NoError(t, err)
	_, err = draft.RecordInvoicedQuantity(it.ID, decimal.NewFromInt(1), testNow)
	requireTransitionError(t, err, "draft")

	n, itemID := confirmedNote(t)
	_, err = n.RecordInvoicedQuantity(itemID, decimal.Zero, testNow)
	assert.True(t, shared.IsValidation(err))
	_, err = n.RecordInvoicedQuantity(itemID, decimal.NewFromInt(-2), testNow)
	assert.True(t, shared.IsValidation(err))
	_, err = n.RecordInvoicedQuantity(itemID, decimal.RequireFromString("0.00001"), testNow)
	assert.True(t, shared.IsValidation(err), "deltas finer than the stored scale are rejected")
	assert.True(t, n.Items[0].InvoicedQuantity.IsZero())
	_, err = n.RecordInvoicedQuantity(uuid.New(), decimal.NewFromInt(1), testNow)
	assert.True(t, shared.IsNotFound(err))
}

func TestSalesNote_ReconciliationEvent(t *testing.T) {
	n, itemID := confirmedNote(t)
	n.ClearDomainEvents()

	_, err := n.RecordInvoicedQuantity(itemID, decimal.NewFromInt(10), testNow)
	require.NoError(t, err)

	events := n.GetDomainEvents()
	require.Len(t, events, 1)
	evt, ok := events[0].(*InvoicedQuantityRecordedEvent)
	require.True(t, ok)
	assert.Equal(t, "created", evt.FromState())
	assert.Equal(t, "fully_invoiced", evt.ToState())
}

func TestSalesNote_CancelGuard(t *testing.T) {
	t.Run("fully invoiced is a conflict", func(t *testing.T) {
		n, itemID := confirmedNote(t)
		_, err := n.RecordInvoicedQuantity(itemID, decimal.NewFromInt(10), testNow)
		require.NoError(t, err)

		err = n.Cancel("client withdrew", testNow)
		assert.True(t, shared.IsConflict(err))
		assert.Equal(t, SalesNoteStatusConfirmed, n.Status)
	})

	t.Run("draft cancels", func(t *testing.T) {
		n := createTestNote(t)
		require.NoError(t, n.Cancel("duplicate", testNow))
		assert.Equal(t, SalesNoteStatusCancelled, n.Status)
		assert.Equal(t, "duplicate", n.CancelReason)
	})

	t.Run("partially invoiced cancels", func(t *testing.T) {
		n, itemID := confirmedNote(t)
		_, err := n.RecordInvoicedQuantity(itemID, decimal.NewFromInt(4), testNow)
		require.NoError(t, err)
		require.NoError(t, n.Cancel("client withdrew", testNow))
		assert.Equal(t, SalesNoteStatusCancelled, n.Status)
	})

	t.Run("cancelled cannot cancel again", func(t *testing.T) {
		n := createTestNote(t)
		require.NoError(t, n.Cancel("duplicate", testNow))
		requireTransitionError(t, n.Cancel("again", testNow), "cancelled")
	})

	t.Run("reason required", func(t *testing.T) {
		n := createTestNote(t)
		assert.True(t, shared.IsValidation(n.Cancel("", testNow)))
	})
}

func TestNewSalesNoteFromQuote(t *testing.T) {
	q := sentQuote(t)
	require.NoError(t, q.ApplyGlobalDiscount(100, testNow))

	_, err := NewSalesNoteFromQuote(q, "NV-000001", testNow)
	requireTransitionError(t, err, "sent")

	require.NoError(t, q.Accept(testNow))
	n, err := NewSalesNoteFromQuote(q, "NV-000001", testNow)
	require.NoError(t, err)

	assert.Equal(t, q.ID, *n.QuoteID)
	assert.Equal(t, q.TenantID, n.TenantID)
	assert.Equal(t, q.Client, n.Client)
	assert.Equal(t, q.Totals.Total, n.Totals.Total)
	require.Len(t, n.Items, len(q.Items))
	assert.NotEqual(t, q.Items[0].ID, n.Items[0].ID)
	assert.Equal(t, SalesNoteStatusDraft, n.Status)

	// the note is independent of the quote
	_, err = n.AddItem(item("1", 100, "0"), testNow)
	require.NoError(t, err)
	assert.Len(t, q.Items, 1)
}

func TestSalesNote_PaymentTermsAndDelivery(t *testing.T) {
	n := createTestNote(t)
	require.NoError(t, n.SetPaymentTerms(PaymentTerms{Method: " transfer ", DueDays: 30}, testNow))
	assert.Equal(t, "transfer", n.PaymentTerms.Method)
	assert.True(t, shared.IsValidation(n.SetPaymentTerms(PaymentTerms{DueDays: -1}, testNow)))

	at := testNow.AddDate(0, 0, 3)
	require.NoError(t, n.SetDelivery(Delivery{Address: "Av. Principal 100", ScheduledAt: &at}, testNow))
	assert.Equal(t, "Av. Principal 100", n.Delivery.Address)

	p := n.Projection()
	assert.Equal(t, DocumentKindSalesNote, p.Kind)
	assert.Equal(t, "created", p.InvoicingStatus)
	require.NotNil(t, p.PaymentTerms)
	assert.Equal(t, 30, p.PaymentTerms.DueDays)
}
