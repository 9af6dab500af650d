package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appsales "github.com/quotedesk/backend/internal/application/sales"
	"github.com/quotedesk/backend/internal/domain/sales"
	"github.com/quotedesk/backend/internal/domain/sequence"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createNote(t *testing.T, f *fixture, items ...appsales.LineItemInput) *appsales.SalesNoteResponse {
	t.Helper()
	n, err := f.notes.Create(context.Background(), f.tenantID, appsales.CreateSalesNoteRequest{
		Client: client(),
		Items:  items,
	})
	require.NoError(t, err)
	return n
}

func confirmNote(t *testing.T, f *fixture, id uuid.UUID) *appsales.SalesNoteResponse {
	t.Helper()
	n, err := f.notes.Confirm(context.Background(), f.tenantID, id, appsales.ConfirmSalesNoteRequest{})
	require.NoError(t, err)
	return n
}

func invoice(f *fixture, n *appsales.SalesNoteResponse, qty string) (*appsales.SalesNoteResponse, error) {
	return f.notes.RecordInvoicedQuantity(context.Background(), f.tenantID, n.ID, n.Items[0].ID,
		appsales.InvoicedQuantityRequest{Quantity: decimal.RequireFromString(qty)})
}

func TestSalesNoteService_CreateWithTerms(t *testing.T) {
	f := newFixture(t, false)
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	n, err := f.notes.Create(context.Background(), f.tenantID, appsales.CreateSalesNoteRequest{
		Client:         client(),
		Items:          scenarioAItems(),
		GlobalDiscount: 500,
		PaymentTerms:   &appsales.PaymentTermsInput{Method: "transfer", DueDays: 30},
		Delivery:       &appsales.DeliveryInput{Address: "Av. Central 100", ScheduledAt: &due},
	})
	require.NoError(t, err)

	assert.Equal(t, "NV-000001", n.Folio)
	assert.Equal(t, int64(22015), n.Totals.Total)
	assert.Equal(t, "transfer", n.PaymentTerms.Method)
	assert.Equal(t, 30, n.PaymentTerms.DueDays)
	assert.Equal(t, "Av. Central 100", n.Delivery.Address)
	assert.Equal(t, 1, f.metrics.folios["sales_note"])
}

func TestSalesNoteService_InvalidCreateConsumesNoFolio(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.notes.Create(ctx, f.tenantID, appsales.CreateSalesNoteRequest{
		Client: client(),
		Items:  []appsales.LineItemInput{item("Cable", "2", 100, "12.34567")},
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Zero(t, f.scope.count())

	n := createNote(t, f, item("Cable", "2", 100, "0"))
	assert.Equal(t, "NV-000001", n.Folio)
	assert.Equal(t, 1, f.scope.count())
}

// A draft note accepts new items; a confirmed one does not.
func TestSalesNoteService_ConfirmFreezesItems(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	n := createNote(t, f, item("Cable", "2", 500, "0"))

	n, err := f.notes.AddItem(ctx, f.tenantID, n.ID, appsales.ItemRequest{LineItemInput: item("Plug", "1", 300, "0")})
	require.NoError(t, err)
	assert.Len(t, n.Items, 2)

	f.publisher.reset()
	n = confirmNote(t, f, n.ID)
	assert.Equal(t, "confirmed", n.Status)
	require.NotNil(t, n.ConfirmedAt)
	assert.Equal(t, []string{sales.EventTypeSalesNoteConfirmed}, f.publisher.types())
	assert.Contains(t, f.metrics.transitions, "sales_note:draft->confirmed")

	_, err = f.notes.AddItem(ctx, f.tenantID, n.ID, appsales.ItemRequest{LineItemInput: item("Late", "1", 100, "0")})
	require.Error(t, err)
	assert.True(t, shared.IsInvalidStateTransition(err))

	_, err = f.notes.UpdateTerms(ctx, f.tenantID, n.ID, appsales.TermsRequest{PaymentTerms: &appsales.PaymentTermsInput{DueDays: 5}})
	assert.True(t, shared.IsInvalidStateTransition(err))
}

func TestSalesNoteService_FolioAllocatedOnConfirm(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	abandoned := createNote(t, f, item("Cable", "1", 500, "0"))
	assert.Empty(t, abandoned.Folio)
	n := createNote(t, f, item("Cable", "1", 500, "0"))
	assert.Empty(t, n.Folio)

	peek, err := f.sequences.Peek(ctx, f.tenantID, "sales_note", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), peek.LastNumber)

	f.publisher.reset()
	n = confirmNote(t, f, n.ID)
	assert.Equal(t, "NV-000001", n.Folio)
	assert.Equal(t, []string{sequence.EventTypeFolioAllocated, sales.EventTypeSalesNoteConfirmed}, f.publisher.types())
}

func TestSalesNoteService_ConfirmWithoutItemsConsumesNoFolio(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	n := createNote(t, f)

	_, err := f.notes.Confirm(ctx, f.tenantID, n.ID, appsales.ConfirmSalesNoteRequest{})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))

	peek, err := f.sequences.Peek(ctx, f.tenantID, "sales_note", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), peek.LastNumber)
}

// One item of 10: +4 partial, +6 full, +1 rejected.
func TestSalesNoteService_InvoicingReconciliation(t *testing.T) {
	f := newFixture(t, false)
	n := createNote(t, f, item("Cement bag", "10", 700, "0"))
	n = confirmNote(t, f, n.ID)

	n, err := invoice(f, n, "4")
	require.NoError(t, err)
	assert.Equal(t, "partially_invoiced", n.InvoicingStatus)
	require.NotNil(t, n.Items[0].InvoicedQuantity)
	assert.True(t, decimal.NewFromInt(4).Equal(*n.Items[0].InvoicedQuantity))

	n, err = invoice(f, n, "6")
	require.NoError(t, err)
	assert.Equal(t, "fully_invoiced", n.InvoicingStatus)

	_, err = invoice(f, n, "1")
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))

	stored, err := f.notes.GetByID(context.Background(), f.tenantID, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "fully_invoiced", stored.InvoicingStatus)
	assert.True(t, decimal.NewFromInt(10).Equal(*stored.Items[0].InvoicedQuantity))
	assert.Equal(t, []string{"partially_invoiced", "fully_invoiced"}, f.metrics.invoiced)
}

func TestSalesNoteService_InvoicingRequiresConfirmedNote(t *testing.T) {
	f := newFixture(t, false)
	n := createNote(t, f, item("Cement bag", "10", 700, "0"))

	_, err := invoice(f, n, "1")
	require.Error(t, err)
	assert.True(t, shared.IsInvalidStateTransition(err))

	n = confirmNote(t, f, n.ID)
	_, err = f.notes.RecordInvoicedQuantity(context.Background(), f.tenantID, n.ID, n.Items[0].ID,
		appsales.InvoicedQuantityRequest{Quantity: decimal.NewFromInt(-1)})
	assert.True(t, shared.IsValidation(err))

	_, err = f.notes.RecordInvoicedQuantity(context.Background(), f.tenantID, n.ID, uuid.New(),
		appsales.InvoicedQuantityRequest{Quantity: decimal.NewFromInt(1)})
	assert.True(t, shared.IsNotFound(err))
}

// A fully invoiced note cannot be cancelled; draft and partially invoiced notes can.
func TestSalesNoteService_CancellationGuard(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	reason := appsales.ReasonRequest{Reason: "Client withdrew"}

	full := confirmNote(t, f, createNote(t, f, item("Cement bag", "10", 700, "0")).ID)
	_, err := invoice(f, full, "10")
	require.NoError(t, err)
	_, err = f.notes.Cancel(ctx, f.tenantID, full.ID, reason)
	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))

	draft := createNote(t, f, item("Cement bag", "10", 700, "0"))
	cancelled, err := f.notes.Cancel(ctx, f.tenantID, draft.ID, reason)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	partial := confirmNote(t, f, createNote(t, f, item("Cement bag", "10", 700, "0")).ID)
	_, err = invoice(f, partial, "3")
	require.NoError(t, err)
	cancelled, err = f.notes.Cancel(ctx, f.tenantID, partial.ID, reason)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, "Client withdrew", cancelled.CancelReason)
}

func TestSalesNoteService_DeleteIsDraftOnly(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	confirmed := confirmNote(t, f, createNote(t, f, item("A", "1", 100, "0")).ID)
	err := f.notes.Delete(ctx, f.tenantID, confirmed.ID, 0)
	require.Error(t, err)
	assert.True(t, shared.IsInvalidStateTransition(err))

	draft := createNote(t, f, item("A", "1", 100, "0"))
	require.NoError(t, f.notes.Delete(ctx, f.tenantID, draft.ID, draft.Version))
	_, err = f.notes.GetByID(ctx, f.tenantID, draft.ID)
	assert.True(t, shared.IsNotFound(err))
}

func TestSalesNoteService_ListAndProjection(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	createNote(t, f, item("A", "1", 100, "0"))
	confirmed := confirmNote(t, f, createNote(t, f, item("B", "2", 100, "0")).ID)
	_, err := invoice(f, confirmed, "1")
	require.NoError(t, err)

	page, err := f.notes.List(ctx, f.tenantID, appsales.ListFilter{InvoicingStatus: "partially_invoiced"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, confirmed.ID, page.Items[0].ID)

	drafts, err := f.notes.List(ctx, f.tenantID, appsales.ListFilter{Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), drafts.Total)

	_, err = f.notes.List(ctx, f.tenantID, appsales.ListFilter{InvoicingStatus: "paid"})
	assert.True(t, shared.IsValidation(err))

	projection, err := f.notes.Projection(ctx, f.tenantID, confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, sales.DocumentKindSalesNote, projection.Kind)
	assert.Equal(t, "partially_invoiced", projection.InvoicingStatus)
	assert.True(t, testNow.Equal(projection.IssuedAt))
	require.NotNil(t, projection.PaymentTerms)
	require.NotNil(t, projection.Items[0].InvoicedQuantity)
}
