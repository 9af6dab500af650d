package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/audit"
	"github.com/quotedesk/backend/internal/domain/receivable"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/quotedesk/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAuditRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAuditRepository(db)
	ctx := context.Background()
	tenantID, quoteID := uuid.New(), uuid.New()

	entry := &audit.Entry{
		TenantID:      tenantID,
		EventID:       uuid.New(),
		EventType:     "QuoteAccepted",
		AggregateType: "Quote",
		AggregateID:   quoteID,
		Actor:         "user-1",
		FromState:     "sent",
		ToState:       "accepted",
		Payload:       []byte(`{"folio":"QT-000001"}`),
		OccurredAt:    testNow,
	}
	require.NoError(t, repo.Append(ctx, entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)

	redelivered := *entry
	redelivered.ID = uuid.Nil
	require.NoError(t, repo.Append(ctx, &redelivered))

	entries, err := repo.ListForAggregate(ctx, tenantID, quoteID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user-1", entries[0].Actor)
	assert.Equal(t, "sent", entries[0].FromState)
	assert.Equal(t, "accepted", entries[0].ToState)
	assert.JSONEq(t, `{"folio":"QT-000001"}`, string(entries[0].Payload))

	others, err := repo.ListForAggregate(ctx, uuid.New(), quoteID)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestGormReceivableReader(t *testing.T) {
	db := newTestDB(t)
	reader := NewGormReceivableReader(db)
	ctx := context.Background()
	tenantID, noteID := uuid.New(), uuid.New()

	require.NoError(t, db.Create(&models.ReceivableDocumentModel{
		ID:                uuid.New(),
		TenantID:          tenantID,
		SalesNoteID:       noteID,
		Status:            receivable.PaymentStatusPartial,
		TotalAmount:       22015,
		OutstandingAmount: 10000,
		CreatedAt:         testNow,
		UpdatedAt:         testNow,
	}).Error)

	doc, err := reader.FindBySalesNote(ctx, tenantID, noteID)
	require.NoError(t, err)
	assert.Equal(t, receivable.PaymentStatusPartial, doc.Status)
	assert.Equal(t, int64(10000), doc.Outstanding)
	assert.Equal(t, int64(22015), doc.TotalAmount)

	_, err = reader.FindBySalesNote(ctx, tenantID, uuid.New())
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}
