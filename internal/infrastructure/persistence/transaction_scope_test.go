package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appsales "github.com/quotedesk/backend/internal/application/sales"
	"github.com/quotedesk/backend/internal/domain/sequence"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("commits every write", func(t *testing.T) {
		q := newQuote(t, tenantID, "QT-000001", itemInput("Sand", "1", 300, "0"))
		err := scope.Execute(ctx, func(repos appsales.TransactionalRepositories) error {
			if _, err := repos.Sequences().Increment(ctx, tenantID, sequence.DocumentTypeQuote, "QT"); err != nil {
				return err
			}
			return repos.Quotes().Create(ctx, q)
		})
		require.NoError(t, err)

		_, err = NewGormQuoteRepository(db).FindByIDForTenant(ctx, tenantID, q.ID)
		assert.NoError(t, err)
	})

	t.Run("rolls back the folio with the document", func(t *testing.T) {
		q := newQuote(t, tenantID, "QT-000002")
		failure := shared.NewValidationError("NO_ITEMS", "nothing to save")
		err := scope.Execute(ctx, func(repos appsales.TransactionalRepositories) error {
			if _, err := repos.Sequences().Increment(ctx, tenantID, sequence.DocumentTypeQuote, "QT"); err != nil {
				return err
			}
			if err := repos.Quotes().Create(ctx, q); err != nil {
				return err
			}
			return failure
		})
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err), "domain errors pass through unchanged")

		_, err = NewGormQuoteRepository(db).FindByIDForTenant(ctx, tenantID, q.ID)
		assert.True(t, shared.IsNotFound(err))

		cur, err := NewGormSequenceStore(db).Current(ctx, tenantID, sequence.DocumentTypeQuote, "QT")
		require.NoError(t, err)
		assert.Equal(t, int64(1), cur)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := scope.Execute(cancelled, func(repos appsales.TransactionalRepositories) error {
			return nil
		})
		assert.Error(t, err)
	})
}
