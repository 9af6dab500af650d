package persistence

import (
	"context"

	appsales "github.com/quotedesk/backend/internal/application/sales"
	"github.com/quotedesk/backend/internal/domain/sales"
	"github.com/quotedesk/backend/internal/domain/sequence"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. The transaction rolls back
// when fn returns an error or the context is cancelled.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	if err != nil {
		return storageError(err)
	}
	return nil
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Quotes() sales.QuoteRepository {
	return NewGormQuoteRepository(r.tx)
}

func (r *gormTransactionalRepositories) SalesNotes() sales.SalesNoteRepository {
	return NewGormSalesNoteRepository(r.tx)
}

func (r *gormTransactionalRepositories) Sequences() sequence.Store {
	return NewGormSequenceStore(r.tx)
}

var _ appsales.TransactionScope = (*GormTransactionScope)(nil)

var _ appsales.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
