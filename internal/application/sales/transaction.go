package sales

import (
	"context"

	"github.com/quotedesk/backend/internal/domain/sales"
	"github.com/quotedesk/backend/internal/domain/sequence"
)

// TransactionalRepositories gives access to the repositories bound to one
// open transaction
type TransactionalRepositories interface {
	Quotes() sales.QuoteRepository
	SalesNotes() sales.SalesNoteRepository
	Sequences() sequence.Store
}

// TransactionScope runs a unit of work atomically. If fn returns an error
// every write made through the repositories is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
