package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/sales"
	"github.com/quotedesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

// newTestDB opens a private in-memory SQLite database with the schema
// migrated. A single connection keeps every statement on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func itemInput(desc, qty string, price int64, discount string) sales.ItemInput {
	return sales.ItemInput{
		Description:     desc,
		Unit:            "unit",
		Quantity:        decimal.RequireFromString(qty),
		UnitPrice:       price,
		DiscountPercent: decimal.RequireFromString(discount),
	}
}

func newQuote(t *testing.T, tenantID uuid.UUID, folio string, items ...sales.ItemInput) *sales.Quote {
	t.Helper()
	q, err := sales.NewQuote(tenantID, folio, sales.ClientSnapshot{Name: "Acme Ltda", Email: "buyer@acme.test"},
		15, decimal.NewFromInt(19), testNow)
	require.NoError(t, err)
	for _, in := range items {
		_, err := q.AddItem(in, testNow)
		require.NoError(t, err)
	}
	q.ClearDomainEvents()
	return q
}

func newNote(t *testing.T, tenantID uuid.UUID, folio string, items ...sales.ItemInput) *sales.SalesNote {
	t.Helper()
	n, err := sales.NewSalesNote(tenantID, folio, sales.ClientSnapshot{Name: "Globex SpA"}, decimal.NewFromInt(19), testNow)
	require.NoError(t, err)
	for _, in := range items {
		_, err := n.AddItem(in, testNow)
		require.NoError(t, err)
	}
	n.ClearDomainEvents()
	return n
}
