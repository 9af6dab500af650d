package sales_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	appsales "github.com/quotedesk/backend/internal/application/sales"
	"github.com/quotedesk/backend/internal/domain/shared"
	"github.com/quotedesk/backend/internal/infrastructure/persistence"
	"github.com/quotedesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

type countingMetrics struct {
	mu          sync.Mutex
	folios      map[string]int
	transitions []string
	conflicts   map[string]int
	invoiced    []string
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{folios: map[string]int{}, conflicts: map[string]int{}}
}

func (m *countingMetrics) FolioAllocated(_ context.Context, documentType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folios[documentType]++
}

func (m *countingMetrics) Transition(_ context.Context, documentType, from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, documentType+":"+from+"->"+to)
}

func (m *countingMetrics) Conflict(_ context.Context, operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts[operation]++
}

func (m *countingMetrics) InvoicedQuantity(_ context.Context, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invoiced = append(m.invoiced, status)
}

// fixture wires the services over a private in-memory SQLite database
// countingScope records how many units of work were opened
type countingScope struct {
	appsales.TransactionScope
	mu    sync.Mutex
	opens int
}

func (s *countingScope) Execute(ctx context.Context, fn func(repos appsales.TransactionalRepositories) error) error {
	s.mu.Lock()
	s.opens++
	s.mu.Unlock()
	return s.TransactionScope.Execute(ctx, fn)
}

func (s *countingScope) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}

type fixture struct {
	db        *gorm.DB
	scope     *countingScope
	clock     *fakeClock
	publisher *recordingPublisher
	metrics   *countingMetrics
	quotes    *appsales.QuoteService
	notes     *appsales.SalesNoteService
	sequences *appsales.SequenceService
	tenantID  uuid.UUID
}

func newFixture(t *testing.T, folioOnConfirm bool) *fixture {
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

	f := &fixture{
		db:        db,
		clock:     &fakeClock{now: testNow},
		publisher: &recordingPublisher{},
		metrics:   newCountingMetrics(),
		tenantID:  uuid.New(),
	}
	opts := appsales.Options{
		SalesNoteFolioOnConfirm: folioOnConfirm,
		DefaultValidityDays:     15,
		DefaultTaxPercent:       decimal.NewFromInt(19),
		Clock:                   f.clock.Now,
	}
	f.scope = &countingScope{TransactionScope: persistence.NewGormTransactionScope(db)}
	scope := f.scope

	f.quotes = appsales.NewQuoteService(scope, persistence.NewGormQuoteRepository(db), opts, nil)
	f.quotes.SetEventPublisher(f.publisher)
	f.quotes.SetMetrics(f.metrics)

	f.notes = appsales.NewSalesNoteService(scope, persistence.NewGormSalesNoteRepository(db), opts, nil)
	f.notes.SetEventPublisher(f.publisher)
	f.notes.SetMetrics(f.metrics)

	f.sequences = appsales.NewSequenceService(persistence.NewGormSequenceStore(db), nil)
	return f
}

func item(desc, qty string, price int64, discount string) appsales.LineItemInput {
	return appsales.LineItemInput{
		Description:     desc,
		Unit:            "unit",
		Quantity:        decimal.RequireFromString(qty),
		UnitPrice:       price,
		DiscountPercent: decimal.RequireFromString(discount),
	}
}

// scenarioAItems are the lines of the reference totals example
func scenarioAItems() []appsales.LineItemInput {
	return []appsales.LineItemInput{
		item("Steel beam", "10", 1000, "10"),
		item("Bolt kit", "5", 2000, "0"),
	}
}

func client() appsales.ClientInput {
	return appsales.ClientInput{Name: "Acme Ltda", Email: "buyer@acme.test"}
}

func decimalPct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
