package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Counter wraps an OpenTelemetry Int64Counter
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a monotonically increasing counter
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, err
	}
	return &Counter{counter: c}, nil
}

func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// DocumentMetrics counts document lifecycle activity
type DocumentMetrics struct {
	folioAllocated   *Counter
	transitions      *Counter
	conflicts        *Counter
	invoicedQuantity *Counter
}

// NewDocumentMetrics registers the document counters on meter
func NewDocumentMetrics(meter metric.Meter) (*DocumentMetrics, error) {
	var (
		m   DocumentMetrics
		err error
	)
	if m.folioAllocated, err = NewCounter(meter, "qd_folio_allocated_total", "Folios issued by the sequence allocator", "{folios}"); err != nil {
		return nil, err
	}
	if m.transitions, err = NewCounter(meter, "qd_document_transition_total", "Document status transitions", "{transitions}"); err != nil {
		return nil, err
	}
	if m.conflicts, err = NewCounter(meter, "qd_conflict_total", "Writes rejected by optimistic locking or duplicate operations", "{conflicts}"); err != nil {
		return nil, err
	}
	if m.invoicedQuantity, err = NewCounter(meter, "qd_invoiced_quantity_total", "Invoicing reconciliation updates", "{updates}"); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *DocumentMetrics) FolioAllocated(ctx context.Context, documentType string) {
	m.folioAllocated.Inc(ctx, attribute.String("document_type", documentType))
}

func (m *DocumentMetrics) Transition(ctx context.Context, documentType, from, to string) {
	m.transitions.Inc(ctx,
		attribute.String("document_type", documentType),
		attribute.String("from", from),
		attribute.String("to", to),
	)
}

func (m *DocumentMetrics) Conflict(ctx context.Context, operation string) {
	m.conflicts.Inc(ctx, attribute.String("operation", operation))
}

func (m *DocumentMetrics) InvoicedQuantity(ctx context.Context, invoicingStatus string) {
	m.invoicedQuantity.Inc(ctx, attribute.String("invoicing_status", invoicingStatus))
}
