package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/petal-labs/fileseq"
)

// MetricsHandler translates fileseq store events into OpenTelemetry metrics.
// It records counters for persisted values, self-healing repairs, discarded
// slots, and corruption, a histogram of persist latency, and a gauge holding
// the last persisted sequence value.
type MetricsHandler struct {
	persists    metric.Int64Counter
	persistDur  metric.Float64Histogram
	heals       metric.Int64Counter
	discards    metric.Int64Counter
	corruptions metric.Int64Counter
	value       metric.Int64Gauge
}

// NewMetricsHandler creates a MetricsHandler that uses the given meter to
// create instruments for recording store metrics.
func NewMetricsHandler(meter metric.Meter) (*MetricsHandler, error) {
	persists, err := meter.Int64Counter("fileseq.persists",
		metric.WithDescription("Number of sequence values durably written"),
	)
	if err != nil {
		return nil, err
	}

	persistDur, err := meter.Float64Histogram("fileseq.persist.duration",
		metric.WithDescription("Duration of persist operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	heals, err := meter.Int64Counter("fileseq.heals",
		metric.WithDescription("Number of reads healed from the backup slot"),
	)
	if err != nil {
		return nil, err
	}

	discards, err := meter.Int64Counter("fileseq.discards",
		metric.WithDescription("Number of unreadable latest slots removed"),
	)
	if err != nil {
		return nil, err
	}

	corruptions, err := meter.Int64Counter("fileseq.corruptions",
		metric.WithDescription("Number of reads that found no readable slot"),
	)
	if err != nil {
		return nil, err
	}

	value, err := meter.Int64Gauge("fileseq.value",
		metric.WithDescription("Last persisted sequence value"),
	)
	if err != nil {
		return nil, err
	}

	return &MetricsHandler{
		persists:    persists,
		persistDur:  persistDur,
		heals:       heals,
		discards:    discards,
		corruptions: corruptions,
		value:       value,
	}, nil
}

// Handle processes a store event and records the appropriate metrics.
// It implements fileseq.EventHandler semantics.
func (h *MetricsHandler) Handle(e fileseq.Event) {
	switch e.Kind {
	case fileseq.EventPersisted:
		h.handlePersisted(e)
	case fileseq.EventHealed:
		h.handleHealed(e)
	case fileseq.EventDiscarded:
		h.handleDiscarded(e)
	case fileseq.EventCorrupted:
		h.handleCorrupted(e)
	}
}

// handlePersisted increments the persist counter, records the write latency,
// and moves the value gauge.
func (h *MetricsHandler) handlePersisted(e fileseq.Event) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("dir", e.Dir),
	)
	h.persists.Add(ctx, 1, attrs)
	h.persistDur.Record(ctx, e.Elapsed.Seconds(), attrs)
	h.value.Record(ctx, int64(e.Value), attrs)
}

// handleHealed increments the heal counter.
func (h *MetricsHandler) handleHealed(e fileseq.Event) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("dir", e.Dir),
	)
	h.heals.Add(ctx, 1, attrs)
}

// handleDiscarded increments the discard counter.
func (h *MetricsHandler) handleDiscarded(e fileseq.Event) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("dir", e.Dir),
	)
	h.discards.Add(ctx, 1, attrs)
}

// handleCorrupted increments the corruption counter.
func (h *MetricsHandler) handleCorrupted(e fileseq.Event) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("dir", e.Dir),
	)
	h.corruptions.Add(ctx, 1, attrs)
}
