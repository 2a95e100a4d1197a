// Package otel provides OpenTelemetry integration for fileseq stores.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/fileseq"
)

// TracedStore wraps a fileseq.Store so that every operation is recorded as
// an OpenTelemetry span. Spans carry the store directory and, on success,
// the sequence value involved. The wrapped store's own API takes no context;
// the context passed here is used for span parenting only.
type TracedStore struct {
	store  *fileseq.Store
	tracer trace.Tracer
}

// NewTracedStore creates a TracedStore that records spans with the given
// tracer around operations on store.
func NewTracedStore(store *fileseq.Store, tracer trace.Tracer) *TracedStore {
	return &TracedStore{
		store:  store,
		tracer: tracer,
	}
}

// Store returns the wrapped store.
func (t *TracedStore) Store() *fileseq.Store {
	return t.store
}

// Value reads the current sequence value inside a span.
func (t *TracedStore) Value(ctx context.Context) (uint64, error) {
	_, span := t.tracer.Start(ctx, "fileseq:value", t.startAttrs())
	defer span.End()

	value, err := t.store.Value()
	return endValueSpan(span, value, err)
}

// GetAndIncrement advances the sequence by delta inside a span and returns
// the value before the increment.
func (t *TracedStore) GetAndIncrement(ctx context.Context, delta uint64) (uint64, error) {
	_, span := t.tracer.Start(ctx, "fileseq:get_and_increment", t.startAttrs(
		attribute.Int64("fileseq.delta", int64(delta)),
	))
	defer span.End()

	value, err := t.store.GetAndIncrement(delta)
	return endValueSpan(span, value, err)
}

// IncrementAndGet advances the sequence by delta inside a span and returns
// the new value.
func (t *TracedStore) IncrementAndGet(ctx context.Context, delta uint64) (uint64, error) {
	_, span := t.tracer.Start(ctx, "fileseq:increment_and_get", t.startAttrs(
		attribute.Int64("fileseq.delta", int64(delta)),
	))
	defer span.End()

	value, err := t.store.IncrementAndGet(delta)
	return endValueSpan(span, value, err)
}

// Delete removes the store's slot files inside a span.
func (t *TracedStore) Delete(ctx context.Context) error {
	_, span := t.tracer.Start(ctx, "fileseq:delete", t.startAttrs())
	defer span.End()

	if err := t.store.Delete(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// startAttrs builds the common span start options.
func (t *TracedStore) startAttrs(extra ...attribute.KeyValue) trace.SpanStartOption {
	attrs := append([]attribute.KeyValue{
		attribute.String("fileseq.dir", t.store.Dir()),
	}, extra...)
	return trace.WithAttributes(attrs...)
}

// endValueSpan finishes a span for an operation that yields a value.
func endValueSpan(span trace.Span, value uint64, err error) (uint64, error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return value, err
	}
	span.SetAttributes(attribute.Int64("fileseq.value", int64(value)))
	span.SetStatus(codes.Ok, "")
	return value, nil
}
