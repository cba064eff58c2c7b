package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the flyweight tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("flyweight")

// SpanManager handles trace span lifecycle for constructions.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
//
// Only constructions are traced. Reuse is a map read and is covered
// by metrics instead; constructors are where the time goes.
type SpanManager interface {
	// StartConstructSpan starts a span covering one constructor run.
	// Returns the context with span and the span itself.
	StartConstructSpan(ctx context.Context, registryID, key string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartConstructSpan starts a span covering one constructor run.
func (m *otelSpanManager) StartConstructSpan(ctx context.Context, registryID, key string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "flyweight.construct",
		trace.WithAttributes(
			attribute.String("registry.id", registryID),
			attribute.String("registry.key", key),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Convenience functions that operate on the global tracer.
// These are useful for simple cases where you don't need the interface.

// StartConstructSpan starts a span covering one constructor run.
// Uses the global OTel tracer.
func StartConstructSpan(ctx context.Context, registryID, key string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "flyweight.construct",
		trace.WithAttributes(
			attribute.String("registry.id", registryID),
			attribute.String("registry.key", key),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
