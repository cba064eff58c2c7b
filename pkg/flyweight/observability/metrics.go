package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordLookup records one Get outcome: hit (an existing value was
	// reused) or miss (a construction was started). Callers that
	// coalesced onto another caller's construction are not counted.
	RecordLookup(ctx context.Context, hit bool)

	// RecordConstruction records one constructor run with its duration
	// and error status.
	RecordConstruction(ctx context.Context, duration time.Duration, err error)

	// RecordReset records a registry reset and the number of entries
	// it dropped.
	RecordReset(ctx context.Context, entries int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	lookupHits          metric.Int64Counter
	lookupMisses        metric.Int64Counter
	constructionLatency metric.Float64Histogram
	constructionErrors  metric.Int64Counter
	resets              metric.Int64Counter
	resetEntries        metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("flyweight")

	lookupHits, err := meter.Int64Counter("flyweight.lookup.hits",
		metric.WithDescription("Number of lookups that reused an existing value"),
	)
	if err != nil {
		return nil, err
	}

	lookupMisses, err := meter.Int64Counter("flyweight.lookup.misses",
		metric.WithDescription("Number of lookups that started a construction"),
	)
	if err != nil {
		return nil, err
	}

	constructionLatency, err := meter.Float64Histogram("flyweight.construction.latency_ms",
		metric.WithDescription("Constructor run time in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	constructionErrors, err := meter.Int64Counter("flyweight.construction.errors",
		metric.WithDescription("Number of constructor failures"),
	)
	if err != nil {
		return nil, err
	}

	resets, err := meter.Int64Counter("flyweight.registry.resets",
		metric.WithDescription("Number of registry resets"),
	)
	if err != nil {
		return nil, err
	}

	resetEntries, err := meter.Int64Counter("flyweight.registry.reset_entries",
		metric.WithDescription("Number of entries dropped by resets"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		lookupHits:          lookupHits,
		lookupMisses:        lookupMisses,
		constructionLatency: constructionLatency,
		constructionErrors:  constructionErrors,
		resets:              resets,
		resetEntries:        resetEntries,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordLookup records a lookup outcome.
func (m *otelMetrics) RecordLookup(ctx context.Context, hit bool) {
	if hit {
		m.lookupHits.Add(ctx, 1)
		return
	}
	m.lookupMisses.Add(ctx, 1)
}

// RecordConstruction records a constructor run.
func (m *otelMetrics) RecordConstruction(ctx context.Context, duration time.Duration, err error) {
	m.constructionLatency.Record(ctx, float64(duration.Milliseconds()))
	if err != nil {
		m.constructionErrors.Add(ctx, 1)
	}
}

// RecordReset records a registry reset.
func (m *otelMetrics) RecordReset(ctx context.Context, entries int) {
	m.resets.Add(ctx, 1)
	m.resetEntries.Add(ctx, int64(entries))
}
