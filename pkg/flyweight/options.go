package flyweight

import (
	"log/slog"

	"github.com/whitfieldr/flyweight/pkg/flyweight/observability"
)

// registryConfig holds construction-time configuration for a Registry.
type registryConfig struct {
	shards   int
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	observer func(Event)
}

// defaultRegistryConfig returns the default configuration: a single
// locked map and no-op observability.
func defaultRegistryConfig() registryConfig {
	return registryConfig{
		shards:  1,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures a Registry at construction time.
type Option func(*registryConfig)

// WithShards sets the number of map shards.
// Default: 1 (a single lock serializes all keys)
//
// Counts above 1 are rounded up to the next power of two. Sharding
// only reduces lock contention on lookups; constructions for
// different keys already run in parallel regardless of shard count.
//
// Example:
//
//	reg := flyweight.New[string, *Asset](flyweight.WithShards(16))
func WithShards(n int) Option {
	return func(c *registryConfig) {
		if n > 0 {
			c.shards = n
		}
	}
}

// WithLogger attaches a structured logger. The registry logs
// constructions at info level and reuse at debug level.
// Default: nil (no logging)
func WithLogger(logger *slog.Logger) Option {
	return func(c *registryConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *registryConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpans sets the span manager used to trace constructions.
// Default: observability.NoopSpanManager
func WithSpans(m observability.SpanManager) Option {
	return func(c *registryConfig) {
		if m != nil {
			c.spans = m
		}
	}
}

// WithObserver registers a callback invoked synchronously for every
// registry event: construction, reuse, failure, reset. The callback
// must be safe for concurrent use and should return quickly, since it
// runs on the calling goroutine.
// Default: nil (no observer)
func WithObserver(fn func(Event)) Option {
	return func(c *registryConfig) {
		c.observer = fn
	}
}
