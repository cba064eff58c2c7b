package flyweight

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitfieldr/flyweight/pkg/flyweight/observability"
)

func TestDefaultRegistryConfig(t *testing.T) {
	cfg := defaultRegistryConfig()

	assert.Equal(t, 1, cfg.shards)
	assert.Nil(t, cfg.logger)
	assert.IsType(t, observability.NoopMetrics{}, cfg.metrics)
	assert.IsType(t, observability.NoopSpanManager{}, cfg.spans)
	assert.Nil(t, cfg.observer)
}

func TestWithShards(t *testing.T) {
	r := New[string, int](WithShards(8))
	assert.IsType(t, &shardedStore[string, int]{}, r.store)

	// Zero and negatives keep the default single lock.
	r = New[string, int](WithShards(0))
	assert.IsType(t, &lockedStore[string, int]{}, r.store)

	r = New[string, int](WithShards(-3))
	assert.IsType(t, &lockedStore[string, int]{}, r.store)
}

func TestWithMetricsIgnoresNil(t *testing.T) {
	cfg := defaultRegistryConfig()
	WithMetrics(nil)(&cfg)
	assert.IsType(t, observability.NoopMetrics{}, cfg.metrics)
}

func TestWithSpansIgnoresNil(t *testing.T) {
	cfg := defaultRegistryConfig()
	WithSpans(nil)(&cfg)
	assert.IsType(t, observability.NoopSpanManager{}, cfg.spans)
}

func TestWithLoggerEmitsRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := New[string, int](WithLogger(logger))

	_, err := r.Get(context.Background(), "alice", func(context.Context, string) (int, error) {
		return 1, nil
	})
	require.NoError(t, err)
	_, err = r.Get(context.Background(), "alice", func(context.Context, string) (int, error) {
		return 2, nil
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "constructing value")
	assert.Contains(t, out, "value constructed")
	assert.Contains(t, out, "value reused")
	assert.Contains(t, out, "key=alice")
	assert.Contains(t, out, r.ID())

	buf.Reset()
	r.Reset()
	assert.Contains(t, buf.String(), "registry reset")
	assert.True(t, strings.Contains(buf.String(), "entries_dropped=1"))
}
