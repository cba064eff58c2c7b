package flyweight

import (
	"github.com/whitfieldr/flyweight/pkg/flyweight/config"
	"github.com/whitfieldr/flyweight/pkg/flyweight/observability"
)

// FromConfig translates a loaded configuration into registry options.
//
// Recognized keys:
//   - shards (int): map shard count, default 1
//   - metrics (bool): enable OpenTelemetry metrics, default false
//   - tracing (bool): enable OpenTelemetry construction spans, default false
//
// Example:
//
//	cfg, err := config.FromFile("registry.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reg := flyweight.New[string, *Asset](flyweight.FromConfig(cfg)...)
func FromConfig(cfg config.Config) []Option {
	opts := []Option{WithShards(cfg.Int("shards", 1))}
	if cfg.Bool("metrics", false) {
		opts = append(opts, WithMetrics(observability.NewMetricsRecorder()))
	}
	if cfg.Bool("tracing", false) {
		opts = append(opts, WithSpans(observability.NewSpanManager()))
	}
	return opts
}
