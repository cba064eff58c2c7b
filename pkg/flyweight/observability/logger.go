// Package observability provides structured logging, metrics, and
// tracing for flyweight registries.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds registry context to a logger.
// Returns a new logger with registry_id and key fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "reg-a1b2c3d4", "alice")
//	enriched.Info("loading") // includes registry_id, key
func EnrichLogger(logger *slog.Logger, registryID, key string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("registry_id", registryID),
		slog.String("key", key),
	)
}

// LogConstructStart logs the start of a value construction.
func LogConstructStart(logger *slog.Logger, registryID, key string) {
	if logger == nil {
		return
	}
	logger.Info("constructing value",
		slog.String("registry_id", registryID),
		slog.String("key", key),
	)
}

// LogConstructComplete logs a successful construction.
func LogConstructComplete(logger *slog.Logger, registryID, key string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("value constructed",
		slog.String("registry_id", registryID),
		slog.String("key", key),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogConstructError logs a construction failure. Nothing is stored
// for the key, so the failure is visible only here and to the caller.
func LogConstructError(logger *slog.Logger, registryID, key string, err error) {
	if logger == nil {
		return
	}
	logger.Error("construction failed",
		slog.String("registry_id", registryID),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}

// LogReuse logs a lookup that returned an existing value.
func LogReuse(logger *slog.Logger, registryID, key string) {
	if logger == nil {
		return
	}
	logger.Debug("value reused",
		slog.String("registry_id", registryID),
		slog.String("key", key),
	)
}

// LogReset logs a registry reset and how many entries it dropped.
func LogReset(logger *slog.Logger, registryID string, entries int) {
	if logger == nil {
		return
	}
	logger.Info("registry reset",
		slog.String("registry_id", registryID),
		slog.Int("entries_dropped", entries),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
