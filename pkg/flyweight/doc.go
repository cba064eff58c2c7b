/*
Package flyweight provides a keyed shared-instance registry.

# Overview

flyweight deduplicates expensive values: the first Get for a key runs
the supplied constructor, stores the result, and returns it; every
later Get for an equal key returns the identical instance without
constructing again. The guarantee is identity stability, not value
equality — all callers holding the same key share one instance.

The registry is an explicit object created by the composing
application and passed where it is needed. There is no package-level
global and no hidden process-wide slot.

# Basic Usage

Create a registry and look values up by key:

	profiles := flyweight.New[string, *Profile]()

	p, err := profiles.Get(ctx, "alice", loadProfile)
	if err != nil {
	    log.Fatal(err)
	}

	// Second lookup returns the same *Profile; loadProfile does not run.
	again, _ := profiles.Get(ctx, "alice", loadProfile)
	fmt.Println(p == again) // true

Constructed values are owned by the registry and shared by every
caller. Treat them as immutable after construction.

# Construction Failures

If the constructor returns an error, nothing is stored for the key.
The error reaches the caller wrapped in a ConstructionError, and a
later Get for the same key retries construction from scratch:

	_, err := images.Get(ctx, "hero.png", fetch) // fetch fails
	// errors.Is(err, flyweight.ErrConstructionFailed) == true

	img, err := images.Get(ctx, "hero.png", fetch) // retries

# Concurrency

All methods are safe for concurrent use. When several goroutines race
Get on the same unconstructed key, exactly one constructor runs; the
others wait and observe its result. The registry never holds its map
lock across a constructor call, so constructions for unrelated keys
proceed in parallel. A waiting caller honors its context: if the
context is cancelled while parked, Get returns the context error, but
the in-flight construction still completes and is stored.

# Backends

The map behind a registry is chosen once at construction time. The
default is a single RWMutex-guarded map. Under heavy concurrent load,
WithShards splits the map into independently locked shards so callers
on different keys do not contend:

	assets := flyweight.New[string, *Asset](flyweight.WithShards(16))

# Observability

Logging, metrics, and tracing are opt-in via options and default to
no-ops:

	reg := flyweight.New[string, *Session](
	    flyweight.WithLogger(slog.Default()),
	    flyweight.WithMetrics(observability.NewMetricsRecorder()),
	    flyweight.WithSpans(observability.NewSpanManager()),
	)

WithObserver registers a synchronous callback that receives an Event
for every construction, reuse, failure, and reset.
*/
package flyweight
