package flyweight

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/whitfieldr/flyweight/pkg/flyweight/observability"
)

// Constructor builds the value for a key on its first request.
//
// It must deterministically produce a value for the key. Side effects
// such as logging are tolerated but must not be relied on for
// correctness: when callers race on the same key, only one caller's
// constructor runs and there is no guarantee whose.
type Constructor[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Registry is a keyed shared-instance cache. The first Get for a key
// constructs the value and stores it; every later Get for an equal key
// returns that same instance. Entries are never evicted; the only
// clearing operation is Reset.
//
// Constructed values are owned by the registry and shared by all
// callers. Callers must not assume exclusive mutation rights over
// them.
//
// All methods are safe for concurrent use.
type Registry[K comparable, V any] struct {
	id      string
	store   store[K, V]
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	observe func(Event)

	// inflight tracks constructions in progress so racing callers for
	// the same key coalesce onto one constructor run.
	mu       sync.Mutex
	inflight map[K]*call[V]
}

// call is one in-flight construction. Callers that lose the race for
// a key park on done, then read val and err.
type call[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// New creates an empty registry.
func New[K comparable, V any](opts ...Option) *Registry[K, V] {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry[K, V]{
		id:       "reg-" + uuid.New().String()[:8],
		store:    newStore[K, V](cfg.shards),
		logger:   cfg.logger,
		metrics:  cfg.metrics,
		spans:    cfg.spans,
		observe:  cfg.observer,
		inflight: make(map[K]*call[V]),
	}
}

// ID returns the registry's instance identifier, used to correlate
// log records and trace spans from the same registry.
func (r *Registry[K, V]) ID() string {
	return r.id
}

// Get returns the value for key. If no entry exists, constructor runs
// exactly once to produce it, the result is stored, and all callers —
// including any that raced on the same key — observe that same
// instance. If an entry exists, it is returned unchanged and
// constructor is not invoked.
//
// A constructor failure stores nothing: the key stays absent and a
// subsequent Get retries. The failure is returned wrapped in a
// ConstructionError.
//
// Callers waiting on another caller's construction return early with
// ctx.Err() if their context is cancelled; the construction itself is
// not abandoned and its result is still stored.
func (r *Registry[K, V]) Get(ctx context.Context, key K, constructor Constructor[K, V]) (V, error) {
	var zero V
	if ctx == nil {
		return zero, ErrNilContext
	}
	if constructor == nil {
		return zero, ErrNilConstructor
	}

	// Fast path: already constructed.
	if v, ok := r.store.get(key); ok {
		r.reused(ctx, key)
		return v, nil
	}

	r.mu.Lock()
	// Re-check under the inflight lock: a racing caller may have
	// finished between the fast path and here.
	if v, ok := r.store.get(key); ok {
		r.mu.Unlock()
		r.reused(ctx, key)
		return v, nil
	}
	if c, ok := r.inflight[key]; ok {
		r.mu.Unlock()
		select {
		case <-c.done:
			return c.val, c.err
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	c := &call[V]{done: make(chan struct{})}
	r.inflight[key] = c
	r.mu.Unlock()

	// The inflight lock is not held here, so constructions for
	// unrelated keys run in parallel.
	c.val, c.err = r.construct(ctx, key, constructor)

	// The store entry is written inside construct, before the call is
	// removed from inflight. A new caller therefore always sees either
	// the stored value or the in-flight call, never neither.
	r.mu.Lock()
	delete(r.inflight, key)
	r.mu.Unlock()
	close(c.done)

	return c.val, c.err
}

// construct runs the constructor for key, storing the value on
// success. Failures store nothing.
func (r *Registry[K, V]) construct(ctx context.Context, key K, constructor Constructor[K, V]) (V, error) {
	var zero V
	keyText := fmt.Sprint(key)

	r.metrics.RecordLookup(ctx, false)
	observability.LogConstructStart(r.logger, r.id, keyText)

	cctx, span := r.spans.StartConstructSpan(ctx, r.id, keyText)
	start := time.Now()
	v, err := constructor(cctx, key)
	elapsed := time.Since(start)
	r.spans.EndSpanWithError(span, err)
	r.metrics.RecordConstruction(ctx, elapsed, err)

	if err != nil {
		observability.LogConstructError(r.logger, r.id, keyText, err)
		r.emit(Event{Kind: EventFailure, Key: keyText, Duration: elapsed, Err: err})
		return zero, &ConstructionError{Key: keyText, Err: err}
	}

	r.store.set(key, v)
	observability.LogConstructComplete(r.logger, r.id, keyText, float64(elapsed.Milliseconds()))
	r.emit(Event{Kind: EventConstruct, Key: keyText, Duration: elapsed})
	return v, nil
}

// reused records a lookup that returned an existing entry.
func (r *Registry[K, V]) reused(ctx context.Context, key K) {
	r.metrics.RecordLookup(ctx, true)
	if r.logger == nil && r.observe == nil {
		return
	}
	keyText := fmt.Sprint(key)
	observability.LogReuse(r.logger, r.id, keyText)
	r.emit(Event{Kind: EventReuse, Key: keyText})
}

// GetOrCreate returns the value for key, creating it with factory if
// it doesn't exist. Convenience form of Get for constructors that
// cannot fail and need no context.
func (r *Registry[K, V]) GetOrCreate(key K, factory func() V) V {
	if factory == nil {
		panic("flyweight: nil factory")
	}
	v, _ := r.Get(context.Background(), key, func(context.Context, K) (V, error) {
		return factory(), nil
	})
	return v
}

// Peek returns the value for key and whether it exists. It never
// constructs.
func (r *Registry[K, V]) Peek(key K) (V, bool) {
	return r.store.get(key)
}

// Has returns true if a value has been constructed for key.
func (r *Registry[K, V]) Has(key K) bool {
	_, ok := r.store.get(key)
	return ok
}

// Len returns the number of constructed entries.
func (r *Registry[K, V]) Len() int {
	return r.store.len()
}

// Keys returns the keys of all constructed entries.
// The order is not guaranteed.
func (r *Registry[K, V]) Keys() []K {
	return r.store.keys()
}

// Range iterates over a snapshot of the constructed entries. If fn
// returns false, iteration stops. Because Range works on a snapshot,
// Get and Reset may be called during iteration without affecting it.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	for k, v := range r.store.snapshot() {
		if !fn(k, v) {
			return
		}
	}
}

// Reset drops every entry, forcing subsequent Gets to reconstruct.
// It is an operational aid for process or test teardown, not part of
// normal operation. Constructions in flight during Reset complete
// normally and their values are stored afterwards.
func (r *Registry[K, V]) Reset() {
	n := r.store.len()
	r.store.reset()
	r.metrics.RecordReset(context.Background(), n)
	observability.LogReset(r.logger, r.id, n)
	r.emit(Event{Kind: EventReset})
}

func (r *Registry[K, V]) emit(e Event) {
	if r.observe != nil {
		r.observe(e)
	}
}
