package flyweight

import (
	"hash/maphash"
	"sync"
)

// store is the map behind a Registry. Implementations must be safe
// for concurrent use. The backend is selected once at construction
// time via WithShards and never changes afterwards.
type store[K comparable, V any] interface {
	get(key K) (V, bool)
	set(key K, value V)
	len() int
	keys() []K
	snapshot() map[K]V
	reset()
}

// newStore selects the backend for the given shard count. One shard
// serializes all keys through a single lock; more shards let callers
// on different keys proceed without contending.
func newStore[K comparable, V any](shards int) store[K, V] {
	if shards <= 1 {
		return newLockedStore[K, V]()
	}
	return newShardedStore[K, V](shards)
}

// lockedStore guards a single map with one RWMutex.
type lockedStore[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

func newLockedStore[K comparable, V any]() *lockedStore[K, V] {
	return &lockedStore[K, V]{entries: make(map[K]V)}
}

func (s *lockedStore[K, V]) get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

func (s *lockedStore[K, V]) set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

func (s *lockedStore[K, V]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *lockedStore[K, V]) keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]K, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

func (s *lockedStore[K, V]) snapshot() map[K]V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[K]V, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *lockedStore[K, V]) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[K]V)
}

// shardedStore splits entries across independently locked sub-stores
// so lookups for different keys rarely contend. The shard for a key
// is stable for the store's lifetime.
type shardedStore[K comparable, V any] struct {
	seed   maphash.Seed
	shards []*lockedStore[K, V]
}

func newShardedStore[K comparable, V any](n int) *shardedStore[K, V] {
	// Power-of-two shard counts keep the index computation a mask.
	n = nextPowerOfTwo(n)
	shards := make([]*lockedStore[K, V], n)
	for i := range shards {
		shards[i] = newLockedStore[K, V]()
	}
	return &shardedStore[K, V]{
		seed:   maphash.MakeSeed(),
		shards: shards,
	}
}

func (s *shardedStore[K, V]) shard(key K) *lockedStore[K, V] {
	return s.shards[maphash.Comparable(s.seed, key)&uint64(len(s.shards)-1)]
}

func (s *shardedStore[K, V]) get(key K) (V, bool) {
	return s.shard(key).get(key)
}

func (s *shardedStore[K, V]) set(key K, value V) {
	s.shard(key).set(key, value)
}

func (s *shardedStore[K, V]) len() int {
	total := 0
	for _, sh := range s.shards {
		total += sh.len()
	}
	return total
}

func (s *shardedStore[K, V]) keys() []K {
	var keys []K
	for _, sh := range s.shards {
		keys = append(keys, sh.keys()...)
	}
	return keys
}

func (s *shardedStore[K, V]) snapshot() map[K]V {
	out := make(map[K]V, s.len())
	for _, sh := range s.shards {
		for k, v := range sh.snapshot() {
			out[k] = v
		}
	}
	return out
}

func (s *shardedStore[K, V]) reset() {
	for _, sh := range s.shards {
		sh.reset()
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
