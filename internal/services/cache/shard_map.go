// Package cache implements the read-through cache layer sitting in front of
// the storage pipeline's UpdatableDao.
package cache

import (
	"hash/fnv"
	"sync"
)

const shardCount = 32

// shardedMap is a concurrent string-keyed map partitioned into independent
// mutex-guarded shards, the idiomatic Go substitute for the teacher's
// reliance on a concurrent map primitive where the original used one.
type shardedMap[V any] struct {
	shards [shardCount]*shard[V]
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

func newShardedMap[V any]() *shardedMap[V] {
	m := &shardedMap[V]{}
	for i := range m.shards {
		m.shards[i] = &shard[V]{items: make(map[string]V)}
	}

	return m
}

func (m *shardedMap[V]) shardFor(key string) *shard[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))

	return m.shards[h.Sum32()%shardCount]
}

func (m *shardedMap[V]) Get(key string) (V, bool) {
	s := m.shardFor(key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]

	return v, ok
}

// Upsert inserts value if key is absent, or replaces the existing entry iff
// replace(old, value) reports true. Returns the value now stored for key.
func (m *shardedMap[V]) Upsert(key string, value V, replace func(old, candidate V) bool) V {
	s := m.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.items[key]
	if !ok || replace(old, value) {
		s.items[key] = value

		return value
	}

	return old
}

// RemoveIf deletes key iff it is present and matches(current) reports true.
func (m *shardedMap[V]) RemoveIf(key string, matches func(current V) bool) {
	s := m.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.items[key]; ok && matches(current) {
		delete(s.items, key)
	}
}

func (m *shardedMap[V]) Clear() {
	for _, s := range m.shards {
		s.mu.Lock()
		s.items = make(map[string]V)
		s.mu.Unlock()
	}
}
