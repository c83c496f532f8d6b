package compat

import (
	"sync"

	"github.com/okian/outfit/pkg/metrics"
)

// Cache names, also used as metric labels.
const (
	cacheCompatible = "compatible"
	cacheFiltered   = "filtered"
)

// memo is a keyed result cache without eviction. Its size is bounded by the
// distinct partial combinations queried against one catalog snapshot, and it is
// discarded together with the engine that owns it.
type memo[V any] struct {
	name    string
	mu      sync.RWMutex
	entries map[string]V
}

func newMemo[V any](name string) *memo[V] {
	return &memo[V]{name: name, entries: make(map[string]V)}
}

// getOrCompute returns the cached value for key, computing and storing it on a miss.
func (m *memo[V]) getOrCompute(key string, compute func() V) V {
	m.mu.RLock()
	v, ok := m.entries[key]
	m.mu.RUnlock()
	if ok {
		metrics.RecordCacheHit(m.name)
		return v
	}
	metrics.RecordCacheMiss(m.name)

	v = compute()

	m.mu.Lock()
	if existing, ok := m.entries[key]; ok {
		v = existing
	} else {
		m.entries[key] = v
	}
	size := len(m.entries)
	m.mu.Unlock()

	metrics.UpdateCacheEntries(m.name, size)
	return v
}

func (m *memo[V]) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
