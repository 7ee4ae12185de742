package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is a process-local Cache used when no Redis address is
// configured, and in tests.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryItem
}

type memoryItem struct {
	value     string
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryItem)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return "", false
	}
	if time.Now().After(item.expiresAt) {
		delete(m.items, key)
		return "", false
	}
	return item.value, true
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = memoryItem{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Size returns the number of entries, counting expired ones not yet evicted.
func (m *MemoryCache) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
