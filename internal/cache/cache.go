// Package cache provides the key/value store used for values that are expensive to derive
// from the server (disabled engines, Mroonga catalogs). Entries never expire; a cache lives
// as long as the session that owns it.
package cache

import "sync"

// Cache is a session scoped key/value store
type Cache interface {
	Has(key string) bool
	Get(key string, def any) any
	Set(key string, value any)
}

// Memory is an in-memory Cache safe for concurrent use
type Memory struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{values: map[string]any{}}
}

func (m *Memory) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[key]
	return ok
}

// Get returns the value stored under key, or def when there is none
func (m *Memory) Get(key string, def any) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if value, ok := m.values[key]; ok {
		return value
	}
	return def
}

func (m *Memory) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Remember returns the cached value for key, computing and storing it with fn on a miss.
// A failed fn stores nothing.
func Remember[T any](c Cache, key string, fn func() (T, error)) (T, error) {
	if value, ok := c.Get(key, nil).(T); ok {
		return value, nil
	}
	value, err := fn()
	if err != nil {
		return value, err
	}
	c.Set(key, value)
	return value, nil
}
