package store

import (
	"sync"

	"github.com/tidwall/btree"
)

// Memory is an in-process Store. Keys are kept ordered.
type Memory struct {
	mu   sync.RWMutex
	data *btree.Map[string, string]
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: btree.NewMap[string, string](0)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data.Get(key)
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.Set(key, value)
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.Delete(key)
	return nil
}

// Keys returns every key in order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.Keys()
}

func (m *Memory) Close() error { return nil }
