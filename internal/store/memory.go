package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory Store for tests and single-process deployments.
type Memory struct {
	mu    sync.RWMutex
	saves map[string][]byte
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{saves: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[id] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Load(_ context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.saves[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.saves))
	for id := range m.saves {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.saves[id]; !ok {
		return ErrNotFound
	}
	delete(m.saves, id)
	return nil
}
