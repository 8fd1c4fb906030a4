package storage

import (
	"context"
	"sync"
)

// Memory keeps values for the lifetime of the process.
type Memory struct {
	mu     sync.Mutex
	values map[Key]string
	// reason is set when this store stands in for one that failed to open.
	reason error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[Key]string)}
}

// Degraded returns why the store is a fallback, or nil.
func (m *Memory) Degraded() error { return m.reason }

func (m *Memory) Get(_ context.Context, key Key) (string, bool, error) {
	if err := checkKey("get", key); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key Key, value string) error {
	if err := checkKey("set", key); err != nil {
		return err
	}
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(_ context.Context, key Key) error {
	if err := checkKey("remove", key); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	clear(m.values)
	m.mu.Unlock()
	return nil
}
