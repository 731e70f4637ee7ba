// Package storage provides the persisted key-value adapters behind
// ports.Storage: an in-memory map, a local state file (the browser-storage
// analog) and a Redis backend for shared deployments.
package storage

import (
	"context"
	"sync"

	"github.com/auditax/console/internal/core/domain"
)

// Memory is a process-local Storage; the default for tests and ephemeral
// sessions.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
