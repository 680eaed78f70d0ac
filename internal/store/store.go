// Package store persists the session on the device: the bearer token, the
// cached session user, and the theme preference.
package store

import (
	"context"
	"sync"
)

// Keys of the persisted session values. They are purged together.
const (
	KeyToken = "userToken"
	KeyUser  = "user"
	KeyTheme = "theme"
)

// SessionKeys lists every key purged on logout or a failed bootstrap.
var SessionKeys = []string{KeyToken, KeyUser, KeyTheme}

// KV is a durable string key-value store.
type KV interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Memory is an in-process KV, used in tests and when no data directory is
// available.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get implements KV.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements KV.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Delete implements KV.
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Close implements KV.
func (m *Memory) Close() error { return nil }
