// Package cache stores normalized message text so repeated runs over the
// same corpus skip the normalization pipeline.
package cache

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrUnknownBackend is returned by New for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Cache is a string key/value store for normalized text
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Reset(ctx context.Context) error
	Close() error
}

// Memory is an in-process cache
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-process cache
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns a cached value
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores a value
func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

// SetMany stores every value under one lock
func (m *Memory) SetMany(ctx context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range values {
		m.data[key] = value
	}
	return nil
}

// Reset drops every entry
func (m *Memory) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string]string)
	return nil
}

// Len returns the number of cached entries
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Close releases nothing; it exists to satisfy Cache
func (m *Memory) Close() error {
	return nil
}

// New creates the cache selected by backend. A "none" backend returns a nil
// Cache, which callers treat as caching disabled.
func New(backend string, redisConfig *RedisConfig) (Cache, error) {
	switch backend {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemory(), nil
	case "redis":
		r, err := NewRedis(redisConfig)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, errors.Wrapf(ErrUnknownBackend, "%q", backend)
}

var (
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
)
