// Package cache provides an optional read-through cache for single-record
// lookups. It is never correctness-bearing: every implementation may drop or
// miss entries freely.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

// Key builds a cache key from its parts.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Noop is the default when caching is disabled.
type Noop struct{}

func NewNoop() Noop {
	return Noop{}
}

func (Noop) Get(context.Context, string) ([]byte, bool)             { return nil, false }
func (Noop) Set(context.Context, string, []byte, time.Duration)     {}
func (Noop) Delete(context.Context, ...string)                      {}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process cache used in development and tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
}

func (m *Memory) Delete(_ context.Context, keys ...string) {
	m.mu.Lock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	m.mu.Unlock()
}
