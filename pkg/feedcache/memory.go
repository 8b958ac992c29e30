package feedcache

import (
	"context"
	"sync"
	"time"
)

// sweepThreshold bounds how many entries accumulate before expired ones are purged.
const sweepThreshold = 1024

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a process-local Cache.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	gen     uint64
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*Memory)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates a cache whose entries live for ttl. A non-positive ttl disables caching.
func NewMemory(ttl time.Duration, opts ...Option) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Fetch(ctx context.Context, key string, build BuildFunc) ([]byte, error) {
	m.mu.Lock()
	gen := m.gen
	if e, ok := m.entries[key]; ok {
		if m.now().Before(e.expiresAt) {
			m.mu.Unlock()
			return e.data, nil
		}
		delete(m.entries, key)
	}
	m.mu.Unlock()

	data, err := build(ctx)
	if err != nil {
		return nil, err
	}

	if m.ttl <= 0 {
		return data, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return data, nil
	}
	if len(m.entries) >= sweepThreshold {
		m.sweepLocked()
	}
	m.entries[key] = entry{data: data, expiresAt: m.now().Add(m.ttl)}

	return data, nil
}

func (m *Memory) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.entries = make(map[string]entry)
	return nil
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) sweepLocked() {
	now := m.now()
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}
