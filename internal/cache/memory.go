package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemorySize bounds the number of keys a Memory cache keeps.
const DefaultMemorySize = 1024

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Memory is a process-local Cache backed by a bounded LRU.
// Expiry is tracked per key against the cache clock; the LRU itself never expires entries.
type Memory struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

// NewMemory creates an empty in-process cache holding up to DefaultMemorySize keys.
func NewMemory() *Memory {
	return NewMemorySize(DefaultMemorySize)
}

// NewMemorySize creates an empty in-process cache holding up to size keys.
func NewMemorySize(size int) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &Memory{lru: expirable.NewLRU[string, memoryEntry](size, nil, 0), now: time.Now}
}

// WithClock replaces the time source. Call it before the cache is shared.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	e, ok := m.lru.Get(key)
	if !ok {
		return false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.lru.Remove(key)
		return false, nil
	}
	if err := json.Unmarshal(e.value, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := memoryEntry{value: b}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.lru.Add(key, e)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}

// Len reports the number of keys held, including ones past their ttl that were not read yet.
func (m *Memory) Len() int {
	return m.lru.Len()
}
