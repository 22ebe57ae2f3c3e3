package services

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Store is the persisted key-value capability behind a booking session.
// Get returns ErrKeyNotFound for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Pruner is implemented by stores that need explicit expiry.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}

const (
	fieldVehicle = "car"
	fieldMode    = "mode"
	fieldCart    = "cart"
)

// stateKeys names the three persisted fields of one session.
type stateKeys struct {
	vehicle, mode, cart string
}

func newStateKeys(namespace, sessionID string) stateKeys {
	k := func(field string) string {
		return fmt.Sprintf("%s:%s:%s", namespace, sessionID, field)
	}
	return stateKeys{vehicle: k(fieldVehicle), mode: k(fieldMode), cart: k(fieldCart)}
}

type memoryEntry struct {
	value     string
	updatedAt time.Time
}

// MemoryStore keeps state for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, updatedAt: m.now()}
	return nil
}

func (m *MemoryStore) Prune(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, e := range m.entries {
		if e.updatedAt.Before(olderThan) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
