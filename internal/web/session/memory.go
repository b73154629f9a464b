package session

import (
	"sync"
	"time"
)

// MemoryStorage is an in-process session storage backend. It backs the
// sqlite driver and development mode, where no external store is available.
// Expired entries are dropped lazily on read.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStorage creates an empty in-process storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves the value for a key, or nil when absent or expired.
func (m *MemoryStorage) Get(key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		_ = m.Delete(key)
		return nil, nil
	}

	return entry.value, nil
}

// Set stores a value under a key. A zero expiry keeps it forever.
func (m *MemoryStorage) Set(key string, val []byte, exp time.Duration) error {
	entry := memoryEntry{value: val}
	if exp > 0 {
		entry.expiresAt = time.Now().Add(exp)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()

	return nil
}

// Delete removes a key.
func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()

	return nil
}

// Reset removes all keys.
func (m *MemoryStorage) Reset() error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()

	return nil
}

// Close releases nothing; the backend lives in process memory.
func (m *MemoryStorage) Close() error {
	return nil
}
