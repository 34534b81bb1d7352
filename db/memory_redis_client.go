package db

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryRedisClient keeps keys in process memory. It backs the "memory"
// persistence backend and the DAO tests.
type MemoryRedisClient struct {
	data    map[string]memoryEntry
	mu      sync.RWMutex
	context context.Context
	now     func() time.Time
}

// NewMemoryRedisClient initializes a new MemoryRedisClient.
func NewMemoryRedisClient(ctx context.Context) *MemoryRedisClient {
	return &MemoryRedisClient{
		data:    make(map[string]memoryEntry),
		context: ctx,
		now:     time.Now,
	}
}

// Set stores a key-value pair; ttl 0 keeps it forever.
func (m *MemoryRedisClient) Set(key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = entry
	return nil
}

// Get retrieves a value for a given key. Expired keys are removed.
func (m *MemoryRedisClient) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, exists := m.data[key]
	if exists && m.expired(entry) {
		delete(m.data, key)
		exists = false
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return entry.value, nil
}

func (m *MemoryRedisClient) Del(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys matches glob patterns such as "prefix:*", sorted. Expired keys
// are removed on the way.
func (m *MemoryRedisClient) Keys(pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := []string{}
	for k, entry := range m.data {
		if m.expired(entry) {
			delete(m.data, k)
			continue
		}
		ok, err := path.Match(pattern, k)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryRedisClient) GetContext() context.Context {
	return m.context
}

func (m *MemoryRedisClient) Ping() error {
	return nil
}

func (m *MemoryRedisClient) Close() error {
	return nil
}

func (m *MemoryRedisClient) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt)
}
