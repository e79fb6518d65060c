package mocks

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SergeiKhy/shop-directory/internal/repository"
)

var _ repository.CacheRepository = (*MockCacheRepository)(nil)

// MockCacheRepository implements repository.CacheRepository for testing
type MockCacheRepository struct {
	mu    sync.RWMutex
	cache map[string][]byte

	// Err, if set, is returned by every call (Redis unavailable).
	Err error
	// BeforeSet, if set, runs at the start of every Set, outside the lock.
	BeforeSet func(key string)
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string, dest any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.Err != nil {
		return m.Err
	}

	data, exists := m.cache[key]
	if !exists {
		return repository.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if m.BeforeSet != nil {
		m.BeforeSet(key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.cache[key] = data
	return nil
}

func (m *MockCacheRepository) DeletePrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	for key := range m.cache {
		if strings.HasPrefix(key, prefix) {
			delete(m.cache, key)
		}
	}
	return nil
}

func (m *MockCacheRepository) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}

	var n int64
	if data, ok := m.cache[key]; ok {
		if err := json.Unmarshal(data, &n); err != nil {
			return 0, err
		}
	}
	n++
	m.cache[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

// Has reports whether key is currently cached.
func (m *MockCacheRepository) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cache[key]
	return ok
}

func (m *MockCacheRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}
