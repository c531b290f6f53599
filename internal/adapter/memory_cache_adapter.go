package adapter

import (
	"context"
	"sync"
	"time"

	"mcq-generator/internal/domain"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryCacheAdapter implements domain.Cache in process memory.
// It is used when no Redis address is configured. Expired entries are
// dropped lazily on access and periodically by a sweeper goroutine.
type MemoryCacheAdapter struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryCacheAdapter creates an in-memory cache. A positive sweepInterval
// starts a background sweeper; call Close to stop it.
func NewMemoryCacheAdapter(sweepInterval time.Duration) *MemoryCacheAdapter {
	m := &MemoryCacheAdapter{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go m.sweep(sweepInterval)
	}
	return m
}

func (m *MemoryCacheAdapter) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	if entry.expired(m.now()) {
		delete(m.entries, key)
		return "", domain.ErrCacheMiss
	}
	return entry.value, nil
}

func (m *MemoryCacheAdapter) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{value: value, expiresAt: m.deadline(expiration)}
	return nil
}

func (m *MemoryCacheAdapter) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *MemoryCacheAdapter) Ping(_ context.Context) error {
	return nil
}

// Expire has no effect on missing keys, matching Redis.
func (m *MemoryCacheAdapter) Expire(_ context.Context, key string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || entry.expired(m.now()) {
		return nil
	}
	entry.expiresAt = m.deadline(expiration)
	m.entries[key] = entry
	return nil
}

// Len returns the number of live entries.
func (m *MemoryCacheAdapter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictExpiredLocked()
	return len(m.entries)
}

// Close stops the sweeper. It is safe to call more than once.
func (m *MemoryCacheAdapter) Close() {
	m.once.Do(func() { close(m.stop) })
}

func (m *MemoryCacheAdapter) deadline(expiration time.Duration) time.Time {
	if expiration <= 0 {
		return time.Time{}
	}
	return m.now().Add(expiration)
}

func (m *MemoryCacheAdapter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.evictExpiredLocked()
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

func (m *MemoryCacheAdapter) evictExpiredLocked() {
	now := m.now()
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
		}
	}
}

var _ domain.Cache = (*MemoryCacheAdapter)(nil)
