package contextstore

import (
	"sync"
	"time"
)

// Store is key-value memory used to pass prior step results into later
// workflow steps
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Has(key string) bool
}

// MemoryConfig tunes the in-memory store's eviction policy. Zero values
// disable the respective limit.
type MemoryConfig struct {
	MaxEntries int
	TTL        time.Duration
}

type memoryEntry struct {
	value interface{}
	setAt time.Time
}

// MemoryStore is a mutex-guarded in-memory store. Entries are evicted
// oldest-first once MaxEntries is reached, and lazily expired after TTL, so
// a long-lived server session cannot grow without bound.
type MemoryStore struct {
	mu      sync.Mutex
	config  MemoryConfig
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates a new in-memory context store
func NewMemoryStore(config MemoryConfig) *MemoryStore {
	return &MemoryStore{
		config:  config,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the value stored under key, expiring it first if stale
func (s *MemoryStore) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.config.TTL > 0 && s.now().Sub(entry.setAt) > s.config.TTL {
		delete(s.entries, key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key, overwriting any prior value
func (s *MemoryStore) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && s.config.MaxEntries > 0 && len(s.entries) >= s.config.MaxEntries {
		s.evictOldest()
	}
	s.entries[key] = memoryEntry{value: value, setAt: s.now()}
}

// Has reports whether a live entry exists under key
func (s *MemoryStore) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Len returns the number of entries currently held
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// evictOldest removes the entry with the oldest write time. Caller holds the
// lock.
func (s *MemoryStore) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, entry := range s.entries {
		if first || entry.setAt.Before(oldest) {
			oldestKey = key
			oldest = entry.setAt
			first = false
		}
	}
	if !first {
		delete(s.entries, oldestKey)
	}
}
