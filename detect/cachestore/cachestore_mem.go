package cachestore

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	val       string
	createdAt time.Time
}

// MemCacheStore is an in-process store with time-based eviction. Expired
// entries are dropped lazily on lookup; RunSweeper additionally purges
// everything expired on a fixed interval to bound memory between lookups.
type MemCacheStore struct {
	TTL time.Duration

	mu   sync.RWMutex
	data map[string]memEntry
}

var _ CacheStore = (*MemCacheStore)(nil)

func NewMemCacheStore(ttl time.Duration) *MemCacheStore {
	return &MemCacheStore{
		TTL:  ttl,
		data: make(map[string]memEntry),
	}
}

func memCacheKey(name, key string) string {
	return name + "/" + key
}

func (s *MemCacheStore) Get(ctx context.Context, name, key string) (string, error) {
	k := memCacheKey(name, key)

	s.mu.RLock()
	ent, ok := s.data[k]
	s.mu.RUnlock()
	if !ok {
		return "", nil
	}
	if time.Since(ent.createdAt) >= s.TTL {
		s.mu.Lock()
		// re-check: a concurrent Set may have refreshed the entry
		if cur, ok := s.data[k]; ok && time.Since(cur.createdAt) >= s.TTL {
			delete(s.data, k)
		}
		s.mu.Unlock()
		return "", nil
	}
	return ent.val, nil
}

func (s *MemCacheStore) Set(ctx context.Context, name, key string, val string) error {
	s.mu.Lock()
	s.data[memCacheKey(name, key)] = memEntry{val: val, createdAt: time.Now()}
	s.mu.Unlock()
	return nil
}

func (s *MemCacheStore) Purge(ctx context.Context, name, key string) error {
	s.mu.Lock()
	delete(s.data, memCacheKey(name, key))
	s.mu.Unlock()
	return nil
}

// Sweep removes all expired entries. Returns the number purged.
func (s *MemCacheStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for k, ent := range s.data {
		if time.Since(ent.createdAt) >= s.TTL {
			delete(s.data, k)
			purged++
		}
	}
	return purged
}

// RunSweeper blocks, sweeping on the given interval until ctx is cancelled.
func (s *MemCacheStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
