package cache

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type expirationEntry struct {
	key       string
	expiresAt time.Time
}

type expirationHeap []expirationEntry

func (h expirationHeap) Len() int {
	return len(h)
}

func (h expirationHeap) Less(i, j int) bool {
	return h[i].expiresAt.Before(h[j].expiresAt)
}

func (h expirationHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *expirationHeap) Push(x any) {
	*h = append(*h, x.(expirationEntry))
}

func (h *expirationHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// MemoryStore stores entries in process memory with per-entry TTLs.
// Expired entries are pruned lazily on access.
type MemoryStore struct {
	Now func() time.Time

	mu          sync.Mutex
	entries     map[string]memoryEntry
	expirations expirationHeap
}

// NewMemoryStore creates an in-process cache store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Get returns the cached value when present and fresh.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	entry, ok := s.entries[key]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores a value until ttl elapses. A non-positive ttl is a delete.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)

	expiresAt := now.Add(ttl)
	s.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	heap.Push(&s.expirations, expirationEntry{key: key, expiresAt: expiresAt})
	return nil
}

// Delete removes a key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) pruneLocked(now time.Time) {
	for s.expirations.Len() > 0 {
		next := s.expirations[0]
		if next.expiresAt.After(now) {
			return
		}
		heap.Pop(&s.expirations)

		// The heap may hold stale records for keys that were overwritten
		// with a later deadline; only drop entries that really expired.
		if entry, ok := s.entries[next.key]; ok && !entry.expiresAt.After(now) {
			delete(s.entries, next.key)
		}
	}
}
