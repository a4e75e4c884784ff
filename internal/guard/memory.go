package guard

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	title string
	at    time.Time
}

// MemoryStore keeps titles in process memory. Entries expire after ttl when
// ttl is positive.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Claim(ctx context.Context, clientIP, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if entry, ok := s.entries[clientIP]; ok && entry.title == title && !s.expired(entry, now) {
		return false, nil
	}
	s.entries[clientIP] = memoryEntry{title: title, at: now}
	return true, nil
}

func (s *MemoryStore) expired(entry memoryEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.at) >= s.ttl
}

// NoopStore never remembers anything.
type NoopStore struct{}

func (NoopStore) Claim(context.Context, string, string) (bool, error) { return true, nil }

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = NoopStore{}
)
