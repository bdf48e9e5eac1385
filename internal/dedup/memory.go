package dedup

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// compactThreshold caps the marker map. Once exceeded, expired entries are
// swept during the next mark.
const compactThreshold = 10000

// MemoryStore is the in-process Store implementation, used when no Redis
// URL is configured. Dedup history does not survive restarts; after a
// restart every event looks new again.
type MemoryStore struct {
	mu    sync.Mutex
	marks map[string]time.Time // id -> expiry
	clock clockwork.Clock
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		marks: make(map[string]time.Time),
		clock: clockwork.NewRealClock(),
	}
}

func (s *MemoryStore) CheckAndMark(_ context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if expiry, ok := s.marks[id]; ok && now.Before(expiry) {
		return false, nil
	}
	s.marks[id] = now.Add(ttl)
	if len(s.marks) > compactThreshold {
		s.compact(now)
	}
	return true, nil
}

// compact removes expired markers. Caller holds the lock.
func (s *MemoryStore) compact(now time.Time) {
	for id, expiry := range s.marks {
		if !now.Before(expiry) {
			delete(s.marks, id)
		}
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
