package trending

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryStore is a development-only in-memory implementation.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[string]Entry)}
}

func (s *InMemoryStore) Upsert(_ context.Context, movieID string, weight float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[movieID] = Entry{MovieID: movieID, Weight: weight, UpdatedAt: time.Now().UTC()}
	return nil
}

func (s *InMemoryStore) Top(_ context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].MovieID < out[j].MovieID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
