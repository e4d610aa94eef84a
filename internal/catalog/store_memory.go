package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is a development-only in-memory implementation.
type InMemoryStore struct {
	mu     sync.RWMutex
	movies map[string]Movie
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{movies: make(map[string]Movie)}
}

func (s *InMemoryStore) Create(_ context.Context, m Movie) (Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	m.AverageRating = 0
	m.RatingsCount = 0
	s.movies[m.ID] = m
	return m, nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movies[id]
	if !ok {
		return Movie{}, ErrNotFound
	}
	return m, nil
}

func (s *InMemoryStore) SetAggregates(_ context.Context, id string, avg float64, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[id]
	if !ok {
		return ErrNotFound
	}
	m.AverageRating = avg
	m.RatingsCount = count
	m.UpdatedAt = time.Now().UTC()
	s.movies[id] = m
	return nil
}

func (s *InMemoryStore) TopRated(_ context.Context, limit int) ([]Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
