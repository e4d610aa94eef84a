package engagement

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore is a development-only in-memory implementation. It also
// serves as the fixture for service and handler tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	reviews map[string]Review // review id -> review
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{reviews: make(map[string]Review)}
}

func (s *InMemoryStore) GetByID(_ context.Context, reviewID string) (Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[reviewID]
	if !ok {
		return Review{}, ErrNotFound
	}
	return cloneReview(r), nil
}

func (s *InMemoryStore) GetByPair(_ context.Context, movieID, userID string) (Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reviews {
		if r.MovieID == movieID && r.UserID == userID {
			return cloneReview(r), nil
		}
	}
	return Review{}, ErrNotFound
}

func (s *InMemoryStore) ListByMovie(_ context.Context, movieID string) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listWhere(func(r Review) bool { return r.MovieID == movieID }), nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listWhere(func(r Review) bool { return r.UserID == userID }), nil
}

func (s *InMemoryStore) Insert(_ context.Context, r Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[r.ID] = cloneReview(r)
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, r Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[r.ID]; !ok {
		return ErrNotFound
	}
	s.reviews[r.ID] = cloneReview(r)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, movieID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.reviews {
		if r.MovieID == movieID && r.UserID == userID {
			delete(s.reviews, id)
			return nil
		}
	}
	return ErrNotFound
}

// listWhere returns matching reviews ordered oldest first, stable across
// calls. Callers must hold at least the read lock.
func (s *InMemoryStore) listWhere(match func(Review) bool) []Review {
	out := []Review{}
	for _, r := range s.reviews {
		if match(r) {
			out = append(out, cloneReview(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// cloneReview copies the slices so callers cannot mutate stored state.
func cloneReview(r Review) Review {
	if r.Likes != nil {
		r.Likes = append([]string(nil), r.Likes...)
	}
	if r.Comments != nil {
		r.Comments = append([]Comment(nil), r.Comments...)
	}
	return r
}
