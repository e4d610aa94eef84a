package engagement

import (
	"context"
	"fmt"

	"github.com/example/movie-catalog/internal/catalog"
	"github.com/example/movie-catalog/internal/trending"
	"github.com/example/movie-catalog/internal/users"
)

// Derived state is always rebuilt from the full review set rather than
// patched incrementally, so a missed or doubled update heals on the next
// recomputation.

// MovieAggregateUpdater rewrites a movie's average rating and rating count
// from its reviews.
type MovieAggregateUpdater struct {
	reviews Store
	movies  catalog.Store
}

func NewMovieAggregateUpdater(reviews Store, movies catalog.Store) *MovieAggregateUpdater {
	return &MovieAggregateUpdater{reviews: reviews, movies: movies}
}

func (u *MovieAggregateUpdater) Recompute(ctx context.Context, movieID string) error {
	list, err := u.reviews.ListByMovie(ctx, movieID)
	if err != nil {
		return fmt.Errorf("movie aggregates %s: %w", movieID, err)
	}
	avg := 0.0
	if len(list) > 0 {
		sum := 0.0
		for _, r := range list {
			sum += r.Rating
		}
		avg = sum / float64(len(list))
	}
	if err := u.movies.SetAggregates(ctx, movieID, avg, len(list)); err != nil {
		return fmt.Errorf("movie aggregates %s: %w", movieID, err)
	}
	return nil
}

// TrendingScorer rewrites a movie's trending weight. It reads the movie's
// aggregates, so it must run after MovieAggregateUpdater.
type TrendingScorer struct {
	reviews  Store
	movies   catalog.Store
	trending trending.Store
}

func NewTrendingScorer(reviews Store, movies catalog.Store, tr trending.Store) *TrendingScorer {
	return &TrendingScorer{reviews: reviews, movies: movies, trending: tr}
}

func (s *TrendingScorer) Recompute(ctx context.Context, movieID string) error {
	m, err := s.movies.Get(ctx, movieID)
	if err != nil {
		return fmt.Errorf("trending weight %s: %w", movieID, err)
	}
	list, err := s.reviews.ListByMovie(ctx, movieID)
	if err != nil {
		return fmt.Errorf("trending weight %s: %w", movieID, err)
	}
	totalLikes := 0
	for _, r := range list {
		totalLikes += r.LikeCount()
	}
	weight := m.AverageRating*10 + float64(m.RatingsCount)*2 + float64(totalLikes)
	if err := s.trending.Upsert(ctx, movieID, weight); err != nil {
		return fmt.Errorf("trending weight %s: %w", movieID, err)
	}
	return nil
}

// UserEngagementScorer rewrites a user's engagement score: likes received
// plus comments received on the user's reviews, plus the review count.
type UserEngagementScorer struct {
	reviews Store
	users   users.Store
}

func NewUserEngagementScorer(reviews Store, us users.Store) *UserEngagementScorer {
	return &UserEngagementScorer{reviews: reviews, users: us}
}

func (s *UserEngagementScorer) Recompute(ctx context.Context, userID string) error {
	list, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("engagement score %s: %w", userID, err)
	}
	score := len(list)
	for _, r := range list {
		score += r.LikeCount() + r.CommentCount()
	}
	if err := s.users.SetEngagementScore(ctx, userID, score); err != nil {
		return fmt.Errorf("engagement score %s: %w", userID, err)
	}
	return nil
}
