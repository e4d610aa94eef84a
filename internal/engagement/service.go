package engagement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/movie-catalog/internal/catalog"
	"github.com/example/movie-catalog/internal/platform/analytics"
	"github.com/example/movie-catalog/internal/platform/locks"
	"github.com/example/movie-catalog/internal/trending"
	"github.com/example/movie-catalog/internal/users"
)

// Service orchestrates every mutation of the review set and keeps the
// derived state (movie aggregates, trending weights, engagement scores)
// consistent with it. Recomputation failures are logged, never returned:
// the primary write wins, and the next mutation or a worker-triggered
// recompute self-corrects.
type Service struct {
	reviews   Store
	movies    catalog.Store
	users     users.Store
	trending  trending.Store
	updater   *MovieAggregateUpdater
	scorer    *TrendingScorer
	engScorer *UserEngagementScorer
	locks     *locks.Keyed
	events    *analytics.Publisher
	log       *zap.Logger
}

func NewService(reviews Store, movies catalog.Store, us users.Store, tr trending.Store, events *analytics.Publisher, log *zap.Logger) *Service {
	return &Service{
		reviews:   reviews,
		movies:    movies,
		users:     us,
		trending:  tr,
		updater:   NewMovieAggregateUpdater(reviews, movies),
		scorer:    NewTrendingScorer(reviews, movies, tr),
		engScorer: NewUserEngagementScorer(reviews, us),
		locks:     locks.NewKeyed(),
		events:    events,
		log:       log,
	}
}

// SubmitRating creates or overwrites the review for (userID, movieID).
// A nil rating is only valid together with non-empty review text per the
// request shape, but the model requires a rating whenever text is present,
// so in practice every stored review carries a rating.
func (s *Service) SubmitRating(ctx context.Context, userID, movieID string, rating *float64, text string) (Review, error) {
	text = strings.TrimSpace(text)
	if rating == nil && text == "" {
		return Review{}, fmt.Errorf("%w: a rating or review text is required", ErrInvalidInput)
	}
	if text != "" && rating == nil {
		return Review{}, fmt.Errorf("%w: a review requires a rating", ErrInvalidInput)
	}
	if *rating < 0 || *rating > 5 {
		return Review{}, fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidInput)
	}
	if _, err := s.movies.Get(ctx, movieID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Review{}, fmt.Errorf("%w: movie %s", ErrNotFound, movieID)
		}
		return Review{}, err
	}

	now := time.Now().UTC()
	rv, err := s.reviews.GetByPair(ctx, movieID, userID)
	switch {
	case err == nil:
		rv.Rating = *rating
		rv.Text = text
		rv.UpdatedAt = now
		if err := s.reviews.Update(ctx, rv); err != nil {
			return Review{}, err
		}
	case errors.Is(err, ErrNotFound):
		rv = Review{
			ID:        uuid.NewString(),
			MovieID:   movieID,
			UserID:    userID,
			Rating:    *rating,
			Text:      text,
			Likes:     []string{},
			Comments:  []Comment{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.reviews.Insert(ctx, rv); err != nil {
			return Review{}, err
		}
	default:
		return Review{}, err
	}

	s.RecomputeMovie(ctx, movieID)
	s.RecomputeUser(ctx, userID)
	s.events.Publish(analytics.SubjectRatingSubmitted, "rating_submitted", userID,
		map[string]any{"movie_id": movieID, "rating": *rating})
	return rv, nil
}

// DeleteRating removes the review for (userID, movieID).
func (s *Service) DeleteRating(ctx context.Context, userID, movieID string) error {
	if err := s.reviews.Delete(ctx, movieID, userID); err != nil {
		return err
	}
	s.RecomputeMovie(ctx, movieID)
	s.RecomputeUser(ctx, userID)
	s.events.Publish(analytics.SubjectRatingDeleted, "rating_deleted", userID,
		map[string]any{"movie_id": movieID})
	return nil
}

// GetByMovie returns every review for a movie, oldest first, annotated with
// the author's display name.
func (s *Service) GetByMovie(ctx context.Context, movieID string) ([]AnnotatedReview, error) {
	list, err := s.reviews.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return s.annotateReviews(ctx, list), nil
}

// GetByUser returns the single review for (userID, movieID).
func (s *Service) GetByUser(ctx context.Context, userID, movieID string) (Review, error) {
	return s.reviews.GetByPair(ctx, movieID, userID)
}

// TopRated returns a movie's reviews sorted by like count descending,
// tie-broken by rating descending.
func (s *Service) TopRated(ctx context.Context, movieID string) ([]Review, error) {
	list, err := s.reviews.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].LikeCount() != list[j].LikeCount() {
			return list[i].LikeCount() > list[j].LikeCount()
		}
		return list[i].Rating > list[j].Rating
	})
	return list, nil
}

// MostDiscussed returns a movie's reviews sorted by comment count
// descending, tie-broken by like count descending.
func (s *Service) MostDiscussed(ctx context.Context, movieID string) ([]Review, error) {
	list, err := s.reviews.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CommentCount() != list[j].CommentCount() {
			return list[i].CommentCount() > list[j].CommentCount()
		}
		return list[i].LikeCount() > list[j].LikeCount()
	})
	return list, nil
}

// TrendingMovies returns the top-weighted movies from the trending
// collection, joined back to the catalog.
func (s *Service) TrendingMovies(ctx context.Context, limit int) ([]catalog.Movie, error) {
	entries, err := s.trending.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := []catalog.Movie{}
	for _, e := range entries {
		m, err := s.movies.Get(ctx, e.MovieID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				// Movie deleted since the entry was written; skip it.
				continue
			}
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// TopRatedMovies returns the catalog sorted by average rating descending.
func (s *Service) TopRatedMovies(ctx context.Context, limit int) ([]catalog.Movie, error) {
	return s.movies.TopRated(ctx, limit)
}

// RecomputeMovie rebuilds a movie's derived state: rating aggregates first,
// then the trending weight that reads them. Serialized per movie id so
// concurrent mutations cannot interleave the read-all and write-one phases.
func (s *Service) RecomputeMovie(ctx context.Context, movieID string) {
	s.locks.Do("movie:"+movieID, func() {
		if err := s.updater.Recompute(ctx, movieID); err != nil {
			s.log.Warn("movie aggregate recompute failed", zap.String("movie_id", movieID), zap.Error(err))
			return
		}
		if err := s.scorer.Recompute(ctx, movieID); err != nil {
			s.log.Warn("trending recompute failed", zap.String("movie_id", movieID), zap.Error(err))
		}
	})
}

// RecomputeUser rebuilds a user's engagement score, serialized per user id.
func (s *Service) RecomputeUser(ctx context.Context, userID string) {
	s.locks.Do("user:"+userID, func() {
		if err := s.engScorer.Recompute(ctx, userID); err != nil {
			s.log.Warn("engagement recompute failed", zap.String("user_id", userID), zap.Error(err))
		}
	})
}

func (s *Service) annotateReviews(ctx context.Context, list []Review) []AnnotatedReview {
	ids := make([]string, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.UserID)
	}
	names := s.resolveNames(ctx, ids)
	out := make([]AnnotatedReview, 0, len(list))
	for _, r := range list {
		out = append(out, AnnotatedReview{Review: r, AuthorName: names[r.UserID]})
	}
	return out
}

// resolveNames is best-effort: a failed lookup degrades to unannotated
// output rather than failing the read.
func (s *Service) resolveNames(ctx context.Context, ids []string) map[string]string {
	names, err := s.users.Names(ctx, ids)
	if err != nil {
		s.log.Warn("display name lookup failed", zap.Error(err))
		return map[string]string{}
	}
	return names
}
