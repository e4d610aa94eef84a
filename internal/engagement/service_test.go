package engagement

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/example/movie-catalog/internal/catalog"
	"github.com/example/movie-catalog/internal/trending"
	"github.com/example/movie-catalog/internal/users"
)

type testEnv struct {
	svc      *Service
	movies   *catalog.InMemoryStore
	users    *users.InMemoryStore
	trending *trending.InMemoryStore
	movieID  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	reviewStore := NewInMemoryStore()
	movieStore := catalog.NewInMemoryStore()
	userStore := users.NewInMemoryStore()
	trendingStore := trending.NewInMemoryStore()

	_ = userStore.Put(ctx, users.User{ID: "user-a", Name: "Alice"})
	_ = userStore.Put(ctx, users.User{ID: "user-b", Name: "Bob"})

	m, err := movieStore.Create(ctx, catalog.Movie{Title: "Heat", Director: "Michael Mann"})
	if err != nil {
		t.Fatalf("create movie: %v", err)
	}

	svc := NewService(reviewStore, movieStore, userStore, trendingStore, nil, zap.NewNop())
	return &testEnv{svc: svc, movies: movieStore, users: userStore, trending: trendingStore, movieID: m.ID}
}

func ratingOf(v float64) *float64 { return &v }

func (e *testEnv) movie(t *testing.T) catalog.Movie {
	t.Helper()
	m, err := e.movies.Get(context.Background(), e.movieID)
	if err != nil {
		t.Fatalf("get movie: %v", err)
	}
	return m
}

func (e *testEnv) weight(t *testing.T) float64 {
	t.Helper()
	entries, err := e.trending.Top(context.Background(), 0)
	if err != nil {
		t.Fatalf("trending top: %v", err)
	}
	for _, entry := range entries {
		if entry.MovieID == e.movieID {
			return entry.Weight
		}
	}
	t.Fatalf("no trending entry for movie %s", e.movieID)
	return 0
}

func (e *testEnv) score(t *testing.T, userID string) int {
	t.Helper()
	u, err := e.users.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	return u.EngagementScore
}

func TestSubmitRating_AggregatesTrackReviewSet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(4), "great heist"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	m := env.movie(t)
	if m.RatingsCount != 1 || m.AverageRating != 4.0 {
		t.Fatalf("expected count=1 avg=4.0, got count=%d avg=%.2f", m.RatingsCount, m.AverageRating)
	}

	if _, err := env.svc.SubmitRating(ctx, "user-b", env.movieID, ratingOf(2), ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	m = env.movie(t)
	if m.RatingsCount != 2 || m.AverageRating != 3.0 {
		t.Fatalf("expected count=2 avg=3.0, got count=%d avg=%.2f", m.RatingsCount, m.AverageRating)
	}

	// weight = avg*10 + count*2 + likes
	if w := env.weight(t); w != 3.0*10+2*2 {
		t.Fatalf("expected weight 34, got %.2f", w)
	}
}

func TestSubmitRating_ResubmitTakesUpdatePath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(4), "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	second, err := env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(4), "")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same review id on resubmit, got %s then %s", first.ID, second.ID)
	}

	m := env.movie(t)
	if m.RatingsCount != 1 {
		t.Fatalf("expected ratings count to stay 1, got %d", m.RatingsCount)
	}
	if m.AverageRating != 4.0 {
		t.Fatalf("expected average 4.0, got %.2f", m.AverageRating)
	}
}

func TestSubmitRating_Overwrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _ = env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(1), "meh")
	rv, err := env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(5), "grew on me")
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if rv.Rating != 5 || rv.Text != "grew on me" {
		t.Fatalf("expected overwritten rating/text, got %.1f %q", rv.Rating, rv.Text)
	}
	if m := env.movie(t); m.AverageRating != 5.0 {
		t.Fatalf("expected average 5.0 after overwrite, got %.2f", m.AverageRating)
	}
}

func TestSubmitRating_InvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		rating *float64
		text   string
	}{
		{"nothing submitted", nil, ""},
		{"text without rating", nil, "needs a score"},
		{"rating above range", ratingOf(5.5), ""},
		{"rating below range", ratingOf(-1), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.SubmitRating(ctx, "user-a", env.movieID, tc.rating, tc.text)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSubmitRating_UnknownMovie(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.SubmitRating(context.Background(), "user-a", "no-such-movie", ratingOf(3), "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRating_ResetsAggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _ = env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(4), "")
	if err := env.svc.DeleteRating(ctx, "user-a", env.movieID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	m := env.movie(t)
	if m.RatingsCount != 0 || m.AverageRating != 0 {
		t.Fatalf("expected zeroed aggregates, got count=%d avg=%.2f", m.RatingsCount, m.AverageRating)
	}
	if w := env.weight(t); w != 0 {
		t.Fatalf("expected weight 0 after delete, got %.2f", w)
	}
	if _, err := env.svc.GetByUser(ctx, "user-a", env.movieID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteRating_NotFound(t *testing.T) {
	env := newTestEnv(t)
	err := env.svc.DeleteRating(context.Background(), "user-a", env.movieID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByMovie_AnnotatesAuthorName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _ = env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(4), "")
	list, err := env.svc.GetByMovie(ctx, env.movieID)
	if err != nil {
		t.Fatalf("get by movie: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 review, got %d", len(list))
	}
	if list[0].AuthorName != "Alice" {
		t.Fatalf("expected author name 'Alice', got %q", list[0].AuthorName)
	}
}

func TestTopRated_Ordering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	low, _ := env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(2), "")
	high, _ := env.svc.SubmitRating(ctx, "user-b", env.movieID, ratingOf(5), "")

	// user-a likes user-b's review: it should sort first.
	if _, err := env.svc.AddLike(ctx, high.ID, "user-a"); err != nil {
		t.Fatalf("like: %v", err)
	}

	list, err := env.svc.TopRated(ctx, env.movieID)
	if err != nil {
		t.Fatalf("top rated: %v", err)
	}
	if len(list) != 2 || list[0].ID != high.ID || list[1].ID != low.ID {
		t.Fatalf("unexpected ordering: %+v", list)
	}
}

func TestTopRated_TieBreakByRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	low, _ := env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(2), "")
	high, _ := env.svc.SubmitRating(ctx, "user-b", env.movieID, ratingOf(5), "")
	_ = low

	list, err := env.svc.TopRated(ctx, env.movieID)
	if err != nil {
		t.Fatalf("top rated: %v", err)
	}
	if list[0].ID != high.ID {
		t.Fatalf("expected higher rating first on like tie, got %s", list[0].ID)
	}
}

func TestMostDiscussed_Ordering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quiet, _ := env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(3), "")
	busy, _ := env.svc.SubmitRating(ctx, "user-b", env.movieID, ratingOf(3), "")

	if _, err := env.svc.AddComment(ctx, busy.ID, "user-a", "disagree"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	list, err := env.svc.MostDiscussed(ctx, env.movieID)
	if err != nil {
		t.Fatalf("most discussed: %v", err)
	}
	if len(list) != 2 || list[0].ID != busy.ID || list[1].ID != quiet.ID {
		t.Fatalf("unexpected ordering: %+v", list)
	}
}

func TestListEndpoints_EmptyMovie(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	top, err := env.svc.TopRated(ctx, env.movieID)
	if err != nil {
		t.Fatalf("top rated: %v", err)
	}
	if len(top) != 0 {
		t.Fatalf("expected empty list, got %d", len(top))
	}

	discussed, err := env.svc.MostDiscussed(ctx, env.movieID)
	if err != nil {
		t.Fatalf("most discussed: %v", err)
	}
	if len(discussed) != 0 {
		t.Fatalf("expected empty list, got %d", len(discussed))
	}
}

func TestEngagementScore_CountsAuthoredReviews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _ = env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(4), "")
	if got := env.score(t, "user-a"); got != 1 {
		t.Fatalf("expected engagement score 1, got %d", got)
	}
}

func TestTrendingMovies_SortedByWeight(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other, err := env.movies.Create(ctx, catalog.Movie{Title: "Thief", Director: "Michael Mann"})
	if err != nil {
		t.Fatalf("create movie: %v", err)
	}

	_, _ = env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(5), "")
	_, _ = env.svc.SubmitRating(ctx, "user-a", other.ID, ratingOf(1), "")

	list, err := env.svc.TrendingMovies(ctx, 10)
	if err != nil {
		t.Fatalf("trending movies: %v", err)
	}
	if len(list) != 2 || list[0].ID != env.movieID || list[1].ID != other.ID {
		t.Fatalf("unexpected trending order: %+v", list)
	}
}

func TestTopRatedMovies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other, _ := env.movies.Create(ctx, catalog.Movie{Title: "Thief", Director: "Michael Mann"})
	_, _ = env.svc.SubmitRating(ctx, "user-a", env.movieID, ratingOf(2), "")
	_, _ = env.svc.SubmitRating(ctx, "user-a", other.ID, ratingOf(5), "")

	list, err := env.svc.TopRatedMovies(ctx, 10)
	if err != nil {
		t.Fatalf("top rated movies: %v", err)
	}
	if len(list) != 2 || list[0].ID != other.ID {
		t.Fatalf("unexpected order: %+v", list)
	}
}
