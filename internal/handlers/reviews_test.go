package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/movie-catalog/internal/catalog"
	"github.com/example/movie-catalog/internal/engagement"
	"github.com/example/movie-catalog/internal/platform/auth"
	"github.com/example/movie-catalog/internal/trending"
	"github.com/example/movie-catalog/internal/users"
)

// setupReq builds a request with chi URL params and optional user_id in context.
func setupReq(method, url string, body string, params map[string]string, userID string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != "" {
		ctx = auth.WithUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

type handlerFixture struct {
	svc     *engagement.Service
	movies  *catalog.InMemoryStore
	users   *users.InMemoryStore
	movieID string
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	ctx := context.Background()

	movieStore := catalog.NewInMemoryStore()
	userStore := users.NewInMemoryStore()
	_ = userStore.Put(ctx, users.User{ID: "user-a", Name: "Alice"})
	_ = userStore.Put(ctx, users.User{ID: "user-b", Name: "Bob"})

	m, err := movieStore.Create(ctx, catalog.Movie{Title: "Heat", Director: "Michael Mann"})
	if err != nil {
		t.Fatalf("create movie: %v", err)
	}

	svc := engagement.NewService(engagement.NewInMemoryStore(), movieStore, userStore,
		trending.NewInMemoryStore(), nil, zap.NewNop())
	return &handlerFixture{svc: svc, movies: movieStore, users: userStore, movieID: m.ID}
}

func TestSubmitRating(t *testing.T) {
	f := newHandlerFixture(t)
	handler := SubmitRating(f.svc)

	req := setupReq(http.MethodPost, "/v1/movies/"+f.movieID+"/reviews",
		`{"rating":4.5,"review":"tense and precise"}`,
		map[string]string{"movie_id": f.movieID}, "user-a")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var rv engagement.Review
	if err := json.NewDecoder(rr.Body).Decode(&rv); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rv.Rating != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", rv.Rating)
	}
	if rv.UserID != "user-a" {
		t.Fatalf("expected user_id 'user-a', got %q", rv.UserID)
	}

	m, err := f.movies.Get(context.Background(), f.movieID)
	if err != nil {
		t.Fatalf("get movie: %v", err)
	}
	if m.RatingsCount != 1 || m.AverageRating != 4.5 {
		t.Fatalf("expected aggregates (4.5, 1), got (%v, %d)", m.AverageRating, m.RatingsCount)
	}
}

func TestSubmitRating_Unauthorized(t *testing.T) {
	f := newHandlerFixture(t)
	handler := SubmitRating(f.svc)

	req := setupReq(http.MethodPost, "/v1/movies/"+f.movieID+"/reviews", `{"rating":3}`,
		map[string]string{"movie_id": f.movieID}, "")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestSubmitRating_MissingRating(t *testing.T) {
	f := newHandlerFixture(t)
	handler := SubmitRating(f.svc)

	req := setupReq(http.MethodPost, "/v1/movies/"+f.movieID+"/reviews", `{"review":"no rating"}`,
		map[string]string{"movie_id": f.movieID}, "user-a")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSubmitRating_UnknownMovie(t *testing.T) {
	f := newHandlerFixture(t)
	handler := SubmitRating(f.svc)

	req := setupReq(http.MethodPost, "/v1/movies/missing/reviews", `{"rating":3}`,
		map[string]string{"movie_id": "missing"}, "user-a")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeleteRating(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	if _, err := f.svc.SubmitRating(ctx, "user-a", f.movieID, ratingOf(4), ""); err != nil {
		t.Fatalf("seed rating: %v", err)
	}

	handler := DeleteRating(f.svc)
	req := setupReq(http.MethodDelete, "/v1/movies/"+f.movieID+"/reviews", "",
		map[string]string{"movie_id": f.movieID}, "user-a")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rr.Code, rr.Body.String())
	}

	m, err := f.movies.Get(ctx, f.movieID)
	if err != nil {
		t.Fatalf("get movie: %v", err)
	}
	if m.RatingsCount != 0 {
		t.Fatalf("expected ratings_count 0 after delete, got %d", m.RatingsCount)
	}
}

func TestDeleteRating_NotFound(t *testing.T) {
	f := newHandlerFixture(t)
	handler := DeleteRating(f.svc)

	req := setupReq(http.MethodDelete, "/v1/movies/"+f.movieID+"/reviews", "",
		map[string]string{"movie_id": f.movieID}, "user-a")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetMovieReviews(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	if _, err := f.svc.SubmitRating(ctx, "user-a", f.movieID, ratingOf(5), "loved it"); err != nil {
		t.Fatalf("seed rating: %v", err)
	}

	handler := GetMovieReviews(f.svc)
	req := setupReq(http.MethodGet, "/v1/movies/"+f.movieID+"/reviews", "",
		map[string]string{"movie_id": f.movieID}, "")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp reviewListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(resp.Reviews))
	}
	if resp.Reviews[0].AuthorName != "Alice" {
		t.Fatalf("expected author 'Alice', got %q", resp.Reviews[0].AuthorName)
	}
}

func TestGetOwnReview(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	if _, err := f.svc.SubmitRating(ctx, "user-a", f.movieID, ratingOf(3), ""); err != nil {
		t.Fatalf("seed rating: %v", err)
	}

	handler := GetOwnReview(f.svc)

	req := setupReq(http.MethodGet, "/v1/movies/"+f.movieID+"/reviews/me", "",
		map[string]string{"movie_id": f.movieID}, "user-a")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	// user-b never rated: 404
	req = setupReq(http.MethodGet, "/v1/movies/"+f.movieID+"/reviews/me", "",
		map[string]string{"movie_id": f.movieID}, "user-b")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for user without review, got %d", rr.Code)
	}
}

func TestGetTopRatedReviews(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()
	if _, err := f.svc.SubmitRating(ctx, "user-a", f.movieID, ratingOf(2), ""); err != nil {
		t.Fatalf("seed rating: %v", err)
	}
	if _, err := f.svc.SubmitRating(ctx, "user-b", f.movieID, ratingOf(5), ""); err != nil {
		t.Fatalf("seed rating: %v", err)
	}

	handler := GetTopRatedReviews(f.svc)
	req := setupReq(http.MethodGet, "/v1/movies/"+f.movieID+"/reviews/top", "",
		map[string]string{"movie_id": f.movieID}, "")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp plainReviewListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(resp.Reviews))
	}
	if resp.Reviews[0].Rating != 5 {
		t.Fatalf("expected highest rating first, got %v", resp.Reviews[0].Rating)
	}
}

func ratingOf(v float64) *float64 { return &v }
