package handlers

import (
	"net/http"
	"strconv"

	"github.com/example/movie-catalog/internal/catalog"
	"github.com/example/movie-catalog/internal/engagement"
	"github.com/example/movie-catalog/internal/platform/api"
	"github.com/example/movie-catalog/internal/platform/httpserver"
)

const defaultDiscoverLimit = 10

type movieListResponse struct {
	Movies []catalog.Movie `json:"movies"`
}

func discoverLimit(r *http.Request) int {
	limit := defaultDiscoverLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	return limit
}

// TrendingMovies handles GET /v1/discover/trending
func TrendingMovies(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		list, err := svc.TrendingMovies(r.Context(), discoverLimit(r))
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, movieListResponse{Movies: list})
	}
}

// TopRatedMovies handles GET /v1/discover/top-rated
func TopRatedMovies(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		list, err := svc.TopRatedMovies(r.Context(), discoverLimit(r))
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, movieListResponse{Movies: list})
	}
}
