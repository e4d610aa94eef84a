package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/movie-catalog/internal/catalog"
	"github.com/example/movie-catalog/internal/platform/api"
	"github.com/example/movie-catalog/internal/platform/httpserver"
)

type createMovieRequest struct {
	Title       string     `json:"title"`
	Genre       []string   `json:"genre,omitempty"`
	Director    string     `json:"director"`
	Cast        []string   `json:"cast,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	RuntimeMin  int        `json:"runtime,omitempty"`
	Synopsis    string     `json:"synopsis,omitempty"`
	CoverPhoto  string     `json:"cover_photo,omitempty"`
}

// CreateMovie handles POST /v1/movies (admin only, enforced by middleware).
func CreateMovie(movies catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req createMovieRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", rid, nil)
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			api.BadRequest(w, "MISSING_TITLE", "title is required", rid, nil)
			return
		}
		if strings.TrimSpace(req.Director) == "" {
			api.BadRequest(w, "MISSING_DIRECTOR", "director is required", rid, nil)
			return
		}

		m, err := movies.Create(r.Context(), catalog.Movie{
			Title:       req.Title,
			Genre:       req.Genre,
			Director:    req.Director,
			Cast:        req.Cast,
			ReleaseDate: req.ReleaseDate,
			RuntimeMin:  req.RuntimeMin,
			Synopsis:    req.Synopsis,
			CoverPhoto:  req.CoverPhoto,
		})
		if err != nil {
			api.Internal(w, rid)
			return
		}
		api.WriteJSON(w, http.StatusCreated, m)
	}
}

// GetMovie handles GET /v1/movies/{movie_id}
func GetMovie(movies catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		movieID := strings.TrimSpace(chi.URLParam(r, "movie_id"))
		if movieID == "" {
			api.BadRequest(w, "MISSING_ID", "movie_id is required", rid, nil)
			return
		}

		m, err := movies.Get(r.Context(), movieID)
		if err != nil {
			writeDomainError(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, m)
	}
}
