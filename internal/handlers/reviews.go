package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/movie-catalog/internal/engagement"
	"github.com/example/movie-catalog/internal/platform/api"
	"github.com/example/movie-catalog/internal/platform/auth"
	"github.com/example/movie-catalog/internal/platform/httpserver"
)

type submitRatingRequest struct {
	Rating *float64 `json:"rating,omitempty"`
	Review string   `json:"review,omitempty"`
}

type reviewListResponse struct {
	Reviews []engagement.AnnotatedReview `json:"reviews"`
}

type plainReviewListResponse struct {
	Reviews []engagement.Review `json:"reviews"`
}

// SubmitRating handles POST /v1/movies/{movie_id}/reviews
func SubmitRating(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		movieID := strings.TrimSpace(chi.URLParam(r, "movie_id"))
		if movieID == "" {
			api.BadRequest(w, "MISSING_ID", "movie_id is required", rid, nil)
			return
		}

		var req submitRatingRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", rid, nil)
			return
		}

		rv, err := svc.SubmitRating(r.Context(), userID, movieID, req.Rating, req.Review)
		if err != nil {
			writeDomainError(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, rv)
	}
}

// DeleteRating handles DELETE /v1/movies/{movie_id}/reviews
func DeleteRating(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		movieID := strings.TrimSpace(chi.URLParam(r, "movie_id"))
		if movieID == "" {
			api.BadRequest(w, "MISSING_ID", "movie_id is required", rid, nil)
			return
		}

		if err := svc.DeleteRating(r.Context(), userID, movieID); err != nil {
			writeDomainError(w, err, rid)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetMovieReviews handles GET /v1/movies/{movie_id}/reviews
func GetMovieReviews(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		movieID := strings.TrimSpace(chi.URLParam(r, "movie_id"))
		if movieID == "" {
			api.BadRequest(w, "MISSING_ID", "movie_id is required", rid, nil)
			return
		}

		list, err := svc.GetByMovie(r.Context(), movieID)
		if err != nil {
			writeDomainError(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, reviewListResponse{Reviews: list})
	}
}

// GetOwnReview handles GET /v1/movies/{movie_id}/reviews/me
func GetOwnReview(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		movieID := strings.TrimSpace(chi.URLParam(r, "movie_id"))
		if movieID == "" {
			api.BadRequest(w, "MISSING_ID", "movie_id is required", rid, nil)
			return
		}

		rv, err := svc.GetByUser(r.Context(), userID, movieID)
		if err != nil {
			writeDomainError(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, rv)
	}
}

// GetTopRatedReviews handles GET /v1/movies/{movie_id}/reviews/top
func GetTopRatedReviews(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		movieID := strings.TrimSpace(chi.URLParam(r, "movie_id"))
		if movieID == "" {
			api.BadRequest(w, "MISSING_ID", "movie_id is required", rid, nil)
			return
		}

		list, err := svc.TopRated(r.Context(), movieID)
		if err != nil {
			writeDomainError(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, plainReviewListResponse{Reviews: list})
	}
}

// GetMostDiscussedReviews handles GET /v1/movies/{movie_id}/reviews/discussed
func GetMostDiscussedReviews(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		movieID := strings.TrimSpace(chi.URLParam(r, "movie_id"))
		if movieID == "" {
			api.BadRequest(w, "MISSING_ID", "movie_id is required", rid, nil)
			return
		}

		list, err := svc.MostDiscussed(r.Context(), movieID)
		if err != nil {
			writeDomainError(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, plainReviewListResponse{Reviews: list})
	}
}
