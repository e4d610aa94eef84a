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

type addCommentRequest struct {
	Text string `json:"text"`
}

type commentListResponse struct {
	Comments []engagement.AnnotatedComment `json:"comments"`
}

// LikeReview handles POST /v1/reviews/{review_id}/like
func LikeReview(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		reviewID := strings.TrimSpace(chi.URLParam(r, "review_id"))
		if reviewID == "" {
			api.BadRequest(w, "MISSING_ID", "review_id is required", rid, nil)
			return
		}

		rv, err := svc.AddLike(r.Context(), reviewID, userID)
		if err != nil {
			writeDomainError(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, rv)
	}
}

// UnlikeReview handles DELETE /v1/reviews/{review_id}/like
func UnlikeReview(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		reviewID := strings.TrimSpace(chi.URLParam(r, "review_id"))
		if reviewID == "" {
			api.BadRequest(w, "MISSING_ID", "review_id is required", rid, nil)
			return
		}

		rv, err := svc.RemoveLike(r.Context(), reviewID, userID)
		if err != nil {
			writeDomainError(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, rv)
	}
}

// AddComment handles POST /v1/reviews/{review_id}/comments
func AddComment(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		reviewID := strings.TrimSpace(chi.URLParam(r, "review_id"))
		if reviewID == "" {
			api.BadRequest(w, "MISSING_ID", "review_id is required", rid, nil)
			return
		}

		var req addCommentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", rid, nil)
			return
		}

		rv, err := svc.AddComment(r.Context(), reviewID, userID, req.Text)
		if err != nil {
			writeDomainError(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusCreated, rv)
	}
}

// RemoveComment handles DELETE /v1/reviews/{review_id}/comments/{comment_id}
func RemoveComment(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok || userID == "" {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", rid)
			return
		}
		reviewID := strings.TrimSpace(chi.URLParam(r, "review_id"))
		commentID := strings.TrimSpace(chi.URLParam(r, "comment_id"))
		if reviewID == "" || commentID == "" {
			api.BadRequest(w, "MISSING_ID", "review_id and comment_id are required", rid, nil)
			return
		}

		rv, err := svc.RemoveComment(r.Context(), reviewID, commentID, userID)
		if err != nil {
			writeDomainError(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, rv)
	}
}

// GetComments handles GET /v1/reviews/{review_id}/comments
func GetComments(svc *engagement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		reviewID := strings.TrimSpace(chi.URLParam(r, "review_id"))
		if reviewID == "" {
			api.BadRequest(w, "MISSING_ID", "review_id is required", rid, nil)
			return
		}

		comments, err := svc.GetComments(r.Context(), reviewID)
		if err != nil {
			writeDomainError(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, commentListResponse{Comments: comments})
	}
}
