package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/movie-catalog/internal/platform/api"
	"github.com/example/movie-catalog/internal/platform/httpserver"
	"github.com/example/movie-catalog/internal/users"
)

// GetUser handles GET /v1/users/{user_id}. The profile carries the derived
// engagement score.
func GetUser(store users.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		userID := strings.TrimSpace(chi.URLParam(r, "user_id"))
		if userID == "" {
			api.BadRequest(w, "MISSING_ID", "user_id is required", rid, nil)
			return
		}

		u, err := store.Get(r.Context(), userID)
		if err != nil {
			writeDomainError(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, u)
	}
}
