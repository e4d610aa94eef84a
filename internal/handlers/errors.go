// Package handlers wires the engagement service and catalog stores to chi.
package handlers

import (
	"errors"
	"net/http"

	"github.com/example/movie-catalog/internal/catalog"
	"github.com/example/movie-catalog/internal/engagement"
	"github.com/example/movie-catalog/internal/platform/api"
	"github.com/example/movie-catalog/internal/users"
)

// writeDomainError maps the service error taxonomy onto the response envelope.
func writeDomainError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, engagement.ErrInvalidInput):
		api.BadRequest(w, "INVALID_INPUT", err.Error(), requestID, nil)
	case errors.Is(err, engagement.ErrAlreadyLiked):
		api.Conflict(w, "ALREADY_LIKED", "review already liked", requestID, nil)
	case errors.Is(err, engagement.ErrForbidden):
		api.Forbidden(w, "FORBIDDEN", err.Error(), requestID)
	case errors.Is(err, engagement.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, users.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", err.Error(), requestID)
	default:
		api.Internal(w, requestID)
	}
}
