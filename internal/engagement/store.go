package engagement

import (
	"context"
)

// Store defines the contract for review persistence. Likes and comments are
// embedded in the review document; every write replaces the whole document,
// which keeps the (movie, user) identity the unit of atomicity.
type Store interface {
	GetByID(ctx context.Context, reviewID string) (Review, error)
	// GetByPair returns the single review for (movieID, userID) or ErrNotFound.
	GetByPair(ctx context.Context, movieID, userID string) (Review, error)
	ListByMovie(ctx context.Context, movieID string) ([]Review, error)
	ListByUser(ctx context.Context, userID string) ([]Review, error)
	Insert(ctx context.Context, r Review) error
	Update(ctx context.Context, r Review) error
	// Delete removes the review for (movieID, userID); ErrNotFound when absent.
	Delete(ctx context.Context, movieID, userID string) error
}
