package catalog

import (
	"context"
)

// Store defines the contract for movie persistence.
type Store interface {
	Create(ctx context.Context, m Movie) (Movie, error)
	Get(ctx context.Context, id string) (Movie, error)
	// SetAggregates writes the derived rating fields. Only the aggregate
	// recomputation path may call this.
	SetAggregates(ctx context.Context, id string, averageRating float64, ratingsCount int) error
	TopRated(ctx context.Context, limit int) ([]Movie, error)
}
