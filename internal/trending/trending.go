// Package trending holds the ranked trending collection. One entry per
// movie; the weight is always overwritten by recomputation, never patched.
package trending

import (
	"context"
	"time"
)

type Entry struct {
	MovieID   string    `bson:"_id" json:"movie_id"`
	Weight    float64   `bson:"weight" json:"weight"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Store defines the contract for trending persistence.
type Store interface {
	// Upsert creates the entry for movieID or overwrites its weight.
	Upsert(ctx context.Context, movieID string, weight float64) error
	// Top returns entries sorted by weight descending, at most limit.
	Top(ctx context.Context, limit int) ([]Entry, error)
}
