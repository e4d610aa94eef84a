package users

import (
	"context"
)

// Store defines the contract for user profile persistence.
type Store interface {
	// Put creates or replaces a profile. Used by dev seeding and tests;
	// in production profiles are provisioned by the auth service.
	Put(ctx context.Context, u User) error
	Get(ctx context.Context, id string) (User, error)
	// Names resolves display names for a set of user ids. Unknown ids are
	// simply absent from the result, never an error.
	Names(ctx context.Context, ids []string) (map[string]string, error)
	SetEngagementScore(ctx context.Context, id string, score int) error
}
