// Package users holds the user profile projection owned by this service:
// the display name used to annotate reviews and comments, and the derived
// engagement score. Account lifecycle (registration, credentials) belongs
// to the external auth service.
package users

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID              string    `bson:"_id" json:"id"`
	Name            string    `bson:"name" json:"name"`
	EngagementScore int       `bson:"engagement_score" json:"engagement_score"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}
