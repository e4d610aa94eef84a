// Package engagement implements the rating/review subsystem: the review
// store, the like/comment operations, and the recomputation of every piece
// of derived state (movie rating aggregates, trending weights, user
// engagement scores).
package engagement

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyLiked = errors.New("review already liked by this user")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("operation not allowed")
)

// Comment is owned by its parent review; it has no independent lifecycle.
// The stable id permits removal without positional mutation.
type Comment struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Review is a user's rating and optional review text for one movie.
// At most one exists per (movie, user) pair.
type Review struct {
	ID        string    `bson:"_id" json:"id"`
	MovieID   string    `bson:"movie_id" json:"movie_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Rating    float64   `bson:"rating" json:"rating"`
	Text      string    `bson:"review,omitempty" json:"review,omitempty"`
	Likes     []string  `bson:"likes" json:"likes"`
	Comments  []Comment `bson:"comments" json:"comments"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (r Review) LikeCount() int    { return len(r.Likes) }
func (r Review) CommentCount() int { return len(r.Comments) }

func (r Review) LikedBy(userID string) bool {
	for _, id := range r.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// AnnotatedReview is a review joined with its author's display name.
type AnnotatedReview struct {
	Review
	AuthorName string `json:"author_name,omitempty"`
}

// AnnotatedComment is a comment joined with its author's display name.
type AnnotatedComment struct {
	Comment
	AuthorName string `json:"author_name,omitempty"`
}
