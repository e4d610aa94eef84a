// Package catalog holds the movie entity and its store. The service owns
// only the derived fields average_rating and ratings_count; everything else
// is plain catalog data.
package catalog

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("movie not found")

type Movie struct {
	ID            string     `bson:"_id" json:"id"`
	Title         string     `bson:"title" json:"title"`
	Genre         []string   `bson:"genre,omitempty" json:"genre,omitempty"`
	Director      string     `bson:"director" json:"director"`
	Cast          []string   `bson:"cast,omitempty" json:"cast,omitempty"`
	ReleaseDate   *time.Time `bson:"release_date,omitempty" json:"release_date,omitempty"`
	RuntimeMin    int        `bson:"runtime,omitempty" json:"runtime,omitempty"`
	Synopsis      string     `bson:"synopsis,omitempty" json:"synopsis,omitempty"`
	CoverPhoto    string     `bson:"cover_photo,omitempty" json:"cover_photo,omitempty"`
	AverageRating float64    `bson:"average_rating" json:"average_rating"`
	RatingsCount  int        `bson:"ratings_count" json:"ratings_count"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
}
