package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const reviewsCollection = "reviews"

// MongoStore persists reviews in MongoDB with likes and comments embedded
// in the review document.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates the store and ensures the indexes backing the
// (movie, user) uniqueness invariant and the per-movie/per-user queries.
func NewMongoStore(db *mongo.Database, log *zap.Logger) *MongoStore {
	coll := db.Collection(reviewsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "movie_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "movie_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		// Indexes may already exist or be managed out of band; log and carry on.
		log.Warn("reviews: ensure indexes failed", zap.Error(err))
	}

	return &MongoStore{coll: coll}
}

func (s *MongoStore) GetByID(ctx context.Context, reviewID string) (Review, error) {
	return s.findOne(ctx, bson.M{"_id": reviewID})
}

func (s *MongoStore) GetByPair(ctx context.Context, movieID, userID string) (Review, error) {
	return s.findOne(ctx, bson.M{"movie_id": movieID, "user_id": userID})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (Review, error) {
	var r Review
	err := s.coll.FindOne(ctx, filter).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Review{}, ErrNotFound
		}
		return Review{}, fmt.Errorf("find review: %w", err)
	}
	return r, nil
}

func (s *MongoStore) ListByMovie(ctx context.Context, movieID string) ([]Review, error) {
	return s.list(ctx, bson.M{"movie_id": movieID})
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]Review, error) {
	return s.list(ctx, bson.M{"user_id": userID})
}

func (s *MongoStore) list(ctx context.Context, filter bson.M) ([]Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cur.Close(ctx)

	out := []Review{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Insert(ctx context.Context, r Review) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Unique index on (movie_id, user_id): a concurrent submit won
			// the insert race. The caller retries via the update path.
			return fmt.Errorf("%w: review already exists for this movie and user", ErrInvalidInput)
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, r Review) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": r.ID}, r)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, movieID, userID string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"movie_id": movieID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
