package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const moviesCollection = "movies"

// MongoStore persists movies in MongoDB.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(moviesCollection)}
}

func (s *MongoStore) Create(ctx context.Context, m Movie) (Movie, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	m.AverageRating = 0
	m.RatingsCount = 0
	if _, err := s.coll.InsertOne(ctx, m); err != nil {
		return Movie{}, fmt.Errorf("insert movie: %w", err)
	}
	return m, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (Movie, error) {
	var m Movie
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Movie{}, ErrNotFound
		}
		return Movie{}, fmt.Errorf("get movie: %w", err)
	}
	return m, nil
}

func (s *MongoStore) SetAggregates(ctx context.Context, id string, avg float64, count int) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"average_rating": avg,
			"ratings_count":  count,
			"updated_at":     time.Now().UTC(),
		}})
	if err != nil {
		return fmt.Errorf("set aggregates: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) TopRated(ctx context.Context, limit int) ([]Movie, error) {
	opts := options.Find().SetSort(bson.D{{Key: "average_rating", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find top rated: %w", err)
	}
	defer cur.Close(ctx)

	out := []Movie{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode top rated: %w", err)
	}
	return out, nil
}
