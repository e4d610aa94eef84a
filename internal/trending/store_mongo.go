package trending

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const trendingCollection = "trending"

// MongoStore persists trending entries in MongoDB, keyed by movie id so a
// movie can never appear twice.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(trendingCollection)}
}

func (s *MongoStore) Upsert(ctx context.Context, movieID string, weight float64) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": movieID},
		bson.M{"$set": bson.M{"weight": weight, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert trending entry: %w", err)
	}
	return nil
}

func (s *MongoStore) Top(ctx context.Context, limit int) ([]Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "weight", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find trending: %w", err)
	}
	defer cur.Close(ctx)

	out := []Entry{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode trending: %w", err)
	}
	return out, nil
}
