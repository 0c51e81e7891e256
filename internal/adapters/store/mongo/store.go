package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/randomtoy/tarot3d/internal/domain"
)

// Collection holds one document per saved reading.
const Collection = "readings"

// Store keeps readings in a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects once; the driver pools connections for all requests.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		return nil, fmt.Errorf("database name is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	coll := client.Database(database).Collection(Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create history index: %w", err)
	}

	return &Store{client: client, coll: coll}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Insert(ctx context.Context, r domain.Reading) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("%w: insert reading %s: %w", domain.ErrStore, r.ID, err)
	}
	return nil
}

func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]domain.Reading, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: query history for session %s: %w", domain.ErrStore, sessionID, err)
	}

	readings := []domain.Reading{}
	if err := cur.All(ctx, &readings); err != nil {
		return nil, fmt.Errorf("%w: decode history: %w", domain.ErrStore, err)
	}
	return readings, nil
}
