package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"data-pipeline/internal/pipeline/model"
)

// MongoStore persists records into a MongoDB collection. Used for local and
// development runs where no Firestore is available.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDoc struct {
	ID                   string `bson:"_id"`
	model.EnrichedRecord `bson:",inline"`
}

// NewMongo connects, pings, and ensures the lookup indexes.
func NewMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	if database == "(default)" {
		// Firestore's default-database marker is not a valid Mongo name.
		database = "data_pipeline"
	}
	coll := client.Database(database).Collection(collection)
	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "processed_at", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})

	return &MongoStore{client: client, coll: coll}, nil
}

// WriteBatch upserts the records in one bulk write, keyed on _id so repeated
// runs replace documents instead of appending.
func (s *MongoStore) WriteBatch(ctx context.Context, records []model.EnrichedRecord) error {
	models := make([]mongo.WriteModel, 0, len(records))
	for _, r := range records {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": r.DocID()}).
			SetReplacement(mongoDoc{ID: r.DocID(), EnrichedRecord: r}).
			SetUpsert(true))
	}
	if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("mongo bulk write: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
