package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"data-pipeline/internal/pipeline/model"
)

// FirestoreStore persists records into a Firestore collection. This is the
// production backend.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore connects to the configured project/database.
func NewFirestore(ctx context.Context, projectID, database, collection string) (*FirestoreStore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{client: client, collection: collection}, nil
}

// WriteBatch commits the records as one atomic Firestore write batch. Set
// without merge options overwrites existing documents wholesale.
func (s *FirestoreStore) WriteBatch(ctx context.Context, records []model.EnrichedRecord) error {
	batch := s.client.Batch()
	for _, r := range records {
		batch.Set(s.client.Collection(s.collection).Doc(r.DocID()), r)
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("firestore batch commit: %w", err)
	}
	return nil
}

// Ping writes and reads back a health-check document.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	ref := s.client.Collection("_health_check").Doc("status")
	if _, err := ref.Set(ctx, map[string]any{
		"last_check": time.Now().UTC(),
		"status":     "healthy",
	}); err != nil {
		return fmt.Errorf("firestore health write: %w", err)
	}
	if _, err := ref.Get(ctx); err != nil {
		return fmt.Errorf("firestore health read: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Close(ctx context.Context) error {
	return s.client.Close()
}
