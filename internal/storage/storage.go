// Package storage abstracts the document store the pipeline persists into.
package storage

import (
	"context"
	"fmt"

	"data-pipeline/internal/config"
	"data-pipeline/internal/pipeline/model"
)

// Store is the document-store contract the batch persister writes through.
type Store interface {
	// WriteBatch upserts the records as a single atomic multi-document
	// write, each keyed by its DocID. Re-writing an existing key
	// overwrites the document.
	WriteBatch(ctx context.Context, records []model.EnrichedRecord) error
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// New creates the store selected by the configuration.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.BackendFirestore:
		return NewFirestore(ctx, cfg.ProjectID, cfg.FirestoreDatabase, cfg.FirestoreCollection)
	case config.BackendMongo:
		return NewMongo(ctx, cfg.MongoURI, cfg.FirestoreDatabase, cfg.FirestoreCollection)
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}
