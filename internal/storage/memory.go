package storage

import (
	"context"
	"sync"

	"data-pipeline/internal/pipeline/model"
)

// MemoryStore keeps documents in a map. It backs tests and dry runs
// (STORAGE_BACKEND=memory) with the same upsert semantics as the real
// backends.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]model.EnrichedRecord
}

func NewMemory() *MemoryStore {
	return &MemoryStore{docs: make(map[string]model.EnrichedRecord)}
}

func (s *MemoryStore) WriteBatch(ctx context.Context, records []model.EnrichedRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.docs[r.DocID()] = r
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Len reports the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Get returns the stored document with the given id.
func (s *MemoryStore) Get(id string) (model.EnrichedRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.docs[id]
	return r, ok
}
