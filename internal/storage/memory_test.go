package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"data-pipeline/internal/pipeline/model"
)

func record(id int64, title string) model.EnrichedRecord {
	return model.EnrichedRecord{
		PostID:      id,
		UserID:      1,
		Title:       title,
		Body:        "body",
		FetchedAt:   time.Now().UTC(),
		ProcessedAt: time.Now().UTC(),
		Source:      model.Source,
		Status:      model.StatusProcessed,
	}
}

func TestMemoryStore_UpsertIsIdempotent(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.WriteBatch(ctx, []model.EnrichedRecord{record(1, "first")}))
	require.NoError(t, store.WriteBatch(ctx, []model.EnrichedRecord{record(1, "second")}))

	// One document, carrying the second write's fields.
	assert.Equal(t, 1, store.Len())
	got, ok := store.Get("post_1")
	require.True(t, ok)
	assert.Equal(t, "second", got.Title)
}

func TestMemoryStore_KeysOnPostID(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.WriteBatch(ctx, []model.EnrichedRecord{
		record(1, "a"), record(2, "b"), record(3, "c"),
	}))

	assert.Equal(t, 3, store.Len())
	for _, id := range []string{"post_1", "post_2", "post_3"} {
		_, ok := store.Get(id)
		assert.True(t, ok, id)
	}
}
