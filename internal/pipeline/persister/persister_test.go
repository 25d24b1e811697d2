package persister

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"data-pipeline/internal/pipeline/model"
	"data-pipeline/internal/storage"
	"data-pipeline/pkg/retry"
)

// flakyStore fails WriteBatch according to a script of per-call outcomes,
// delegating successful calls to the wrapped memory store.
type flakyStore struct {
	*storage.MemoryStore
	script []error
	calls  int
}

func (s *flakyStore) WriteBatch(ctx context.Context, records []model.EnrichedRecord) error {
	s.calls++
	if len(s.script) > 0 {
		err := s.script[0]
		s.script = s.script[1:]
		if err != nil {
			return err
		}
	}
	return s.MemoryStore.WriteBatch(ctx, records)
}

func records(n int) []model.EnrichedRecord {
	out := make([]model.EnrichedRecord, n)
	for i := range out {
		out[i] = model.EnrichedRecord{
			PostID: int64(i + 1),
			Title:  fmt.Sprintf("title %d", i+1),
			Status: model.StatusProcessed,
		}
	}
	return out
}

func testPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, InitialDelay: time.Millisecond}
}

func TestPersist_AllBatchesSucceed(t *testing.T) {
	store := storage.NewMemory()
	p := New(zap.NewNop(), store, 5, testPolicy())

	tally := p.Persist(context.Background(), records(12))

	assert.Equal(t, Tally{Stored: 12, Failed: 0}, tally)
	assert.Equal(t, 12, store.Len())
}

func TestPersist_Empty(t *testing.T) {
	p := New(zap.NewNop(), storage.NewMemory(), 5, testPolicy())

	tally := p.Persist(context.Background(), nil)

	assert.Equal(t, Tally{}, tally)
}

func TestPersist_RetriesTransientBatchFailure(t *testing.T) {
	store := &flakyStore{
		MemoryStore: storage.NewMemory(),
		script:      []error{errors.New("store unavailable"), nil},
	}
	p := New(zap.NewNop(), store, 5, testPolicy())

	tally := p.Persist(context.Background(), records(3))

	assert.Equal(t, Tally{Stored: 3, Failed: 0}, tally)
	assert.Equal(t, 2, store.calls)
}

func TestPersist_PartialFailureIsIndependent(t *testing.T) {
	// Batch 1 of 3 (records 6-10) fails every attempt; its neighbors land.
	boom := errors.New("write rejected")
	store := &flakyStore{
		MemoryStore: storage.NewMemory(),
		script:      []error{nil, boom, boom, boom, nil},
	}
	p := New(zap.NewNop(), store, 5, testPolicy())

	tally := p.Persist(context.Background(), records(12))

	assert.Equal(t, Tally{Stored: 7, Failed: 5}, tally)
	assert.Equal(t, 7, store.Len())
	_, ok := store.Get("post_6")
	assert.False(t, ok)
	_, ok = store.Get("post_12")
	assert.True(t, ok)
}

func TestPersist_FailedBatchMarksRecords(t *testing.T) {
	boom := errors.New("write rejected")
	store := &flakyStore{
		MemoryStore: storage.NewMemory(),
		script:      []error{boom, boom, boom},
	}
	p := New(zap.NewNop(), store, 5, testPolicy())

	recs := records(2)
	tally := p.Persist(context.Background(), recs)

	assert.Equal(t, Tally{Stored: 0, Failed: 2}, tally)
	for _, r := range recs {
		assert.Equal(t, model.StatusFailed, r.Status)
	}
}

func TestPersist_PreservesOrderWithinBatches(t *testing.T) {
	store := storage.NewMemory()
	p := New(zap.NewNop(), store, 4, testPolicy())

	recs := records(10)
	tally := p.Persist(context.Background(), recs)

	require.Equal(t, Tally{Stored: 10}, tally)
	for i := 1; i <= 10; i++ {
		got, ok := store.Get(fmt.Sprintf("post_%d", i))
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("title %d", i), got.Title)
	}
}
