// Package persister writes enriched records to the document store in
// fixed-size batches.
package persister

import (
	"context"
	"time"

	"go.uber.org/zap"

	"data-pipeline/internal/pipeline/model"
	"data-pipeline/internal/storage"
	"data-pipeline/pkg/retry"
)

// Tally is the structured outcome of a persistence run. Batch failures are
// accounted, not raised, so it is two counters rather than an error.
type Tally struct {
	Stored int
	Failed int
}

// Persister partitions records into contiguous batches and writes each batch
// atomically, retrying failed batches under the shared policy. A batch that
// still fails is marked failed and skipped; batches are independent.
type Persister struct {
	log       *zap.Logger
	store     storage.Store
	batchSize int
	policy    retry.Policy
}

func New(log *zap.Logger, store storage.Store, batchSize int, policy retry.Policy) *Persister {
	if batchSize < 1 {
		batchSize = 5
	}
	return &Persister{log: log, store: store, batchSize: batchSize, policy: policy}
}

// Persist writes all records and returns the per-record accounting. Input
// order is preserved within and across batches.
func (p *Persister) Persist(ctx context.Context, records []model.EnrichedRecord) Tally {
	var tally Tally

	for start, index := 0, 0; start < len(records); start, index = start+p.batchSize, index+1 {
		end := start + p.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		if err := p.writeBatch(ctx, index, batch); err != nil {
			for i := range batch {
				batch[i].Status = model.StatusFailed
			}
			tally.Failed += len(batch)
			p.log.Error("Batch failed after retries, skipping",
				zap.Int("batch", index),
				zap.Int("size", len(batch)),
				zap.Error(err),
			)
			continue
		}
		tally.Stored += len(batch)
	}

	return tally
}

func (p *Persister) writeBatch(ctx context.Context, index int, batch []model.EnrichedRecord) error {
	return p.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		start := time.Now()
		err := p.store.WriteBatch(ctx, batch)
		if err != nil {
			p.log.Warn("Batch write attempt failed",
				zap.Int("batch", index),
				zap.Int("size", len(batch)),
				zap.Int("attempt", attempt),
				zap.Duration("latency", time.Since(start)),
				zap.Error(err),
			)
			return err
		}
		p.log.Info("Batch write succeeded",
			zap.Int("batch", index),
			zap.Int("size", len(batch)),
			zap.Int("attempt", attempt),
			zap.Duration("latency", time.Since(start)),
		)
		return nil
	})
}
