// Package pipeline drives one invocation: fetch, validate, transform,
// persist, summarize. No state survives the invocation.
package pipeline

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"data-pipeline/internal/config"
	"data-pipeline/internal/pipeline/fetcher"
	"data-pipeline/internal/pipeline/model"
	"data-pipeline/internal/pipeline/persister"
	"data-pipeline/internal/pipeline/transformer"
	"data-pipeline/internal/pipeline/validator"
	"data-pipeline/internal/storage"
	"data-pipeline/pkg/retry"
)

// Pipeline wires the stages for repeated invocations. Each Run is
// independent; the struct only carries configuration and collaborators.
type Pipeline struct {
	log         *zap.Logger
	fetcher     *fetcher.Fetcher
	validator   *validator.Validator
	transformer *transformer.Transformer
	persister   *persister.Persister
	maxItems    int
}

// New assembles the pipeline from the configuration and the store. The same
// retry policy drives both the fetcher and the batch persister.
func New(log *zap.Logger, cfg *config.Config, store storage.Store) *Pipeline {
	policy := retry.Policy{
		MaxAttempts:  cfg.RetryMaxAttempts,
		InitialDelay: cfg.RetryDelay,
	}
	client := &http.Client{Timeout: cfg.APITimeout}

	return &Pipeline{
		log:         log,
		fetcher:     fetcher.New(log, client, cfg.ExternalAPIURL, cfg.ResourcePath, policy),
		validator:   validator.New(log),
		transformer: transformer.New(),
		persister:   persister.New(log, store, cfg.BatchSize, policy),
		maxItems:    cfg.MaxItems,
	}
}

// Run executes one invocation and returns its summary. Only a fetch failure
// aborts; everything downstream degrades to per-record accounting.
func (p *Pipeline) Run(ctx context.Context) model.ExecutionSummary {
	start := time.Now().UTC()

	raw, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.log.Error("Invocation aborted: fetch failed", zap.Error(err))
		summary := model.NewSummary(start, time.Now().UTC(), 0, 0, 0, 0, true)
		p.logSummary(summary)
		return summary
	}
	fetched := len(raw)
	fetchedAt := time.Now().UTC()

	items := raw
	if p.maxItems > 0 && len(items) > p.maxItems {
		items = items[:p.maxItems]
		p.log.Info("Capping items to process",
			zap.Int("fetched", fetched),
			zap.Int("cap", p.maxItems),
		)
	}

	var records []model.EnrichedRecord
	rejected := 0
	for _, item := range items {
		valid, ok := p.validator.Validate(item)
		if !ok {
			rejected++
			continue
		}
		records = append(records, p.transformer.Transform(valid, fetchedAt))
	}
	p.log.Info("Validated and transformed items",
		zap.Int("accepted", len(records)),
		zap.Int("rejected", rejected),
	)

	tally := p.persister.Persist(ctx, records)

	summary := model.NewSummary(start, time.Now().UTC(),
		fetched, len(records), tally.Stored, tally.Failed, false)
	p.logSummary(summary)
	return summary
}

func (p *Pipeline) logSummary(s model.ExecutionSummary) {
	p.log.Info("Execution summary",
		zap.String("status", s.Status),
		zap.Float64("execution_time", s.ExecutionTime),
		zap.Int("items_fetched", s.ItemsFetched),
		zap.Int("items_processed", s.ItemsProcessed),
		zap.Int("items_stored", s.ItemsStored),
		zap.Float64("success_rate", s.SuccessRate),
		zap.Int("errors_count", s.ErrorsCount),
	)
}
