// Package fetcher retrieves the source collection from the external API with
// bounded retries.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"data-pipeline/internal/pipeline/model"
	"data-pipeline/pkg/retry"
)

const userAgent = "data-pipeline/1.0"

// StatusError reports a non-2xx response from the external API.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d", e.StatusCode)
}

// IsTransient reports whether an error is worth retrying: transport
// failures, server errors, and rate limiting. Other client errors are
// permanent.
func IsTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == http.StatusTooManyRequests
	}
	// Anything that never reached the server (DNS, connect, timeout).
	return true
}

// Fetcher issues the read request and decodes the raw items.
type Fetcher struct {
	log    *zap.Logger
	client *http.Client
	url    string
	policy retry.Policy
}

// New builds a Fetcher for baseURL+resourcePath. The policy's classifier is
// forced to IsTransient so a 4xx fails the invocation without retries.
func New(log *zap.Logger, client *http.Client, baseURL, resourcePath string, policy retry.Policy) *Fetcher {
	policy.IsRetryable = IsTransient
	return &Fetcher{
		log:    log,
		client: client,
		url:    baseURL + resourcePath,
		policy: policy,
	}
}

// Fetch retrieves the source collection, retrying transient failures under
// the configured policy. Exhausting the budget is fatal to the invocation.
func (f *Fetcher) Fetch(ctx context.Context) ([]model.RawItem, error) {
	var items []model.RawItem

	err := f.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		start := time.Now()
		fetched, err := f.fetchOnce(ctx)
		if err != nil {
			f.log.Warn("Fetch attempt failed",
				zap.String("url", f.url),
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", f.policy.MaxAttempts),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			return err
		}
		f.log.Info("Fetch attempt succeeded",
			zap.String("url", f.url),
			zap.Int("attempt", attempt),
			zap.Int("items", len(fetched)),
			zap.Duration("elapsed", time.Since(start)),
		)
		items = fetched
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", f.url, err)
	}
	return items, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context) ([]model.RawItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	// json.Number keeps integer fields exact for the validator's type checks.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var items []model.RawItem
	if err := dec.Decode(&items); err != nil {
		return nil, retry.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return items, nil
}
