// Package transformer derives the persisted record shape from validated
// items.
package transformer

import (
	"strings"
	"time"
	"unicode/utf8"

	"data-pipeline/internal/pipeline/model"
)

// Transformer enriches validated items. It never fails: a ValidatedItem
// carries everything it needs. The clock is injectable for deterministic
// tests.
type Transformer struct {
	now func() time.Time
}

func New() *Transformer {
	return &Transformer{now: func() time.Time { return time.Now().UTC() }}
}

// NewWithClock pins processing time, for tests.
func NewWithClock(now func() time.Time) *Transformer {
	return &Transformer{now: now}
}

// Transform builds the EnrichedRecord for one item. fetchedAt is the capture
// time of the source collection; processed_at is taken from the clock and is
// never before fetchedAt.
func (t *Transformer) Transform(item model.ValidatedItem, fetchedAt time.Time) model.EnrichedRecord {
	title := strings.TrimSpace(item.Title)
	body := strings.TrimSpace(item.Body)

	processedAt := t.now()
	if processedAt.Before(fetchedAt) {
		processedAt = fetchedAt
	}

	return model.EnrichedRecord{
		UserID:      item.UserID,
		PostID:      item.PostID,
		Title:       title,
		Body:        body,
		TitleLength: utf8.RuneCountInString(title),
		BodyLength:  utf8.RuneCountInString(body),
		WordCount:   len(strings.Fields(body)),
		FetchedAt:   fetchedAt,
		ProcessedAt: processedAt,
		Source:      model.Source,
		Status:      model.StatusProcessed,
	}
}
