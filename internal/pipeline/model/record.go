package model

import (
	"fmt"
	"time"
)

// Source identifies where fetched records come from.
const Source = "jsonplaceholder"

// Record lifecycle status values.
const (
	StatusProcessed = "processed"
	StatusFailed    = "failed"
)

// RawItem is an untyped record as returned by the external API. It carries
// no guarantees: fields may be missing or of the wrong type. Numbers are
// decoded as json.Number so integer fields can be checked exactly.
type RawItem map[string]any

// ValidatedItem is a RawItem confirmed to carry the four required fields
// with correct types and non-empty title/body.
type ValidatedItem struct {
	UserID int64
	PostID int64
	Title  string
	Body   string
}

// EnrichedRecord is the persisted shape, derived 1:1 from a ValidatedItem.
type EnrichedRecord struct {
	UserID      int64     `json:"user_id" firestore:"user_id" bson:"user_id"`
	PostID      int64     `json:"post_id" firestore:"post_id" bson:"post_id"`
	Title       string    `json:"title" firestore:"title" bson:"title"`
	Body        string    `json:"body" firestore:"body" bson:"body"`
	TitleLength int       `json:"title_length" firestore:"title_length" bson:"title_length"`
	BodyLength  int       `json:"body_length" firestore:"body_length" bson:"body_length"`
	WordCount   int       `json:"word_count" firestore:"word_count" bson:"word_count"`
	FetchedAt   time.Time `json:"fetched_at" firestore:"fetched_at" bson:"fetched_at"`
	ProcessedAt time.Time `json:"processed_at" firestore:"processed_at" bson:"processed_at"`
	Source      string    `json:"source" firestore:"source" bson:"source"`
	Status      string    `json:"status" firestore:"status" bson:"status"`
}

// DocID is the document identifier the record is stored under. Keying on
// post_id makes repeated invocations overwrite rather than duplicate.
func (r EnrichedRecord) DocID() string {
	return fmt.Sprintf("post_%d", r.PostID)
}
