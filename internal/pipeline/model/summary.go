package model

import "time"

// Invocation outcome values.
const (
	RunSuccess        = "success"
	RunPartialFailure = "partial_failure"
	RunFailure        = "failure"
)

// ExecutionSummary is the aggregate result of one invocation and the sole
// value returned to the caller.
type ExecutionSummary struct {
	Status         string    `json:"status"`
	ExecutionTime  float64   `json:"execution_time"` // seconds
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	ItemsFetched   int       `json:"items_fetched"`
	ItemsProcessed int       `json:"items_processed"`
	ItemsStored    int       `json:"items_stored"`
	SuccessRate    float64   `json:"success_rate"` // percentage, 0-100
	ErrorsCount    int       `json:"errors_count"`
}

// NewSummary derives the summary from the stage counters. aborted marks a
// fatal fetch failure, in which case every count is zero and the run is a
// failure regardless of the tallies.
func NewSummary(start, end time.Time, fetched, processed, stored, failed int, aborted bool) ExecutionSummary {
	s := ExecutionSummary{
		ExecutionTime:  end.Sub(start).Seconds(),
		StartTime:      start,
		EndTime:        end,
		ItemsFetched:   fetched,
		ItemsProcessed: processed,
		ItemsStored:    stored,
		ErrorsCount:    failed,
	}
	if processed > 0 {
		s.SuccessRate = float64(stored) / float64(processed) * 100
	}
	switch {
	case aborted:
		s.Status = RunFailure
	case failed == 0:
		s.Status = RunSuccess
	case stored > 0:
		s.Status = RunPartialFailure
	default:
		s.Status = RunFailure
	}
	return s
}
