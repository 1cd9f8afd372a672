package entity

import "time"

// CrawlResult is returned by every crawl invocation, successful or not.
type CrawlResult struct {
	RunID             int64     `json:"run_id,omitempty"`
	Success           bool      `json:"success"`
	TotalFound        int       `json:"total_found"`
	TotalSaved        int       `json:"total_saved"`
	SkippedDuplicates int       `json:"skipped_duplicates"`
	SaveErrors        int       `json:"save_errors"`
	StartedAt         time.Time `json:"started_at"`
	CompletedAt       time.Time `json:"completed_at"`
	Error             string    `json:"error,omitempty"`

	// Err is the cause behind Error, kept for errors.Is checks by callers.
	Err error `json:"-"`
}
