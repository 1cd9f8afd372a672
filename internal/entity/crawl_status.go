package entity

import "time"

// RunStatus is the lifecycle state of a CrawlRun.
type RunStatus string

const (
	RunStatusRunning RunStatus = "RUNNING"
	RunStatusSuccess RunStatus = "SUCCESS"
	RunStatusFailed  RunStatus = "FAILED"
)

// Terminal reports whether no further transition is allowed from s.
func (s RunStatus) Terminal() bool {
	return s == RunStatusSuccess || s == RunStatusFailed
}

// CrawlRun mirrors the `crawl_runs` PostgreSQL table schema.
type CrawlRun struct {
	ID           int64      `json:"id"`
	TargetURL    string     `json:"target_url"`
	Status       RunStatus  `json:"status"`
	ItemsFound   int        `json:"items_found"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}

// CrawlStatus is the polling view used by callers that need to know whether
// a crawl is in progress.
type CrawlStatus struct {
	Running    bool      `json:"running"`
	RunningRun *CrawlRun `json:"running_run,omitempty"`
	LastRun    *CrawlRun `json:"last_run,omitempty"`
}
