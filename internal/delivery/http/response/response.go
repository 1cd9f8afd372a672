package response

import (
	"time"

	"github.com/user/secnews-crawler/internal/entity"
)

type TriggerCrawlResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// CrawlRunResponse is a DTO for entity.CrawlRun.
type CrawlRunResponse struct {
	ID           int64      `json:"id"`
	TargetURL    string     `json:"target_url"`
	Status       string     `json:"status"` // RUNNING, SUCCESS, FAILED
	ItemsFound   int        `json:"items_found"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

type CrawlStatusResponse struct {
	Running    bool              `json:"running"`
	RunningRun *CrawlRunResponse `json:"running_run"`
	LastRun    *CrawlRunResponse `json:"last_run"`
}

func NewCrawlStatusResponse(s *entity.CrawlStatus) CrawlStatusResponse {
	return CrawlStatusResponse{
		Running:    s.Running,
		RunningRun: newCrawlRunResponse(s.RunningRun),
		LastRun:    newCrawlRunResponse(s.LastRun),
	}
}

func newCrawlRunResponse(r *entity.CrawlRun) *CrawlRunResponse {
	if r == nil {
		return nil
	}
	resp := &CrawlRunResponse{
		ID:          r.ID,
		TargetURL:   r.TargetURL,
		Status:      string(r.Status),
		ItemsFound:  r.ItemsFound,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
	}
	if r.ErrorMessage != nil {
		resp.ErrorMessage = *r.ErrorMessage
	}
	return resp
}
