package repository

import (
	"context"
	"time"

	"github.com/user/secnews-crawler/internal/entity"
)

// CrawlRunRepository defines the interface for the crawl audit log.
type CrawlRunRepository interface {
	// Create inserts a RUNNING record and returns its id.
	Create(ctx context.Context, targetURL string, startedAt time.Time) (int64, error)
	// Update moves a RUNNING record to a terminal status.
	Update(ctx context.Context, id int64, status entity.RunStatus, itemsFound int, completedAt time.Time, errorMessage *string) error
	// FindLast returns the most recently started run, or ErrNotFound.
	FindLast(ctx context.Context) (*entity.CrawlRun, error)
	// FindRunning returns the most recent RUNNING run, or ErrNotFound.
	FindRunning(ctx context.Context) (*entity.CrawlRun, error)
}
