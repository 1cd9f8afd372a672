package repository

import "context"

// PageFetcher downloads a page, retrying transient failures.
type PageFetcher interface {
	FetchWithRetry(ctx context.Context, url string) (string, error)
}
