package repository

import (
	"context"
	"time"
)

// SeenURLRepository is a fast, expiring pre-check in front of the news store.
type SeenURLRepository interface {
	// MarkSeen records a URL with a specific expiry time.
	MarkSeen(ctx context.Context, url string, expiry time.Duration) error
	// IsSeen checks if a URL has been recorded recently.
	IsSeen(ctx context.Context, url string) (bool, error)
}
