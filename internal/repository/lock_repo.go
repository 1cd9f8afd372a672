package repository

import (
	"context"
	"time"
)

// RunLock is a mutual-exclusion token shared by every crawler instance.
type RunLock interface {
	// Acquire returns a release token, or ErrCrawlInProgress when held elsewhere.
	Acquire(ctx context.Context, ttl time.Duration) (string, error)
	// Release frees the lock if token still owns it.
	Release(ctx context.Context, token string) error
}
