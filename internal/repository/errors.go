package repository

import "errors"

var (
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateURL is returned when a news item with the same source URL
	// already exists.
	ErrDuplicateURL = errors.New("news with this source url already exists")
	// ErrCrawlInProgress is returned when another crawl run holds the lock.
	ErrCrawlInProgress = errors.New("crawl already in progress")
	// ErrLockNotHeld is returned when releasing a lock owned by someone else.
	ErrLockNotHeld = errors.New("lock not held")
)
