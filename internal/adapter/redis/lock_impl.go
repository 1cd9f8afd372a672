package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/user/secnews-crawler/internal/repository"
)

const crawlLockKey = "secnews:crawl:lock"

// releaseScript deletes the lock only if it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RunLockImpl provides a concrete implementation for the RunLock interface using Redis SET NX.
type RunLockImpl struct {
	client redis.UniversalClient
	key    string
}

func NewRunLock(client redis.UniversalClient) *RunLockImpl {
	return &RunLockImpl{client: client, key: crawlLockKey}
}

// Acquire takes the lock for ttl. The ttl bounds how long a crashed holder
// can block later runs.
func (l *RunLockImpl) Acquire(ctx context.Context, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	err := l.client.SetArgs(ctx, l.key, token, redis.SetArgs{Mode: "NX", TTL: ttl}).Err()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrCrawlInProgress
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (l *RunLockImpl) Release(ctx context.Context, token string) error {
	n, err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrLockNotHeld
	}
	return nil
}
