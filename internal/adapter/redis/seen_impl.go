package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/secnews-crawler/pkg/utils"
)

const seenURLPrefix = "secnews:seen:"

// SeenURLRepoImpl provides a concrete implementation for the SeenURLRepository interface using Redis.
type SeenURLRepoImpl struct {
	client redis.UniversalClient
}

func NewSeenURLRepo(client redis.UniversalClient) *SeenURLRepoImpl {
	return &SeenURLRepoImpl{client: client}
}

// generateKey hashes the URL so keys stay short regardless of query strings.
func (r *SeenURLRepoImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", seenURLPrefix, utils.HashURL(url))
}

// MarkSeen sets the key with an expiry; SETEX is atomic.
func (r *SeenURLRepoImpl) MarkSeen(ctx context.Context, url string, expiry time.Duration) error {
	return r.client.SetEx(ctx, r.generateKey(url), "1", expiry).Err()
}

func (r *SeenURLRepoImpl) IsSeen(ctx context.Context, url string) (bool, error) {
	val, err := r.client.Exists(ctx, r.generateKey(url)).Result()
	if err != nil {
		return false, err
	}
	return val == 1, nil
}
