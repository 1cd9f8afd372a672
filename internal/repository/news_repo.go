package repository

import (
	"context"

	"github.com/user/secnews-crawler/internal/entity"
)

// NewsRepository defines the interface for storing crawled news.
type NewsRepository interface {
	// ExistsByURL reports whether a news item with the given source URL is stored.
	ExistsByURL(ctx context.Context, sourceURL string) (bool, error)
	// Create stores a news item for the company. It returns false, and no
	// error, when another writer already stored the same source URL.
	Create(ctx context.Context, companyID string, item *entity.NewsItem) (bool, error)
}
