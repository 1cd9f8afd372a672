package repository

import (
	"context"

	"github.com/user/secnews-crawler/internal/entity"
)

// NewsSearcher finds candidate news items for a company.
type NewsSearcher interface {
	// SearchCompanyNews returns at most a handful of candidates, newest first.
	SearchCompanyNews(ctx context.Context, companyName string) ([]entity.CandidateItem, error)
	// Endpoint is the search endpoint recorded on the crawl run.
	Endpoint() string
}
