package repository

import (
	"context"

	"github.com/user/secnews-crawler/internal/entity"
)

// CompanyRepository gives read-only access to the tracked companies.
type CompanyRepository interface {
	// ListActive returns the companies that should be crawled.
	ListActive(ctx context.Context) ([]entity.Company, error)
}
