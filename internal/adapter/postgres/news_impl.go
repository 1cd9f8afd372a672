package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/user/secnews-crawler/internal/entity"
)

// NewsRepoImpl provides a concrete implementation for the NewsRepository interface using PostgreSQL.
type NewsRepoImpl struct {
	db DBTX
}

func NewNewsRepo(db DBTX) *NewsRepoImpl {
	return &NewsRepoImpl{db: db}
}

func (r *NewsRepoImpl) ExistsByURL(ctx context.Context, sourceURL string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM news WHERE source_url = $1)`,
		sourceURL,
	).Scan(&exists)
	return exists, err
}

// Create inserts the item and reports whether a row was written. A
// conflicting source_url is not an error; it reports false.
func (r *NewsRepoImpl) Create(ctx context.Context, companyID string, item *entity.NewsItem) (bool, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CompanyID = companyID

	tag, err := r.db.Exec(ctx, `
		INSERT INTO news (id, company_id, title, content, summary, source_url, source_name, published_at, category, is_personnel)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (source_url) DO NOTHING;
	`,
		item.ID,
		companyID,
		item.Title,
		item.Content,
		item.Summary,
		item.SourceURL,
		item.SourceName,
		item.PublishedAt,
		string(item.Category),
		item.IsPersonnel,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
