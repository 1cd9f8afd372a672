package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/user/secnews-crawler/internal/entity"
	"github.com/user/secnews-crawler/internal/repository"
)

// CrawlRunRepoImpl provides a concrete implementation for the CrawlRunRepository interface using PostgreSQL.
type CrawlRunRepoImpl struct {
	db DBTX
}

func NewCrawlRunRepo(db DBTX) *CrawlRunRepoImpl {
	return &CrawlRunRepoImpl{db: db}
}

func (r *CrawlRunRepoImpl) Create(ctx context.Context, targetURL string, startedAt time.Time) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO crawl_runs (target_url, status, items_found, started_at)
		VALUES ($1, $2, 0, $3)
		RETURNING id;
	`, targetURL, string(entity.RunStatusRunning), startedAt).Scan(&id)
	return id, err
}

// Update only touches RUNNING rows, so a finished run is never rewritten.
func (r *CrawlRunRepoImpl) Update(ctx context.Context, id int64, status entity.RunStatus, itemsFound int, completedAt time.Time, errorMessage *string) error {
	if !status.Terminal() {
		return fmt.Errorf("crawl run %d: %s is not a terminal status", id, status)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE crawl_runs
		SET status = $2, items_found = $3, completed_at = $4, error_message = $5
		WHERE id = $1 AND status = $6;
	`, id, string(status), itemsFound, completedAt, errorMessage, string(entity.RunStatusRunning))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("crawl run %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

const crawlRunColumns = `id, target_url, status, items_found, started_at, completed_at, error_message`

func (r *CrawlRunRepoImpl) FindLast(ctx context.Context) (*entity.CrawlRun, error) {
	return r.findOne(ctx, `
		SELECT `+crawlRunColumns+`
		FROM crawl_runs
		ORDER BY started_at DESC, id DESC
		LIMIT 1;
	`)
}

func (r *CrawlRunRepoImpl) FindRunning(ctx context.Context) (*entity.CrawlRun, error) {
	return r.findOne(ctx, `
		SELECT `+crawlRunColumns+`
		FROM crawl_runs
		WHERE status = $1
		ORDER BY started_at DESC, id DESC
		LIMIT 1;
	`, string(entity.RunStatusRunning))
}

func (r *CrawlRunRepoImpl) findOne(ctx context.Context, query string, args ...any) (*entity.CrawlRun, error) {
	var (
		run    entity.CrawlRun
		status string
	)
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&run.ID,
		&run.TargetURL,
		&status,
		&run.ItemsFound,
		&run.StartedAt,
		&run.CompletedAt,
		&run.ErrorMessage,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	run.Status = entity.RunStatus(status)
	return &run, nil
}
