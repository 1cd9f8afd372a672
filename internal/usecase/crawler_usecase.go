package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/secnews-crawler/internal/classify"
	"github.com/user/secnews-crawler/internal/entity"
	"github.com/user/secnews-crawler/internal/repository"
	"github.com/user/secnews-crawler/internal/summarizer"
	"github.com/user/secnews-crawler/pkg/metrics"
	"go.uber.org/zap"
)

const (
	DefaultMaxPerCompany = 3
	DefaultCompanyDelay  = 300 * time.Millisecond
	DefaultLockTTL       = 30 * time.Minute
	DefaultSeenTTL       = 48 * time.Hour
)

// CrawlOptions tune a single run.
type CrawlOptions struct {
	MaxPerCompany int
	CompanyDelay  time.Duration
	Summarize     bool
}

// DefaultCrawlOptions returns the options used by scheduled runs.
func DefaultCrawlOptions() CrawlOptions {
	return CrawlOptions{
		MaxPerCompany: DefaultMaxPerCompany,
		CompanyDelay:  DefaultCompanyDelay,
		Summarize:     true,
	}
}

// Crawler defines the interface for the news crawling process.
type Crawler interface {
	// RunCrawler processes every active company once and records the run.
	// Expected failures are reported in the result, never as a panic.
	RunCrawler(ctx context.Context, opts CrawlOptions) entity.CrawlResult
}

// CrawlerDeps are the collaborators of the crawler. Lock and Seen are
// optional.
type CrawlerDeps struct {
	Companies  repository.CompanyRepository
	News       repository.NewsRepository
	Runs       repository.CrawlRunRepository
	Searcher   repository.NewsSearcher
	Articles   repository.ArticleFetcher
	Summarizer repository.Summarizer

	Lock    repository.RunLock
	LockTTL time.Duration
	Seen    repository.SeenURLRepository
	SeenTTL time.Duration

	Metrics *metrics.Metrics
	Logger  *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type crawlerUseCase struct {
	CrawlerDeps
}

func NewCrawlerUseCase(deps CrawlerDeps) Crawler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.LockTTL <= 0 {
		deps.LockTTL = DefaultLockTTL
	}
	if deps.SeenTTL <= 0 {
		deps.SeenTTL = DefaultSeenTTL
	}
	return &crawlerUseCase{CrawlerDeps: deps}
}

func (uc *crawlerUseCase) RunCrawler(ctx context.Context, opts CrawlOptions) entity.CrawlResult {
	if opts.MaxPerCompany <= 0 {
		opts.MaxPerCompany = DefaultMaxPerCompany
	}

	result := entity.CrawlResult{StartedAt: uc.Now()}
	log := uc.Logger

	if uc.Lock != nil {
		token, err := uc.Lock.Acquire(ctx, uc.LockTTL)
		if errors.Is(err, repository.ErrCrawlInProgress) {
			log.Warn("crawl not started", zap.Error(err))
			uc.Metrics.IncRunSkipped()
			return uc.fail(result, err)
		}
		if err != nil {
			return uc.recordFailedRun(ctx, log, result, fmt.Errorf("failed to acquire crawl lock: %w", err))
		}
		defer func() {
			if err := uc.Lock.Release(context.WithoutCancel(ctx), token); err != nil {
				log.Warn("failed to release crawl lock", zap.Error(err))
			}
		}()
	}

	runID, err := uc.Runs.Create(ctx, uc.Searcher.Endpoint(), result.StartedAt)
	if err != nil {
		log.Error("failed to create crawl run", zap.Error(err))
		uc.Metrics.ObserveRun(string(entity.RunStatusFailed), uc.Now().Sub(result.StartedAt))
		return uc.fail(result, fmt.Errorf("failed to create crawl run: %w", err))
	}
	result.RunID = runID
	log = log.With(zap.Int64("run_id", runID))
	log.Info("crawl run started", zap.String("target", uc.Searcher.Endpoint()))

	crawlErr := uc.crawlCompanies(ctx, log, opts, &result)

	status := entity.RunStatusSuccess
	var errMsg *string
	if crawlErr != nil {
		status = entity.RunStatusFailed
		msg := crawlErr.Error()
		errMsg = &msg
	}

	completedAt := uc.Now()
	// Bookkeeping must land even when the run was cancelled.
	if err := uc.Runs.Update(context.WithoutCancel(ctx), runID, status, result.TotalFound, completedAt, errMsg); err != nil {
		log.Error("failed to update crawl run", zap.String("status", string(status)), zap.Error(err))
		if crawlErr == nil {
			crawlErr = fmt.Errorf("failed to finish crawl run: %w", err)
			status = entity.RunStatusFailed
		}
	}
	uc.Metrics.ObserveRun(string(status), completedAt.Sub(result.StartedAt))

	if crawlErr != nil {
		log.Error("crawl run failed",
			zap.Int("found", result.TotalFound),
			zap.Int("saved", result.TotalSaved),
			zap.Error(crawlErr),
		)
		result = uc.fail(result, crawlErr)
		result.CompletedAt = completedAt
		return result
	}

	result.Success = true
	result.CompletedAt = completedAt
	log.Info("crawl run finished",
		zap.Int("found", result.TotalFound),
		zap.Int("saved", result.TotalSaved),
		zap.Int("duplicates", result.SkippedDuplicates),
	)
	return result
}

// recordFailedRun writes a FAILED run for an error raised before the crawl
// could start, so the audit log still shows the attempt.
func (uc *crawlerUseCase) recordFailedRun(ctx context.Context, log *zap.Logger, result entity.CrawlResult, cause error) entity.CrawlResult {
	log.Error("crawl run failed before start", zap.Error(cause))
	bg := context.WithoutCancel(ctx)
	msg := cause.Error()

	runID, err := uc.Runs.Create(bg, uc.Searcher.Endpoint(), result.StartedAt)
	if err != nil {
		log.Error("failed to create crawl run", zap.Error(err))
	} else {
		result.RunID = runID
		if err := uc.Runs.Update(bg, runID, entity.RunStatusFailed, 0, uc.Now(), &msg); err != nil {
			log.Error("failed to update crawl run", zap.Int64("run_id", runID), zap.Error(err))
		}
	}
	uc.Metrics.ObserveRun(string(entity.RunStatusFailed), uc.Now().Sub(result.StartedAt))
	return uc.fail(result, cause)
}

func (uc *crawlerUseCase) fail(result entity.CrawlResult, err error) entity.CrawlResult {
	result.Success = false
	result.Err = err
	result.Error = err.Error()
	result.CompletedAt = uc.Now()
	return result
}

// crawlCompanies returns only orchestration-level errors. A company whose
// search fails contributes nothing and the loop moves on.
func (uc *crawlerUseCase) crawlCompanies(ctx context.Context, log *zap.Logger, opts CrawlOptions, result *entity.CrawlResult) error {
	companies, err := uc.Companies.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active companies: %w", err)
	}
	log.Info("crawling companies", zap.Int("count", len(companies)))

	for i, company := range companies {
		if i > 0 {
			if err := sleep(ctx, opts.CompanyDelay); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		found, err := uc.crawlCompany(ctx, log.With(zap.String("company", company.Name)), opts, company, result)
		if err != nil {
			return fmt.Errorf("company %s: %w", company.Name, err)
		}
		result.TotalFound += found
	}
	return nil
}

func (uc *crawlerUseCase) crawlCompany(ctx context.Context, log *zap.Logger, opts CrawlOptions, company entity.Company, result *entity.CrawlResult) (int, error) {
	candidates, err := uc.Searcher.SearchCompanyNews(ctx, company.Name)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		log.Warn("search failed, skipping company", zap.Error(err))
		return 0, nil
	}

	limit := min(len(candidates), opts.MaxPerCompany)
	for _, candidate := range candidates[:limit] {
		dup, err := uc.isDuplicate(ctx, log, candidate.SourceURL)
		if err != nil {
			return 0, err
		}
		if dup {
			result.SkippedDuplicates++
			uc.Metrics.IncDuplicate()
			continue
		}

		item := uc.buildNewsItem(ctx, opts, candidate)

		// Another run may have stored the URL while this one fetched content.
		exists, err := uc.News.ExistsByURL(ctx, item.SourceURL)
		if err != nil {
			return 0, fmt.Errorf("failed to check duplicate url: %w", err)
		}
		if exists {
			result.SkippedDuplicates++
			uc.Metrics.IncDuplicate()
			continue
		}

		saved, err := uc.News.Create(ctx, company.ID, item)
		switch {
		case err != nil:
			log.Warn("failed to save news", zap.String("url", item.SourceURL), zap.Error(err))
			result.SaveErrors++
		case !saved:
			result.SkippedDuplicates++
			uc.Metrics.IncDuplicate()
		default:
			result.TotalSaved++
			uc.Metrics.IncSaved()
			uc.markSeen(ctx, log, item.SourceURL)
			log.Debug("news saved",
				zap.String("url", item.SourceURL),
				zap.String("category", string(item.Category)),
			)
		}
	}

	return len(candidates), nil
}

// isDuplicate consults the seen cache first and the news store second. Cache
// errors are logged and ignored; store errors are returned.
func (uc *crawlerUseCase) isDuplicate(ctx context.Context, log *zap.Logger, url string) (bool, error) {
	if uc.Seen != nil {
		seen, err := uc.Seen.IsSeen(ctx, url)
		if err != nil {
			log.Warn("seen cache lookup failed", zap.String("url", url), zap.Error(err))
		} else if seen {
			return true, nil
		}
	}

	exists, err := uc.News.ExistsByURL(ctx, url)
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate url: %w", err)
	}
	if exists {
		uc.markSeen(ctx, log, url)
	}
	return exists, nil
}

func (uc *crawlerUseCase) markSeen(ctx context.Context, log *zap.Logger, url string) {
	if uc.Seen == nil {
		return
	}
	if err := uc.Seen.MarkSeen(ctx, url, uc.SeenTTL); err != nil {
		log.Warn("failed to mark url as seen", zap.String("url", url), zap.Error(err))
	}
}

func (uc *crawlerUseCase) buildNewsItem(ctx context.Context, opts CrawlOptions, candidate entity.CandidateItem) *entity.NewsItem {
	content := uc.Articles.FetchArticleContent(ctx, candidate.SourceURL)
	if content == "" {
		content = candidate.Title
	}

	var summary string
	if opts.Summarize && uc.Summarizer != nil {
		summary = uc.Summarizer.Summarize(ctx, candidate.Title, content)
	} else {
		summary = summarizer.Fallback(candidate.Title, content)
	}

	text := candidate.Title + " " + content
	isPersonnel := classify.IsPersonnelNews(text)
	category := classify.ClassifyCategory(text)
	if isPersonnel {
		category = entity.CategoryPersonnel
	}

	return &entity.NewsItem{
		Title:       candidate.Title,
		Content:     content,
		Summary:     summary,
		SourceURL:   candidate.SourceURL,
		SourceName:  candidate.SourceName,
		PublishedAt: uc.Now(),
		Category:    category,
		IsPersonnel: isPersonnel,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
