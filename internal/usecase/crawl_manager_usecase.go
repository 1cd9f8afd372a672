package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/secnews-crawler/internal/entity"
	"github.com/user/secnews-crawler/internal/repository"
	"go.uber.org/zap"
)

// CrawlManager starts crawls on request and reports their progress.
type CrawlManager interface {
	// Trigger starts a crawl in the background. It returns
	// repository.ErrCrawlInProgress when a run is already going.
	Trigger(ctx context.Context) error
	// RunNow runs a crawl and waits for it.
	RunNow(ctx context.Context) entity.CrawlResult
	GetStatus(ctx context.Context) (*entity.CrawlStatus, error)
	// Wait blocks until background runs started by Trigger return.
	Wait()
}

type crawlManagerUseCase struct {
	crawler Crawler
	runs    repository.CrawlRunRepository
	opts    CrawlOptions
	// RUNNING records older than this are treated as left over by a crashed
	// process.
	staleAfter time.Duration
	baseCtx    context.Context
	log        *zap.Logger

	running atomic.Bool
	wg      sync.WaitGroup
}

// NewCrawlManager creates a CrawlManager. Background runs inherit baseCtx,
// so cancelling it stops them.
func NewCrawlManager(baseCtx context.Context, crawler Crawler, runs repository.CrawlRunRepository, opts CrawlOptions, staleAfter time.Duration, log *zap.Logger) CrawlManager {
	if staleAfter <= 0 {
		staleAfter = DefaultLockTTL
	}
	return &crawlManagerUseCase{
		crawler:    crawler,
		runs:       runs,
		opts:       opts,
		staleAfter: staleAfter,
		baseCtx:    baseCtx,
		log:        log,
	}
}

func (uc *crawlManagerUseCase) Trigger(ctx context.Context) error {
	if !uc.running.CompareAndSwap(false, true) {
		return repository.ErrCrawlInProgress
	}

	active, err := uc.activeRun(ctx)
	if err != nil {
		uc.running.Store(false)
		return err
	}
	if active != nil {
		uc.running.Store(false)
		return fmt.Errorf("run %d started at %s: %w", active.ID, active.StartedAt.Format(time.RFC3339), repository.ErrCrawlInProgress)
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		defer uc.running.Store(false)
		uc.crawler.RunCrawler(uc.baseCtx, uc.opts)
	}()
	return nil
}

func (uc *crawlManagerUseCase) RunNow(ctx context.Context) entity.CrawlResult {
	if !uc.running.CompareAndSwap(false, true) {
		return entity.CrawlResult{
			StartedAt:   time.Now(),
			CompletedAt: time.Now(),
			Error:       repository.ErrCrawlInProgress.Error(),
			Err:         repository.ErrCrawlInProgress,
		}
	}
	defer uc.running.Store(false)
	return uc.crawler.RunCrawler(ctx, uc.opts)
}

// GetStatus reports the last run and any run still marked RUNNING. Running
// is advisory: it reflects the audit log, not a lock.
func (uc *crawlManagerUseCase) GetStatus(ctx context.Context) (*entity.CrawlStatus, error) {
	last, err := uc.runs.FindLast(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load last crawl run: %w", err)
	}

	running, err := uc.activeRun(ctx)
	if err != nil {
		return nil, err
	}

	return &entity.CrawlStatus{
		Running:    running != nil || uc.running.Load(),
		RunningRun: running,
		LastRun:    last,
	}, nil
}

func (uc *crawlManagerUseCase) Wait() {
	uc.wg.Wait()
}

func (uc *crawlManagerUseCase) activeRun(ctx context.Context) (*entity.CrawlRun, error) {
	run, err := uc.runs.FindRunning(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load running crawl run: %w", err)
	}
	if time.Since(run.StartedAt) > uc.staleAfter {
		uc.log.Warn("ignoring stale running crawl run",
			zap.Int64("run_id", run.ID),
			zap.Time("started_at", run.StartedAt),
		)
		return nil, nil
	}
	return run, nil
}
