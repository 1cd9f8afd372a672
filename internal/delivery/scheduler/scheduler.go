// Package scheduler triggers crawl runs on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/user/secnews-crawler/internal/repository"
	"github.com/user/secnews-crawler/internal/usecase"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron    *cron.Cron
	manager usecase.CrawlManager
	ctx     context.Context
	log     *zap.Logger
}

// New parses spec (standard five-field cron syntax or descriptors such as
// "@every 1h") and registers the crawl job.
func New(ctx context.Context, spec string, manager usecase.CrawlManager, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		manager: manager,
		ctx:     ctx,
		log:     log,
	}
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid crawl schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.log.Info("crawl scheduled", zap.Time("next_run", e.Next))
	}
}

// Stop stops scheduling and waits for a running job to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runOnce() {
	res := s.manager.RunNow(s.ctx)
	switch {
	case errors.Is(res.Err, repository.ErrCrawlInProgress):
		s.log.Info("scheduled crawl skipped, another run is in progress")
	case !res.Success:
		s.log.Error("scheduled crawl failed", zap.Int64("run_id", res.RunID), zap.String("error", res.Error))
	default:
		s.log.Info("scheduled crawl finished",
			zap.Int64("run_id", res.RunID),
			zap.Int("found", res.TotalFound),
			zap.Int("saved", res.TotalSaved),
			zap.Int("duplicates", res.SkippedDuplicates),
		)
	}
}
