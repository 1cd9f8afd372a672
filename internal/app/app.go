// Package app wires configuration into a ready crawl manager. Both the API
// server and the CLI start from here.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/secnews-crawler/internal/adapter/article"
	"github.com/user/secnews-crawler/internal/adapter/chromedp_renderer"
	"github.com/user/secnews-crawler/internal/adapter/gemini"
	"github.com/user/secnews-crawler/internal/adapter/naver"
	"github.com/user/secnews-crawler/internal/adapter/postgres"
	redis_adapter "github.com/user/secnews-crawler/internal/adapter/redis"
	"github.com/user/secnews-crawler/internal/adapter/rss"
	"github.com/user/secnews-crawler/internal/repository"
	"github.com/user/secnews-crawler/internal/summarizer"
	"github.com/user/secnews-crawler/internal/usecase"
	"github.com/user/secnews-crawler/pkg/config"
	"github.com/user/secnews-crawler/pkg/fetch"
	"github.com/user/secnews-crawler/pkg/metrics"
	"go.uber.org/zap"
)

// App owns the long-lived connections.
type App struct {
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Manager usecase.CrawlManager

	renderer *chromedp_renderer.ChromedpRenderer
	log      *zap.Logger
}

// New connects to PostgreSQL (and Redis when REDIS_ADDR is set), applies the
// schema and builds the crawl manager. Background runs stop when ctx is
// cancelled.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (*App, error) {
	a := &App{log: log}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	a.Pool = pool
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		a.Close()
		return nil, err
	}
	log.Info("PostgreSQL connection pool established")

	deps := usecase.CrawlerDeps{
		Companies: postgres.NewCompanyRepo(pool),
		News:      postgres.NewNewsRepo(pool),
		Runs:      postgres.NewCrawlRunRepo(pool),
		LockTTL:   cfg.LockTTL(),
		SeenTTL:   cfg.SeenURLTTL(),
		Metrics:   m,
		Logger:    log,
	}

	if cfg.RedisAddr != "" {
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("unable to connect to redis: %w", err)
		}
		deps.Lock = redis_adapter.NewRunLock(a.Redis)
		deps.Seen = redis_adapter.NewSeenURLRepo(a.Redis)
		log.Info("Redis connection established")
	} else {
		log.Warn("REDIS_ADDR not set, running without crawl lock and seen-url cache")
	}

	fetcher, err := fetch.New(fetch.Options{
		Retries:  cfg.FetchRetries,
		Backoff:  cfg.FetchBackoff(),
		Timeout:  cfg.FetchTimeout(),
		ProxyURL: cfg.FetchProxyURL,
	}, log.Named("fetch"), m)
	if err != nil {
		a.Close()
		return nil, err
	}

	deps.Searcher, err = NewSearcher(cfg, fetcher, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	articleOpts := article.Options{Readability: cfg.ReadabilityFallbackEnabled}
	if cfg.RenderFallbackEnabled {
		a.renderer = chromedp_renderer.NewChromedpRenderer(cfg.RenderTimeout(), log.Named("render"))
		articleOpts.Renderer = a.renderer
	}
	deps.Articles = article.NewFetcher(fetcher, articleOpts, log.Named("article"))

	deps.Summarizer = summarizer.New(newGenerator(ctx, cfg, log), log.Named("summarizer"), m)

	opts := usecase.CrawlOptions{
		MaxPerCompany: cfg.CrawlMaxPerCompany,
		CompanyDelay:  cfg.CompanyDelay(),
		Summarize:     cfg.CrawlSummarize,
	}
	a.Manager = usecase.NewCrawlManager(ctx, usecase.NewCrawlerUseCase(deps), deps.Runs, opts, cfg.LockTTL(), log)

	return a, nil
}

// NewSearcher picks the search provider named by SEARCH_PROVIDER.
func NewSearcher(cfg *config.Config, fetcher repository.PageFetcher, log *zap.Logger) (repository.NewsSearcher, error) {
	switch strings.ToLower(cfg.SearchProvider) {
	case "rss":
		return rss.NewSearcher(cfg.RSSSearchURL, fetcher, log.Named("rss")), nil
	case "naver", "":
		return naver.NewSearcher(cfg.SearchBaseURL, fetcher, log.Named("naver"))
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.SearchProvider)
	}
}

// newGenerator returns nil when no API key is configured, which makes the
// summarizer fall back without network calls.
func newGenerator(ctx context.Context, cfg *config.Config, log *zap.Logger) repository.TextGenerator {
	if cfg.GeminiAPIKey == "" {
		log.Info("GEMINI_API_KEY not set, summaries use truncated content")
		return nil
	}
	g, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SummaryMaxTokens)
	if err != nil {
		log.Warn("gemini unavailable, summaries use truncated content", zap.Error(err))
		return nil
	}
	return g
}

// Close releases connections. It is safe to call on a partly built App.
func (a *App) Close() {
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.log.Warn("failed to close redis client", zap.Error(err))
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
