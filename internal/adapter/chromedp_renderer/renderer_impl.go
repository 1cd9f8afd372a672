package chromedp_renderer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/user/secnews-crawler/pkg/fetch"
	"go.uber.org/zap"
)

const userAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36`

// ChromedpRenderer implements repository.Renderer with a shared headless
// Chrome allocator. Each Render call gets its own tab.
type ChromedpRenderer struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	timeout     time.Duration
	log         *zap.Logger
	closeOnce   sync.Once
}

// NewChromedpRenderer prepares the allocator. Chrome itself is started
// lazily on the first Render.
func NewChromedpRenderer(pageLoadTimeout time.Duration, log *zap.Logger) *ChromedpRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpRenderer{
		allocCtx:    allocCtx,
		cancelAlloc: cancel,
		timeout:     pageLoadTimeout,
		log:         log,
	}
}

// Render navigates to url and returns the document HTML after the body is
// ready. Cancelling ctx aborts the render.
func (r *ChromedpRenderer) Render(ctx context.Context, url string) (string, error) {
	if r.allocCtx.Err() != nil {
		return "", fmt.Errorf("renderer closed")
	}

	taskCtx, cancelTask := chromedp.NewContext(r.allocCtx)
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, r.timeout)
	defer cancelTimeout()

	// Tie the tab to the caller's context as well as the render timeout.
	stop := context.AfterFunc(ctx, cancelTask)
	defer stop()

	start := time.Now()
	var html string
	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": fetch.AcceptLanguage}),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}

	r.log.Debug("rendered page",
		zap.String("url", url),
		zap.Duration("elapsed", time.Since(start)),
	)
	return html, nil
}

// Close shuts down the browser process.
func (r *ChromedpRenderer) Close() {
	r.closeOnce.Do(r.cancelAlloc)
}
