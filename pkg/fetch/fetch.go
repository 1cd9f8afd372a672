// Package fetch downloads pages with browser-like headers and bounded retries.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/user/secnews-crawler/pkg/metrics"
	"go.uber.org/zap"
)

const (
	AcceptLanguage = "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	maxBodyBytes = 5 << 20
)

// ErrUnexpectedStatus is returned when the final attempt got a non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

type Options struct {
	Retries    int
	Backoff    time.Duration
	Timeout    time.Duration
	ProxyURL   string
	UserAgents []string
}

type Fetcher struct {
	client  *http.Client
	retries int
	backoff time.Duration
	agents  *agentPool
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(opts Options, log *zap.Logger, m *metrics.Metrics) (*Fetcher, error) {
	if opts.Retries <= 0 {
		opts.Retries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.ProxyURL != "" {
		proxy, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &Fetcher{
		client:  &http.Client{Timeout: opts.Timeout, Transport: transport},
		retries: opts.Retries,
		backoff: opts.Backoff,
		agents:  newAgentPool(opts.UserAgents),
		log:     log,
		metrics: m,
	}, nil
}

// FetchWithRetry GETs rawURL up to the configured number of attempts and
// returns the body of the first 2xx response. Between attempts it waits
// backoff*attempt. Non-2xx responses and transport errors are both retried.
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.retries; attempt++ {
		body, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			f.metrics.IncFetchAttempt("ok")
			return body, nil
		}
		lastErr = err

		if errors.Is(err, ErrUnexpectedStatus) {
			f.metrics.IncFetchAttempt("http_error")
		} else {
			f.metrics.IncFetchAttempt("network_error")
		}
		f.log.Debug("fetch attempt failed",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt == f.retries {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.backoff * time.Duration(attempt)):
		}
	}

	return "", fmt.Errorf("fetch %s failed after %d attempts: %w", rawURL, f.retries, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.agents.next())
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", AcceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}
