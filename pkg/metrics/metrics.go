package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CrawlRunsTotal      *prometheus.CounterVec
	CrawlRunDuration    prometheus.Histogram
	NewsSavedTotal      prometheus.Counter
	DuplicatesSkipped   prometheus.Counter
	FetchAttemptsTotal  *prometheus.CounterVec
	SummariesTotal      *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		CrawlRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_runs_total",
				Help: "Total number of crawl runs by terminal status.",
			},
			[]string{"status"}, // SUCCESS, FAILED, SKIPPED
		),
		CrawlRunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "crawler_run_duration_seconds",
				Help:    "Duration of crawl runs.",
				Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
			},
		),
		NewsSavedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "crawler_news_saved_total",
				Help: "Total number of news items persisted.",
			},
		),
		DuplicatesSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "crawler_duplicates_skipped_total",
				Help: "Total number of candidates skipped as duplicates.",
			},
		),
		FetchAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_fetch_attempts_total",
				Help: "Total number of outbound fetch attempts.",
			},
			[]string{"outcome"}, // ok, http_error, network_error
		),
		SummariesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_summaries_total",
				Help: "Total number of summaries by how they were produced.",
			},
			[]string{"mode"}, // ai, fallback, ai_error
		),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	m.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
}

func (m *Metrics) ObserveRun(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.CrawlRunsTotal.WithLabelValues(status).Inc()
	m.CrawlRunDuration.Observe(d.Seconds())
}

func (m *Metrics) IncRunSkipped() {
	if m == nil {
		return
	}
	m.CrawlRunsTotal.WithLabelValues("SKIPPED").Inc()
}

func (m *Metrics) IncSaved() {
	if m == nil {
		return
	}
	m.NewsSavedTotal.Inc()
}

func (m *Metrics) IncDuplicate() {
	if m == nil {
		return
	}
	m.DuplicatesSkipped.Inc()
}

func (m *Metrics) IncFetchAttempt(outcome string) {
	if m == nil {
		return
	}
	m.FetchAttemptsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncSummary(mode string) {
	if m == nil {
		return
	}
	m.SummariesTotal.WithLabelValues(mode).Inc()
}
