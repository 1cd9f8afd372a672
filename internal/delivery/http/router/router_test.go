package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/secnews-crawler/internal/delivery/http/handler"
	"github.com/user/secnews-crawler/internal/delivery/http/response"
	"github.com/user/secnews-crawler/internal/entity"
	"github.com/user/secnews-crawler/internal/repository"
	"github.com/user/secnews-crawler/pkg/metrics"
	"go.uber.org/zap"
)

type fakeManager struct {
	triggerErr error
	status     *entity.CrawlStatus
	statusErr  error
	triggered  int
}

func (f *fakeManager) Trigger(context.Context) error {
	f.triggered++
	return f.triggerErr
}

func (f *fakeManager) RunNow(context.Context) entity.CrawlResult { return entity.CrawlResult{} }

func (f *fakeManager) GetStatus(context.Context) (*entity.CrawlStatus, error) {
	return f.status, f.statusErr
}

func (f *fakeManager) Wait() {}

func newServer(t *testing.T, mgr *fakeManager, deps map[string]handler.Pinger) (http.Handler, *metrics.Metrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	h := handler.NewHandler(mgr, deps, zap.NewNop())
	return New(h, m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), zap.NewNop()), m
}

func do(t *testing.T, srv http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestTriggerCrawl_Accepted(t *testing.T) {
	mgr := &fakeManager{}
	srv, m := newServer(t, mgr, nil)

	rec := do(t, srv, http.MethodPost, "/api/crawl")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, mgr.triggered)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/crawl", "202")))
}

func TestTriggerCrawl_Conflict(t *testing.T) {
	srv, _ := newServer(t, &fakeManager{triggerErr: repository.ErrCrawlInProgress}, nil)

	rec := do(t, srv, http.MethodPost, "/api/crawl")

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, repository.ErrCrawlInProgress.Error(), body.Error)
}

func TestTriggerCrawl_InternalError(t *testing.T) {
	srv, _ := newServer(t, &fakeManager{triggerErr: errors.New("db down")}, nil)

	rec := do(t, srv, http.MethodPost, "/api/crawl")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestGetCrawlStatus(t *testing.T) {
	started := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	completed := started.Add(time.Minute)
	msg := "company B증권: connection refused"
	mgr := &fakeManager{status: &entity.CrawlStatus{
		Running: false,
		LastRun: &entity.CrawlRun{
			ID:           3,
			TargetURL:    "https://search.naver.com/search.naver",
			Status:       entity.RunStatusFailed,
			ItemsFound:   2,
			StartedAt:    started,
			CompletedAt:  &completed,
			ErrorMessage: &msg,
		},
	}}
	srv, _ := newServer(t, mgr, nil)

	rec := do(t, srv, http.MethodGet, "/api/crawl/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body response.CrawlStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Running)
	assert.Nil(t, body.RunningRun)
	require.NotNil(t, body.LastRun)
	assert.Equal(t, "FAILED", body.LastRun.Status)
	assert.Equal(t, 2, body.LastRun.ItemsFound)
	assert.Equal(t, msg, body.LastRun.ErrorMessage)
}

func TestGetCrawlStatus_Error(t *testing.T) {
	srv, _ := newServer(t, &fakeManager{statusErr: errors.New("boom")}, nil)

	rec := do(t, srv, http.MethodGet, "/api/crawl/status")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	healthy := handler.PingFunc(func(context.Context) error { return nil })
	broken := handler.PingFunc(func(context.Context) error { return errors.New("refused") })

	srv, _ := newServer(t, &fakeManager{}, map[string]handler.Pinger{"postgres": healthy})
	rec := do(t, srv, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"postgres":"healthy"`)

	srv, _ = newServer(t, &fakeManager{}, map[string]handler.Pinger{"postgres": healthy, "redis": broken})
	rec = do(t, srv, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"unhealthy"`)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, m := newServer(t, &fakeManager{}, nil)
	m.IncSaved()

	rec := do(t, srv, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "crawler_news_saved_total 1")
}
