package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRun("SUCCESS", time.Second)
		m.IncSaved()
		m.IncDuplicate()
		m.IncFetchAttempt("ok")
		m.IncSummary("fallback")
		m.IncRunSkipped()
		m.ObserveHTTPRequest("GET", "/api/health", 200, time.Millisecond)
	})
}

func TestCountersIncrement(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncSaved()
	m.IncSaved()
	m.IncDuplicate()
	m.ObserveRun("FAILED", 2*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.NewsSavedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DuplicatesSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CrawlRunsTotal.WithLabelValues("FAILED")))
}
