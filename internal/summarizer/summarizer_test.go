package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/user/secnews-crawler/pkg/metrics"
	"github.com/user/secnews-crawler/pkg/textutil"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	reply   string
	err     error
	calls   int
	lastMsg string
}

func (g *fakeGenerator) Generate(_ context.Context, _, userMessage string) (string, error) {
	g.calls++
	g.lastMsg = userMessage
	return g.reply, g.err
}

var longContent = strings.Repeat("한국투자증권이 신규 해외주식 서비스를 선보였다. ", 20)

func TestFallback(t *testing.T) {
	assert.Equal(t, "제목", Fallback("제목", ""))
	assert.Equal(t, "짧은 본문", Fallback("제목", "짧은 본문"))
	assert.Equal(t, FallbackLength, textutil.Length(Fallback("제목", longContent)))
}

// TestSummarize_NoBackend verifies that without a backend every input gets
// the truncation fallback regardless of length.
func TestSummarize_NoBackend(t *testing.T) {
	s := New(nil, zap.NewNop(), nil)

	content40 := strings.Repeat("가", 40)
	assert.Equal(t, content40, s.Summarize(context.Background(), "제목", content40))
	assert.Equal(t, textutil.TruncateText(longContent, 200), s.Summarize(context.Background(), "제목", longContent))
	assert.Equal(t, "제목", s.Summarize(context.Background(), "제목", ""))
}

// TestSummarize_ShortContentSkipsBackend verifies short content never
// reaches the backend.
func TestSummarize_ShortContentSkipsBackend(t *testing.T) {
	g := &fakeGenerator{reply: "요약"}
	s := New(g, zap.NewNop(), nil)

	got := s.Summarize(context.Background(), "제목", "마흔 글자도 안 되는 본문")

	assert.Equal(t, "마흔 글자도 안 되는 본문", got)
	assert.Zero(t, g.calls)
}

func TestSummarize_UsesBackend(t *testing.T) {
	g := &fakeGenerator{reply: "한국투자증권이 해외주식 서비스를 출시했다."}
	m := metrics.New(prometheus.NewRegistry())
	s := New(g, zap.NewNop(), m)

	got := s.Summarize(context.Background(), "신규 서비스", longContent)

	assert.Equal(t, "한국투자증권이 해외주식 서비스를 출시했다.", got)
	assert.Equal(t, 1, g.calls)
	assert.Contains(t, g.lastMsg, "신규 서비스")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SummariesTotal.WithLabelValues("ai")))
}

// TestSummarize_BackendErrorFallsBack verifies errors and empty replies are
// absorbed.
func TestSummarize_BackendErrorFallsBack(t *testing.T) {
	for _, g := range []*fakeGenerator{
		{err: errors.New("quota exceeded")},
		{reply: ""},
	} {
		s := New(g, zap.NewNop(), nil)

		got := s.Summarize(context.Background(), "제목", longContent)

		assert.Equal(t, Fallback("제목", longContent), got)
		assert.Equal(t, 1, g.calls)
	}
}
