// Package summarizer produces short Korean summaries of news articles,
// degrading to truncated content when no AI backend is usable.
package summarizer

import (
	"context"
	"fmt"
	"time"

	"github.com/user/secnews-crawler/internal/repository"
	"github.com/user/secnews-crawler/pkg/metrics"
	"github.com/user/secnews-crawler/pkg/textutil"
	"go.uber.org/zap"
)

const (
	// FallbackLength is the size of a summary produced without the AI backend.
	FallbackLength = 200
	// MinContentLength is the shortest content worth sending to the backend.
	MinContentLength = 50

	defaultTimeout = 30 * time.Second
)

const systemInstruction = "당신은 증권업계 뉴스 요약 전문가입니다. " +
	"주어진 기사를 핵심 사실 위주로 2~3문장의 한국어로 요약하세요. " +
	"추측이나 의견은 덧붙이지 마세요."

// Fallback is the summary used whenever AI summarization is skipped or
// fails: the content cut to FallbackLength characters, or the title when
// there is no content.
func Fallback(title, content string) string {
	if content == "" {
		return title
	}
	return textutil.TruncateText(content, FallbackLength)
}

// Summarizer implements repository.Summarizer. A nil generator means no
// credential is configured.
type Summarizer struct {
	generator repository.TextGenerator
	timeout   time.Duration
	log       *zap.Logger
	metrics   *metrics.Metrics
}

func New(generator repository.TextGenerator, log *zap.Logger, m *metrics.Metrics) *Summarizer {
	return &Summarizer{
		generator: generator,
		timeout:   defaultTimeout,
		log:       log,
		metrics:   m,
	}
}

// Summarize never fails. Backend errors and empty responses produce
// Fallback(title, content).
func (s *Summarizer) Summarize(ctx context.Context, title, content string) string {
	if s.generator == nil || textutil.Length(content) < MinContentLength {
		s.metrics.IncSummary("fallback")
		return Fallback(title, content)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	summary, err := s.generator.Generate(ctx, systemInstruction, userMessage(title, content))
	if err != nil || summary == "" {
		s.log.Warn("ai summary failed, using fallback", zap.String("title", title), zap.Error(err))
		s.metrics.IncSummary("ai_error")
		return Fallback(title, content)
	}

	s.metrics.IncSummary("ai")
	return summary
}

func userMessage(title, content string) string {
	return fmt.Sprintf("제목: %s\n\n본문:\n%s", title, content)
}
