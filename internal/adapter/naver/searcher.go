// Package naver implements the news search provider backed by the Naver
// news search results page.
package naver

import (
	"context"
	"fmt"
	"net/url"

	"github.com/user/secnews-crawler/internal/entity"
	"github.com/user/secnews-crawler/internal/repository"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://search.naver.com/search.naver"

// Searcher implements repository.NewsSearcher.
type Searcher struct {
	baseURL string
	fetcher repository.PageFetcher
	parsers []ResultParser
	log     *zap.Logger
}

// NewSearcher wires the primary parser ahead of the fallback parser.
func NewSearcher(baseURL string, fetcher repository.PageFetcher, log *zap.Logger) (*Searcher, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid search base url: %w", err)
	}
	return NewSearcherWithParsers(base.String(), fetcher, log, NewPrimaryParser(base), FallbackParser{}), nil
}

// NewSearcherWithParsers tries parsers in order and keeps the first
// non-empty result.
func NewSearcherWithParsers(baseURL string, fetcher repository.PageFetcher, log *zap.Logger, parsers ...ResultParser) *Searcher {
	return &Searcher{
		baseURL: baseURL,
		fetcher: fetcher,
		parsers: parsers,
		log:     log,
	}
}

func (s *Searcher) Endpoint() string {
	return s.baseURL
}

// SearchURL builds a date-sorted news query for companyName.
func (s *Searcher) SearchURL(companyName string) string {
	q := url.Values{}
	q.Set("where", "news")
	q.Set("query", companyName)
	q.Set("sort", "1")
	return s.baseURL + "?" + q.Encode()
}

// SearchCompanyNews returns at most MaxResults candidates. Only a fetch
// failure is reported as an error; an unparseable page yields no candidates.
func (s *Searcher) SearchCompanyNews(ctx context.Context, companyName string) ([]entity.CandidateItem, error) {
	html, err := s.fetcher.FetchWithRetry(ctx, s.SearchURL(companyName))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", companyName, err)
	}

	for _, p := range s.parsers {
		items := p.Parse(html, companyName)
		if len(items) == 0 {
			s.log.Debug("search parser found nothing",
				zap.String("company", companyName),
				zap.String("parser", p.Name()),
			)
			continue
		}
		if len(items) > MaxResults {
			items = items[:MaxResults]
		}
		s.log.Info("search results parsed",
			zap.String("company", companyName),
			zap.String("parser", p.Name()),
			zap.Int("count", len(items)),
		)
		return items, nil
	}

	return []entity.CandidateItem{}, nil
}
