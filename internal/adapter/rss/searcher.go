// Package rss implements news search against an RSS search feed such as
// Google News.
package rss

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/user/secnews-crawler/internal/entity"
	"github.com/user/secnews-crawler/internal/repository"
	"github.com/user/secnews-crawler/pkg/textutil"
	"github.com/user/secnews-crawler/pkg/utils"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://news.google.com/rss/search"
	MaxResults     = 5
)

// Searcher implements repository.NewsSearcher.
type Searcher struct {
	baseURL string
	fetcher repository.PageFetcher
	parser  *gofeed.Parser
	log     *zap.Logger
}

func NewSearcher(baseURL string, fetcher repository.PageFetcher, log *zap.Logger) *Searcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Searcher{
		baseURL: baseURL,
		fetcher: fetcher,
		parser:  gofeed.NewParser(),
		log:     log,
	}
}

func (s *Searcher) Endpoint() string {
	return s.baseURL
}

func (s *Searcher) SearchURL(companyName string) string {
	q := url.Values{}
	q.Set("q", companyName)
	q.Set("hl", "ko")
	q.Set("gl", "KR")
	q.Set("ceid", "KR:ko")
	return s.baseURL + "?" + q.Encode()
}

func (s *Searcher) SearchCompanyNews(ctx context.Context, companyName string) ([]entity.CandidateItem, error) {
	body, err := s.fetcher.FetchWithRetry(ctx, s.SearchURL(companyName))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", companyName, err)
	}

	feed, err := s.parser.ParseString(body)
	if err != nil {
		// A broken feed is treated like an empty result page.
		s.log.Warn("failed to parse search feed", zap.String("company", companyName), zap.Error(err))
		return []entity.CandidateItem{}, nil
	}

	items := make([]entity.CandidateItem, 0, MaxResults)
	for _, it := range feed.Items {
		if len(items) == MaxResults {
			break
		}
		title, source := splitPublisher(textutil.CleanText(it.Title))
		link := utils.CanonicalURL(it.Link)
		if title == "" || !textutil.IsValidURL(link) || !textutil.TitleMentionsCompany(title, companyName) {
			continue
		}
		if source == "" {
			source = feed.Title
		}
		items = append(items, entity.CandidateItem{
			Title:      title,
			SourceURL:  link,
			SourceName: source,
		})
	}
	return items, nil
}

// splitPublisher separates the "Headline - Publisher" form used by news
// aggregator feeds.
func splitPublisher(title string) (string, string) {
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}
