// Package article extracts the body text of news article pages.
package article

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/user/secnews-crawler/internal/repository"
	"github.com/user/secnews-crawler/pkg/textutil"
	"go.uber.org/zap"
)

const (
	// MinContentLength is the point below which extraction is assumed to
	// have missed the article body.
	MinContentLength = 50
	// MaxContentLength bounds stored content and summarization input.
	MaxContentLength = 2000
)

// contentSelectors are known article-body containers, most specific first.
var contentSelectors = []string{
	"#dic_area",
	"#articleBodyContents",
	"#articeBody",
	"#newsEndContents",
	"#articleBody",
	".article_body",
	".news_end",
	"article",
}

type Options struct {
	// Readability runs a readability pass when no selector matched enough text.
	Readability bool
	// Renderer, when set, renders the page in a headless browser as a last
	// resort for script-built pages.
	Renderer repository.Renderer
}

// Fetcher implements repository.ArticleFetcher.
type Fetcher struct {
	fetcher repository.PageFetcher
	opts    Options
	log     *zap.Logger
}

func NewFetcher(fetcher repository.PageFetcher, opts Options, log *zap.Logger) *Fetcher {
	return &Fetcher{fetcher: fetcher, opts: opts, log: log}
}

// FetchArticleContent never fails. Fetch and parse errors are logged and
// yield an empty string. The result is at most MaxContentLength characters.
func (f *Fetcher) FetchArticleContent(ctx context.Context, rawURL string) string {
	html, err := f.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		f.log.Warn("failed to fetch article", zap.String("url", rawURL), zap.Error(err))
		return ""
	}

	content := f.extract(html, rawURL)

	if textutil.Length(content) < MinContentLength && f.opts.Renderer != nil {
		rendered, err := f.opts.Renderer.Render(ctx, rawURL)
		if err != nil {
			f.log.Debug("render fallback failed", zap.String("url", rawURL), zap.Error(err))
		} else if better := f.extract(rendered, rawURL); textutil.Length(better) > textutil.Length(content) {
			content = better
		}
	}

	return textutil.TruncateText(content, MaxContentLength)
}

func (f *Fetcher) extract(html, rawURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		f.log.Debug("failed to parse article html", zap.String("url", rawURL), zap.Error(err))
		return ""
	}
	doc.Find("script, style, noscript").Remove()

	content := bySelectors(doc)

	if textutil.Length(content) < MinContentLength && f.opts.Readability {
		if text := readable(html, rawURL); textutil.Length(text) > textutil.Length(content) {
			content = text
		}
	}

	if textutil.Length(content) < MinContentLength {
		if desc, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
			if desc = textutil.CleanText(desc); desc != "" {
				content = desc
			}
		}
	}

	return content
}

func bySelectors(doc *goquery.Document) string {
	for _, sel := range contentSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if text := textutil.CleanText(node.Text()); text != "" {
			return text
		}
	}
	return ""
}

func readable(html, rawURL string) string {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	art, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err != nil {
		return ""
	}
	return textutil.CleanText(art.TextContent)
}
