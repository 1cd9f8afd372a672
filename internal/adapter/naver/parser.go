package naver

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/secnews-crawler/internal/entity"
	"github.com/user/secnews-crawler/pkg/textutil"
	"github.com/user/secnews-crawler/pkg/utils"
)

const (
	// MaxResults caps both the number of result blocks inspected and the
	// number of candidates returned.
	MaxResults = 5

	fallbackSourceName = "네이버 뉴스"
	minFallbackTitle   = 5
)

// ResultParser turns a search results page into candidates for one company.
type ResultParser interface {
	Name() string
	Parse(html, companyName string) []entity.CandidateItem
}

// PrimaryParser reads the structured result list.
type PrimaryParser struct {
	base *url.URL
}

func NewPrimaryParser(base *url.URL) *PrimaryParser {
	return &PrimaryParser{base: base}
}

var containerSelectors = []string{
	"ul.list_news > li",
	"div.news_area",
	"div.news_wrap",
}

func (p *PrimaryParser) Name() string { return "primary" }

func (p *PrimaryParser) Parse(html, companyName string) []entity.CandidateItem {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var blocks *goquery.Selection
	for _, sel := range containerSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			blocks = found
			break
		}
	}
	if blocks == nil {
		return nil
	}

	items := make([]entity.CandidateItem, 0, MaxResults)
	blocks.Slice(0, min(blocks.Length(), MaxResults)).Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a.news_tit").First()
		title, _ := link.Attr("title")
		if title == "" {
			title = link.Text()
		}
		title = textutil.StripTags(title)

		href, _ := link.Attr("href")
		if p.base != nil && href != "" {
			if abs, err := utils.ToAbsoluteURL(p.base, href); err == nil {
				href = abs
			}
		}
		href = utils.CanonicalURL(href)

		if title == "" || !textutil.IsValidURL(href) || !textutil.TitleMentionsCompany(title, companyName) {
			return
		}

		source := textutil.StripTags(s.Find("a.info.press").First().Text())
		source = strings.TrimSpace(strings.TrimSuffix(source, "언론사 선정"))

		items = append(items, entity.CandidateItem{
			Title:      title,
			SourceURL:  href,
			SourceName: source,
		})
	})

	return items
}

// FallbackParser scans raw HTML for embedded JSON titles and canonical
// article URLs and pairs them by position before filtering, so a dropped
// title never shifts later titles onto another article's URL. The pairing
// is best effort: it assumes the page lists titles and links in the same
// order.
type FallbackParser struct{}

var (
	jsonTitleRe  = regexp.MustCompile(`"title"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	articleURLRe = regexp.MustCompile(`https://n\.news\.naver\.com/mnews/article/\d+/\d+`)

	searchUIWords = []string{"네이버", "NAVER", "Naver", "검색"}
)

func (FallbackParser) Name() string { return "fallback" }

func (FallbackParser) Parse(html, companyName string) []entity.CandidateItem {
	titles := fallbackTitles(html)
	urls := fallbackURLs(html)

	n := min(len(titles), len(urls), MaxResults)
	seen := make(map[string]struct{}, n)
	items := make([]entity.CandidateItem, 0, n)
	for i := 0; i < n; i++ {
		title := titles[i]
		if !keepFallbackTitle(title, companyName) {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		items = append(items, entity.CandidateItem{
			Title:      title,
			SourceURL:  urls[i],
			SourceName: fallbackSourceName,
		})
	}
	return items
}

// fallbackTitles returns every embedded JSON title in page order.
func fallbackTitles(html string) []string {
	matches := jsonTitleRe.FindAllStringSubmatch(html, -1)
	titles := make([]string, 0, len(matches))
	for _, m := range matches {
		var raw string
		if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &raw); err != nil {
			raw = m[1]
		}
		titles = append(titles, textutil.CleanText(raw))
	}
	return titles
}

func keepFallbackTitle(title, companyName string) bool {
	if textutil.Length(title) < minFallbackTitle || mentionsSearchUI(title) {
		return false
	}
	return textutil.TitleMentionsCompany(title, companyName)
}

func fallbackURLs(html string) []string {
	// Links inside inline JSON are often written with escaped slashes.
	html = strings.ReplaceAll(html, `\/`, `/`)

	seen := make(map[string]struct{})
	var urls []string
	for _, u := range articleURLRe.FindAllString(html, -1) {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls
}

func mentionsSearchUI(title string) bool {
	for _, w := range searchUIWords {
		if strings.Contains(title, w) {
			return true
		}
	}
	return false
}
