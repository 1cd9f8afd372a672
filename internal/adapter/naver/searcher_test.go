package naver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/secnews-crawler/internal/entity"
	"github.com/user/secnews-crawler/pkg/fetch"
	"go.uber.org/zap"
)

const primaryFixture = `<html><body>
<ul class="list_news">
  <li class="bx"><div class="news_area">
    <a class="info press">연합뉴스언론사 선정</a>
    <a class="news_tit" href="https://www.yna.co.kr/view/AKR1" title="삼성증권, 3분기 실적 발표">삼성증권, 3분기 실적 발표</a>
  </div></li>
  <li class="bx"><div class="news_area">
    <a class="info press">한국경제</a>
    <a class="news_tit" href="https://www.hankyung.com/article/2">코스피 마감 시황</a>
  </div></li>
  <li class="bx"><div class="news_area">
    <a class="info press">매일경제</a>
    <a class="news_tit" href="/relative/3#top" title="삼성 &amp; 파트너스 &quot;신규&quot; 펀드">x</a>
  </div></li>
</ul>
</body></html>`

// fallbackFixture has no result list markup, only inline JSON.
const fallbackFixture = `<html><head><title>삼성증권 : 네이버 뉴스검색</title></head><body>
<script>
var state = {"items":[
 {"title":"삼성증권, 해외주식 <b>서비스</b> 개편"},
 {"title":"코스피 마감 시황 정리"},
 {"title":"삼성증권 배당 확대 공시"},
 {"title":"삼성"}
],"links":[
 "https:\/\/n.news.naver.com\/mnews\/article\/015\/0000000001",
 "https://n.news.naver.com/mnews/article/015/0000000001",
 "https://n.news.naver.com/mnews/article/009/0000000002",
 "https://n.news.naver.com/mnews/article/001/0000000003"
]};
</script></body></html>`

type stubFetcher struct {
	html string
	err  error
	urls []string
}

func (s *stubFetcher) FetchWithRetry(_ context.Context, url string) (string, error) {
	s.urls = append(s.urls, url)
	return s.html, s.err
}

func newSearcher(t *testing.T, f *stubFetcher) *Searcher {
	t.Helper()
	s, err := NewSearcher("https://search.naver.com/search.naver", f, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestSearchURL(t *testing.T) {
	s := newSearcher(t, &stubFetcher{})

	assert.Equal(t,
		"https://search.naver.com/search.naver?query=%EC%82%BC%EC%84%B1%EC%A6%9D%EA%B6%8C&sort=1&where=news",
		s.SearchURL("삼성증권"),
	)
	assert.Equal(t, "https://search.naver.com/search.naver", s.Endpoint())
}

// TestSearchCompanyNews_Primary verifies structured blocks are parsed and
// titles that do not mention the company are dropped.
func TestSearchCompanyNews_Primary(t *testing.T) {
	f := &stubFetcher{html: primaryFixture}

	items, err := newSearcher(t, f).SearchCompanyNews(context.Background(), "삼성증권")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, entity.CandidateItem{
		Title:      "삼성증권, 3분기 실적 발표",
		SourceURL:  "https://www.yna.co.kr/view/AKR1",
		SourceName: "연합뉴스",
	}, items[0])
	assert.Equal(t, `삼성 & 파트너스 "신규" 펀드`, items[1].Title)
	assert.Equal(t, "https://search.naver.com/relative/3", items[1].SourceURL)
	assert.Equal(t, "매일경제", items[1].SourceName)
	require.Len(t, f.urls, 1)
}

// TestSearchCompanyNews_Fallback verifies that a page without result markup
// still yields candidates, and that a title dropped by the filters does not
// shift later titles onto another article's URL.
func TestSearchCompanyNews_Fallback(t *testing.T) {
	items, err := newSearcher(t, &stubFetcher{html: fallbackFixture}).
		SearchCompanyNews(context.Background(), "삼성증권")
	require.NoError(t, err)

	// Three distinct URLs pair with the first three titles; the market
	// wrap-up is dropped after pairing.
	require.Len(t, items, 2)
	assert.Equal(t, "삼성증권, 해외주식 서비스 개편", items[0].Title)
	assert.Equal(t, "https://n.news.naver.com/mnews/article/015/0000000001", items[0].SourceURL)
	assert.Equal(t, "삼성증권 배당 확대 공시", items[1].Title)
	assert.Equal(t, "https://n.news.naver.com/mnews/article/001/0000000003", items[1].SourceURL)
	for _, it := range items {
		assert.Equal(t, "네이버 뉴스", it.SourceName)
	}
}

// TestFallbackParser_PairsBeforeFiltering verifies search UI titles consume
// their URL slot and the pair count is capped.
func TestFallbackParser_PairsBeforeFiltering(t *testing.T) {
	html := `{"title":"네이버 뉴스 검색 결과"}`
	for i := 1; i <= 7; i++ {
		html += `{"title":"키움증권 소식 ` + string(rune('0'+i)) + `"}`
		html += ` https://n.news.naver.com/mnews/article/00` + string(rune('0'+i)) + `/000000000` + string(rune('0'+i))
	}

	items := FallbackParser{}.Parse(html, "키움증권")

	// Five pairs are formed and the first is dropped as search UI text.
	require.Len(t, items, 4)
	assert.Equal(t, "키움증권 소식 1", items[0].Title)
	assert.Equal(t, "https://n.news.naver.com/mnews/article/002/0000000002", items[0].SourceURL)
	assert.Equal(t, "키움증권 소식 4", items[3].Title)
	assert.Equal(t, "https://n.news.naver.com/mnews/article/005/0000000005", items[3].SourceURL)
}

// TestPrimaryParser_DecodesEntitiesOnce verifies escaped markup in a title
// stays as text.
func TestPrimaryParser_DecodesEntitiesOnce(t *testing.T) {
	html := `<ul class="list_news"><li>
<a class="news_tit" href="https://example.com/1" title="&amp;lt;속보&amp;gt; 삼성증권 대표 교체">x</a>
</li></ul>`

	items := NewPrimaryParser(nil).Parse(html, "삼성증권")

	require.Len(t, items, 1)
	assert.Equal(t, "&lt;속보&gt; 삼성증권 대표 교체", items[0].Title)
}

func TestSearchCompanyNews_NothingParsable(t *testing.T) {
	items, err := newSearcher(t, &stubFetcher{html: "<html><body>없음</body></html>"}).
		SearchCompanyNews(context.Background(), "삼성증권")

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSearchCompanyNews_FetchError(t *testing.T) {
	_, err := newSearcher(t, &stubFetcher{err: errors.New("boom")}).
		SearchCompanyNews(context.Background(), "삼성증권")

	assert.ErrorContains(t, err, "boom")
}

// TestSearchCompanyNews_CapsAtFive verifies at most five blocks are read.
func TestSearchCompanyNews_CapsAtFive(t *testing.T) {
	html := `<ul class="list_news">`
	for i := 0; i < 7; i++ {
		html += `<li><a class="news_tit" href="https://example.com/` + string(rune('a'+i)) + `">키움증권 소식</a></li>`
	}
	html += `</ul>`

	items, err := newSearcher(t, &stubFetcher{html: html}).SearchCompanyNews(context.Background(), "키움증권")
	require.NoError(t, err)
	assert.Len(t, items, MaxResults)
}

// TestSearchCompanyNews_OverHTTP runs the searcher against a local server
// through the real fetcher.
func TestSearchCompanyNews_OverHTTP(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(primaryFixture))
	}))
	defer srv.Close()

	f, err := fetch.New(fetch.Options{Retries: 1, Backoff: time.Millisecond}, zap.NewNop(), nil)
	require.NoError(t, err)
	s, err := NewSearcher(srv.URL, f, zap.NewNop())
	require.NoError(t, err)

	items, err := s.SearchCompanyNews(context.Background(), "삼성증권")
	require.NoError(t, err)

	assert.Equal(t, "삼성증권", gotQuery)
	assert.NotEmpty(t, items)
}
