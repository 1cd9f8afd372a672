package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/secnews-crawler/internal/adapter/naver"
	"github.com/user/secnews-crawler/internal/adapter/rss"
	"github.com/user/secnews-crawler/pkg/config"
	"go.uber.org/zap"
)

type nopFetcher struct{}

func (nopFetcher) FetchWithRetry(context.Context, string) (string, error) { return "", nil }

func TestNewSearcher_PicksProvider(t *testing.T) {
	s, err := NewSearcher(&config.Config{SearchProvider: "naver", SearchBaseURL: "https://search.naver.com/search.naver"}, nopFetcher{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &naver.Searcher{}, s)

	s, err = NewSearcher(&config.Config{SearchProvider: "RSS", RSSSearchURL: "https://news.example.com/rss"}, nopFetcher{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &rss.Searcher{}, s)
	assert.Equal(t, "https://news.example.com/rss", s.Endpoint())

	_, err = NewSearcher(&config.Config{SearchProvider: "bing"}, nopFetcher{}, zap.NewNop())
	assert.Error(t, err)
}

// TestNewGenerator_NoKeyIsNil verifies a missing key yields an untyped nil
// so the summarizer sees no backend.
func TestNewGenerator_NoKeyIsNil(t *testing.T) {
	g := newGenerator(context.Background(), &config.Config{}, zap.NewNop())
	assert.Nil(t, g)
}
