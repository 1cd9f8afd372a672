package repository

import "context"

// ArticleFetcher extracts the body text of an article page.
type ArticleFetcher interface {
	// FetchArticleContent never fails; an empty string means nothing usable
	// could be extracted.
	FetchArticleContent(ctx context.Context, url string) string
}

// Renderer returns the fully rendered HTML of a page.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}
