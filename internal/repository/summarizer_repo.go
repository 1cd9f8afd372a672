package repository

import "context"

// Summarizer condenses an article. Implementations degrade instead of failing.
type Summarizer interface {
	Summarize(ctx context.Context, title, content string) string
}

// TextGenerator is a chat-completion style AI backend.
type TextGenerator interface {
	Generate(ctx context.Context, systemInstruction, userMessage string) (string, error)
}
