// Package gemini provides the text generation backend on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// ErrMissingAPIKey is returned when no credential is configured.
var ErrMissingAPIKey = errors.New("gemini API key is required")

// Generator implements repository.TextGenerator.
type Generator struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

func NewGenerator(ctx context.Context, apiKey, model string, maxTokens int) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Generator{
		client:    client,
		model:     model,
		maxTokens: int32(maxTokens),
	}, nil
}

func (g *Generator) Generate(ctx context.Context, systemInstruction, userMessage string) (string, error) {
	contents := []*genai.Content{
		{
			Parts: []*genai.Part{{Text: userMessage}},
			Role:  "user",
		},
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}
	if g.maxTokens > 0 {
		cfg.MaxOutputTokens = g.maxTokens
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}
