package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/randomtoy/tarot3d/internal/domain"
)

const DefaultModel = "gemini-1.5-flash"

// Client implements ports.Completer with Google Gemini.
type Client struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewClient fails fast on a missing API key.
func NewClient(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, domain.ErrMissingCredential
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: model, logger: logger}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Complete opens a new chat session for every call, so no history is shared
// between readings.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	sessionID := "tarot_reading_" + uuid.NewString()
	c.logger.DebugContext(ctx, "llm request", "model", c.model, "session_id", sessionID)

	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	resp, err := model.StartChat().SendMessage(ctx, genai.Text(userMessage))
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %w", domain.ErrProvider, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrProvider, err)
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}
	return text, nil
}
