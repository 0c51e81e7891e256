package ports

import "context"

// Completer sends one system prompt and one user message to a chat model
// and returns the reply text. Every call is an independent, single-turn
// exchange.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}
