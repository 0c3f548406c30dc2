// Package llm provides the chat-completion client used for answer and code
// generation.
package llm

import "context"

// Message is one chat message sent to the completion API.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionOptions are the fixed per-variant generation parameters. They come
// from configuration, never from the caller of the HTTP API.
type CompletionOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client sends chat completion requests to a generation provider. The same
// client serves both the documentation and code models; handles are long-lived
// and safe for concurrent use.
type Client interface {
	Complete(ctx context.Context, systemPrompt string, messages []Message, opts CompletionOptions) (string, error)
}
