package generate

import (
	"context"

	"github.com/hyperjump/oshiete/internal/config"
	"github.com/hyperjump/oshiete/internal/llm"
	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/prompt"
)

// CodeGenerator produces complete project scaffolds from a request and
// optional documentation context.
type CodeGenerator struct {
	client llm.Client
	opts   llm.CompletionOptions
}

// NewCodeGenerator creates a code generator using the configured code model.
func NewCodeGenerator(client llm.Client, cfg *config.LLMConfig) *CodeGenerator {
	return &CodeGenerator{
		client: client,
		opts: llm.CompletionOptions{
			Model:       cfg.CodeModel,
			MaxTokens:   cfg.CodeMaxTokens,
			Temperature: cfg.Temperature,
		},
	}
}

// Generate produces code for request. An empty docContext is allowed and
// yields a prompt without a documentation section.
func (g *CodeGenerator) Generate(ctx context.Context, request, docContext string, history []models.ChatMessage) (string, error) {
	messages := buildMessages(history, prompt.BuildCodeInput(request, docContext))
	return g.client.Complete(ctx, prompt.CodeSystemPrompt, messages, g.opts)
}
