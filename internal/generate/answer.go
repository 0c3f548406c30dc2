// Package generate builds message sequences and invokes the generation
// provider for documentation answers and code.
package generate

import (
	"context"

	"github.com/hyperjump/oshiete/internal/config"
	"github.com/hyperjump/oshiete/internal/llm"
	"github.com/hyperjump/oshiete/internal/models"
	"github.com/hyperjump/oshiete/internal/prompt"
)

// AnswerGenerator produces documentation answers grounded in retrieved context.
type AnswerGenerator struct {
	client llm.Client
	opts   llm.CompletionOptions
}

// NewAnswerGenerator creates an answer generator using the configured
// documentation model.
func NewAnswerGenerator(client llm.Client, cfg *config.LLMConfig) *AnswerGenerator {
	return &AnswerGenerator{
		client: client,
		opts: llm.CompletionOptions{
			Model:       cfg.AnswerModel,
			MaxTokens:   cfg.AnswerMaxTokens,
			Temperature: cfg.Temperature,
		},
	}
}

// Generate answers question from docContext, carrying the trimmed history.
func (g *AnswerGenerator) Generate(ctx context.Context, question, docContext string, history []models.ChatMessage) (string, error) {
	messages := buildMessages(history, prompt.BuildAnswerInput(question, docContext))
	return g.client.Complete(ctx, prompt.AnswerSystemPrompt, messages, g.opts)
}

// buildMessages converts the trimmed history to provider messages and appends
// the final user message.
func buildMessages(history []models.ChatMessage, userInput string) []llm.Message {
	trimmed := prompt.TrimHistory(history)
	messages := make([]llm.Message, 0, len(trimmed)+1)
	for _, msg := range trimmed {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return append(messages, llm.Message{Role: models.RoleUser, Content: userInput})
}
